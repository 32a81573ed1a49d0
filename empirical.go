package variogram

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// Options is the configuration surface of the empirical estimator.
type Options struct {
	// MaxLag truncates binning; zero means half the bounding-box diagonal
	// of the sample locations.
	MaxLag float64

	// NumBins defaults to DefaultNumBins.
	NumBins int

	// Estimator defaults to Matheron.
	Estimator EstimatorType

	// Direction, when non-nil, restricts pairs to those within
	// ToleranceDeg of the given axis. A zero tolerance keeps only exactly
	// aligned pairs.
	Direction    Location
	ToleranceDeg float64

	// Workers bounds the data-parallel pair sweep; zero picks a worker
	// per CPU for large sample sets and a single pass otherwise.
	Workers int

	// SpatialIndex enables a kd-tree fixed-radius search so pairs beyond
	// MaxLag are never visited. Output is identical either way.
	SpatialIndex bool
}

// pairStat accumulates the per-bin sufficient statistics of both
// estimators. Sums are associative, so worker-private stats merge in any
// order.
type pairStat struct {
	n       int
	sumSq   float64
	sumRoot float64
}

func (s *pairStat) add(d float64) {
	s.n++
	s.sumSq += d * d
	s.sumRoot += math.Sqrt(math.Abs(d))
}

func (s *pairStat) merge(o pairStat) {
	s.n += o.n
	s.sumSq += o.sumSq
	s.sumRoot += o.sumRoot
}

func (e EstimatorType) estimate(s pairStat) float64 {
	n := float64(s.n)
	switch e {
	case Cressie:
		m := s.sumRoot / n
		return pow2(pow2(m)) / (2 * (0.457 + 0.494/n))
	default: // Matheron
		return s.sumSq / (2 * n)
	}
}

func (e EstimatorType) valid() bool {
	return e == Matheron || e == Cressie
}

// defaultMaxLag is half the bounding-box diagonal of the locations.
func defaultMaxLag(samples SampleSet) float64 {
	min, max := samples.Bounds()
	return Euclidean(min, max) / 2
}

// Estimate computes the empirical variogram of a sample set. Bins that
// receive no pairs are dropped; a configuration that qualifies no pair at
// all yields an empty, non-error result.
func Estimate(samples SampleSet, opts Options) (*Empirical, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("empty sample set: %w", ErrInvalidParameter)
	}
	if samples.Dims() == 0 {
		return nil, fmt.Errorf("mismatched sample dimensions: %w", ErrInvalidParameter)
	}

	est := opts.Estimator
	if est == "" {
		est = Matheron
	}
	if !est.valid() {
		return nil, fmt.Errorf("estimator %q: %w", est, ErrInvalidParameter)
	}

	maxlag := opts.MaxLag
	if maxlag == 0 {
		maxlag = defaultMaxLag(samples)
	}
	numbins := opts.NumBins
	if numbins == 0 {
		numbins = DefaultNumBins
	}
	bins, err := NewBinning(maxlag, numbins)
	if err != nil {
		return nil, err
	}

	var dir *Direction
	if opts.Direction != nil {
		dir, err = NewDirection(opts.Direction, opts.ToleranceDeg)
		if err != nil {
			return nil, err
		}
	}

	stats := accumulate(samples, bins, dir, workers(opts, len(samples)), opts.SpatialIndex)

	out := &Empirical{Estimator: est}
	for i, s := range stats {
		if s.n == 0 {
			continue
		}
		out.Points = append(out.Points, EmpiricalPoint{
			Lag:   bins.Bin(i).Center(),
			Gamma: est.estimate(s),
			Count: s.n,
		})
	}
	return out, nil
}

const parallelThreshold = 256

func workers(opts Options, n int) int {
	if opts.Workers > 0 {
		return opts.Workers
	}
	if n >= parallelThreshold {
		return runtime.NumCPU()
	}
	return 1
}

// accumulate streams all unordered sample pairs into per-bin statistics.
// Each worker owns a private accumulator slice; merging happens once per
// worker at the end.
func accumulate(samples SampleSet, bins *Binning, dir *Direction, nworkers int, useIndex bool) []pairStat {
	if nworkers <= 1 {
		stats := make([]pairStat, bins.NumBins())
		if useIndex {
			tree := buildIndex(samples)
			for i := range samples {
				sweepIndexed(samples, bins, dir, tree, i, stats)
			}
		} else {
			for i := range samples {
				sweep(samples, bins, dir, i, stats)
			}
		}
		return stats
	}

	var tree *kdtree.Tree
	if useIndex {
		tree = buildIndex(samples)
	}

	parts := make([][]pairStat, nworkers)
	var wg sync.WaitGroup
	for w := 0; w < nworkers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			stats := make([]pairStat, bins.NumBins())
			for i := w; i < len(samples); i += nworkers {
				if tree != nil {
					sweepIndexed(samples, bins, dir, tree, i, stats)
				} else {
					sweep(samples, bins, dir, i, stats)
				}
			}
			parts[w] = stats
		}(w)
	}
	wg.Wait()

	stats := parts[0]
	for _, part := range parts[1:] {
		for i := range stats {
			stats[i].merge(part[i])
		}
	}
	return stats
}

// sweep visits the pairs (i, j) for all j > i.
func sweep(samples SampleSet, bins *Binning, dir *Direction, i int, stats []pairStat) {
	si := samples[i]
	for j := i + 1; j < len(samples); j++ {
		sj := samples[j]
		sep := sub(si.Loc, sj.Loc)
		if dir != nil && !dir.Accepts(sep) {
			continue
		}
		idx := bins.Index(norm(sep))
		if idx < 0 {
			continue
		}
		stats[idx].add(si.Value - sj.Value)
	}
}

// sweepIndexed is sweep restricted to the kd-tree neighborhood of sample i.
// Only neighbors with a higher index count, so each unordered pair is
// visited exactly once.
func sweepIndexed(samples SampleSet, bins *Binning, dir *Direction, tree *kdtree.Tree, i int, stats []pairStat) {
	si := samples[i]
	for _, j := range neighborsWithin(tree, indexedPoint{loc: si.Loc, i: i}, bins.MaxLag()) {
		if j <= i {
			continue
		}
		sj := samples[j]
		sep := sub(si.Loc, sj.Loc)
		if dir != nil && !dir.Accepts(sep) {
			continue
		}
		idx := bins.Index(norm(sep))
		if idx < 0 {
			continue
		}
		stats[idx].add(si.Value - sj.Value)
	}
}
