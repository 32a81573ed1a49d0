package variogram

import (
	"fmt"
	"math"
)

// SurfaceResult is a variogram surface: the estimator run independently per
// angular sector over a shared lag binning. The grid keeps its full shape;
// cells that received no pairs hold NaN and a zero count.
type SurfaceResult struct {
	Lags      []float64     `json:"lags"`
	Angles    []float64     `json:"angles"`
	Gamma     [][]float64   `json:"gamma"` // [sector][bin]
	Counts    [][]int       `json:"counts"`
	Estimator EstimatorType `json:"estimator"`
}

// Surface sweeps all directions at once, assigning every unordered pair to
// a (lag, angle) cell. Directions use the first two coordinates and are
// sign-symmetric, so sectors cover [0, 180) degrees.
func Surface(samples SampleSet, maxlag float64, numbins, numsectors int, est EstimatorType) (*SurfaceResult, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("empty sample set: %w", ErrInvalidParameter)
	}
	if samples.Dims() == 0 {
		return nil, fmt.Errorf("mismatched sample dimensions: %w", ErrInvalidParameter)
	}
	if est == "" {
		est = Matheron
	}
	if !est.valid() {
		return nil, fmt.Errorf("estimator %q: %w", est, ErrInvalidParameter)
	}
	if maxlag == 0 {
		maxlag = defaultMaxLag(samples)
	}
	grid, err := NewSurfaceGrid(maxlag, numbins, numsectors)
	if err != nil {
		return nil, err
	}

	stats := make([][]pairStat, numsectors)
	for s := range stats {
		stats[s] = make([]pairStat, numbins)
	}
	for i := range samples {
		si := samples[i]
		for j := i + 1; j < len(samples); j++ {
			sj := samples[j]
			sep := sub(si.Loc, sj.Loc)
			bin, sector := grid.Cell(sep, norm(sep))
			if bin < 0 {
				continue
			}
			stats[sector][bin].add(si.Value - sj.Value)
		}
	}

	out := &SurfaceResult{Estimator: est}
	out.Lags = make([]float64, numbins)
	for b := 0; b < numbins; b++ {
		out.Lags[b] = grid.Binning.Bin(b).Center()
	}
	out.Angles = make([]float64, numsectors)
	out.Gamma = make([][]float64, numsectors)
	out.Counts = make([][]int, numsectors)
	for s := 0; s < numsectors; s++ {
		out.Angles[s] = grid.SectorCenter(s)
		out.Gamma[s] = make([]float64, numbins)
		out.Counts[s] = make([]int, numbins)
		for b := 0; b < numbins; b++ {
			st := stats[s][b]
			out.Counts[s][b] = st.n
			if st.n == 0 {
				out.Gamma[s][b] = math.NaN()
				continue
			}
			out.Gamma[s][b] = est.estimate(st)
		}
	}
	return out, nil
}
