package variogram

import (
	"gonum.org/v1/gonum/spatial/kdtree"
)

// indexedPoint is a sample location tagged with its position in the sample
// set, so neighbor queries can report back into value space.
type indexedPoint struct {
	loc Location
	i   int
}

// Compare implements kdtree.Comparable.
func (p indexedPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(indexedPoint)
	return p.loc[d] - q.loc[d]
}

func (p indexedPoint) Dims() int { return len(p.loc) }

// Distance returns the squared Euclidean distance between two points.
func (p indexedPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(indexedPoint)
	sum := 0.0
	for i := range p.loc {
		sum += pow2(p.loc[i] - q.loc[i])
	}
	return sum
}

// indexedPoints satisfies kdtree.Interface.
type indexedPoints []indexedPoint

func (p indexedPoints) Index(i int) kdtree.Comparable         { return p[i] }
func (p indexedPoints) Len() int                              { return len(p) }
func (p indexedPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

func (p indexedPoints) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(pointPlane{indexedPoints: p, Dim: d}, kdtree.MedianOfRandoms(pointPlane{indexedPoints: p, Dim: d}, 100))
}

// pointPlane implements sort.Interface and kdtree.SortSlicer along one axis.
type pointPlane struct {
	indexedPoints
	kdtree.Dim
}

func (p pointPlane) Less(i, j int) bool {
	return p.indexedPoints[i].loc[p.Dim] < p.indexedPoints[j].loc[p.Dim]
}

func (p pointPlane) Slice(start, end int) kdtree.SortSlicer {
	return pointPlane{indexedPoints: p.indexedPoints[start:end], Dim: p.Dim}
}

func (p pointPlane) Swap(i, j int) {
	p.indexedPoints[i], p.indexedPoints[j] = p.indexedPoints[j], p.indexedPoints[i]
}

// buildIndex builds a kd-tree over the sample locations.
func buildIndex(samples SampleSet) *kdtree.Tree {
	pts := make(indexedPoints, len(samples))
	for i, s := range samples {
		pts[i] = indexedPoint{loc: s.Loc, i: i}
	}
	return kdtree.New(pts, true)
}

// neighborsWithin collects the indices of samples within radius r of point
// p, excluding p itself. Distances inside the tree are squared.
func neighborsWithin(tree *kdtree.Tree, p indexedPoint, r float64) []int {
	keeper := kdtree.NewDistKeeper(r * r)
	tree.NearestSet(keeper, p)

	out := make([]int, 0, keeper.Len())
	for _, item := range keeper.Heap {
		if item.Comparable == nil {
			continue
		}
		q := item.Comparable.(indexedPoint)
		if q.i == p.i {
			continue
		}
		out = append(out, q.i)
	}
	return out
}
