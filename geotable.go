package variogram

import (
	"fmt"

	"github.com/flywave/go-geom"
	"github.com/flywave/go-geom/general"

	vec3d "github.com/flywave/go3d/float64/vec3"
)

// FromVec3 builds a SampleSet from the flywave point convention: x and y
// are the location, z carries the sample value.
func FromVec3(pos []vec3d.T) SampleSet {
	out := make(SampleSet, len(pos))
	for i, p := range pos {
		out[i] = Sample{Loc: Location{p[0], p[1]}, Value: p[2]}
	}
	return out
}

// FromFeatureCollection flattens every geometry of a feature collection to
// its coordinate points and builds a SampleSet from them, taking the third
// coordinate as the sample value. Points without a third coordinate are
// skipped. Coordinates are used as-is; reprojection is the caller's
// concern.
func FromFeatureCollection(fc *geom.FeatureCollection) (SampleSet, error) {
	if fc == nil {
		return nil, fmt.Errorf("nil feature collection: %w", ErrInvalidParameter)
	}
	var out SampleSet
	add := func(data []float64) {
		if len(data) < 3 {
			return
		}
		out = append(out, Sample{Loc: Location{data[0], data[1]}, Value: data[2]})
	}
	for _, fea := range fc.Features {
		switch g := fea.Geometry.(type) {
		case *general.Point:
			add(g.Data())
		case *general.MultiPoint:
			for _, pos := range g.Points() {
				add(pos.Data())
			}
		case *general.LineString:
			for _, pos := range g.Subpoints() {
				add(pos.Data())
			}
		case *general.MultiLine:
			for _, li := range g.Lines() {
				for _, pos := range li.Subpoints() {
					add(pos.Data())
				}
			}
		case *general.Polygon:
			for _, sli := range g.Sublines() {
				for _, pos := range sli.Subpoints() {
					add(pos.Data())
				}
			}
		case *general.MultiPolygon:
			for _, poly := range g.Polygons() {
				for _, sli := range poly.Sublines() {
					for _, pos := range sli.Subpoints() {
						add(pos.Data())
					}
				}
			}
		}
	}
	return out, nil
}
