package variogram

import (
	"fmt"
)

// Model is a theoretical variogram: a pure function of lag parametrized by
// range, sill and nugget. Stateless and safe for concurrent evaluation.
type Model struct {
	Shape  ModelType `json:"shape"`
	Range  float64   `json:"range"`
	Sill   float64   `json:"sill"`
	Nugget float64   `json:"nugget"`
}

// NewModel validates the parameter box: range > 0, sill >= 0, nugget >= 0.
// Nugget <= sill is conventional but not enforced.
func NewModel(shape ModelType, rng, sill, nugget float64) (*Model, error) {
	switch shape {
	case Gaussian, Spherical, Exponential:
	default:
		return nil, fmt.Errorf("shape %q: %w", shape, ErrInvalidParameter)
	}
	if rng <= 0 || sill < 0 || nugget < 0 {
		return nil, fmt.Errorf("range %v sill %v nugget %v: %w", rng, sill, nugget, ErrInvalidParameter)
	}
	return &Model{Shape: shape, Range: rng, Sill: sill, Nugget: nugget}, nil
}

// Evaluate returns gamma(h). All shapes give the nugget at h=0+ and reach
// the sill as h grows: exactly beyond the range for Spherical,
// asymptotically for Gaussian and Exponential.
func (m *Model) Evaluate(h float64) float64 {
	g, s, r := m.Nugget, m.Sill, m.Range
	switch m.Shape {
	case Gaussian:
		return g + (s-g)*(1-exp(-3*pow2(h)/pow2(r)))
	case Spherical:
		if h > r {
			return s
		}
		x := h / r
		return g + (s-g)*(1.5*x-0.5*pow3(x))
	default: // Exponential
		return g + (s-g)*(1-exp(-3*h/r))
	}
}

// Covariance is sill - gamma(h), the form a kriging system consumes.
func (m *Model) Covariance(h float64) float64 {
	return m.Sill - m.Evaluate(h)
}

// At evaluates the model between two locations under a distance metric;
// nil means Euclidean.
func (m *Model) At(a, b Location, metric DistanceMetric) float64 {
	if metric == nil {
		metric = Euclidean
	}
	return m.Evaluate(metric(a, b))
}

// AtSupports evaluates the model between two extended geometries given as
// point-sampled supports: the mean variogram value over the product of the
// two supports. This is the quadrature extension point for geometry-to-
// geometry evaluation; with single-point supports it reduces to At. Empty
// supports yield 0.
func (m *Model) AtSupports(a, b []Location, metric DistanceMetric) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if metric == nil {
		metric = Euclidean
	}
	sum := 0.0
	for _, pa := range a {
		for _, pb := range b {
			sum += m.Evaluate(metric(pa, pb))
		}
	}
	return sum / float64(len(a)*len(b))
}
