package variogram

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewModel(t *testing.T) {
	a := assert.New(t)

	m, err := NewModel(Spherical, 10, 4, 0.5)
	a.NoError(err)
	a.Equal(10.0, m.Range)
	a.Equal(4.0, m.Sill)
	a.Equal(0.5, m.Nugget)

	_, err = NewModel("cubic", 10, 4, 0)
	a.True(errors.Is(err, ErrInvalidParameter))
	_, err = NewModel(Gaussian, 0, 4, 0)
	a.True(errors.Is(err, ErrInvalidParameter))
	_, err = NewModel(Gaussian, 10, -1, 0)
	a.True(errors.Is(err, ErrInvalidParameter))
	_, err = NewModel(Gaussian, 10, 4, -0.1)
	a.True(errors.Is(err, ErrInvalidParameter))
}

func TestModelNuggetAtOrigin(t *testing.T) {
	a := assert.New(t)

	for _, shape := range []ModelType{Gaussian, Spherical, Exponential} {
		m, err := NewModel(shape, 10, 4, 0.5)
		a.NoError(err)
		a.Equal(0.5, m.Evaluate(0), "shape %s", shape)
	}
}

func TestModelReachesSill(t *testing.T) {
	a := assert.New(t)

	for _, shape := range []ModelType{Gaussian, Exponential} {
		m, _ := NewModel(shape, 10, 4, 0.5)
		a.InDelta(4.0, m.Evaluate(1000*m.Range), 1e-6, "shape %s", shape)
	}

	sph, _ := NewModel(Spherical, 10, 4, 0.5)
	a.Equal(4.0, sph.Evaluate(10)) // exactly the sill at the range
	a.Equal(4.0, sph.Evaluate(20)) // and beyond
}

func TestModelShapes(t *testing.T) {
	a := assert.New(t)

	// Hand-evaluated closed forms at h = r/2.
	g, _ := NewModel(Gaussian, 10, 4, 0.5)
	a.InDelta(0.5+3.5*(1-math.Exp(-0.75)), g.Evaluate(5), 1e-12)

	e, _ := NewModel(Exponential, 10, 4, 0.5)
	a.InDelta(0.5+3.5*(1-math.Exp(-1.5)), e.Evaluate(5), 1e-12)

	s, _ := NewModel(Spherical, 10, 4, 0.5)
	a.InDelta(0.5+3.5*(1.5*0.5-0.5*0.125), s.Evaluate(5), 1e-12)
}

func TestModelCovariance(t *testing.T) {
	a := assert.New(t)

	m, _ := NewModel(Exponential, 10, 4, 0.5)
	a.InDelta(3.5, m.Covariance(0), 1e-12)
	a.InDelta(0, m.Covariance(1000*m.Range), 1e-6)
}

func TestModelAtLocations(t *testing.T) {
	a := assert.New(t)

	m, _ := NewModel(Spherical, 10, 4, 0)
	p, q := Location{0, 0}, Location{3, 4}
	a.Equal(m.Evaluate(5), m.At(p, q, nil))

	manhattan := func(x, y Location) float64 {
		return math.Abs(x[0]-y[0]) + math.Abs(x[1]-y[1])
	}
	a.Equal(m.Evaluate(7), m.At(p, q, manhattan))
}

func TestModelAtSupports(t *testing.T) {
	a := assert.New(t)

	m, _ := NewModel(Exponential, 10, 4, 0.5)
	p, q := Location{0, 0}, Location{3, 4}

	// Single-point supports reduce to plain evaluation.
	a.Equal(m.At(p, q, nil), m.AtSupports([]Location{p}, []Location{q}, nil))

	// Mean over the support product.
	r := Location{0, 5}
	want := (m.Evaluate(Euclidean(p, q)) + m.Evaluate(Euclidean(p, r))) / 2
	a.InDelta(want, m.AtSupports([]Location{p}, []Location{q, r}, nil), 1e-12)

	// Empty supports must not crash.
	a.Equal(0.0, m.AtSupports(nil, []Location{q}, nil))
}

func TestModelConcurrentEvaluation(t *testing.T) {
	a := assert.New(t)

	m, _ := NewModel(Gaussian, 10, 4, 0.5)
	done := make(chan float64, 8)
	for i := 0; i < 8; i++ {
		go func() { done <- m.Evaluate(5) }()
	}
	want := m.Evaluate(5)
	for i := 0; i < 8; i++ {
		a.Equal(want, <-done)
	}
}
