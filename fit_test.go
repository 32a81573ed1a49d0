package variogram

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// syntheticEmpirical evaluates a known model at the centers of numbins
// bins over (0, maxlag], i.e. a noise-free empirical variogram.
func syntheticEmpirical(m *Model, maxlag float64, numbins, count int) *Empirical {
	w := maxlag / float64(numbins)
	emp := &Empirical{Estimator: Matheron}
	for i := 0; i < numbins; i++ {
		h := (float64(i) + 0.5) * w
		emp.Points = append(emp.Points, EmpiricalPoint{Lag: h, Gamma: m.Evaluate(h), Count: count})
	}
	return emp
}

func TestFitRecoversKnownParameters(t *testing.T) {
	for _, shape := range []ModelType{Gaussian, Spherical, Exponential} {
		t.Run(string(shape), func(t *testing.T) {
			a := assert.New(t)

			truth, err := NewModel(shape, 10, 4, 0.5)
			a.NoError(err)
			emp := syntheticEmpirical(truth, 20, 16, 50)

			res, err := Fit(emp, FitOptions{Shape: shape})
			a.NoError(err)
			a.True(res.Converged)
			a.InEpsilon(10.0, res.Model.Range, 0.01)
			a.InEpsilon(4.0, res.Model.Sill, 0.01)
			a.InEpsilon(0.5, res.Model.Nugget, 0.01)
			a.Less(res.Residual, 1e-6)
		})
	}
}

func TestFitAnySelectsGeneratingShape(t *testing.T) {
	a := assert.New(t)

	truth, _ := NewModel(Spherical, 10, 4, 0.5)
	emp := syntheticEmpirical(truth, 20, 16, 50)

	best, err := Fit(emp, FitOptions{Shape: ShapeAny})
	a.NoError(err)
	a.Equal(Spherical, best.Model.Shape)

	gauss, err := Fit(emp, FitOptions{Shape: Gaussian})
	a.NoError(err)
	expo, err := Fit(emp, FitOptions{Shape: Exponential})
	a.NoError(err)
	a.Less(best.Residual, gauss.Residual)
	a.Less(best.Residual, expo.Residual)
}

func TestFitZeroShapeMeansAny(t *testing.T) {
	a := assert.New(t)

	truth, _ := NewModel(Exponential, 8, 2, 0)
	emp := syntheticEmpirical(truth, 16, 12, 30)

	res, err := Fit(emp, FitOptions{})
	a.NoError(err)
	a.Equal(Exponential, res.Model.Shape)
	a.InEpsilon(8.0, res.Model.Range, 0.01)
}

func TestFitWeightPolicies(t *testing.T) {
	a := assert.New(t)

	truth, _ := NewModel(Spherical, 10, 4, 0.5)
	emp := syntheticEmpirical(truth, 20, 16, 50)

	for _, w := range []WeightPolicy{WeightUniform, WeightCount, WeightCountDecay} {
		res, err := Fit(emp, FitOptions{Shape: Spherical, Weights: w})
		a.NoError(err, "weights %s", w)
		a.InEpsilon(10.0, res.Model.Range, 0.01, "weights %s", w)
	}

	_, err := Fit(emp, FitOptions{Shape: Spherical, Weights: "huber"})
	a.True(errors.Is(err, ErrInvalidParameter))
}

func TestFitInsufficientData(t *testing.T) {
	a := assert.New(t)

	emp := &Empirical{Points: []EmpiricalPoint{
		{Lag: 1, Gamma: 0.5, Count: 10},
		{Lag: 2, Gamma: 0.8, Count: 10},
	}}
	_, err := Fit(emp, FitOptions{Shape: Spherical})
	a.True(errors.Is(err, ErrInsufficientData))

	_, err = Fit(nil, FitOptions{Shape: Spherical})
	a.True(errors.Is(err, ErrInsufficientData))
}

func TestFitUnknownShape(t *testing.T) {
	a := assert.New(t)

	truth, _ := NewModel(Spherical, 10, 4, 0)
	emp := syntheticEmpirical(truth, 20, 10, 10)
	_, err := Fit(emp, FitOptions{Shape: "cubic"})
	a.True(errors.Is(err, ErrInvalidParameter))
}

func TestFitBudgetExhaustedReturnsBestIterate(t *testing.T) {
	a := assert.New(t)

	// Noisy data and a one-iteration budget: the fit cannot meet the
	// improvement tolerance, but the best iterate must come back.
	truth, _ := NewModel(Gaussian, 10, 4, 0.5)
	emp := syntheticEmpirical(truth, 20, 16, 50)
	for i := range emp.Points {
		emp.Points[i].Gamma *= 1 + 0.2*math.Sin(float64(i))
	}

	res, err := Fit(emp, FitOptions{Shape: Gaussian, MaxIter: 1})
	a.True(errors.Is(err, ErrConvergenceFailure))
	a.NotNil(res)
	a.False(res.Converged)
	a.Equal(1, res.Iterations)
	a.NotNil(res.Model)
	a.Greater(res.Model.Range, 0.0)
}

func TestFitBoundsRespected(t *testing.T) {
	a := assert.New(t)

	// A pure-nugget dataset pushes the structured part toward zero; the
	// parameter box must hold regardless.
	emp := &Empirical{}
	for i := 1; i <= 10; i++ {
		emp.Points = append(emp.Points, EmpiricalPoint{Lag: float64(i), Gamma: 2.0, Count: 20})
	}
	res, err := Fit(emp, FitOptions{Shape: Exponential})
	a.NoError(err)
	a.Greater(res.Model.Range, 0.0)
	a.GreaterOrEqual(res.Model.Sill, 0.0)
	a.GreaterOrEqual(res.Model.Nugget, 0.0)
	a.InDelta(2.0, res.Model.Sill, 1e-3)
}
