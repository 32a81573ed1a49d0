package variogram

import (
	"fmt"
	"math"

	"github.com/aclements/go-moremath/stats"
	"gonum.org/v1/gonum/mat"
)

const (
	// DefaultMaxIter bounds the optimizer so a caller can rely on a
	// wall-clock ceiling; each iteration is one residual sweep over the
	// bins plus a 3x3 solve.
	DefaultMaxIter = 200

	// DefaultFitTol is the relative cost-improvement threshold below
	// which an accepted step counts as converged.
	DefaultFitTol = 1e-10
)

// FitOptions selects the fit target and the weighting policy.
type FitOptions struct {
	// Shape is a single model family, or ShapeAny (the zero value fits
	// every candidate and keeps the best).
	Shape ModelType

	// Weights defaults to WeightCount: w_i = n_i. WeightCountDecay
	// additionally downweights distant bins with w_i = n_i / h_i^2.
	Weights WeightPolicy

	MaxIter int
	Tol     float64
}

// FitResult is a fitted model plus the weighted residual it achieved.
// Converged is false when the iteration budget ran out first; the model is
// the best iterate found either way.
type FitResult struct {
	Model      *Model  `json:"model"`
	Residual   float64 `json:"residual"`
	Converged  bool    `json:"converged"`
	Iterations int     `json:"iterations"`
}

// Fit estimates (range, sill, nugget) minimizing the weighted sum of
// squares against an empirical variogram. With ShapeAny every candidate
// family is fitted independently and the minimal-residual one wins.
//
// On ErrConvergenceFailure the returned result is still usable: it holds
// the best iterate with Converged=false.
func Fit(emp *Empirical, opts FitOptions) (*FitResult, error) {
	if emp == nil || len(emp.Points) < 3 {
		n := 0
		if emp != nil {
			n = len(emp.Points)
		}
		return nil, fmt.Errorf("%d empirical points, need 3: %w", n, ErrInsufficientData)
	}

	policy := opts.Weights
	if policy == "" {
		policy = WeightCount
	}
	ws, err := weightsFor(policy, emp.Points)
	if err != nil {
		return nil, err
	}

	maxIter := opts.MaxIter
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	tol := opts.Tol
	if tol <= 0 {
		tol = DefaultFitTol
	}

	shape := opts.Shape
	if shape == "" {
		shape = ShapeAny
	}
	if shape != ShapeAny {
		return fitShape(emp.Points, ws, shape, maxIter, tol)
	}

	// Multi-shape selection: independent fits, minimal residual wins.
	var best *FitResult
	var bestErr error
	for _, cand := range []ModelType{Spherical, Exponential, Gaussian} {
		res, err := fitShape(emp.Points, ws, cand, maxIter, tol)
		if res == nil {
			if bestErr == nil {
				bestErr = err
			}
			continue
		}
		if best == nil || res.Residual < best.Residual {
			best, bestErr = res, err
		}
	}
	if best == nil {
		return nil, bestErr
	}
	return best, bestErr
}

func weightsFor(policy WeightPolicy, points []EmpiricalPoint) ([]float64, error) {
	ws := make([]float64, len(points))
	switch policy {
	case WeightUniform:
		for i := range ws {
			ws[i] = 1
		}
	case WeightCount:
		for i, p := range points {
			ws[i] = float64(p.Count)
		}
	case WeightCountDecay:
		for i, p := range points {
			ws[i] = float64(p.Count) / pow2(p.Lag)
		}
	default:
		return nil, fmt.Errorf("weights %q: %w", policy, ErrInvalidParameter)
	}
	return ws, nil
}

// initialGuess follows the usual policy: sill from the plateau (mean of the
// last third of the estimates), nugget from the smallest lag when that bin
// saw enough pairs to be trusted, range where the estimate first reaches
// 95% of the sill.
func initialGuess(points []EmpiricalPoint) (r0, s0, g0 float64) {
	gammas := make([]float64, len(points))
	maxGamma := 0.0
	for i, p := range points {
		gammas[i] = p.Gamma
		if p.Gamma > maxGamma {
			maxGamma = p.Gamma
		}
	}

	tail := len(points) / 3
	if tail < 1 {
		tail = 1
	}
	s0 = stats.Mean(gammas[len(gammas)-tail:])
	if s0 <= 0 {
		s0 = maxGamma
	}

	if points[0].Count >= 5 {
		g0 = math.Min(points[0].Gamma, s0)
	}

	r0 = points[len(points)-1].Lag
	for _, p := range points {
		if p.Gamma >= 0.95*s0 {
			r0 = p.Lag
			break
		}
	}
	if r0 <= 0 {
		r0 = points[len(points)-1].Lag
	}
	return r0, s0, g0
}

// fitShape runs box-constrained Levenberg-Marquardt on (range, sill,
// nugget) with a forward-difference Jacobian. The normal equations are
// damped with lambda on the diagonal and solved by QR.
func fitShape(points []EmpiricalPoint, ws []float64, shape ModelType, maxIter int, tol float64) (*FitResult, error) {
	switch shape {
	case Gaussian, Spherical, Exponential:
	default:
		return nil, fmt.Errorf("shape %q: %w", shape, ErrInvalidParameter)
	}

	hmax := points[len(points)-1].Lag
	rmin := 1e-9 * hmax

	project := func(p [3]float64) [3]float64 {
		if p[0] < rmin {
			p[0] = rmin
		}
		if p[1] < 0 {
			p[1] = 0
		}
		if p[2] < 0 {
			p[2] = 0
		}
		return p
	}

	// Weighted residual vector; cost is its squared norm.
	resid := func(p [3]float64) ([]float64, float64) {
		m := Model{Shape: shape, Range: p[0], Sill: p[1], Nugget: p[2]}
		f := make([]float64, len(points))
		cost := 0.0
		for i, pt := range points {
			f[i] = math.Sqrt(ws[i]) * (m.Evaluate(pt.Lag) - pt.Gamma)
			cost += f[i] * f[i]
		}
		return f, cost
	}

	var p [3]float64
	p[0], p[1], p[2] = initialGuess(points)
	p = project(p)
	f, cost := resid(p)

	lambda := 1e-3
	converged := false
	iters := 0

	for iter := 1; iter <= maxIter; iter++ {
		iters = iter

		// Forward-difference Jacobian, len(points) x 3.
		var jac [3][]float64
		for k := 0; k < 3; k++ {
			step := 1e-6 * math.Max(math.Abs(p[k]), 1e-3)
			pk := p
			pk[k] += step
			fk, _ := resid(pk)
			col := make([]float64, len(f))
			for i := range f {
				col[i] = (fk[i] - f[i]) / step
			}
			jac[k] = col
		}

		// Normal equations: (J^T J + lambda diag) delta = -J^T f.
		a := mat.NewDense(3, 3, nil)
		b := mat.NewVecDense(3, nil)
		for k := 0; k < 3; k++ {
			for l := 0; l < 3; l++ {
				s := 0.0
				for i := range f {
					s += jac[k][i] * jac[l][i]
				}
				a.Set(k, l, s)
			}
			s := 0.0
			for i := range f {
				s += jac[k][i] * f[i]
			}
			b.SetVec(k, -s)
		}
		for k := 0; k < 3; k++ {
			a.Set(k, k, a.At(k, k)+lambda*math.Max(a.At(k, k), 1e-12))
		}

		var qr mat.QR
		qr.Factorize(a)
		delta := mat.NewDense(3, 1, nil)
		if err := qr.SolveTo(delta, false, b); err != nil {
			lambda *= 10
			if lambda > 1e12 {
				converged = true
				break
			}
			continue
		}

		cand := project([3]float64{
			p[0] + delta.At(0, 0),
			p[1] + delta.At(1, 0),
			p[2] + delta.At(2, 0),
		})
		fc, cc := resid(cand)
		if cc < cost {
			improved := cost - cc
			p, f, cost = cand, fc, cc
			lambda *= 0.3
			if lambda < 1e-12 {
				lambda = 1e-12
			}
			if improved <= tol*(cost+1e-15) {
				converged = true
				break
			}
		} else {
			lambda *= 10
			if lambda > 1e12 {
				// Damping saturated: no step improves, local minimum.
				converged = true
				break
			}
		}
	}

	res := &FitResult{
		Model:      &Model{Shape: shape, Range: p[0], Sill: p[1], Nugget: p[2]},
		Residual:   cost,
		Converged:  converged,
		Iterations: iters,
	}
	if !converged {
		return res, fmt.Errorf("shape %s after %d iterations: %w", shape, iters, ErrConvergenceFailure)
	}
	return res, nil
}
