package variogram

import "errors"

// Sentinel error set. Callers match with errors.Is; context is added by
// wrapping with fmt.Errorf("...: %w", Err...) at the point of failure.
var (
	// ErrInvalidParameter covers bad configuration: non-positive maxlag or
	// bin count, an unknown estimator, shape or weight tag, a zero
	// direction vector, mismatched sample dimensions.
	ErrInvalidParameter = errors.New("variogram: invalid parameter")

	// ErrInsufficientData means the empirical variogram has fewer points
	// than the fit has free parameters. An empty empirical variogram is a
	// valid result, not an error; this is reserved for the fitting stage.
	ErrInsufficientData = errors.New("variogram: insufficient data")

	// ErrConvergenceFailure means the optimizer exhausted its iteration
	// budget. The best iterate found is still returned alongside it.
	ErrConvergenceFailure = errors.New("variogram: fit did not converge")
)
