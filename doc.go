// Package variogram estimates empirical variograms from scattered samples
// and fits theoretical variogram models (gaussian, spherical, exponential)
// to them by weighted nonlinear least squares. Fitted models are plain
// values a kriging interpolator or a plotting layer can consume; this
// package never renders and never touches coordinate reference systems.
package variogram
