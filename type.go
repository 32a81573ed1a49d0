package variogram

type ModelType string

const (
	Gaussian    ModelType = "gaussian"
	Exponential ModelType = "exponential"
	Spherical   ModelType = "spherical"

	// ShapeAny lets the fitter try every shape and keep the best one.
	ShapeAny ModelType = "any"
)

type EstimatorType string

const (
	Matheron EstimatorType = "matheron"
	Cressie  EstimatorType = "cressie"
)

type WeightPolicy string

const (
	WeightUniform    WeightPolicy = "uniform"
	WeightCount      WeightPolicy = "count"
	WeightCountDecay WeightPolicy = "count_decay"
)

// Location is a point in d-dimensional space (d = 1, 2 or 3 typical).
type Location []float64

// Sample binds a location to a scalar value. Values are assumed clean on
// input: no NaN, no Inf, no missing-data markers.
type Sample struct {
	Loc   Location `json:"loc"`
	Value float64  `json:"value"`
}

type SampleSet []Sample

// Dims returns the coordinate dimension of the set, or 0 if it is empty
// or the samples disagree on dimension.
func (s SampleSet) Dims() int {
	if len(s) == 0 {
		return 0
	}
	d := len(s[0].Loc)
	for _, sm := range s[1:] {
		if len(sm.Loc) != d {
			return 0
		}
	}
	return d
}

// Bounds returns the per-dimension min and max of the sample locations.
func (s SampleSet) Bounds() (min, max Location) {
	if len(s) == 0 {
		return nil, nil
	}
	min = append(Location(nil), s[0].Loc...)
	max = append(Location(nil), s[0].Loc...)
	for _, sm := range s[1:] {
		for i, c := range sm.Loc {
			if c < min[i] {
				min[i] = c
			}
			if c > max[i] {
				max[i] = c
			}
		}
	}
	return min, max
}

// DistanceMetric reduces two locations to a scalar lag.
type DistanceMetric func(a, b Location) float64

// EmpiricalPoint is one retained lag bin: its center, the estimate and the
// number of sample pairs that fell into it.
type EmpiricalPoint struct {
	Lag   float64 `json:"lag"`
	Gamma float64 `json:"gamma"`
	Count int     `json:"count"`
}

// Empirical is an estimated variogram: one point per non-empty bin, sorted
// ascending by lag center.
type Empirical struct {
	Points    []EmpiricalPoint `json:"points"`
	Estimator EstimatorType    `json:"estimator"`
}

// XYs returns the (lag, gamma) sequences a plotting collaborator consumes.
func (e *Empirical) XYs() (hs, gammas []float64) {
	hs = make([]float64, len(e.Points))
	gammas = make([]float64, len(e.Points))
	for i, p := range e.Points {
		hs[i] = p.Lag
		gammas[i] = p.Gamma
	}
	return hs, gammas
}

// Counts returns the per-bin pair counts, for bar-style annotations.
func (e *Empirical) Counts() []int {
	ns := make([]int, len(e.Points))
	for i, p := range e.Points {
		ns[i] = p.Count
	}
	return ns
}
