package variogram

import (
	"math"
)

func degToRad(angle float64) float64 {
	return angle * math.Pi / 180
}

func exp(x float64) float64 {
	if x == 0 {
		return 1
	}
	return math.Exp(x)
}

func pow2(x float64) float64 {
	return x * x
}

func pow3(x float64) float64 {
	return x * x * x
}

// Euclidean is the default distance metric. Locations of unequal dimension
// are compared over their common prefix.
func Euclidean(a, b Location) float64 {
	d := len(a)
	if len(b) < d {
		d = len(b)
	}
	sum := 0.0
	for i := 0; i < d; i++ {
		sum += pow2(a[i] - b[i])
	}
	return math.Sqrt(sum)
}

func dot(a, b Location) float64 {
	d := len(a)
	if len(b) < d {
		d = len(b)
	}
	sum := 0.0
	for i := 0; i < d; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

func norm(a Location) float64 {
	return math.Sqrt(dot(a, a))
}

func sub(a, b Location) Location {
	d := len(a)
	if len(b) < d {
		d = len(b)
	}
	out := make(Location, d)
	for i := 0; i < d; i++ {
		out[i] = a[i] - b[i]
	}
	return out
}
