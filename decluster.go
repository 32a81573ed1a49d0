package variogram

import (
	"fmt"
	"strconv"
	"strings"
)

// Decluster thins a sample set by cell averaging: samples falling in the
// same grid cell of the given size collapse to one sample at their mean
// location with their mean value. Preferentially sampled clusters stop
// dominating the pair counts of the short lags.
func Decluster(samples SampleSet, cellSize float64) (SampleSet, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("empty sample set: %w", ErrInvalidParameter)
	}
	if cellSize <= 0 {
		return nil, fmt.Errorf("cell size %v: %w", cellSize, ErrInvalidParameter)
	}
	dims := samples.Dims()
	if dims == 0 {
		return nil, fmt.Errorf("mismatched sample dimensions: %w", ErrInvalidParameter)
	}

	type cell struct {
		sumLoc Location
		sumVal float64
		n      int
	}

	min, _ := samples.Bounds()
	cells := make(map[string]*cell)
	var keys []string
	var key strings.Builder
	for _, s := range samples {
		key.Reset()
		for d := 0; d < dims; d++ {
			key.WriteString(strconv.Itoa(int((s.Loc[d] - min[d]) / cellSize)))
			key.WriteByte(':')
		}
		k := key.String()
		c := cells[k]
		if c == nil {
			c = &cell{sumLoc: make(Location, dims)}
			cells[k] = c
			keys = append(keys, k)
		}
		for d := 0; d < dims; d++ {
			c.sumLoc[d] += s.Loc[d]
		}
		c.sumVal += s.Value
		c.n++
	}

	out := make(SampleSet, 0, len(keys))
	for _, k := range keys {
		c := cells[k]
		loc := make(Location, dims)
		for d := 0; d < dims; d++ {
			loc[d] = c.sumLoc[d] / float64(c.n)
		}
		out = append(out, Sample{Loc: loc, Value: c.sumVal / float64(c.n)})
	}
	return out, nil
}
