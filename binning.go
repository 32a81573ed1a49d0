package variogram

import (
	"fmt"
	"math"
)

// DefaultNumBins is the bin resolution used when a caller leaves it unset.
const DefaultNumBins = 20

// LagBin is one distance interval (Lo, Hi]. Pairs at distance zero
// (duplicate locations) belong to no bin.
type LagBin struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

func (b LagBin) Center() float64 {
	return (b.Lo + b.Hi) / 2
}

// Binning partitions (0, maxlag] into contiguous equal-width lag bins.
// Immutable once built.
type Binning struct {
	bins   []LagBin
	width  float64
	maxlag float64
}

func NewBinning(maxlag float64, numbins int) (*Binning, error) {
	if maxlag <= 0 || math.IsNaN(maxlag) || math.IsInf(maxlag, 0) {
		return nil, fmt.Errorf("maxlag %v: %w", maxlag, ErrInvalidParameter)
	}
	if numbins <= 0 {
		return nil, fmt.Errorf("numbins %d: %w", numbins, ErrInvalidParameter)
	}
	w := maxlag / float64(numbins)
	bins := make([]LagBin, numbins)
	for i := range bins {
		bins[i] = LagBin{Lo: float64(i) * w, Hi: float64(i+1) * w}
	}
	return &Binning{bins: bins, width: w, maxlag: maxlag}, nil
}

func (b *Binning) NumBins() int    { return len(b.bins) }
func (b *Binning) MaxLag() float64 { return b.maxlag }

func (b *Binning) Bin(i int) LagBin { return b.bins[i] }

// Index maps a separation distance to its bin, or -1 when the distance is
// zero or beyond maxlag.
func (b *Binning) Index(h float64) int {
	if h <= 0 || h > b.maxlag {
		return -1
	}
	i := int(math.Ceil(h/b.width)) - 1
	if i < 0 {
		i = 0
	}
	if i >= len(b.bins) {
		i = len(b.bins) - 1
	}
	return i
}

// DefaultTolerance is the angular tolerance applied when a direction is
// given without one.
const DefaultTolerance = 45.0

// Direction restricts pairs to those whose separation vector lies within an
// angular tolerance of a given axis. Pairs are unordered, so the axis and
// its negation are equivalent.
type Direction struct {
	unit   Location
	tolDeg float64
	cosTol float64
}

func NewDirection(vec Location, toleranceDeg float64) (*Direction, error) {
	n := norm(vec)
	if n == 0 || len(vec) == 0 {
		return nil, fmt.Errorf("zero direction vector: %w", ErrInvalidParameter)
	}
	if toleranceDeg < 0 || toleranceDeg > 90 {
		return nil, fmt.Errorf("tolerance %v deg: %w", toleranceDeg, ErrInvalidParameter)
	}
	unit := make(Location, len(vec))
	for i, c := range vec {
		unit[i] = c / n
	}
	return &Direction{unit: unit, tolDeg: toleranceDeg, cosTol: math.Cos(degToRad(toleranceDeg))}, nil
}

// Accepts reports whether a separation vector lies within tolerance of the
// axis. A zero separation is never accepted. With tolerance 0 only exact
// alignment passes.
func (d *Direction) Accepts(sep Location) bool {
	hh := norm(sep)
	if hh == 0 {
		return false
	}
	return math.Abs(dot(d.unit, sep))/hh >= d.cosTol
}

// SurfaceGrid is the (lag, angle) cell layout of a variogram surface:
// Binning over distance crossed with equal sectors over [0, 180) degrees.
// Angles are sign-symmetric, so the upper half-circle suffices.
type SurfaceGrid struct {
	Binning    *Binning
	NumSectors int
	sectorDeg  float64
}

func NewSurfaceGrid(maxlag float64, numbins, numsectors int) (*SurfaceGrid, error) {
	b, err := NewBinning(maxlag, numbins)
	if err != nil {
		return nil, err
	}
	if numsectors <= 0 {
		return nil, fmt.Errorf("numsectors %d: %w", numsectors, ErrInvalidParameter)
	}
	return &SurfaceGrid{Binning: b, NumSectors: numsectors, sectorDeg: 180 / float64(numsectors)}, nil
}

// SectorCenter returns the representative angle of sector s, in degrees.
func (g *SurfaceGrid) SectorCenter(s int) float64 {
	return (float64(s) + 0.5) * g.sectorDeg
}

// Cell maps a separation vector (first two coordinates) to its (bin,
// sector) cell, or (-1, -1) when the distance falls outside the binning.
func (g *SurfaceGrid) Cell(sep Location, h float64) (bin, sector int) {
	bin = g.Binning.Index(h)
	if bin < 0 {
		return -1, -1
	}
	var dx, dy float64
	if len(sep) > 0 {
		dx = sep[0]
	}
	if len(sep) > 1 {
		dy = sep[1]
	}
	// Axis-aligned separations are common on gridded data; give them
	// exact angles so they never straddle a sector edge numerically.
	var deg float64
	switch {
	case dy == 0:
		deg = 0
	case dx == 0:
		deg = 90
	default:
		deg = math.Atan2(dy, dx) * 180 / math.Pi
		for deg < 0 {
			deg += 180
		}
		for deg >= 180 {
			deg -= 180
		}
	}
	sector = int(deg / g.sectorDeg)
	if sector >= g.NumSectors {
		sector = g.NumSectors - 1
	}
	return bin, sector
}
