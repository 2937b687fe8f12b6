// Package motion maps a 0-100 progress fraction onto placement, tilt, and
// intensity values. Nothing here knows about a display surface.
package motion

import (
	"errors"
	"fmt"
	gomath "math"

	"golang.org/x/exp/constraints"

	"github.com/ensigniasec/flightleg/internal/validate"
)

// proximityMax is the largest displacement, in percent of the track, that
// keeps two actors approaching from opposite edges from overlapping.
const proximityMax = 50

var (
	// ErrInvalidRange is returned when a range is inverted or outside 0..100.
	ErrInvalidRange = errors.New("invalid motion range")
	// ErrProximityOverlap is returned when proximity actors could cross the midpoint.
	ErrProximityOverlap = errors.New("proximity range must stay within half of the track")
)

// Range is a placement band expressed in percent of a track.
type Range struct {
	Low  float64 `yaml:"low"  json:"low"  validate:"gte=0,lte=100"`
	High float64 `yaml:"high" json:"high" validate:"gte=0,lte=100,gtefield=Low"`
}

// Validate checks bounds and ordering.
func (r Range) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: [%g, %g]: %w", ErrInvalidRange, r.Low, r.High, err)
	}
	return nil
}

// Clamp limits x to [low, high].
func Clamp[T constraints.Ordered](x T, low T, high T) T {
	if x < low {
		return low
	} else if x > high {
		return high
	}
	return x
}

// Lerp interpolates linearly from a (x=0) to b (x=1).
func Lerp[T constraints.Float](x, a, b T) T {
	return (1-x)*a + x*b
}

// Normalize converts a progress percentage into t in [0,1].
func Normalize(progress float64) float64 {
	return Clamp(progress, 0, 100) / 100
}

// Position maps progress linearly onto r: 0 -> Low, 100 -> High.
func Position(progress float64, r Range) float64 {
	return r.Low + (r.High-r.Low)*Normalize(progress)
}

// Tilt maps t in [0,1] onto [-maxDeg, +maxDeg].
func Tilt(t, maxDeg float64) float64 {
	return Lerp(Clamp(t, 0, 1), -maxDeg, maxDeg)
}

// Emphasis is sin(pi*t): zero at both ends, one at the midpoint.
func Emphasis(t float64) float64 {
	return gomath.Sin(gomath.Pi * Clamp(t, 0, 1))
}

// Marker is the full placement of the position marker for one progress value.
type Marker struct {
	Placement float64 `json:"placement"`
	Tilt      float64 `json:"tilt"`
	Intensity float64 `json:"intensity"`
}

// MarkerFor combines the position, tilt and emphasis mappers.
func MarkerFor(progress float64, r Range, maxTilt float64) Marker {
	t := Normalize(progress)
	return Marker{
		Placement: Position(progress, r),
		Tilt:      Tilt(t, maxTilt),
		Intensity: Emphasis(t),
	}
}

// Proximity moves two actors from opposite edges toward the midpoint in lockstep.
type Proximity struct {
	r Range
}

// NewProximity rejects ranges that would let the actors cross the midpoint.
func NewProximity(r Range) (Proximity, error) {
	if err := r.Validate(); err != nil {
		return Proximity{}, err
	}
	if r.High > proximityMax {
		return Proximity{}, fmt.Errorf("%w: high=%g", ErrProximityOverlap, r.High)
	}
	return Proximity{r: r}, nil
}

// Offsets returns each actor's displacement from its own edge. Both use the same t.
func (p Proximity) Offsets(progress float64) (left, right float64) {
	d := p.r.Low + (p.r.High-p.r.Low)*Normalize(progress)
	return d, d
}
