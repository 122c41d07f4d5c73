// Package eseries generates standardized component value sequences
// (IEC 60063 preferred numbers) and nearest-value lookups over them.
package eseries

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/aweijnitz/synth-calculators/internal/consts"
)

type Series int

const (
	E6 Series = iota
	E12
	E24
)

var ErrInvalidRange = errors.New("invalid series range")

func (s Series) String() string {
	switch s {
	case E6:
		return "E6"
	case E12:
		return "E12"
	case E24:
		return "E24"
	default:
		return fmt.Sprintf("Series(%d)", int(s))
	}
}

// Mantissas returns the per-decade base values of the series.
func (s Series) Mantissas() []float64 {
	switch s {
	case E12:
		return consts.E12Mantissas
	case E24:
		return consts.E24Mantissas
	default:
		return consts.E6Mantissas
	}
}

// Values expands the series across every decade touching [min, max] and
// returns the in-window values, deduplicated and sorted ascending.
func Values(s Series, min, max float64) ([]float64, error) {
	if min <= 0 || !isFinite(min) || !isFinite(max) {
		return nil, fmt.Errorf("%w: min=%g max=%g (min must be > 0)", ErrInvalidRange, min, max)
	}
	if max < min {
		return nil, fmt.Errorf("%w: min=%g max=%g (max < min)", ErrInvalidRange, min, max)
	}

	mantissas := s.Mantissas()

	// One decade of margin each side so boundary values are never missed.
	expLo := int(math.Floor(math.Log10(min))) - 1
	expHi := int(math.Ceil(math.Log10(max))) + 1

	lo := min * (1 - consts.BoundaryEpsilon)
	hi := max * (1 + consts.BoundaryEpsilon)

	seen := make(map[float64]bool)
	values := make([]float64, 0, (expHi-expLo+1)*len(mantissas))
	for exp := expLo; exp <= expHi; exp++ {
		decade := math.Pow(10, float64(exp))
		for _, m := range mantissas {
			v := roundSignificant(m*decade, consts.SignificantDigits)
			if v < lo || v > hi || seen[v] {
				continue
			}
			seen[v] = true
			values = append(values, v)
		}
	}

	sort.Float64s(values)
	return values, nil
}

// Nearest returns the value in sorted closest to target in log distance.
// sorted must be ascending and non-empty; target must be > 0.
func Nearest(sorted []float64, target float64) float64 {
	i := NearestIndex(sorted, target)
	if i < 0 {
		return math.NaN()
	}
	return sorted[i]
}

// NearestIndex returns the index of the log-nearest value, or -1 when the
// input is empty or target is not a positive finite number.
func NearestIndex(sorted []float64, target float64) int {
	if len(sorted) == 0 || target <= 0 || !isFinite(target) {
		return -1
	}

	i := sort.SearchFloat64s(sorted, target)
	if i == 0 {
		return 0
	}
	if i == len(sorted) {
		return len(sorted) - 1
	}

	below := math.Abs(math.Log(target / sorted[i-1]))
	above := math.Abs(math.Log(sorted[i] / target))
	if below <= above {
		return i - 1
	}
	return i
}

// DecadeWindow returns a window spanning width decades total, centered on
// center in log space. Used by the expanding-decade search.
func DecadeWindow(center float64, width float64) (min, max float64) {
	half := math.Pow(10, width/2)
	return center / half, center * half
}

func roundSignificant(v float64, digits int) float64 {
	if v == 0 {
		return 0
	}
	scale := math.Pow(10, float64(digits)-math.Ceil(math.Log10(math.Abs(v))))
	return math.Round(v*scale) / scale
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
