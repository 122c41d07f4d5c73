// Package sallenkey holds the component equations of the unity-gain
// Sallen-Key low-pass stage: forward (components to f0/Q) and inverse
// (target f0/Q and capacitors to the resistor pair).
package sallenkey

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrImaginaryRoot      = errors.New("no real resistor solution")
	ErrDegenerateSolution = errors.New("degenerate resistor solution")
)

// discriminantEpsilon absorbs float noise when the quadratic discriminant
// lands marginally below zero for an exactly-realizable Q.
const discriminantEpsilon = 1e-9

// NaturalFrequency returns f0 = 1 / (2*pi*sqrt(r1*r2*c1*c2)).
// Returns NaN for non-positive or non-finite inputs.
func NaturalFrequency(r1, r2, c1, c2 float64) float64 {
	p := r1 * r2 * c1 * c2
	if !allPositive(r1, r2, c1, c2) || p <= 0 || math.IsInf(p, 0) {
		return math.NaN()
	}
	return 1 / (2 * math.Pi * math.Sqrt(p))
}

// QualityFactor returns Q = sqrt(r1*r2*c1*c2) / (c2*(r1+r2)).
// Returns NaN for non-positive or non-finite inputs.
func QualityFactor(r1, r2, c1, c2 float64) float64 {
	p := r1 * r2 * c1 * c2
	if !allPositive(r1, r2, c1, c2) || p <= 0 || math.IsInf(p, 0) {
		return math.NaN()
	}
	return math.Sqrt(p) / (c2 * (r1 + r2))
}

// CapacitorRatioFloor returns the minimum c1/c2 ratio able to realize q
// at unity gain.
func CapacitorRatioFloor(q float64) float64 {
	return 4 * q * q
}

// SolveResistors solves the resistor pair for a unity-gain stage with the
// given capacitors. With w0 = 2*pi*fc the pair satisfies
//
//	r1*r2 = 1/(w0^2*c1*c2)
//	r1+r2 = 1/(w0*q*c2)
//
// which reduces to x^2 - sum*x + product = 0. The returned pair is ordered
// r1 <= r2.
func SolveResistors(fc, q, c1, c2 float64) (r1, r2 float64, err error) {
	if !allPositive(fc, q, c1, c2) {
		return 0, 0, fmt.Errorf("%w: fc=%g q=%g c1=%g c2=%g (all must be positive and finite)",
			ErrInvalidInput, fc, q, c1, c2)
	}

	// Realizability gate. At unity gain Q is capped by the capacitor
	// ratio: c1 >= 4*Q^2*c2.
	if floor := CapacitorRatioFloor(q); c1 < floor*c2*(1-discriminantEpsilon) {
		return 0, 0, fmt.Errorf("%w: c1/c2=%.4g but Q=%g needs at least %.4g",
			ErrImaginaryRoot, c1/c2, q, floor)
	}

	w0 := 2 * math.Pi * fc
	product := 1 / (w0 * w0 * c1 * c2)
	sum := 1 / (w0 * q * c2)

	disc := sum*sum - 4*product
	if disc < 0 {
		if disc < -discriminantEpsilon*sum*sum {
			return 0, 0, fmt.Errorf("%w: discriminant=%g", ErrImaginaryRoot, disc)
		}
		disc = 0
	}

	root := math.Sqrt(disc)
	r1 = (sum - root) / 2
	r2 = (sum + root) / 2

	if !allPositive(r1, r2) {
		return 0, 0, fmt.Errorf("%w: r1=%g r2=%g", ErrDegenerateSolution, r1, r2)
	}
	return r1, r2, nil
}

// Advisories reports non-fatal oddities about a target: parameter values a
// physical build is unlikely to want. Distinct from errors; the solve
// proceeds regardless.
func Advisories(fc, q float64) []string {
	var notes []string
	if fc > 1e6 {
		notes = append(notes, fmt.Sprintf("cutoff %.4g Hz is above the audio range; op-amp GBW will matter", fc))
	}
	if fc < 0.1 {
		notes = append(notes, fmt.Sprintf("cutoff %.4g Hz implies very large RC products; expect leakage-sensitive values", fc))
	}
	if q > 5 {
		notes = append(notes, fmt.Sprintf("Q=%.4g needs a capacitor ratio of %.4g or more; spread may be impractical", q, CapacitorRatioFloor(q)))
	}
	return notes
}

func allPositive(vs ...float64) bool {
	for _, v := range vs {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
