// Package calc collects the closed-form single-equation calculators that
// sit alongside the component solver: dividers, single-pole RC, op-amp
// gain, parallel resistance and LED series resistors. Each is one algebra
// step; invalid inputs yield NaN rather than an error, matching the
// forward filter equations.
package calc

import "math"

// VoltageDividerOut returns vout of a two-resistor divider.
func VoltageDividerOut(vin, r1, r2 float64) float64 {
	if r1 <= 0 || r2 <= 0 {
		return math.NaN()
	}
	return vin * r2 / (r1 + r2)
}

// VoltageDividerR2 returns the lower resistor needed to get vout from vin
// across a given upper resistor.
func VoltageDividerR2(vin, vout, r1 float64) float64 {
	if r1 <= 0 || vout <= 0 || vout >= vin {
		return math.NaN()
	}
	return r1 * vout / (vin - vout)
}

// RCCutoff returns the -3 dB frequency of a single-pole RC filter.
func RCCutoff(r, c float64) float64 {
	if r <= 0 || c <= 0 {
		return math.NaN()
	}
	return 1 / (2 * math.Pi * r * c)
}

// RCResistorForCutoff returns the resistor giving cutoff fc with a fixed
// capacitor.
func RCResistorForCutoff(fc, c float64) float64 {
	if fc <= 0 || c <= 0 {
		return math.NaN()
	}
	return 1 / (2 * math.Pi * fc * c)
}

// RCCapacitorForCutoff returns the capacitor giving cutoff fc with a fixed
// resistor.
func RCCapacitorForCutoff(fc, r float64) float64 {
	if fc <= 0 || r <= 0 {
		return math.NaN()
	}
	return 1 / (2 * math.Pi * fc * r)
}

// NonInvertingGain returns 1 + rf/rg.
func NonInvertingGain(rf, rg float64) float64 {
	if rf < 0 || rg <= 0 {
		return math.NaN()
	}
	return 1 + rf/rg
}

// InvertingGain returns -rf/rin.
func InvertingGain(rf, rin float64) float64 {
	if rf < 0 || rin <= 0 {
		return math.NaN()
	}
	return -rf / rin
}

// ParallelResistance combines resistors in parallel.
func ParallelResistance(values ...float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, r := range values {
		if r <= 0 {
			return math.NaN()
		}
		sum += 1 / r
	}
	return 1 / sum
}

// LEDSeriesResistor returns the resistor dropping vsupply-vforward at the
// given LED current.
func LEDSeriesResistor(vsupply, vforward, current float64) float64 {
	if current <= 0 || vforward <= 0 || vsupply <= vforward {
		return math.NaN()
	}
	return (vsupply - vforward) / current
}
