package calc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVoltageDivider(t *testing.T) {
	assert.InDelta(t, 5.0, VoltageDividerOut(10, 1e3, 1e3), 1e-12)
	assert.InDelta(t, 1e3, VoltageDividerR2(10, 5, 1e3), 1e-9)
	assert.True(t, math.IsNaN(VoltageDividerOut(10, 0, 1e3)))
	assert.True(t, math.IsNaN(VoltageDividerR2(5, 10, 1e3)), "vout above vin")
}

func TestRCCutoff(t *testing.T) {
	r, c := 10e3, 10e-9
	fc := RCCutoff(r, c)
	assert.InEpsilon(t, 1591.55, fc, 1e-4)

	assert.InEpsilon(t, r, RCResistorForCutoff(fc, c), 1e-9)
	assert.InEpsilon(t, c, RCCapacitorForCutoff(fc, r), 1e-9)
	assert.True(t, math.IsNaN(RCCutoff(-1, c)))
}

func TestOpAmpGain(t *testing.T) {
	assert.InDelta(t, 11.0, NonInvertingGain(100e3, 10e3), 1e-12)
	assert.InDelta(t, 1.0, NonInvertingGain(0, 10e3), 1e-12, "voltage follower")
	assert.InDelta(t, -10.0, InvertingGain(100e3, 10e3), 1e-12)
	assert.True(t, math.IsNaN(NonInvertingGain(100e3, 0)))
}

func TestParallelResistance(t *testing.T) {
	assert.InDelta(t, 500.0, ParallelResistance(1e3, 1e3), 1e-9)
	assert.InDelta(t, 1e3, ParallelResistance(1e3), 1e-9)
	assert.InEpsilon(t, 545.45, ParallelResistance(1e3, 1.2e3), 1e-4)
	assert.True(t, math.IsNaN(ParallelResistance()))
	assert.True(t, math.IsNaN(ParallelResistance(1e3, -5)))
}

func TestLEDSeriesResistor(t *testing.T) {
	// 9V supply, red LED at 2V, 10mA
	assert.InDelta(t, 700.0, LEDSeriesResistor(9, 2, 0.01), 1e-9)
	assert.True(t, math.IsNaN(LEDSeriesResistor(1.5, 2, 0.01)))
}
