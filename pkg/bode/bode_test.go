package bode

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aweijnitz/synth-calculators/pkg/sallenkey"
)

func butterworthStage(t *testing.T) Stage {
	t.Helper()

	c1, c2 := 100e-9, 10e-9
	r1, r2, err := sallenkey.SolveResistors(1000, 1/math.Sqrt2, c1, c2)
	require.NoError(t, err)

	return Stage{R1: r1, R2: r2, C1: c1, C2: c2}
}

func TestSweepButterworthResponse(t *testing.T) {
	resp, err := Sweep(butterworthStage(t), 10, 100e3, 201, "DEC")
	require.NoError(t, err)
	require.Len(t, resp.Frequencies, 201)

	// Unity passband gain well below cutoff.
	assert.InDelta(t, 0, resp.At(10), 0.01)

	// |H| at f0 equals Q for this topology; Butterworth Q gives -3.01 dB.
	assert.InDelta(t, -3.01, resp.At(1000), 0.05)

	// Second-order rolloff: -40 dB one decade above cutoff.
	assert.InDelta(t, -40, resp.At(10e3), 0.5)
}

func TestSweepPhase(t *testing.T) {
	resp, err := Sweep(butterworthStage(t), 10, 100e3, 201, "DEC")
	require.NoError(t, err)

	// Low-pass phase runs from ~0 through -90 at f0 toward -180.
	assert.InDelta(t, 0, resp.PhaseDeg[0], 2)

	nearest := 0
	for i, f := range resp.Frequencies {
		if math.Abs(math.Log(f/1000)) < math.Abs(math.Log(resp.Frequencies[nearest]/1000)) {
			nearest = i
		}
	}
	assert.InDelta(t, -90, resp.PhaseDeg[nearest], 5)
	assert.InDelta(t, -180, resp.PhaseDeg[len(resp.PhaseDeg)-1], 10)
}

func TestCutoffFrequencyMatchesDesign(t *testing.T) {
	resp, err := Sweep(butterworthStage(t), 10, 100e3, 401, "DEC")
	require.NoError(t, err)

	fc := resp.CutoffFrequency()
	assert.InEpsilon(t, 1000, fc, 0.01)
	assert.InDelta(t, 0, resp.CutoffDeviation(1000), 0.01)
}

func TestSweepSpacingVariants(t *testing.T) {
	st := butterworthStage(t)

	lin, err := Sweep(st, 100, 1000, 10, "LIN")
	require.NoError(t, err)
	assert.InDelta(t, 100, lin.Frequencies[0], 1e-9)
	assert.InDelta(t, 1000, lin.Frequencies[9], 1e-9)
	assert.InDelta(t, 200, lin.Frequencies[1], 1e-9)

	oct, err := Sweep(st, 100, 1600, 5, "OCT")
	require.NoError(t, err)
	assert.InEpsilon(t, 200, oct.Frequencies[1], 1e-9)
}

func TestSweepInvalidInputs(t *testing.T) {
	st := butterworthStage(t)

	_, err := Sweep(Stage{R1: -1, R2: 1e3, C1: 1e-9, C2: 1e-9}, 10, 1e3, 10, "DEC")
	assert.Error(t, err)

	_, err = Sweep(st, 0, 1e3, 10, "DEC")
	assert.Error(t, err)

	_, err = Sweep(st, 10, 1e3, 1, "DEC")
	assert.Error(t, err)

	_, err = Sweep(st, 10, 1e3, 10, "BOGUS")
	assert.Error(t, err)
}
