package sallenkey

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwardEquationsKnownStage(t *testing.T) {
	// Equal components: f0 = 1/(2*pi*RC), Q = 0.5
	r := 10e3
	c := 10e-9

	f0 := NaturalFrequency(r, r, c, c)
	assert.InEpsilon(t, 1/(2*math.Pi*r*c), f0, 1e-12)
	assert.InEpsilon(t, 0.5, QualityFactor(r, r, c, c), 1e-12)
}

func TestForwardEquationsUndefinedInputs(t *testing.T) {
	assert.True(t, math.IsNaN(NaturalFrequency(-1, 1e3, 1e-9, 1e-9)))
	assert.True(t, math.IsNaN(NaturalFrequency(0, 1e3, 1e-9, 1e-9)))
	assert.True(t, math.IsNaN(QualityFactor(1e3, 1e3, math.NaN(), 1e-9)))
	assert.True(t, math.IsNaN(QualityFactor(1e3, 1e3, 1e-9, math.Inf(1))))
}

func TestSolveResistorsRoundTrip(t *testing.T) {
	fc := 1000.0
	q := 0.707
	c1 := 100e-9
	c2 := 10e-9

	r1, r2, err := SolveResistors(fc, q, c1, c2)
	require.NoError(t, err)
	assert.Greater(t, r1, 0.0)
	assert.LessOrEqual(t, r1, r2)

	assert.InEpsilon(t, fc, NaturalFrequency(r1, r2, c1, c2), 1e-6)
	assert.InEpsilon(t, q, QualityFactor(r1, r2, c1, c2), 1e-6)
}

func TestSolveResistorsEqualCapsUnreachableQ(t *testing.T) {
	// Equal capacitors cap Q at 0.5; Butterworth Q is out of reach.
	_, _, err := SolveResistors(1000, 0.707, 1e-9, 1e-9)
	assert.ErrorIs(t, err, ErrImaginaryRoot)
}

func TestSolveResistorsRatioAtFloor(t *testing.T) {
	// c1/c2 exactly at the 4Q^2 floor collapses to r1 == r2.
	q := 0.5
	c2 := 10e-9
	c1 := CapacitorRatioFloor(q) * c2

	r1, r2, err := SolveResistors(1000, q, c1, c2)
	require.NoError(t, err)
	assert.InEpsilon(t, r1, r2, 1e-6)
}

func TestSolveResistorsInvalidInputs(t *testing.T) {
	for _, tc := range []struct {
		name          string
		fc, q, c1, c2 float64
	}{
		{"zero fc", 0, 0.707, 1e-9, 1e-9},
		{"negative q", 1000, -1, 1e-9, 1e-9},
		{"nan c1", 1000, 0.707, math.NaN(), 1e-9},
		{"inf c2", 1000, 0.707, 1e-9, math.Inf(1)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := SolveResistors(tc.fc, tc.q, tc.c1, tc.c2)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestAdvisories(t *testing.T) {
	assert.Empty(t, Advisories(1000, 0.707))
	assert.NotEmpty(t, Advisories(10e6, 0.707))
	assert.NotEmpty(t, Advisories(1000, 10))
	assert.NotEmpty(t, Advisories(0.01, 0.707))
}
