package matrix

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stampDivider stamps a series-R shunt-C divider driven by a 1 V source:
// node 1 is the source node, node 2 the output, unknown 3 the source
// branch current. V(2) = 1/(1+jwRC).
func stampDivider(m *ACMatrix, r, c, f float64) {
	g := 1 / r
	b := 2 * math.Pi * f * c

	m.AddElement(1, 1, g, 0)
	m.AddElement(2, 2, g, 0)
	m.AddElement(1, 2, -g, 0)
	m.AddElement(2, 1, -g, 0)
	m.AddElement(2, 2, 0, b)

	m.AddElement(1, 3, 1, 0)
	m.AddElement(3, 1, 1, 0)
	m.AddRHS(3, 1, 0)
}

func TestSolveRCDivider(t *testing.T) {
	m, err := New(3)
	require.NoError(t, err)
	defer m.Destroy()

	// R and C chosen so wRC = 1 at 1 kHz: V(2) = 0.5 - 0.5j.
	r := 1000.0
	c := 1 / (2 * math.Pi * 1000 * r)

	stampDivider(m, r, c, 1000)
	require.NoError(t, m.Solve())

	vin := m.Solution(1)
	assert.InDelta(t, 1.0, real(vin), 1e-9)
	assert.InDelta(t, 0.0, imag(vin), 1e-9)

	vout := m.Solution(2)
	assert.InDelta(t, 0.5, real(vout), 1e-9)
	assert.InDelta(t, -0.5, imag(vout), 1e-9)
}

// Sweeps restamp and refactor the same matrix once per frequency; the
// values must stay correct after the first factorization has reordered it.
func TestRepeatedClearStampSolve(t *testing.T) {
	m, err := New(3)
	require.NoError(t, err)
	defer m.Destroy()

	r := 1000.0
	c := 1 / (2 * math.Pi * 1000 * r)

	cases := []struct {
		f          float64
		real, imag float64
	}{
		{1000, 0.5, -0.5}, // wRC = 1
		{2000, 0.2, -0.4}, // wRC = 2: 1/(1+2j)
		{500, 0.8, -0.4},  // wRC = 1/2: 1/(1+0.5j)
		{1000, 0.5, -0.5}, // back to the first point
	}
	for _, tc := range cases {
		m.Clear()
		stampDivider(m, r, c, tc.f)
		require.NoError(t, m.Solve())

		v := m.Solution(2)
		assert.InDelta(t, tc.real, real(v), 1e-9, "f=%g", tc.f)
		assert.InDelta(t, tc.imag, imag(v), 1e-9, "f=%g", tc.f)
	}
}

func TestSolutionIgnoresOutOfRangeIndex(t *testing.T) {
	m, err := New(2)
	require.NoError(t, err)
	defer m.Destroy()

	assert.Equal(t, complex128(0), m.Solution(0))
	assert.Equal(t, complex128(0), m.Solution(3))
}
