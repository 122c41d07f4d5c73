package eseries

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValuesSingleDecade(t *testing.T) {
	values, err := Values(E6, 1, 10)
	require.NoError(t, err)

	assert.Equal(t, []float64{1.0, 1.5, 2.2, 3.3, 4.7, 6.8, 10.0}, values)
}

func TestValuesWindowBoundsAndUniqueness(t *testing.T) {
	values, err := Values(E6, 100e-12, 10e-6)
	require.NoError(t, err)
	require.Len(t, values, 31) // 5 full decades of 6 plus the top boundary

	seen := make(map[float64]bool)
	for i, v := range values {
		assert.GreaterOrEqual(t, v, 100e-12*(1-1e-9))
		assert.LessOrEqual(t, v, 10e-6*(1+1e-9))
		assert.False(t, seen[v], "duplicate value %g", v)
		seen[v] = true
		if i > 0 {
			assert.Greater(t, v, values[i-1], "not monotonically increasing at %d", i)
		}
	}
}

func TestValuesSeriesSizes(t *testing.T) {
	for _, tc := range []struct {
		series Series
		count  int
	}{
		{E6, 6},
		{E12, 12},
		{E24, 24},
	} {
		values, err := Values(tc.series, 1, 9.99)
		require.NoError(t, err)
		assert.Len(t, values, tc.count, "%s", tc.series)
	}
}

func TestValuesInvalidRange(t *testing.T) {
	_, err := Values(E6, 0, 10)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = Values(E6, -1, 10)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = Values(E6, 10, 1)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = Values(E6, math.NaN(), 10)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestNearestPicksLogDistance(t *testing.T) {
	sorted := []float64{1.0, 1.5, 2.2}

	// 1.8 is log-closer to 1.5 than to 2.2
	assert.Equal(t, 1.5, Nearest(sorted, 1.8))
	assert.Equal(t, 1.0, Nearest(sorted, 0.2))
	assert.Equal(t, 2.2, Nearest(sorted, 100))
	assert.Equal(t, 2.2, Nearest(sorted, 2.2))
}

func TestNearestIndexDegenerateInputs(t *testing.T) {
	assert.Equal(t, -1, NearestIndex(nil, 1))
	assert.Equal(t, -1, NearestIndex([]float64{1}, -1))
	assert.Equal(t, -1, NearestIndex([]float64{1}, math.Inf(1)))
}

func TestDecadeWindow(t *testing.T) {
	min, max := DecadeWindow(1e-9, 2)
	assert.InEpsilon(t, 1e-10, min, 1e-12)
	assert.InEpsilon(t, 1e-8, max, 1e-12)
}
