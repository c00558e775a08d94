package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBollingerBands(t *testing.T) {
	t.Run("sentinel before lookback is full", func(t *testing.T) {
		bb := NewBollingerBands(5, 2.0)
		series := bb.Prepare(barsFromTypicalPrices([]float64{10, 11, 12}))

		require.Len(t, series, 3)
		for i := range series {
			assert.True(t, IsSentinel(series[i]), "index %d", i)
		}
	})

	t.Run("flat window sits mid band", func(t *testing.T) {
		bb := NewBollingerBands(3, 2.0)
		series := bb.Prepare(barsFromTypicalPrices([]float64{10, 10, 10}))

		assert.Equal(t, 0.5, series[2])
	})

	t.Run("price at upper band", func(t *testing.T) {
		// window [10, 20]: mean=15, population sd=5, band=[5, 25]
		bb := NewBollingerBands(2, 2.0)
		series := bb.Prepare(barsFromTypicalPrices([]float64{10, 20}))

		// %B = (20-5)/(25-5)
		assert.Less(t, math.Abs(series[1]-0.75), 1e-9)
	})

	t.Run("update matches prepare at every index", func(t *testing.T) {
		assertRoundTrip(t, NewBollingerBands(4, 2.0))
	})
}
