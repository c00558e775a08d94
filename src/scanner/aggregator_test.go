package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantbeam/live-scanner/src/eventmodels"
)

func TestBarAggregator(t *testing.T) {
	timeframes := []eventmodels.Timeframe{1, 2, 3}

	t.Run("base timeframe passes through unchanged", func(t *testing.T) {
		aggregator := NewBarAggregator("ES", eventmodels.BaseTimeframe, timeframes, eventmodels.DefaultMaxBufferedBars)

		bar := baseBar("ES", 0, 4500, 4501)
		completed, err := aggregator.Process(bar)
		require.NoError(t, err)

		require.Len(t, completed, 1)
		assert.Equal(t, eventmodels.BaseTimeframe, completed[0].Timeframe)
		assert.Equal(t, bar, completed[0].Bar)
	})

	t.Run("multiple timeframes complete on the same tick", func(t *testing.T) {
		aggregator := NewBarAggregator("ES", eventmodels.BaseTimeframe, timeframes, eventmodels.DefaultMaxBufferedBars)

		completedTimeframes := make(map[eventmodels.Timeframe]int)
		for i := 0; i < 7; i++ {
			completed, err := aggregator.Process(baseBar("ES", i, 4500, 4501))
			require.NoError(t, err)

			for _, completedBar := range completed {
				completedTimeframes[completedBar.Timeframe]++
			}
		}

		// 7 base bars: m2 closed on bars 2, 4 and 6; m3 on bars 3 and 6
		assert.Equal(t, 7, completedTimeframes[1])
		assert.Equal(t, 3, completedTimeframes[2])
		assert.Equal(t, 2, completedTimeframes[3])
	})

	t.Run("bar for another symbol is refused", func(t *testing.T) {
		aggregator := NewBarAggregator("ES", eventmodels.BaseTimeframe, timeframes, eventmodels.DefaultMaxBufferedBars)

		_, err := aggregator.Process(baseBar("NQ", 0, 18000, 18001))
		assert.ErrorIs(t, err, eventmodels.SymbolMismatchErr)
	})

	t.Run("invalid bar leaves open periods untouched", func(t *testing.T) {
		aggregator := NewBarAggregator("ES", eventmodels.BaseTimeframe, timeframes, eventmodels.DefaultMaxBufferedBars)

		_, err := aggregator.Process(baseBar("ES", 0, 4500, 4501))
		require.NoError(t, err)

		bad := baseBar("ES", 1, 4501, 4502)
		bad.High = bad.Close - 10

		_, err = aggregator.Process(bad)
		assert.ErrorIs(t, err, eventmodels.InvalidBarErr)

		for _, accumulator := range aggregator.Accumulators() {
			assert.Equal(t, 1, accumulator.BarsBuffered())
		}
	})
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()

	esID := registry.Register("ES", 5)
	nqID := registry.Register("NQ", 5)

	assert.Equal(t, 0, esID)
	assert.Equal(t, 1, nqID)

	// registering an existing pair is idempotent
	assert.Equal(t, esID, registry.Register("ES", 5))
	assert.Equal(t, 2, registry.Len())

	id, found := registry.Lookup("NQ", 5)
	require.True(t, found)
	assert.Equal(t, nqID, id)

	_, found = registry.Lookup("NQ", 15)
	assert.False(t, found)

	assert.Equal(t, PairKey{Symbol: "ES", Timeframe: 5}, registry.Pair(esID))
}
