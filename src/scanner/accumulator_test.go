package scanner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantbeam/live-scanner/src/eventmodels"
)

var periodStart = time.Date(2024, 6, 3, 9, 31, 0, 0, time.UTC)

// baseBar builds the i-th one-minute bar of a stream with the given open and
// close; high and low span one point beyond the body.
func baseBar(symbol eventmodels.Symbol, i int, open, close float64) eventmodels.Bar {
	high := open
	if close > high {
		high = close
	}
	low := open
	if close < low {
		low = close
	}

	return eventmodels.Bar{
		Symbol:      symbol,
		Timestamp:   periodStart.Add(time.Duration(i) * time.Minute),
		LastUpdated: periodStart.Add(time.Duration(i+1) * time.Minute),
		Open:        open,
		High:        high + 1,
		Low:         low - 1,
		Close:       close,
		Volume:      100,
		Complete:    true,
	}
}

func TestPeriodAccumulator(t *testing.T) {
	t.Run("exact divisor timeframe", func(t *testing.T) {
		accumulator := NewPeriodAccumulator("ES", 5, eventmodels.DefaultMaxBufferedBars)

		opens := []float64{4500, 4501, 4502, 4503, 4504}
		closes := []float64{4502, 4503, 4504, 4505, 4506}

		for i := range opens {
			completed := accumulator.Add(baseBar("ES", i, opens[i], closes[i]))
			assert.Nil(t, completed, "bar %d must not complete the period", i)
		}

		// the period completes only when the first bar of the next period
		// arrives
		completed := accumulator.Add(baseBar("ES", 5, 4505, 4507))
		require.NotNil(t, completed)

		assert.Equal(t, eventmodels.Symbol("ES"), completed.Symbol)
		assert.Equal(t, 4500.0, completed.Open)
		assert.Equal(t, 4506.0, completed.Close)
		assert.Equal(t, 4507.0, completed.High)
		assert.Equal(t, 4499.0, completed.Low)
		assert.Equal(t, 500.0, completed.Volume)
		assert.Equal(t, periodStart, completed.Timestamp)
		assert.Equal(t, periodStart.Add(5*time.Minute), completed.LastUpdated)
		assert.True(t, completed.Complete)

		// the closing bar opened the next period
		assert.Equal(t, 1, accumulator.BarsBuffered())
	})

	t.Run("non-divisor timeframe", func(t *testing.T) {
		accumulator := NewPeriodAccumulator("NQ", 27, eventmodels.DefaultMaxBufferedBars)

		for i := 0; i < 27; i++ {
			completed := accumulator.Add(baseBar("NQ", i, 18000, 18001))
			assert.Nil(t, completed, "bar %d must not complete the period", i)
		}

		completed := accumulator.Add(baseBar("NQ", 27, 18001, 18002))
		require.NotNil(t, completed)
		assert.Equal(t, 2700.0, completed.Volume)
		assert.Equal(t, periodStart, completed.Timestamp)
		assert.Equal(t, periodStart.Add(27*time.Minute), completed.LastUpdated)
	})

	t.Run("anchor is set by the first observed bar", func(t *testing.T) {
		accumulator := NewPeriodAccumulator("ES", 5, eventmodels.DefaultMaxBufferedBars)

		// stream starts mid-calendar-period; boundaries are anchored to the
		// first bar, not floored to the clock
		first := baseBar("ES", 3, 4500, 4501)
		assert.Nil(t, accumulator.Add(first))

		for i := 4; i < 8; i++ {
			assert.Nil(t, accumulator.Add(baseBar("ES", i, 4500, 4501)))
		}

		completed := accumulator.Add(baseBar("ES", 8, 4500, 4501))
		require.NotNil(t, completed)
		assert.Equal(t, first.Timestamp, completed.Timestamp)
	})

	t.Run("gap in the stream closes the period", func(t *testing.T) {
		accumulator := NewPeriodAccumulator("ES", 5, eventmodels.DefaultMaxBufferedBars)

		assert.Nil(t, accumulator.Add(baseBar("ES", 0, 4500, 4501)))
		assert.Nil(t, accumulator.Add(baseBar("ES", 1, 4501, 4502)))

		// next bar arrives 9 minutes after the anchor: the open period is
		// closed with the two bars it has
		completed := accumulator.Add(baseBar("ES", 9, 4503, 4504))
		require.NotNil(t, completed)
		assert.Equal(t, 200.0, completed.Volume)
		assert.Equal(t, 4502.0, completed.Close)
	})

	t.Run("buffered bars are capped", func(t *testing.T) {
		accumulator := NewPeriodAccumulator("ES", 10, 3)

		opens := []float64{4500, 4501, 4502, 4503, 4504}
		for i := range opens {
			assert.Nil(t, accumulator.Add(baseBar("ES", i, opens[i], opens[i]+1)))
		}

		assert.Equal(t, 3, accumulator.BarsBuffered())

		completed := accumulator.Add(baseBar("ES", 10, 4506, 4507))
		require.NotNil(t, completed)

		// oldest bars were dropped, so the open reflects the earliest
		// retained bar and the volume only the capped window
		assert.Equal(t, 4502.0, completed.Open)
		assert.Equal(t, 300.0, completed.Volume)
	})
}
