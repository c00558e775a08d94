package eventmodels

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBarValidate(t *testing.T) {
	start := time.Date(2024, 6, 3, 9, 30, 0, 0, time.UTC)

	valid := Bar{
		Symbol:      "ES",
		Timestamp:   start,
		LastUpdated: start.Add(time.Minute),
		Open:        4500,
		High:        4505,
		Low:         4498,
		Close:       4503,
		Volume:      100,
		Complete:    true,
	}

	t.Run("valid bar", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	t.Run("high below close", func(t *testing.T) {
		bar := valid
		bar.High = 4502

		err := bar.Validate()
		assert.True(t, errors.Is(err, InvalidBarErr))
	})

	t.Run("low above open", func(t *testing.T) {
		bar := valid
		bar.Low = 4501

		err := bar.Validate()
		assert.True(t, errors.Is(err, InvalidBarErr))
	})

	t.Run("last updated before period start", func(t *testing.T) {
		bar := valid
		bar.LastUpdated = start.Add(-time.Second)

		err := bar.Validate()
		assert.True(t, errors.Is(err, InvalidBarErr))
	})

	t.Run("negative volume", func(t *testing.T) {
		bar := valid
		bar.Volume = -1

		err := bar.Validate()
		assert.True(t, errors.Is(err, InvalidBarErr))
	})

	t.Run("doji bar where open equals close", func(t *testing.T) {
		bar := valid
		bar.Open = 4500
		bar.Close = 4500
		bar.High = 4500
		bar.Low = 4500

		assert.NoError(t, bar.Validate())
	})
}

func TestParseTimeframe(t *testing.T) {
	t.Run("divisor timeframe", func(t *testing.T) {
		tf, err := ParseTimeframe("m5")
		assert.NoError(t, err)
		assert.Equal(t, 5, tf.Minutes())
		assert.Equal(t, 5*time.Minute, tf.Duration())
		assert.Equal(t, "m5", tf.String())
	})

	t.Run("non-divisor timeframe", func(t *testing.T) {
		tf, err := ParseTimeframe("m27")
		assert.NoError(t, err)
		assert.Equal(t, 27, tf.Minutes())
	})

	t.Run("missing prefix", func(t *testing.T) {
		_, err := ParseTimeframe("5m")
		assert.True(t, errors.Is(err, UnknownTimeframeErr))
	})

	t.Run("zero minutes", func(t *testing.T) {
		_, err := ParseTimeframe("m0")
		assert.True(t, errors.Is(err, UnknownTimeframeErr))
	})
}
