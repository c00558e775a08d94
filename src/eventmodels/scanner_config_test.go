package eventmodels

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const configFixture = `
feed:
  symbols: ["ES", "NQ"]
  replay_dir: "./replay"
strategies:
  - name: bullish-momentum-es
    variant: bullish-momentum
    symbols: ["ES"]
    timeframe: m5
    indicator: { name: cci, period: 15 }
    exit_bars_held: 1
    quantity: 1
  - name: bearish-momentum-nq
    variant: bearish-momentum
    symbols: ["NQ"]
    timeframe: m27
    indicator: { name: cci, period: 20 }
    exit_bars_held: 2
    quantity: 1
    enabled: false
execution:
  dry_run: true
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "scanner.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadScannerConfig(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		cfg, err := LoadScannerConfig(writeConfig(t, configFixture))
		require.NoError(t, err)

		assert.Equal(t, BaseTimeframe, cfg.Engine.BaseTimeframe)
		assert.Equal(t, DefaultWindowSize, cfg.Engine.WindowSize)
		assert.Equal(t, DefaultMaxBufferedBars, cfg.Engine.MaxBufferedBars)
		assert.True(t, cfg.Execution.DryRun)
	})

	t.Run("disabled strategies are filtered", func(t *testing.T) {
		cfg, err := LoadScannerConfig(writeConfig(t, configFixture))
		require.NoError(t, err)

		enabled := cfg.EnabledStrategies()
		require.Len(t, enabled, 1)
		assert.Equal(t, "bullish-momentum-es", enabled[0].Name)
	})

	t.Run("timeframes by symbol only covers enabled strategies", func(t *testing.T) {
		cfg, err := LoadScannerConfig(writeConfig(t, configFixture))
		require.NoError(t, err)

		timeframes := cfg.TimeframesBySymbol()
		require.Len(t, timeframes, 1)
		assert.Equal(t, []Timeframe{5}, timeframes[Symbol("ES")])
	})

	t.Run("strategy symbol outside feed universe fails validation", func(t *testing.T) {
		broken := `
feed:
  symbols: ["ES"]
strategies:
  - name: bullish-momentum-ym
    variant: bullish-momentum
    symbols: ["YM"]
    timeframe: m5
    indicator: { name: cci, period: 15 }
    exit_bars_held: 1
    quantity: 1
`
		_, err := LoadScannerConfig(writeConfig(t, broken))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "YM")
	})

	t.Run("missing feed symbols fails validation", func(t *testing.T) {
		_, err := LoadScannerConfig(writeConfig(t, "feed:\n  symbols: []\n"))
		assert.Error(t, err)
	})

	t.Run("invalid timeframe string fails parse", func(t *testing.T) {
		broken := `
feed:
  symbols: ["ES"]
strategies:
  - name: bad-timeframe
    variant: bullish-momentum
    symbols: ["ES"]
    timeframe: 5min
    indicator: { name: cci, period: 15 }
    exit_bars_held: 1
    quantity: 1
`
		_, err := LoadScannerConfig(writeConfig(t, broken))
		assert.Error(t, err)
	})
}
