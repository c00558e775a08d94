package indicators

import (
	"fmt"
	"math"

	"github.com/quantbeam/live-scanner/src/eventmodels"
)

// Indicator is the incremental-update contract shared by all indicator
// variants. Prepare performs a bulk computation over an entire buffered
// history and returns a dense output aligned 1:1 with the input, using the
// NaN sentinel where the lookback window is not yet full. Update recomputes
// only the value for the most recent bar of the window.
//
// Implementations are pure over the window they are given, so
// Update(bars) == Prepare(bars)[len(bars)-1] holds by construction.
type Indicator interface {
	Name() string
	Period() int
	Prepare(bars []eventmodels.Bar) []float64
	Update(bars []eventmodels.Bar) float64
}

// Sentinel marks output indices where the lookback window is not yet full.
// It is never an error: strategy predicates treat it as "not eligible".
func Sentinel() float64 {
	return math.NaN()
}

func IsSentinel(value float64) bool {
	return math.IsNaN(value)
}

// New builds an indicator from its config. The set of names is closed.
func New(cfg eventmodels.IndicatorConfig) (Indicator, error) {
	if cfg.Period < 1 {
		return nil, fmt.Errorf("indicators.New: period must be positive, got %d", cfg.Period)
	}

	switch cfg.Name {
	case "cci":
		return NewCci(cfg.Period), nil
	case "rsi":
		return NewRsi(cfg.Period), nil
	case "bollinger":
		return NewBollingerBands(cfg.Period, 2.0), nil
	default:
		return nil, fmt.Errorf("indicators.New: %q: %w", cfg.Name, eventmodels.UnknownIndicatorErr)
	}
}

func sentinelSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = Sentinel()
	}

	return out
}
