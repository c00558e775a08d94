package scanner

import (
	"fmt"

	"github.com/quantbeam/live-scanner/src/eventmodels"
)

// CompletedBar is a bar some timeframe finished on this tick.
type CompletedBar struct {
	Timeframe eventmodels.Timeframe
	Bar       eventmodels.Bar
}

// BarAggregator owns the period accumulators for one symbol. Each symbol has
// exactly one aggregator, so interleaved multi-symbol streams can never
// cross-contaminate.
type BarAggregator struct {
	symbol        eventmodels.Symbol
	baseTimeframe eventmodels.Timeframe
	accumulators  []*PeriodAccumulator
}

func NewBarAggregator(symbol eventmodels.Symbol, baseTimeframe eventmodels.Timeframe, timeframes []eventmodels.Timeframe, maxBufferedBars int) *BarAggregator {
	aggregator := &BarAggregator{
		symbol:        symbol,
		baseTimeframe: baseTimeframe,
	}

	for _, timeframe := range timeframes {
		if timeframe == baseTimeframe {
			continue
		}

		aggregator.accumulators = append(aggregator.accumulators, NewPeriodAccumulator(symbol, timeframe, maxBufferedBars))
	}

	return aggregator
}

func (g *BarAggregator) Symbol() eventmodels.Symbol {
	return g.symbol
}

func (g *BarAggregator) Accumulators() []*PeriodAccumulator {
	return g.accumulators
}

// Process feeds one base bar through every accumulator and returns the bars
// that completed on this tick. The base timeframe always passes the incoming
// bar through unchanged.
//
// An invalid bar is rejected before any accumulator sees it, so a single bad
// tick cannot corrupt an open period.
func (g *BarAggregator) Process(bar eventmodels.Bar) ([]CompletedBar, error) {
	if bar.Symbol != g.symbol {
		return nil, fmt.Errorf("BarAggregator.Process: got %s, want %s: %w", bar.Symbol, g.symbol, eventmodels.SymbolMismatchErr)
	}

	if err := bar.Validate(); err != nil {
		return nil, fmt.Errorf("BarAggregator.Process: %s: %w", g.symbol, err)
	}

	completed := []CompletedBar{{Timeframe: g.baseTimeframe, Bar: bar}}

	for _, accumulator := range g.accumulators {
		if aggregate := accumulator.Add(bar); aggregate != nil {
			completed = append(completed, CompletedBar{
				Timeframe: accumulator.Timeframe(),
				Bar:       *aggregate,
			})
		}
	}

	return completed, nil
}
