package scanner

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/quantbeam/live-scanner/src/eventmodels"
)

// PeriodAccumulator buffers base bars for one (symbol, timeframe) pair and
// emits a completed aggregate when the period boundary is crossed.
//
// The boundary is anchored to the first observed bar, not the calendar: the
// anchor advances by elapsed event time, so a 27-minute period started at
// 09:31 covers 09:31-09:58. A period closes only when the first bar of the
// next period arrives, one base tick after the nominal boundary; completion
// is declared only when it is unambiguous.
type PeriodAccumulator struct {
	symbol          eventmodels.Symbol
	timeframe       eventmodels.Timeframe
	maxBufferedBars int

	anchor    time.Time
	anchorSet bool
	buffer    []eventmodels.Bar
	truncated bool
}

func NewPeriodAccumulator(symbol eventmodels.Symbol, timeframe eventmodels.Timeframe, maxBufferedBars int) *PeriodAccumulator {
	return &PeriodAccumulator{
		symbol:          symbol,
		timeframe:       timeframe,
		maxBufferedBars: maxBufferedBars,
	}
}

func (a *PeriodAccumulator) Timeframe() eventmodels.Timeframe {
	return a.timeframe
}

func (a *PeriodAccumulator) BarsBuffered() int {
	return len(a.buffer)
}

// Add buffers the base bar and returns the completed aggregate for the
// previous period when this bar opens a new one, or nil.
func (a *PeriodAccumulator) Add(bar eventmodels.Bar) *eventmodels.Bar {
	if !a.anchorSet {
		a.anchor = bar.Timestamp
		a.anchorSet = true
		a.append(bar)
		return nil
	}

	elapsed := bar.Timestamp.Sub(a.anchor)
	if elapsed >= a.timeframe.Duration() {
		completed := a.synthesize()

		a.buffer = a.buffer[:0]
		a.truncated = false
		a.anchor = bar.Timestamp
		a.append(bar)

		return &completed
	}

	a.append(bar)
	return nil
}

// append enforces the buffered-bar cap. When the cap is exceeded the oldest
// bar is dropped, which makes the synthesized open/high/low approximate for
// periods longer than the cap; callers needing bit-exact aggregation over
// very long periods must raise max_buffered_bars.
func (a *PeriodAccumulator) append(bar eventmodels.Bar) {
	if len(a.buffer) >= a.maxBufferedBars {
		a.buffer = a.buffer[1:]

		if !a.truncated {
			a.truncated = true
			log.Warnf("%s %s: buffered bars exceeded cap %d, aggregate will be approximate", a.symbol, a.timeframe, a.maxBufferedBars)
		}
	}

	a.buffer = append(a.buffer, bar)
}

func (a *PeriodAccumulator) synthesize() eventmodels.Bar {
	first, last := a.buffer[0], a.buffer[len(a.buffer)-1]

	aggregate := eventmodels.Bar{
		Symbol:      a.symbol,
		Timestamp:   first.Timestamp,
		LastUpdated: last.LastUpdated,
		Open:        first.Open,
		High:        first.High,
		Low:         first.Low,
		Close:       last.Close,
		Complete:    true,
	}

	for _, bar := range a.buffer {
		if bar.High > aggregate.High {
			aggregate.High = bar.High
		}

		if bar.Low < aggregate.Low {
			aggregate.Low = bar.Low
		}

		aggregate.Volume += bar.Volume
	}

	return aggregate
}
