package indicators

import (
	"github.com/quantbeam/live-scanner/src/eventmodels"
)

// Reading is the latest two output values of one indicator.
type Reading struct {
	Current  float64
	Previous float64
}

// Snapshot is what a strategy evaluation sees: the latest two completed bars
// for a (symbol, timeframe) pair and the latest two readings of every
// indicator attached to that pair.
type Snapshot struct {
	Current  eventmodels.Bar
	Previous eventmodels.Bar
	Readings map[string]Reading
}

// Set owns the rolling window of completed bars for one (symbol, timeframe)
// pair and the indicators computed over it. The window is shared across all
// indicators of the pair; its size bounds the per-bar recomputation cost.
type Set struct {
	symbol     eventmodels.Symbol
	timeframe  eventmodels.Timeframe
	windowSize int
	indicators []Indicator
	bars       []eventmodels.Bar
	readings   map[string]Reading
	prepared   bool
}

func NewSet(symbol eventmodels.Symbol, timeframe eventmodels.Timeframe, windowSize int, indicators []Indicator) *Set {
	return &Set{
		symbol:     symbol,
		timeframe:  timeframe,
		windowSize: windowSize,
		indicators: indicators,
		readings:   make(map[string]Reading),
	}
}

func (s *Set) Symbol() eventmodels.Symbol {
	return s.symbol
}

func (s *Set) Timeframe() eventmodels.Timeframe {
	return s.timeframe
}

func (s *Set) Prepared() bool {
	return s.prepared
}

func (s *Set) BarCount() int {
	return len(s.bars)
}

// OnBar routes the first bar ever seen to Prepare and every later bar to
// Update, so warmup history and live bars flow through a single path.
func (s *Set) OnBar(bar eventmodels.Bar) {
	if !s.prepared {
		s.Prepare([]eventmodels.Bar{bar})
		return
	}

	s.Update(bar)
}

// Prepare runs the bulk computation over an entire buffered history. Only the
// most recent windowSize bars are retained.
func (s *Set) Prepare(history []eventmodels.Bar) {
	if len(history) > s.windowSize {
		history = history[len(history)-s.windowSize:]
	}

	s.bars = append(s.bars[:0], history...)

	for _, indicator := range s.indicators {
		series := indicator.Prepare(s.bars)

		reading := Reading{Current: Sentinel(), Previous: Sentinel()}
		if len(series) > 0 {
			reading.Current = series[len(series)-1]
		}
		if len(series) > 1 {
			reading.Previous = series[len(series)-2]
		}

		s.readings[indicator.Name()] = reading
	}

	s.prepared = true
}

// Update appends the latest completed bar, rolls the window, and recomputes
// only the newest value of each indicator. Earlier values are untouched.
func (s *Set) Update(bar eventmodels.Bar) {
	s.bars = append(s.bars, bar)
	if len(s.bars) > s.windowSize {
		s.bars = s.bars[1:]
	}

	for _, indicator := range s.indicators {
		previous := s.readings[indicator.Name()].Current
		s.readings[indicator.Name()] = Reading{
			Current:  indicator.Update(s.bars),
			Previous: previous,
		}
	}
}

// Snapshot returns the evaluation view for strategies. It reports false until
// at least two completed bars are buffered.
func (s *Set) Snapshot() (Snapshot, bool) {
	if len(s.bars) < 2 {
		return Snapshot{}, false
	}

	readings := make(map[string]Reading, len(s.readings))
	for name, reading := range s.readings {
		readings[name] = reading
	}

	return Snapshot{
		Current:  s.bars[len(s.bars)-1],
		Previous: s.bars[len(s.bars)-2],
		Readings: readings,
	}, true
}

// Reading returns the latest values for one indicator by name.
func (s *Set) Reading(name string) (Reading, bool) {
	reading, found := s.readings[name]
	return reading, found
}
