package eventmodels

import (
	"fmt"
	"math"
	"time"
)

// Symbol is an opaque instrument identifier, e.g. a continuous-contract code
// such as "ES.c.0". The symbol universe is fixed at startup.
type Symbol string

// Bar is a single OHLCV bar. Timestamp marks the start of the bar's period;
// LastUpdated marks the event time of the last tick that contributed to it.
// A Bar is either a raw base-unit bar from the feed or an aggregate built
// from a contiguous run of base bars for one symbol.
type Bar struct {
	Symbol      Symbol
	Timestamp   time.Time
	LastUpdated time.Time
	Open        float64
	High        float64
	Low         float64
	Close       float64
	Volume      float64
	Complete    bool
}

func (b Bar) Validate() error {
	if b.High < math.Max(b.Open, b.Close) {
		return fmt.Errorf("high %.4f < max(open, close) %.4f: %w", b.High, math.Max(b.Open, b.Close), InvalidBarErr)
	}

	if b.Low > math.Min(b.Open, b.Close) {
		return fmt.Errorf("low %.4f > min(open, close) %.4f: %w", b.Low, math.Min(b.Open, b.Close), InvalidBarErr)
	}

	if b.LastUpdated.Before(b.Timestamp) {
		return fmt.Errorf("last updated %v before period start %v: %w", b.LastUpdated, b.Timestamp, InvalidBarErr)
	}

	if b.Volume < 0 {
		return fmt.Errorf("negative volume %.4f: %w", b.Volume, InvalidBarErr)
	}

	return nil
}
