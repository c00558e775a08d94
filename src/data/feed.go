package data

import (
	"context"

	"github.com/quantbeam/live-scanner/src/eventmodels"
)

// BarHandler consumes one base bar. A non-nil error halts the feed.
type BarHandler func(bar eventmodels.Bar) error

// Feed delivers base bars to the handler one at a time, in event-time order,
// until the source is exhausted or the context is canceled. Replay and live
// feeds satisfy the same interface so the scanning core cannot tell warmup
// history from live data.
type Feed interface {
	Run(ctx context.Context, handler BarHandler) error
}
