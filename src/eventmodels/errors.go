package eventmodels

import "errors"

var (
	// UnregisteredSymbolErr indicates the feed delivered a bar for a symbol
	// entirely outside the configured universe. This is fatal: it means the
	// feed and the configuration disagree.
	UnregisteredSymbolErr = errors.New("symbol is not registered")

	// SymbolMismatchErr indicates a bar was routed to an aggregator owned by
	// a different symbol.
	SymbolMismatchErr = errors.New("bar symbol does not match aggregator symbol")

	// InvalidBarErr indicates a bar violates the OHLC invariants. Such bars
	// are rejected from aggregation and logged; they never corrupt an open
	// period.
	InvalidBarErr = errors.New("bar violates ohlc invariants")

	UnknownTimeframeErr = errors.New("unknown timeframe")
	UnknownVariantErr   = errors.New("unknown strategy variant")
	UnknownIndicatorErr = errors.New("unknown indicator")
)
