package strategies

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/quantbeam/live-scanner/src/eventmodels"
	"github.com/quantbeam/live-scanner/src/indicators"
)

// Definition is the parameterized shape of a strategy, shared by all of its
// per-symbol instances.
type Definition struct {
	Name         string
	Variant      Variant
	Indicator    string
	ExitBarsHeld int
	Quantity     int
}

func NewDefinition(cfg eventmodels.StrategyConfig) (Definition, error) {
	variant, err := ParseVariant(cfg.Variant)
	if err != nil {
		return Definition{}, fmt.Errorf("NewDefinition: strategy %s: %w", cfg.Name, err)
	}

	return Definition{
		Name:         cfg.Name,
		Variant:      variant,
		Indicator:    cfg.Indicator.Name,
		ExitBarsHeld: cfg.ExitBarsHeld,
		Quantity:     cfg.Quantity,
	}, nil
}

// Instance is one (strategy-definition, symbol) pair. It holds the only
// mutable strategy state: the current position and the count of completed
// bars held since entering it. Entry predicates are never evaluated while in
// a position and exit predicates never while flat, which guarantees at most
// one signal per instance per bar.
type Instance struct {
	definition Definition
	symbol     eventmodels.Symbol
	timeframe  eventmodels.Timeframe
	position   Position
	barsHeld   int
}

func NewInstance(definition Definition, symbol eventmodels.Symbol, timeframe eventmodels.Timeframe) *Instance {
	return &Instance{
		definition: definition,
		symbol:     symbol,
		timeframe:  timeframe,
		position:   PositionFlat,
	}
}

func (i *Instance) Name() string {
	return i.definition.Name
}

func (i *Instance) Symbol() eventmodels.Symbol {
	return i.symbol
}

func (i *Instance) Timeframe() eventmodels.Timeframe {
	return i.timeframe
}

// Indicator names the reading that drives this instance's momentum predicate.
func (i *Instance) Indicator() string {
	return i.definition.Indicator
}

func (i *Instance) Position() Position {
	return i.position
}

func (i *Instance) BarsHeld() int {
	return i.barsHeld
}

// Evaluate inspects the latest snapshot and proposes a signal, or nil. It
// advances the bars-held counter but never changes position: the orchestrator
// applies the transition via Apply once the signal has been accepted.
func (i *Instance) Evaluate(snapshot indicators.Snapshot) *eventmodels.Signal {
	if i.position == PositionFlat {
		return i.checkEntry(snapshot)
	}

	i.barsHeld++
	return i.checkExit()
}

// Apply performs the position transition for a signal Evaluate proposed.
func (i *Instance) Apply(signal *eventmodels.Signal) {
	if signal == nil {
		return
	}

	if i.position == PositionFlat {
		if signal.Action == eventmodels.SignalActionBuy {
			i.position = PositionLong
		} else {
			i.position = PositionShort
		}

		i.barsHeld = 0
		return
	}

	i.position = PositionFlat
	i.barsHeld = 0
}

func (i *Instance) checkEntry(snapshot indicators.Snapshot) *eventmodels.Signal {
	reading, found := snapshot.Readings[i.definition.Indicator]
	if !found {
		log.Warnf("strategy %s: no %s reading for %s %s", i.definition.Name, i.definition.Indicator, i.symbol, i.timeframe)
		return nil
	}

	// sentinel readings mean the lookback window is not yet full; entry is
	// not eligible, never a spurious trigger
	if indicators.IsSentinel(reading.Current) || indicators.IsSentinel(reading.Previous) {
		return nil
	}

	current, previous := snapshot.Current, snapshot.Previous

	switch i.definition.Variant {
	case BullishMomentum:
		bullishCandle := current.Close > current.Open
		higherClose := current.Close > previous.Close
		indicatorRising := reading.Current > reading.Previous

		if bullishCandle && higherClose && indicatorRising {
			reason := fmt.Sprintf("bullish candle + higher close + %s rising (%.1f -> %.1f)",
				i.definition.Indicator, reading.Previous, reading.Current)
			signal := eventmodels.NewSignal(i.symbol, eventmodels.SignalActionBuy, i.definition.Quantity, reason)
			return &signal
		}

	case BearishMomentum:
		bearishCandle := current.Close < current.Open
		lowerClose := current.Close < previous.Close
		indicatorFalling := reading.Current < reading.Previous

		if bearishCandle && lowerClose && indicatorFalling {
			reason := fmt.Sprintf("bearish candle + lower close + %s falling (%.1f -> %.1f)",
				i.definition.Indicator, reading.Previous, reading.Current)
			signal := eventmodels.NewSignal(i.symbol, eventmodels.SignalActionSell, i.definition.Quantity, reason)
			return &signal
		}
	}

	return nil
}

func (i *Instance) checkExit() *eventmodels.Signal {
	if i.barsHeld < i.definition.ExitBarsHeld {
		return nil
	}

	action := eventmodels.SignalActionSell
	if i.position == PositionShort {
		action = eventmodels.SignalActionBuy
	}

	reason := fmt.Sprintf("held for %d bar(s)", i.barsHeld)
	signal := eventmodels.NewSignal(i.symbol, action, i.definition.Quantity, reason)
	return &signal
}
