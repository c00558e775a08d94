package eventmodels

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type SignalAction string

const (
	SignalActionBuy  SignalAction = "BUY"
	SignalActionSell SignalAction = "SELL"
)

// Signal is a strategy-produced intent to change position. Signals are
// ephemeral: they are handed to the execution collaborator by value and not
// persisted by this core.
type Signal struct {
	ID        uuid.UUID
	Symbol    Symbol
	Action    SignalAction
	Quantity  int
	Reason    string
	CreatedAt time.Time
}

func NewSignal(symbol Symbol, action SignalAction, quantity int, reason string) Signal {
	return Signal{
		ID:        uuid.New(),
		Symbol:    symbol,
		Action:    action,
		Quantity:  quantity,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
}

func (s Signal) String() string {
	return fmt.Sprintf("%s %d %s (%s)", s.Action, s.Quantity, s.Symbol, s.Reason)
}
