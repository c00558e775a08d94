package strategies

import (
	"fmt"

	"github.com/quantbeam/live-scanner/src/eventmodels"
)

// Variant names an entry/exit predicate set. The set is closed: variants are
// evaluated by a switch rather than runtime-loaded types, so every evaluation
// path is statically checkable.
type Variant string

const (
	// BullishMomentum enters long when the candle is bullish, the close
	// makes a higher close, and the driving indicator is rising.
	BullishMomentum Variant = "bullish-momentum"

	// BearishMomentum is the symmetric short variant: bearish candle, lower
	// close, indicator falling.
	BearishMomentum Variant = "bearish-momentum"
)

func ParseVariant(value string) (Variant, error) {
	switch Variant(value) {
	case BullishMomentum, BearishMomentum:
		return Variant(value), nil
	default:
		return "", fmt.Errorf("ParseVariant: %q: %w", value, eventmodels.UnknownVariantErr)
	}
}
