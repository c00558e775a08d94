package eventmodels

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Timeframe is a bar period expressed in whole minutes. Any positive minute
// count is valid, including non-divisors of 60 such as m27.
type Timeframe int

// BaseTimeframe is the unit the feed emits. Base bars pass through the
// aggregator unchanged.
const BaseTimeframe Timeframe = 1

func ParseTimeframe(value string) (Timeframe, error) {
	if !strings.HasPrefix(value, "m") {
		return 0, fmt.Errorf("ParseTimeframe: %q: %w", value, UnknownTimeframeErr)
	}

	minutes, err := strconv.Atoi(strings.TrimPrefix(value, "m"))
	if err != nil {
		return 0, fmt.Errorf("ParseTimeframe: %q: %w", value, UnknownTimeframeErr)
	}

	if minutes < 1 {
		return 0, fmt.Errorf("ParseTimeframe: %q: minutes must be positive: %w", value, UnknownTimeframeErr)
	}

	return Timeframe(minutes), nil
}

func (tf Timeframe) Minutes() int {
	return int(tf)
}

func (tf Timeframe) Duration() time.Duration {
	return time.Duration(tf) * time.Minute
}

func (tf Timeframe) String() string {
	return fmt.Sprintf("m%d", int(tf))
}

func (tf *Timeframe) UnmarshalYAML(node *yaml.Node) error {
	var value string
	if err := node.Decode(&value); err != nil {
		return fmt.Errorf("Timeframe.UnmarshalYAML: %w", err)
	}

	parsed, err := ParseTimeframe(value)
	if err != nil {
		return err
	}

	*tf = parsed
	return nil
}

func (tf Timeframe) MarshalYAML() (interface{}, error) {
	return tf.String(), nil
}
