package eventmodels

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWindowSize      = 100
	DefaultMaxBufferedBars = 1440
)

type FeedConfig struct {
	Symbols      []Symbol `yaml:"symbols"`
	ReplayDir    string   `yaml:"replay_dir"`
	WebsocketURL string   `yaml:"websocket_url"`
}

type EngineConfig struct {
	BaseTimeframe   Timeframe `yaml:"base_timeframe"`
	WindowSize      int       `yaml:"window_size"`
	MaxBufferedBars int       `yaml:"max_buffered_bars"`
}

type IndicatorConfig struct {
	Name   string `yaml:"name"`
	Period int    `yaml:"period"`
}

type StrategyConfig struct {
	Name         string          `yaml:"name"`
	Variant      string          `yaml:"variant"`
	Symbols      []Symbol        `yaml:"symbols"`
	Timeframe    Timeframe       `yaml:"timeframe"`
	Indicator    IndicatorConfig `yaml:"indicator"`
	ExitBarsHeld int             `yaml:"exit_bars_held"`
	Quantity     int             `yaml:"quantity"`
	Enabled      *bool           `yaml:"enabled"`
}

// IsEnabled defaults to true when the flag is omitted.
func (s StrategyConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

type ExecutionConfig struct {
	DryRun bool `yaml:"dry_run"`
}

// ScannerConfig is the already-validated in-memory structure the core
// consumes. The cmd layer is responsible for loading it.
type ScannerConfig struct {
	Feed       FeedConfig       `yaml:"feed"`
	Engine     EngineConfig     `yaml:"scanner"`
	Strategies []StrategyConfig `yaml:"strategies"`
	Execution  ExecutionConfig  `yaml:"execution"`
}

func LoadScannerConfig(path string) (*ScannerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadScannerConfig: failed to read %s: %w", path, err)
	}

	var cfg ScannerConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("LoadScannerConfig: failed to parse %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("LoadScannerConfig: %w", err)
	}

	return &cfg, nil
}

func (c *ScannerConfig) applyDefaults() {
	if c.Engine.BaseTimeframe == 0 {
		c.Engine.BaseTimeframe = BaseTimeframe
	}

	if c.Engine.WindowSize == 0 {
		c.Engine.WindowSize = DefaultWindowSize
	}

	if c.Engine.MaxBufferedBars == 0 {
		c.Engine.MaxBufferedBars = DefaultMaxBufferedBars
	}
}

func (c *ScannerConfig) Validate() error {
	if len(c.Feed.Symbols) == 0 {
		return fmt.Errorf("feed config must list at least one symbol")
	}

	feedSymbols := make(map[Symbol]bool)
	for _, symbol := range c.Feed.Symbols {
		feedSymbols[symbol] = true
	}

	if c.Engine.WindowSize < 2 {
		return fmt.Errorf("scanner window_size must be at least 2, got %d", c.Engine.WindowSize)
	}

	if c.Engine.MaxBufferedBars < 1 {
		return fmt.Errorf("scanner max_buffered_bars must be positive, got %d", c.Engine.MaxBufferedBars)
	}

	for _, strategy := range c.Strategies {
		if !strategy.IsEnabled() {
			continue
		}

		if strategy.Name == "" {
			return fmt.Errorf("strategy config is missing a name")
		}

		if len(strategy.Symbols) == 0 {
			return fmt.Errorf("strategy %s lists no symbols", strategy.Name)
		}

		for _, symbol := range strategy.Symbols {
			if !feedSymbols[symbol] {
				return fmt.Errorf("strategy %s references symbol %s which is not in the feed config", strategy.Name, symbol)
			}
		}

		if strategy.Timeframe < 1 {
			return fmt.Errorf("strategy %s has no timeframe", strategy.Name)
		}

		if strategy.Indicator.Name == "" {
			return fmt.Errorf("strategy %s has no indicator", strategy.Name)
		}

		if strategy.Indicator.Period < 1 {
			return fmt.Errorf("strategy %s: indicator period must be positive, got %d", strategy.Name, strategy.Indicator.Period)
		}

		if strategy.ExitBarsHeld < 1 {
			return fmt.Errorf("strategy %s: exit_bars_held must be at least 1, got %d", strategy.Name, strategy.ExitBarsHeld)
		}

		if strategy.Quantity < 1 {
			return fmt.Errorf("strategy %s: quantity must be at least 1, got %d", strategy.Name, strategy.Quantity)
		}
	}

	return nil
}

// EnabledStrategies filters out disabled strategy configs.
func (c *ScannerConfig) EnabledStrategies() []StrategyConfig {
	var out []StrategyConfig
	for _, strategy := range c.Strategies {
		if strategy.IsEnabled() {
			out = append(out, strategy)
		}
	}

	return out
}

// TimeframesBySymbol returns the union of timeframes required for each symbol,
// derived from the enabled strategy configs. Timeframes are sorted ascending
// so aggregator construction is deterministic.
func (c *ScannerConfig) TimeframesBySymbol() map[Symbol][]Timeframe {
	seen := make(map[Symbol]map[Timeframe]bool)
	for _, strategy := range c.EnabledStrategies() {
		for _, symbol := range strategy.Symbols {
			if seen[symbol] == nil {
				seen[symbol] = make(map[Timeframe]bool)
			}

			seen[symbol][strategy.Timeframe] = true
		}
	}

	out := make(map[Symbol][]Timeframe, len(seen))
	for symbol, timeframes := range seen {
		for tf := range timeframes {
			out[symbol] = append(out[symbol], tf)
		}

		sort.Slice(out[symbol], func(i, j int) bool {
			return out[symbol][i] < out[symbol][j]
		})
	}

	return out
}
