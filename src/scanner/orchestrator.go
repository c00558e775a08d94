package scanner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/quantbeam/live-scanner/src/eventmodels"
	"github.com/quantbeam/live-scanner/src/eventpubsub"
	"github.com/quantbeam/live-scanner/src/indicators"
	"github.com/quantbeam/live-scanner/src/strategies"
)

// Orchestrator wires the pipeline together: it routes each incoming base bar
// to the symbol's aggregator, routes completed higher-timeframe bars to the
// pair's indicator set, evaluates the strategy instances subscribed to that
// pair, and hands accepted signals to the execution collaborator.
//
// It is single-threaded by design: the feed delivers bars one at a time and
// each bar's cascade runs to completion before the next bar is accepted.
// Historical replay bars and live bars flow through the identical path; the
// only effect of warmup is that indicator readings are still sentinels.
type Orchestrator struct {
	baseTimeframe eventmodels.Timeframe

	feedSymbols map[eventmodels.Symbol]bool
	aggregators map[eventmodels.Symbol]*BarAggregator
	registry    *Registry
	sets        []*indicators.Set
	instances   [][]*strategies.Instance

	executor SignalExecutor

	barsProcessed  int
	signalsEmitted int
}

func NewOrchestrator(cfg *eventmodels.ScannerConfig, executor SignalExecutor) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("NewOrchestrator: %w", err)
	}

	o := &Orchestrator{
		baseTimeframe: cfg.Engine.BaseTimeframe,
		feedSymbols:   make(map[eventmodels.Symbol]bool),
		aggregators:   make(map[eventmodels.Symbol]*BarAggregator),
		registry:      NewRegistry(),
		executor:      executor,
	}

	for _, symbol := range cfg.Feed.Symbols {
		o.feedSymbols[symbol] = true
	}

	timeframes := cfg.TimeframesBySymbol()
	for symbol, symbolTimeframes := range timeframes {
		o.aggregators[symbol] = NewBarAggregator(symbol, o.baseTimeframe, symbolTimeframes, cfg.Engine.MaxBufferedBars)

		for _, timeframe := range symbolTimeframes {
			o.registry.Register(symbol, timeframe)
		}
	}

	// one indicator set per pair, shared by every strategy on that pair
	indicatorConfigs := make([]map[string]eventmodels.IndicatorConfig, o.registry.Len())
	o.instances = make([][]*strategies.Instance, o.registry.Len())

	for _, strategyCfg := range cfg.EnabledStrategies() {
		definition, err := strategies.NewDefinition(strategyCfg)
		if err != nil {
			return nil, fmt.Errorf("NewOrchestrator: %w", err)
		}

		for _, symbol := range strategyCfg.Symbols {
			id, found := o.registry.Lookup(symbol, strategyCfg.Timeframe)
			if !found {
				return nil, fmt.Errorf("NewOrchestrator: no pair registered for %s %s", symbol, strategyCfg.Timeframe)
			}

			if indicatorConfigs[id] == nil {
				indicatorConfigs[id] = make(map[string]eventmodels.IndicatorConfig)
			}

			existing, declared := indicatorConfigs[id][strategyCfg.Indicator.Name]
			if declared && existing.Period != strategyCfg.Indicator.Period {
				return nil, fmt.Errorf("NewOrchestrator: conflicting %s periods for %s %s: %d vs %d",
					strategyCfg.Indicator.Name, symbol, strategyCfg.Timeframe, existing.Period, strategyCfg.Indicator.Period)
			}

			indicatorConfigs[id][strategyCfg.Indicator.Name] = strategyCfg.Indicator

			instance := strategies.NewInstance(definition, symbol, strategyCfg.Timeframe)
			o.instances[id] = append(o.instances[id], instance)

			log.Infof("created strategy instance %s for %s %s", definition.Name, symbol, strategyCfg.Timeframe)
		}
	}

	o.sets = make([]*indicators.Set, o.registry.Len())
	for id := 0; id < o.registry.Len(); id++ {
		pair := o.registry.Pair(id)

		var pairIndicators []indicators.Indicator
		for _, indicatorCfg := range indicatorConfigs[id] {
			indicator, err := indicators.New(indicatorCfg)
			if err != nil {
				return nil, fmt.Errorf("NewOrchestrator: %s %s: %w", pair.Symbol, pair.Timeframe, err)
			}

			pairIndicators = append(pairIndicators, indicator)
		}

		o.sets[id] = indicators.NewSet(pair.Symbol, pair.Timeframe, cfg.Engine.WindowSize, pairIndicators)
	}

	log.Infof("orchestrator initialized: %d symbols, %d pairs, %d strategy instances",
		len(o.aggregators), o.registry.Len(), o.instanceCount())

	return o, nil
}

func (o *Orchestrator) instanceCount() int {
	count := 0
	for _, pairInstances := range o.instances {
		count += len(pairInstances)
	}

	return count
}

func (o *Orchestrator) BarsProcessed() int {
	return o.barsProcessed
}

func (o *Orchestrator) SignalsEmitted() int {
	return o.signalsEmitted
}

// OnBaseBar is the single entry point driven by the feed. A bar for a symbol
// entirely outside the configured universe returns an error: the feed and the
// configuration disagree, and processing must halt. A bar for a feed symbol
// no strategy tracks is logged and dropped; that is a benign gap, not a
// configuration fault.
func (o *Orchestrator) OnBaseBar(bar eventmodels.Bar) error {
	if !o.feedSymbols[bar.Symbol] {
		return fmt.Errorf("Orchestrator.OnBaseBar: %s: %w", bar.Symbol, eventmodels.UnregisteredSymbolErr)
	}

	aggregator, found := o.aggregators[bar.Symbol]
	if !found {
		log.Debugf("dropping bar for untracked symbol %s", bar.Symbol)
		return nil
	}

	completed, err := aggregator.Process(bar)
	if err != nil {
		if errors.Is(err, eventmodels.InvalidBarErr) {
			log.Warnf("rejecting bar from aggregation: %v", err)
			return nil
		}

		return err
	}

	o.barsProcessed++

	for _, completedBar := range completed {
		if completedBar.Timeframe != o.baseTimeframe {
			log.Debugf("completed %s bar for %s: close=%.2f volume=%.0f",
				completedBar.Timeframe, completedBar.Bar.Symbol, completedBar.Bar.Close, completedBar.Bar.Volume)
			eventpubsub.Publish(eventpubsub.NewCompletedBarEvent, completedBar.Bar)
		}

		id, found := o.registry.Lookup(bar.Symbol, completedBar.Timeframe)
		if !found {
			continue
		}

		set := o.sets[id]
		set.OnBar(completedBar.Bar)

		snapshot, ok := set.Snapshot()
		if !ok {
			continue
		}

		for _, instance := range o.instances[id] {
			signal := instance.Evaluate(snapshot)
			if signal == nil {
				continue
			}

			o.emit(instance, *signal)
			instance.Apply(signal)
		}
	}

	return nil
}

// emit hands the signal to the execution collaborator exactly once, by value.
func (o *Orchestrator) emit(instance *strategies.Instance, signal eventmodels.Signal) {
	log.Infof("signal from %s (%s %s): %v", instance.Name(), instance.Symbol(), instance.Timeframe(), signal)

	eventpubsub.Publish(eventpubsub.NewSignalEvent, signal)

	if err := o.executor.Execute(signal); err != nil {
		// fire-and-forget from the scanning core's perspective; retries are
		// the executor's concern
		log.Errorf("executor rejected signal %s: %v", signal.ID, err)
	}

	o.signalsEmitted++
}

// Stats renders the final statistics tables shown on shutdown.
func (o *Orchestrator) Stats() string {
	display := &strings.Builder{}
	p := message.NewPrinter(language.English)

	p.Fprintf(display, "bars processed: %d, signals emitted: %d\n\n", o.barsProcessed, o.signalsEmitted)

	strategyTable := tablewriter.NewWriter(display)
	strategyTable.SetHeader([]string{"Strategy", "Symbol", "Timeframe", "Position", "Bars Held", "Indicator"})
	strategyTable.SetAlignment(tablewriter.ALIGN_CENTER)

	for id, pairInstances := range o.instances {
		for _, instance := range pairInstances {
			reading := "n/a"
			if r, found := o.sets[id].Reading(instance.Indicator()); found && !indicators.IsSentinel(r.Current) {
				reading = fmt.Sprintf("%.2f", r.Current)
			}

			strategyTable.Append([]string{
				instance.Name(),
				string(instance.Symbol()),
				instance.Timeframe().String(),
				instance.Position().String(),
				fmt.Sprintf("%d", instance.BarsHeld()),
				reading,
			})
		}
	}

	strategyTable.Render()

	aggregatorTable := tablewriter.NewWriter(display)
	aggregatorTable.SetHeader([]string{"Symbol", "Timeframe", "Buffered Bars"})
	aggregatorTable.SetAlignment(tablewriter.ALIGN_CENTER)

	for _, aggregator := range o.aggregators {
		for _, accumulator := range aggregator.Accumulators() {
			aggregatorTable.Append([]string{
				string(aggregator.Symbol()),
				accumulator.Timeframe().String(),
				fmt.Sprintf("%d", accumulator.BarsBuffered()),
			})
		}
	}

	aggregatorTable.Render()

	return display.String()
}
