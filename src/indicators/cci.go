package indicators

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/quantbeam/live-scanner/src/eventmodels"
)

// Cci is the Commodity Channel Index over typical price:
//
//	CCI = (tp - SMA(tp, period)) / (0.015 * mean deviation)
type Cci struct {
	period int
}

func NewCci(period int) *Cci {
	return &Cci{period: period}
}

func (c *Cci) Name() string {
	return "cci"
}

func (c *Cci) Period() int {
	return c.period
}

func (c *Cci) Prepare(bars []eventmodels.Bar) []float64 {
	out := sentinelSeries(len(bars))
	for i := range bars {
		out[i] = c.valueAt(bars, i)
	}

	return out
}

func (c *Cci) Update(bars []eventmodels.Bar) float64 {
	if len(bars) == 0 {
		return Sentinel()
	}

	return c.valueAt(bars, len(bars)-1)
}

func (c *Cci) valueAt(bars []eventmodels.Bar, i int) float64 {
	if i < c.period-1 {
		return Sentinel()
	}

	window := bars[i-c.period+1 : i+1]
	typicalPrices := make([]float64, len(window))
	for j, bar := range window {
		typicalPrices[j] = typicalPrice(bar)
	}

	sma, err := stats.Mean(typicalPrices)
	if err != nil {
		return Sentinel()
	}

	deviations := make([]float64, len(typicalPrices))
	for j, tp := range typicalPrices {
		deviations[j] = math.Abs(tp - sma)
	}

	meanDev, err := stats.Mean(deviations)
	if err != nil {
		return Sentinel()
	}

	if meanDev == 0 {
		return 0
	}

	return (typicalPrice(bars[i]) - sma) / (0.015 * meanDev)
}

func typicalPrice(bar eventmodels.Bar) float64 {
	return (bar.High + bar.Low + bar.Close) / 3.0
}
