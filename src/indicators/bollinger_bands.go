package indicators

import (
	"github.com/montanaflynn/stats"

	"github.com/quantbeam/live-scanner/src/eventmodels"
)

// BollingerBands reports %B: where the typical price sits inside the band,
// 0 at the lower band and 1 at the upper band. A single output value keeps
// the indicator inside the shared prepare/update contract.
type BollingerBands struct {
	period            int
	standardDeviation float64
}

func NewBollingerBands(period int, standardDeviation float64) *BollingerBands {
	return &BollingerBands{
		period:            period,
		standardDeviation: standardDeviation,
	}
}

func (b *BollingerBands) Name() string {
	return "bollinger"
}

func (b *BollingerBands) Period() int {
	return b.period
}

func (b *BollingerBands) Prepare(bars []eventmodels.Bar) []float64 {
	out := sentinelSeries(len(bars))
	for i := range bars {
		out[i] = b.valueAt(bars, i)
	}

	return out
}

func (b *BollingerBands) Update(bars []eventmodels.Bar) float64 {
	if len(bars) == 0 {
		return Sentinel()
	}

	return b.valueAt(bars, len(bars)-1)
}

func (b *BollingerBands) valueAt(bars []eventmodels.Bar, i int) float64 {
	if i < b.period-1 {
		return Sentinel()
	}

	window := bars[i-b.period+1 : i+1]
	typicalPrices := make([]float64, len(window))
	for j, bar := range window {
		typicalPrices[j] = typicalPrice(bar)
	}

	movingAverage, err := stats.Mean(typicalPrices)
	if err != nil {
		return Sentinel()
	}

	sd, err := stats.StandardDeviation(typicalPrices)
	if err != nil {
		return Sentinel()
	}

	upper := movingAverage + (b.standardDeviation * sd)
	lower := movingAverage - (b.standardDeviation * sd)

	if upper == lower {
		// flat window, price sits exactly in the middle of a zero-width band
		return 0.5
	}

	return (typicalPrice(bars[i]) - lower) / (upper - lower)
}
