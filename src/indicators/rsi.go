package indicators

import (
	"github.com/quantbeam/live-scanner/src/eventmodels"
)

// Rsi is Wilder's Relative Strength Index. The smoothing walk always starts
// from the beginning of the supplied window, so prepare and update agree on
// the value for any index given identical input bars.
type Rsi struct {
	period int
}

func NewRsi(period int) *Rsi {
	return &Rsi{period: period}
}

func (r *Rsi) Name() string {
	return "rsi"
}

func (r *Rsi) Period() int {
	return r.period
}

func (r *Rsi) Prepare(bars []eventmodels.Bar) []float64 {
	out := sentinelSeries(len(bars))
	if len(bars) < r.period+1 {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= r.period; i++ {
		gain, loss := priceDelta(bars[i].Close, bars[i-1].Close)
		avgGain += gain
		avgLoss += loss
	}

	avgGain /= float64(r.period)
	avgLoss /= float64(r.period)
	out[r.period] = rsiFromAverages(avgGain, avgLoss)

	for i := r.period + 1; i < len(bars); i++ {
		gain, loss := priceDelta(bars[i].Close, bars[i-1].Close)
		avgGain = (avgGain*(float64(r.period)-1.0) + gain) / float64(r.period)
		avgLoss = (avgLoss*(float64(r.period)-1.0) + loss) / float64(r.period)
		out[i] = rsiFromAverages(avgGain, avgLoss)
	}

	return out
}

func (r *Rsi) Update(bars []eventmodels.Bar) float64 {
	if len(bars) == 0 {
		return Sentinel()
	}

	return r.Prepare(bars)[len(bars)-1]
}

func priceDelta(current, previous float64) (gain, loss float64) {
	delta := current - previous
	if delta > 0 {
		return delta, 0
	}

	return 0, -delta
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}
