package analytics

import (
	"math"

	"github.com/rxtech-lab/argo-analytics/internal/types"
)

// ratioSentinel stands in for an unbounded ratio when the denominator is zero.
const ratioSentinel = 999.0

// round2 rounds half up to two decimals: value×100, round to nearest, ÷100.
// Halves round toward +Inf, so -0.125 becomes -0.12.
func round2(value float64) float64 {
	return math.Floor(value*100+0.5) / 100
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// populationStdDev divides by n, not n-1.
func populationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	m := mean(values)

	variance := 0.0
	for _, v := range values {
		variance += (v - m) * (v - m)
	}

	return math.Sqrt(variance / float64(len(values)))
}

// ratioOrSentinel divides numerator by denominator. A zero denominator
// yields ratioSentinel when the numerator is positive and 0 otherwise.
func ratioOrSentinel(numerator, denominator float64) float64 {
	if denominator == 0 {
		if numerator > 0 {
			return ratioSentinel
		}

		return 0
	}

	return numerator / denominator
}

// outcomeTally accumulates the statistic family shared by the metrics engine
// and every grouped aggregator.
type outcomeTally struct {
	trades int
	wins   int
	losses int
	// profit sums PnL over WIN trades, lossSum over LOSS trades (kept signed).
	profit  float64
	lossSum float64
	pnl     float64
	rrSum   float64
	rrCount int
}

func (t *outcomeTally) add(trade types.TradeRecord) {
	pnl := trade.PnLOrZero()

	t.trades++
	t.pnl += pnl

	switch trade.Status {
	case types.TradeStatusWin:
		t.wins++
		t.profit += pnl
	case types.TradeStatusLoss:
		t.losses++
		t.lossSum += pnl
	}

	if trade.RiskReward.IsSome() {
		t.rrSum += trade.RiskReward.Unwrap()
		t.rrCount++
	}
}

func (t *outcomeTally) totalLoss() float64 {
	return math.Abs(t.lossSum)
}

// winRate is in percent.
func (t *outcomeTally) winRate() float64 {
	if t.trades == 0 {
		return 0
	}

	return float64(t.wins) / float64(t.trades) * 100
}

func (t *outcomeTally) profitFactor() float64 {
	return ratioOrSentinel(t.profit, t.totalLoss())
}

func (t *outcomeTally) averageRR() float64 {
	if t.rrCount == 0 {
		return 0
	}

	return t.rrSum / float64(t.rrCount)
}

// utcHour is the hour bucket used by the session and hourly aggregators.
func utcHour(trade types.TradeRecord) int {
	return trade.Date.UTC().Hour()
}
