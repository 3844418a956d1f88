package analytics

import (
	"math"

	"github.com/rxtech-lab/argo-analytics/internal/types"
)

// CalculateMetrics computes portfolio statistics over the closed trades of a snapshot.
// Open trades are ignored. With no closed trades every field is zero.
func CalculateMetrics(trades []types.TradeRecord) (types.PerformanceMetrics, error) {
	if err := requireTrades(trades); err != nil {
		return types.PerformanceMetrics{}, err
	}

	closed := closedTrades(trades)
	if len(closed) == 0 {
		return types.PerformanceMetrics{}, nil
	}

	var tally outcomeTally
	for _, trade := range closed {
		tally.add(trade)
	}

	winRate := tally.winRate()
	totalProfit := tally.profit
	totalLoss := tally.totalLoss()

	averageWin := 0.0
	if tally.wins > 0 {
		averageWin = totalProfit / float64(tally.wins)
	}

	averageLoss := 0.0
	if tally.losses > 0 {
		averageLoss = totalLoss / float64(tally.losses)
	}

	expectancy := averageWin*(winRate/100) - averageLoss*(1-winRate/100)
	largestWin, largestLoss := extremes(closed)
	sharpe, sortino := riskAdjustedReturns(closed)
	walk := walkEquity(SortByDate(closed))

	calmar := 0.0
	recovery := 0.0

	if walk.maxDrawdown != 0 {
		calmar = walk.annualizedReturn / (walk.maxDrawdown / 100)
		recovery = totalProfit / (BaselineEquity * walk.maxDrawdown / 100)
	}

	return types.PerformanceMetrics{
		TotalTrades:          tally.trades,
		WinningTrades:        tally.wins,
		LosingTrades:         tally.losses,
		WinRate:              round2(winRate),
		TotalProfit:          round2(totalProfit),
		TotalLoss:            round2(totalLoss),
		NetProfit:            round2(tally.pnl),
		ProfitFactor:         round2(tally.profitFactor()),
		AverageRR:            round2(tally.averageRR()),
		AverageWin:           round2(averageWin),
		AverageLoss:          round2(averageLoss),
		LargestWin:           round2(largestWin),
		LargestLoss:          round2(largestLoss),
		Expectancy:           round2(expectancy),
		WinLossRatio:         round2(ratioOrSentinel(averageWin, averageLoss)),
		SharpeRatio:          round2(sharpe),
		SortinoRatio:         round2(sortino),
		MaxDrawdown:          round2(walk.maxDrawdown),
		CalmarRatio:          round2(calmar),
		RecoveryFactor:       round2(recovery),
		ConsistencyScore:     round2(consistencyScore(closed)),
		MaxConsecutiveWins:   walk.maxWinStreak,
		MaxConsecutiveLosses: walk.maxLossStreak,
		ConsecutiveWins:      walk.currentWins,
		ConsecutiveLosses:    walk.currentLosses,
	}, nil
}

func extremes(closed []types.TradeRecord) (largestWin, largestLoss float64) {
	seenWin, seenLoss := false, false

	for _, trade := range closed {
		pnl := trade.PnLOrZero()

		switch trade.Status {
		case types.TradeStatusWin:
			if !seenWin || pnl > largestWin {
				largestWin = pnl
				seenWin = true
			}
		case types.TradeStatusLoss:
			if !seenLoss || pnl < largestLoss {
				largestLoss = pnl
				seenLoss = true
			}
		}
	}

	return largestWin, largestLoss
}

// riskAdjustedReturns returns the Sharpe and Sortino ratios of per-trade
// returns measured against BaselineEquity.
func riskAdjustedReturns(closed []types.TradeRecord) (sharpe, sortino float64) {
	returns := make([]float64, 0, len(closed))
	downside := make([]float64, 0, len(closed))

	for _, trade := range closed {
		r := trade.PnLOrZero() / BaselineEquity

		returns = append(returns, r)
		if r < 0 {
			downside = append(downside, r)
		}
	}

	avg := mean(returns)

	if stdDev := populationStdDev(returns); stdDev != 0 {
		sharpe = avg / stdDev
	}

	// A single negative return has zero deviation and falls back to 0 as well.
	if downsideDev := populationStdDev(downside); len(downside) > 0 && downsideDev != 0 {
		sortino = avg / downsideDev
	}

	return sharpe, sortino
}

type equityWalk struct {
	finalEquity      float64
	maxDrawdown      float64
	annualizedReturn float64
	maxWinStreak     int
	maxLossStreak    int
	currentWins      int
	currentLosses    int
}

// walkEquity replays chronologically sorted closed trades from BaselineEquity,
// tracking drawdown and win/loss streaks in a single pass.
func walkEquity(sorted []types.TradeRecord) equityWalk {
	walk := equityWalk{finalEquity: BaselineEquity}
	if len(sorted) == 0 {
		return walk
	}

	equity := BaselineEquity
	peak := BaselineEquity
	winRun, lossRun := 0, 0

	for _, trade := range sorted {
		equity += trade.PnLOrZero()
		if equity > peak {
			peak = equity
		}

		if drawdown := (peak - equity) / peak * 100; drawdown > walk.maxDrawdown {
			walk.maxDrawdown = drawdown
		}

		switch trade.Status {
		case types.TradeStatusWin:
			winRun++
			lossRun = 0
		case types.TradeStatusLoss:
			lossRun++
			winRun = 0
		}

		walk.maxWinStreak = max(walk.maxWinStreak, winRun)
		walk.maxLossStreak = max(walk.maxLossStreak, lossRun)
	}

	walk.finalEquity = equity

	daysSpan := sorted[len(sorted)-1].Date.Sub(sorted[0].Date).Hours() / 24
	daysSpan = math.Max(daysSpan, 1)
	walk.annualizedReturn = (equity - BaselineEquity) / BaselineEquity * 365 / daysSpan

	last := sorted[len(sorted)-1].Status
	streak := 0

	for i := len(sorted) - 1; i >= 0 && sorted[i].Status == last; i-- {
		streak++
	}

	if last == types.TradeStatusWin {
		walk.currentWins = streak
	} else {
		walk.currentLosses = streak
	}

	return walk
}

// consistencyScore penalizes month-to-month variation of the win rate.
func consistencyScore(closed []types.TradeRecord) float64 {
	type monthTally struct {
		trades int
		wins   int
	}

	months := make(map[string]*monthTally)
	order := make([]string, 0)

	for _, trade := range closed {
		key := trade.Date.UTC().Format("2006-01")

		tally, ok := months[key]
		if !ok {
			tally = &monthTally{}
			months[key] = tally
			order = append(order, key)
		}

		tally.trades++
		if trade.Status == types.TradeStatusWin {
			tally.wins++
		}
	}

	rates := make([]float64, 0, len(order))
	for _, key := range order {
		tally := months[key]
		rates = append(rates, float64(tally.wins)/float64(tally.trades)*100)
	}

	return math.Max(0, 100-2*populationStdDev(rates))
}
