package analytics

import (
	"slices"

	"github.com/rxtech-lab/argo-analytics/internal/types"
)

// ResolveSession returns the trade's explicit session, or derives one from the
// UTC hour of its date: [0,7) ASIA, [7,12) LONDON, [12,21) NEWYORK, otherwise CLOSE.
func ResolveSession(trade types.TradeRecord) types.Session {
	if trade.Session.IsSome() {
		return trade.Session.Unwrap()
	}

	switch hour := utcHour(trade); {
	case hour < 7:
		return types.SessionAsia
	case hour < 12:
		return types.SessionLondon
	case hour < 21:
		return types.SessionNewYork
	default:
		return types.SessionClose
	}
}

type sessionTally struct {
	outcomeTally
	hours        map[int]*outcomeTally
	holdingSum   float64
	holdingCount int
}

// AggregateBySession summarizes closed trades per trading session.
// Sessions are listed in AllSessions order and sessions without trades are omitted.
func AggregateBySession(trades []types.TradeRecord) ([]types.SessionPerformance, error) {
	if err := requireTrades(trades); err != nil {
		return nil, err
	}

	groups := make(map[types.Session]*sessionTally)

	for _, trade := range closedTrades(trades) {
		session := ResolveSession(trade)

		tally, ok := groups[session]
		if !ok {
			tally = &sessionTally{hours: make(map[int]*outcomeTally)}
			groups[session] = tally
		}

		tally.add(trade)

		hour := utcHour(trade)
		if _, ok := tally.hours[hour]; !ok {
			tally.hours[hour] = &outcomeTally{}
		}
		tally.hours[hour].add(trade)

		if trade.HoldingTime.IsSome() {
			tally.holdingSum += trade.HoldingTime.Unwrap()
			tally.holdingCount++
		}
	}

	result := make([]types.SessionPerformance, 0, len(groups))

	for _, session := range orderedSessions(groups) {
		tally := groups[session]
		bestHour, worstHour := extremeHours(tally.hours)

		avgHolding := 0.0
		if tally.holdingCount > 0 {
			avgHolding = tally.holdingSum / float64(tally.holdingCount)
		}

		result = append(result, types.SessionPerformance{
			Session:        session,
			TotalTrades:    tally.trades,
			Wins:           tally.wins,
			Losses:         tally.losses,
			WinRate:        round2(tally.winRate()),
			TotalPnL:       round2(tally.pnl),
			ProfitFactor:   round2(tally.profitFactor()),
			AverageRR:      round2(tally.averageRR()),
			BestHour:       bestHour,
			WorstHour:      worstHour,
			AvgHoldingTime: round2(avgHolding),
		})
	}

	return result, nil
}

// orderedSessions lists the known sessions first, then any other explicit labels sorted.
func orderedSessions(groups map[types.Session]*sessionTally) []types.Session {
	ordered := make([]types.Session, 0, len(groups))
	for _, session := range types.AllSessions {
		if _, ok := groups[session]; ok {
			ordered = append(ordered, session)
		}
	}

	extra := make([]types.Session, 0)
	for session := range groups {
		if !session.IsValid() {
			extra = append(extra, session)
		}
	}
	slices.Sort(extra)

	return append(ordered, extra...)
}

// extremeHours walks hours ascending with strict comparisons, so ties keep the lowest hour.
func extremeHours(hours map[int]*outcomeTally) (best, worst int) {
	keys := make([]int, 0, len(hours))
	for hour := range hours {
		keys = append(keys, hour)
	}
	slices.Sort(keys)

	if len(keys) == 0 {
		return 0, 0
	}

	best, worst = keys[0], keys[0]
	bestRate := hours[best].winRate()
	worstRate := bestRate

	for _, hour := range keys[1:] {
		rate := hours[hour].winRate()
		if rate > bestRate {
			best, bestRate = hour, rate
		}

		if rate < worstRate {
			worst, worstRate = hour, rate
		}
	}

	return best, worst
}

// hourTally counts every trade in its hour. Win rate and RR come from the closed ones only.
type hourTally struct {
	closed outcomeTally
	trades int
	pnl    float64
}

// AggregateByHour summarizes all trades per UTC hour of their date, open ones included.
// TotalTrades and TotalPnL cover every trade in the hour, WinRate and AverageRR its closed trades.
// Hours without trades are omitted, so callers needing 24 slots must zero-fill.
func AggregateByHour(trades []types.TradeRecord) ([]types.HourlyPerformance, error) {
	if err := requireTrades(trades); err != nil {
		return nil, err
	}

	var hours [24]hourTally
	for _, trade := range trades {
		tally := &hours[utcHour(trade)]
		tally.trades++
		tally.pnl += trade.PnLOrZero()

		if trade.IsClosed() {
			tally.closed.add(trade)
		}
	}

	result := make([]types.HourlyPerformance, 0)

	for hour, tally := range hours {
		if tally.trades == 0 {
			continue
		}

		result = append(result, types.HourlyPerformance{
			Hour:        hour,
			TotalTrades: tally.trades,
			WinRate:     round2(tally.closed.winRate()),
			AverageRR:   round2(tally.closed.averageRR()),
			TotalPnL:    round2(tally.pnl),
		})
	}

	return result, nil
}
