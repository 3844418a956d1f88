package analytics

import (
	"cmp"
	"slices"

	"github.com/rxtech-lab/argo-analytics/internal/types"
)

// AggregateBySetup groups closed trades by their exact, case-sensitive setup label.
// The result is ordered by win rate descending, ties broken by setup label ascending.
func AggregateBySetup(trades []types.TradeRecord) ([]types.SetupPerformance, error) {
	if err := requireTrades(trades); err != nil {
		return nil, err
	}

	groups := make(map[string]*outcomeTally)

	for _, trade := range closedTrades(trades) {
		tally, ok := groups[trade.SetupType]
		if !ok {
			tally = &outcomeTally{}
			groups[trade.SetupType] = tally
		}

		tally.add(trade)
	}

	result := make([]types.SetupPerformance, 0, len(groups))
	for setupType, tally := range groups {
		result = append(result, types.SetupPerformance{
			SetupType:    setupType,
			TotalTrades:  tally.trades,
			Wins:         tally.wins,
			Losses:       tally.losses,
			WinRate:      round2(tally.winRate()),
			TotalPnL:     round2(tally.pnl),
			ProfitFactor: round2(tally.profitFactor()),
			AverageRR:    round2(tally.averageRR()),
		})
	}

	slices.SortFunc(result, func(a, b types.SetupPerformance) int {
		if c := cmp.Compare(b.WinRate, a.WinRate); c != 0 {
			return c
		}

		return cmp.Compare(a.SetupType, b.SetupType)
	})

	return result, nil
}
