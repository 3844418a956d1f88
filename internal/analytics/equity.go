package analytics

import (
	"math"
	"time"

	"github.com/rxtech-lab/argo-analytics/internal/types"
)

// BuildEquityCurve returns the account equity after each closed trade, in
// chronological order. The first point is {start, BaselineEquity}; passing
// the same start makes repeated calls return identical curves.
//
// Equity is clamped at zero, so a curve never shows a negative balance even
// when the running sum of PnL would go below it.
func BuildEquityCurve(trades []types.TradeRecord, start time.Time) ([]types.EquityPoint, error) {
	if err := requireTrades(trades); err != nil {
		return nil, err
	}

	sorted := SortByDate(closedTrades(trades))
	curve := make([]types.EquityPoint, 0, len(sorted)+1)
	curve = append(curve, types.EquityPoint{Date: start, Equity: BaselineEquity})

	equity := BaselineEquity
	for _, trade := range sorted {
		equity = math.Max(0, equity+trade.PnLOrZero())
		curve = append(curve, types.EquityPoint{Date: trade.Date, Equity: equity})
	}

	return curve, nil
}
