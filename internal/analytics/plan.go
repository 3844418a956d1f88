package analytics

import (
	"math"

	"github.com/rxtech-lab/argo-analytics/internal/types"
	"github.com/shopspring/decimal"
)

// priceTolerance is the absolute price difference under which a planned and
// an executed level count as the same.
var priceTolerance = decimal.RequireFromString("0.001")

const (
	entryWeight  = 30.0
	stopWeight   = 30.0
	targetWeight = 20.0
	lotWeight    = 20.0
)

// ComparePlan scores how closely a trade's execution followed its plan.
// Trades missing either side get the zero comparison.
//
// Lot size is not journaled, so the lot always matches and its deviation is 0.
func ComparePlan(trade types.TradeRecord) types.PlanComparison {
	if trade.TradePlan.IsNone() || trade.ActualExecution.IsNone() {
		return types.PlanComparison{}
	}

	plan := trade.TradePlan.Unwrap()
	actual := trade.ActualExecution.Unwrap()

	comparison := types.PlanComparison{
		EntryMatch:  withinTolerance(actual.Entry, plan.Entry),
		StopMatch:   withinTolerance(actual.Stop, plan.Stop),
		TargetMatch: withinTolerance(actual.Target, plan.Target),
		LotMatch:    true,
	}

	deviation := entryWeight/100*percentDeviation(actual.Entry, plan.Entry) +
		stopWeight/100*percentDeviation(actual.Stop, plan.Stop) +
		targetWeight/100*percentDeviation(actual.Target, plan.Target)
	comparison.Deviation = round2(deviation)

	if comparison.EntryMatch {
		comparison.OverallScore += entryWeight
	}
	if comparison.StopMatch {
		comparison.OverallScore += stopWeight
	}
	if comparison.TargetMatch {
		comparison.OverallScore += targetWeight
	}
	if comparison.LotMatch {
		comparison.OverallScore += lotWeight
	}

	return comparison
}

// ComparePlans compares every trade carrying both a plan and an execution, in input order.
func ComparePlans(trades []types.TradeRecord) ([]types.TradePlanComparison, error) {
	if err := requireTrades(trades); err != nil {
		return nil, err
	}

	result := make([]types.TradePlanComparison, 0)
	for _, trade := range trades {
		if trade.TradePlan.IsNone() || trade.ActualExecution.IsNone() {
			continue
		}

		result = append(result, types.TradePlanComparison{
			TradeID:        trade.ID,
			PlanComparison: ComparePlan(trade),
		})
	}

	return result, nil
}

// withinTolerance compares in decimal so a difference of exactly 0.001 always matches.
// This deliberately differs from the float check |actual-planned| <= 0.001 at the
// boundary: 1.099 against 1.100 matches here, while the float difference lands just
// above 0.001 and fails. Non-finite prices never match.
func withinTolerance(actual, planned float64) bool {
	if !isFinite(actual) || !isFinite(planned) {
		return false
	}

	diff := decimal.NewFromFloat(actual).Sub(decimal.NewFromFloat(planned)).Abs()

	return diff.LessThanOrEqual(priceTolerance)
}

// percentDeviation is 0 when the planned level is 0.
func percentDeviation(actual, planned float64) float64 {
	if planned == 0 {
		return 0
	}

	return math.Abs(actual-planned) / math.Abs(planned) * 100
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
