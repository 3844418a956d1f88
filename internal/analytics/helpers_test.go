package analytics

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-analytics/internal/types"
)

var baseDate = time.Date(2024, time.January, 15, 9, 30, 0, 0, time.UTC)

type tradeOption func(*types.TradeRecord)

func withPnL(pnl float64) tradeOption {
	return func(t *types.TradeRecord) { t.PnL = optional.Some(pnl) }
}

func withRR(rr float64) tradeOption {
	return func(t *types.TradeRecord) { t.RiskReward = optional.Some(rr) }
}

func withSetup(setup string) tradeOption {
	return func(t *types.TradeRecord) { t.SetupType = setup }
}

func withSession(session types.Session) tradeOption {
	return func(t *types.TradeRecord) { t.Session = optional.Some(session) }
}

func withHolding(minutes float64) tradeOption {
	return func(t *types.TradeRecord) { t.HoldingTime = optional.Some(minutes) }
}

func withDate(date time.Time) tradeOption {
	return func(t *types.TradeRecord) { t.Date = date }
}

func withID(id string) tradeOption {
	return func(t *types.TradeRecord) { t.ID = id }
}

func withPlan(plan types.TradePlan, actual types.Execution) tradeOption {
	return func(t *types.TradeRecord) {
		t.TradePlan = optional.Some(plan)
		t.ActualExecution = optional.Some(actual)
	}
}

func newTrade(status types.TradeStatus, opts ...tradeOption) types.TradeRecord {
	trade := types.TradeRecord{
		ID:        "trade",
		Date:      baseDate,
		Symbol:    "EURUSD",
		SetupType: "order-block",
		Status:    status,
	}

	for _, opt := range opts {
		opt(&trade)
	}

	return trade
}

func day(n int) time.Time {
	return baseDate.AddDate(0, 0, n)
}

func atHour(hour int) time.Time {
	return time.Date(2024, time.January, 15, hour, 0, 0, 0, time.UTC)
}
