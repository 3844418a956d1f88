// Package analytics turns journal snapshots into performance reports.
//
// Every function here is pure: it reads the slice it is given, never mutates
// it, keeps no state between calls and performs no I/O. Calling a function
// twice with the same snapshot yields identical results, so callers may
// evaluate components in any order or concurrently.
//
// A nil collection is rejected with errors.ErrCodeInvalidInput. An empty
// collection is valid and produces the documented zero values.
package analytics

import (
	"slices"

	"github.com/rxtech-lab/argo-analytics/internal/types"
	"github.com/rxtech-lab/argo-analytics/pkg/errors"
)

// BaselineEquity is the account size every equity walk and per-trade return starts from.
const BaselineEquity = 10000.0

// TradePartition splits a snapshot by outcome.
type TradePartition struct {
	Open    []types.TradeRecord
	Winning []types.TradeRecord
	Losing  []types.TradeRecord
}

// Closed returns the number of WIN and LOSS trades.
func (p TradePartition) Closed() int {
	return len(p.Winning) + len(p.Losing)
}

// Partition splits trades by status, keeping input order inside each group.
// Records with an unknown status land in no group.
func Partition(trades []types.TradeRecord) (TradePartition, error) {
	if trades == nil {
		return TradePartition{}, errors.New(errors.ErrCodeInvalidInput, "trades must not be nil")
	}

	partition := TradePartition{
		Open:    []types.TradeRecord{},
		Winning: []types.TradeRecord{},
		Losing:  []types.TradeRecord{},
	}

	for _, trade := range trades {
		switch trade.Status {
		case types.TradeStatusWin:
			partition.Winning = append(partition.Winning, trade)
		case types.TradeStatusLoss:
			partition.Losing = append(partition.Losing, trade)
		case types.TradeStatusOpen:
			partition.Open = append(partition.Open, trade)
		}
	}

	return partition, nil
}

// SortByDate returns a copy of trades ordered by Date ascending.
// Trades with equal dates keep their relative input order.
// Drawdown, streaks and the equity curve all walk trades in this order.
func SortByDate(trades []types.TradeRecord) []types.TradeRecord {
	sorted := slices.Clone(trades)
	slices.SortStableFunc(sorted, func(a, b types.TradeRecord) int {
		return a.Date.Compare(b.Date)
	})

	return sorted
}

// closedTrades returns the trades with a final outcome, in input order.
func closedTrades(trades []types.TradeRecord) []types.TradeRecord {
	closed := make([]types.TradeRecord, 0, len(trades))
	for _, trade := range trades {
		if trade.IsClosed() {
			closed = append(closed, trade)
		}
	}

	return closed
}

func requireTrades(trades []types.TradeRecord) error {
	if trades == nil {
		return errors.New(errors.ErrCodeInvalidInput, "trades must not be nil")
	}

	return nil
}
