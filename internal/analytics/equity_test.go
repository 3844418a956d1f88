package analytics

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-analytics/internal/types"
	"github.com/rxtech-lab/argo-analytics/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type EquityTestSuite struct {
	suite.Suite
	start time.Time
}

func TestEquitySuite(t *testing.T) {
	suite.Run(t, new(EquityTestSuite))
}

func (suite *EquityTestSuite) SetupTest() {
	suite.start = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
}

func (suite *EquityTestSuite) TestEmptyJournalHasBaselinePoint() {
	curve, err := BuildEquityCurve([]types.TradeRecord{}, suite.start)
	suite.Require().NoError(err)
	suite.Equal([]types.EquityPoint{{Date: suite.start, Equity: 10000}}, curve)
}

func (suite *EquityTestSuite) TestNil() {
	_, err := BuildEquityCurve(nil, suite.start)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidInput))
}

func (suite *EquityTestSuite) TestChronologicalClosedTrades() {
	trades := []types.TradeRecord{
		newTrade(types.TradeStatusLoss, withPnL(-300), withDate(day(2))),
		newTrade(types.TradeStatusOpen, withPnL(999), withDate(day(1))),
		newTrade(types.TradeStatusWin, withPnL(500), withDate(day(0))),
		newTrade(types.TradeStatusWin, withDate(day(3))),
	}

	curve, err := BuildEquityCurve(trades, suite.start)
	suite.Require().NoError(err)
	suite.Equal([]types.EquityPoint{
		{Date: suite.start, Equity: 10000},
		{Date: day(0), Equity: 10500},
		{Date: day(2), Equity: 10200},
		{Date: day(3), Equity: 10200},
	}, curve)
}

func (suite *EquityTestSuite) TestEquityClampsAtZero() {
	trades := []types.TradeRecord{
		newTrade(types.TradeStatusLoss, withPnL(-8000), withDate(day(0))),
		newTrade(types.TradeStatusLoss, withPnL(-8000), withDate(day(1))),
		newTrade(types.TradeStatusLoss, withPnL(-1e9), withDate(day(2))),
		newTrade(types.TradeStatusWin, withPnL(500), withDate(day(3))),
	}

	curve, err := BuildEquityCurve(trades, suite.start)
	suite.Require().NoError(err)
	suite.Require().Len(curve, 5)

	for _, point := range curve {
		suite.GreaterOrEqual(point.Equity, 0.0)
	}

	suite.Equal(2000.0, curve[1].Equity)
	suite.Equal(0.0, curve[2].Equity)
	suite.Equal(0.0, curve[3].Equity)
	// recovery starts from the clamped value
	suite.Equal(500.0, curve[4].Equity)
}

func (suite *EquityTestSuite) TestIdempotent() {
	trades := []types.TradeRecord{
		newTrade(types.TradeStatusWin, withPnL(10), withDate(day(1))),
		newTrade(types.TradeStatusLoss, withPnL(-4), withDate(day(1))),
	}
	snapshot := append([]types.TradeRecord(nil), trades...)

	first, err := BuildEquityCurve(trades, suite.start)
	suite.Require().NoError(err)
	second, err := BuildEquityCurve(trades, suite.start)
	suite.Require().NoError(err)

	suite.Equal(first, second)
	suite.Equal(snapshot, trades)
}
