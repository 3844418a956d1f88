package analytics

import (
	"testing"

	"github.com/rxtech-lab/argo-analytics/internal/types"
	"github.com/rxtech-lab/argo-analytics/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type SetupTestSuite struct {
	suite.Suite
}

func TestSetupSuite(t *testing.T) {
	suite.Run(t, new(SetupTestSuite))
}

func (suite *SetupTestSuite) TestGroupsAndOrdering() {
	trades := []types.TradeRecord{
		newTrade(types.TradeStatusWin, withSetup("fvg"), withPnL(30), withRR(2)),
		newTrade(types.TradeStatusLoss, withSetup("fvg"), withPnL(-10), withRR(1)),
		newTrade(types.TradeStatusWin, withSetup("Breakout"), withPnL(50)),
		newTrade(types.TradeStatusWin, withSetup("Breakout"), withPnL(20)),
		newTrade(types.TradeStatusLoss, withSetup("breakout"), withPnL(-15)),
		newTrade(types.TradeStatusLoss, withSetup("choch"), withPnL(-5)),
		newTrade(types.TradeStatusWin, withSetup("choch"), withPnL(25)),
		newTrade(types.TradeStatusOpen, withSetup("liquidity-sweep")),
	}

	result, err := AggregateBySetup(trades)
	suite.Require().NoError(err)
	suite.Require().Len(result, 4)

	suite.Equal("Breakout", result[0].SetupType)
	suite.Equal(100.0, result[0].WinRate)
	suite.Equal(999.0, result[0].ProfitFactor)
	suite.Equal(70.0, result[0].TotalPnL)

	// equal win rates fall back to the label
	suite.Equal("choch", result[1].SetupType)
	suite.Equal("fvg", result[2].SetupType)
	suite.Equal(50.0, result[2].WinRate)
	suite.Equal(3.0, result[2].ProfitFactor)
	suite.Equal(1.5, result[2].AverageRR)
	suite.Equal(1, result[2].Wins)
	suite.Equal(1, result[2].Losses)

	suite.Equal("breakout", result[3].SetupType)
	suite.Equal(0.0, result[3].WinRate)
	suite.Equal(0.0, result[3].ProfitFactor)

	for i := 0; i+1 < len(result); i++ {
		suite.GreaterOrEqual(result[i].WinRate, result[i+1].WinRate)
	}
}

func (suite *SetupTestSuite) TestEmpty() {
	result, err := AggregateBySetup([]types.TradeRecord{})
	suite.Require().NoError(err)
	suite.NotNil(result)
	suite.Empty(result)

	result, err = AggregateBySetup([]types.TradeRecord{newTrade(types.TradeStatusOpen)})
	suite.Require().NoError(err)
	suite.Empty(result)
}

func (suite *SetupTestSuite) TestNil() {
	_, err := AggregateBySetup(nil)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidInput))
}

func (suite *SetupTestSuite) TestIdempotent() {
	trades := []types.TradeRecord{
		newTrade(types.TradeStatusWin, withSetup("a"), withPnL(1)),
		newTrade(types.TradeStatusWin, withSetup("b"), withPnL(1)),
		newTrade(types.TradeStatusWin, withSetup("c"), withPnL(1)),
		newTrade(types.TradeStatusLoss, withSetup("d"), withPnL(-1)),
	}

	first, err := AggregateBySetup(trades)
	suite.Require().NoError(err)

	for range 5 {
		again, err := AggregateBySetup(trades)
		suite.Require().NoError(err)
		suite.Equal(first, again)
	}

	suite.Equal([]string{"a", "b", "c", "d"}, []string{
		first[0].SetupType, first[1].SetupType, first[2].SetupType, first[3].SetupType,
	})
}
