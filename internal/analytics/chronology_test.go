package analytics

import (
	"testing"

	"github.com/rxtech-lab/argo-analytics/internal/types"
	"github.com/rxtech-lab/argo-analytics/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ChronologyTestSuite struct {
	suite.Suite
}

func TestChronologySuite(t *testing.T) {
	suite.Run(t, new(ChronologyTestSuite))
}

func (suite *ChronologyTestSuite) TestPartitionCountsAddUp() {
	trades := []types.TradeRecord{
		newTrade(types.TradeStatusWin, withID("1")),
		newTrade(types.TradeStatusOpen, withID("2")),
		newTrade(types.TradeStatusLoss, withID("3")),
		newTrade(types.TradeStatusWin, withID("4")),
		newTrade(types.TradeStatusOpen, withID("5")),
	}

	partition, err := Partition(trades)
	suite.Require().NoError(err)
	suite.Len(partition.Winning, 2)
	suite.Len(partition.Losing, 1)
	suite.Len(partition.Open, 2)
	suite.Equal(3, partition.Closed())
	suite.Equal(len(trades), len(partition.Winning)+len(partition.Losing)+len(partition.Open))
	suite.Equal("1", partition.Winning[0].ID)
	suite.Equal("4", partition.Winning[1].ID)
}

func (suite *ChronologyTestSuite) TestPartitionEmptyAndNil() {
	partition, err := Partition([]types.TradeRecord{})
	suite.Require().NoError(err)
	suite.NotNil(partition.Open)
	suite.NotNil(partition.Winning)
	suite.NotNil(partition.Losing)
	suite.Equal(0, partition.Closed())

	_, err = Partition(nil)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidInput))
}

func (suite *ChronologyTestSuite) TestSortByDateIsStableAndCopies() {
	trades := []types.TradeRecord{
		newTrade(types.TradeStatusWin, withID("late"), withDate(day(3))),
		newTrade(types.TradeStatusWin, withID("tie-a"), withDate(day(1))),
		newTrade(types.TradeStatusLoss, withID("early"), withDate(day(0))),
		newTrade(types.TradeStatusLoss, withID("tie-b"), withDate(day(1))),
	}

	sorted := SortByDate(trades)

	ids := make([]string, 0, len(sorted))
	for _, trade := range sorted {
		ids = append(ids, trade.ID)
	}

	suite.Equal([]string{"early", "tie-a", "tie-b", "late"}, ids)
	suite.Equal("late", trades[0].ID)
}
