package marketdata

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-analytics/internal/logger"
	"github.com/rxtech-lab/argo-analytics/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type DataSourceTestSuite struct {
	suite.Suite
	dataSource *DataSource
	csvPath    string
}

func TestDataSourceSuite(t *testing.T) {
	suite.Run(t, new(DataSourceTestSuite))
}

const candlesCSV = `time,symbol,open,high,low,close,volume
2024-01-02 00:02:00,EURUSD,1.1010,1.1030,1.1000,1.1025,0
2024-01-02 00:00:00,EURUSD,1.1000,1.1020,1.0990,1.1010,0
2024-01-02 00:01:00,EURUSD,1.1010,1.1015,1.1005,1.1010,0
2024-01-02 00:00:00,GBPUSD,1.2700,1.2720,1.2690,1.2710,0
`

func (suite *DataSourceTestSuite) SetupTest() {
	dir := suite.T().TempDir()
	suite.csvPath = filepath.Join(dir, "candles.csv")
	suite.Require().NoError(os.WriteFile(suite.csvPath, []byte(candlesCSV), 0644))

	dataSource, err := NewDataSource(logger.NewNopLogger())
	suite.Require().NoError(err)
	suite.dataSource = dataSource
}

func (suite *DataSourceTestSuite) TearDownTest() {
	suite.NoError(suite.dataSource.Close())
}

func (suite *DataSourceTestSuite) TestReadCandlesOrderedByTime() {
	suite.Require().NoError(suite.dataSource.Initialize(suite.csvPath))

	candles, err := suite.dataSource.ReadCandles(context.Background(), Query{Symbol: "EURUSD"})
	suite.Require().NoError(err)
	suite.Require().Len(candles, 3)

	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC).Unix()
	suite.Equal(base, candles[0].Time)
	suite.Equal(base+60, candles[1].Time)
	suite.Equal(base+120, candles[2].Time)
	suite.InDelta(1.1000, candles[0].Open, 1e-12)
	suite.InDelta(1.1020, candles[0].High, 1e-12)
	suite.InDelta(1.0990, candles[0].Low, 1e-12)
	suite.InDelta(1.1010, candles[0].Close, 1e-12)
}

func (suite *DataSourceTestSuite) TestReadCandlesTimeWindow() {
	suite.Require().NoError(suite.dataSource.Initialize(suite.csvPath))

	query := Query{
		Symbol: "EURUSD",
		Start:  optional.Some(time.Date(2024, 1, 2, 0, 1, 0, 0, time.UTC)),
		End:    optional.Some(time.Date(2024, 1, 2, 0, 1, 30, 0, time.UTC)),
	}

	candles, err := suite.dataSource.ReadCandles(context.Background(), query)
	suite.Require().NoError(err)
	suite.Require().Len(candles, 1)
	suite.Equal(time.Date(2024, 1, 2, 0, 1, 0, 0, time.UTC).Unix(), candles[0].Time)

	count, err := suite.dataSource.Count(context.Background(), query)
	suite.Require().NoError(err)
	suite.Equal(1, count)
}

func (suite *DataSourceTestSuite) TestCountAllSymbols() {
	suite.Require().NoError(suite.dataSource.Initialize(suite.csvPath))

	count, err := suite.dataSource.Count(context.Background(), Query{})
	suite.Require().NoError(err)
	suite.Equal(4, count)
}

func (suite *DataSourceTestSuite) TestNoMatchIsEmpty() {
	suite.Require().NoError(suite.dataSource.Initialize(suite.csvPath))

	candles, err := suite.dataSource.ReadCandles(context.Background(), Query{Symbol: "USDJPY"})
	suite.Require().NoError(err)
	suite.NotNil(candles)
	suite.Empty(candles)
}

func (suite *DataSourceTestSuite) TestInitializeErrors() {
	err := suite.dataSource.Initialize(filepath.Join(suite.T().TempDir(), "candles.txt"))
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	err = suite.dataSource.Initialize(filepath.Join(suite.T().TempDir(), "missing.csv"))
	suite.True(errors.HasCode(err, errors.ErrCodeDataSourceUnavailable))
}

func (suite *DataSourceTestSuite) TestReadBeforeInitialize() {
	_, err := suite.dataSource.ReadCandles(context.Background(), Query{})
	suite.True(errors.HasCode(err, errors.ErrCodeQueryFailed))
}
