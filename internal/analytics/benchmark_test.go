package analytics

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-analytics/mocks"
	"github.com/stretchr/testify/suite"
)

// GeneratedDataTestSuite checks invariants over larger generated journals and candle series.
type GeneratedDataTestSuite struct {
	suite.Suite
}

func TestGeneratedDataSuite(t *testing.T) {
	suite.Run(t, new(GeneratedDataTestSuite))
}

func (suite *GeneratedDataTestSuite) TestJournalInvariants() {
	for _, seed := range []int64{1, 2, 3, 42} {
		gen := mocks.NewDataGenerator(seed)
		config := mocks.DefaultJournalConfig()
		config.Count = 400
		// Large losses drive the raw equity walk below zero.
		config.AverageLoss = 900
		config.WinRate = 0.3

		trades := gen.GenerateJournal(config)

		partition, err := Partition(trades)
		suite.Require().NoError(err)
		suite.Equal(len(trades), len(partition.Open)+len(partition.Winning)+len(partition.Losing))

		metrics, err := CalculateMetrics(trades)
		suite.Require().NoError(err)
		suite.Equal(partition.Closed(), metrics.TotalTrades)
		suite.GreaterOrEqual(metrics.WinRate, 0.0)
		suite.LessOrEqual(metrics.WinRate, 100.0)
		suite.GreaterOrEqual(metrics.MaxDrawdown, 0.0)
		suite.GreaterOrEqual(metrics.ConsistencyScore, 0.0)

		curve, err := BuildEquityCurve(trades, time.Unix(0, 0).UTC())
		suite.Require().NoError(err)
		suite.Len(curve, partition.Closed()+1)

		for _, point := range curve {
			suite.GreaterOrEqual(point.Equity, 0.0)
		}

		setups, err := AggregateBySetup(trades)
		suite.Require().NoError(err)

		for i := 0; i+1 < len(setups); i++ {
			suite.GreaterOrEqual(setups[i].WinRate, setups[i+1].WinRate)
			if setups[i].WinRate == setups[i+1].WinRate {
				suite.Less(setups[i].SetupType, setups[i+1].SetupType)
			}
		}

		sessions, err := AggregateBySession(trades)
		suite.Require().NoError(err)

		sessionTotal := 0
		for _, session := range sessions {
			sessionTotal += session.TotalTrades
		}
		suite.Equal(partition.Closed(), sessionTotal)

		hourly, err := AggregateByHour(trades)
		suite.Require().NoError(err)

		hourlyTotal := 0
		for _, hour := range hourly {
			suite.Positive(hour.TotalTrades)
			hourlyTotal += hour.TotalTrades
		}
		suite.Equal(len(trades), hourlyTotal)
	}
}

func (suite *GeneratedDataTestSuite) TestVolumeProfileInvariants() {
	for _, seed := range []int64{1, 7, 99} {
		gen := mocks.NewDataGenerator(seed)
		config := mocks.DefaultCandleConfig()
		config.Count = 500

		result, err := EstimateVolumeProfile(gen.GenerateCandles(config))
		suite.Require().NoError(err)
		suite.Positive(result.TotalVolume)
		suite.LessOrEqual(result.ValueAreaLow, result.POC)
		suite.LessOrEqual(result.POC, result.ValueAreaHigh)
	}
}

func BenchmarkCalculateMetrics(b *testing.B) {
	trades := mocks.Generate5KJournal()

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := CalculateMetrics(trades); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAggregateBySession(b *testing.B) {
	trades := mocks.Generate5KJournal()

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := AggregateBySession(trades); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEstimateVolumeProfile(b *testing.B) {
	candles := mocks.Generate10KCandles()

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := EstimateVolumeProfile(candles); err != nil {
			b.Fatal(err)
		}
	}
}
