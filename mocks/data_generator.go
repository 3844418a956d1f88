package mocks

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-analytics/internal/types"
)

// DataGenerator generates realistic journals and candles for testing and benchmarking.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// CandleConfig configures how candles are generated.
type CandleConfig struct {
	// StartTime is the open time of the first bar
	StartTime time.Time
	// Interval is the duration between each bar
	Interval time.Duration
	// Count is the number of bars to generate
	Count int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement (0.01 = 1% per bar)
	Volatility float64
	// Trend is the drift over the whole series (-0.01 to 0.01 for bearish to bullish)
	Trend float64
}

// JournalConfig configures how trade journals are generated.
type JournalConfig struct {
	Symbol    string
	StartTime time.Time
	// Interval is the average gap between trades
	Interval time.Duration
	Count    int
	// WinRate is the probability of a WIN among closed trades
	WinRate float64
	// OpenRate is the probability that a trade is still OPEN
	OpenRate float64
	// AverageWin and AverageLoss are the typical absolute PnL sizes
	AverageWin  float64
	AverageLoss float64
	Setups      []string
	// PlanRate is the probability that a trade carries a plan and an execution
	PlanRate float64
}

// DefaultCandleConfig returns a sensible default configuration.
func DefaultCandleConfig() CandleConfig {
	return CandleConfig{
		StartTime:    time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC),
		Interval:     time.Minute,
		Count:        10000,
		InitialPrice: 100.0,
		Volatility:   0.002, // 0.2% per bar
		Trend:        0.0,   // neutral
	}
}

// DefaultJournalConfig returns a journal with a slight edge over a few months.
func DefaultJournalConfig() JournalConfig {
	return JournalConfig{
		Symbol:      "EURUSD",
		StartTime:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Interval:    7 * time.Hour,
		Count:       1000,
		WinRate:     0.55,
		OpenRate:    0.05,
		AverageWin:  150,
		AverageLoss: 100,
		Setups:      []string{"order-block", "fvg", "breakout", "liquidity-sweep"},
		PlanRate:    0.5,
	}
}

// GenerateCandles creates OHLC bars following a geometric Brownian motion model.
func (g *DataGenerator) GenerateCandles(config CandleConfig) []types.Candle {
	candles := make([]types.Candle, config.Count)
	currentPrice := config.InitialPrice
	currentTime := config.StartTime

	for i := 0; i < config.Count; i++ {
		open := currentPrice

		// Using Box-Muller transform for normal distribution
		z := g.normal()

		priceChange := config.Volatility * z
		drift := config.Trend / float64(config.Count) // Distribute trend across bars

		close := open * (1 + priceChange + drift)
		if close <= 0 {
			close = open * 0.99 // Prevent negative prices
		}

		// High and low are within the open-close range plus some extension
		highExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)
		lowExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)

		high := math.Max(open, close) + highExtension
		low := math.Min(open, close) - lowExtension
		if low <= 0 {
			low = math.Min(open, close) * 0.99
		}

		candles[i] = types.Candle{
			Time:  currentTime.Unix(),
			Open:  roundToDecimals(open, 4),
			High:  roundToDecimals(high, 4),
			Low:   roundToDecimals(low, 4),
			Close: roundToDecimals(close, 4),
		}

		currentPrice = close
		currentTime = currentTime.Add(config.Interval)
	}

	return candles
}

// GenerateJournal creates trade records in chronological order.
// Losing trades carry a negative PnL and winning trades a positive one.
func (g *DataGenerator) GenerateJournal(config JournalConfig) []types.TradeRecord {
	trades := make([]types.TradeRecord, config.Count)
	currentTime := config.StartTime

	for i := 0; i < config.Count; i++ {
		trade := types.TradeRecord{
			ID:        fmt.Sprintf("trade-%05d", i),
			Date:      currentTime,
			Symbol:    config.Symbol,
			SetupType: config.Setups[g.rng.Intn(len(config.Setups))],
		}

		switch roll := g.rng.Float64(); {
		case roll < config.OpenRate:
			trade.Status = types.TradeStatusOpen
		case g.rng.Float64() < config.WinRate:
			trade.Status = types.TradeStatusWin
			trade.PnL = optional.Some(roundToDecimals(config.AverageWin*(0.5+g.rng.Float64()), 2))
		default:
			trade.Status = types.TradeStatusLoss
			trade.PnL = optional.Some(-roundToDecimals(config.AverageLoss*(0.5+g.rng.Float64()), 2))
		}

		if g.rng.Float64() < 0.8 {
			trade.RiskReward = optional.Some(roundToDecimals(0.5+g.rng.Float64()*3, 2))
		}

		if g.rng.Float64() < 0.6 {
			trade.HoldingTime = optional.Some(float64(5 + g.rng.Intn(240)))
		}

		if g.rng.Float64() < config.PlanRate {
			entry := roundToDecimals(1.05+g.rng.Float64()*0.1, 4)
			plan := types.TradePlan{Entry: entry, Stop: entry - 0.005, Target: entry + 0.01}
			slip := roundToDecimals(g.normal()*0.001, 4)

			trade.TradePlan = optional.Some(plan)
			trade.ActualExecution = optional.Some(types.Execution{
				Entry:  plan.Entry + slip,
				Stop:   plan.Stop,
				Target: plan.Target,
			})
		}

		trades[i] = trade

		// Spread trades unevenly around the configured interval
		gap := time.Duration(float64(config.Interval) * (0.5 + g.rng.Float64()))
		currentTime = currentTime.Add(gap)
	}

	return trades
}

// Generate10KCandles is a convenience function to generate 10,000 candles
// with default settings for benchmarking.
func Generate10KCandles() []types.Candle {
	gen := NewDataGenerator(42) // Fixed seed for reproducibility
	return gen.GenerateCandles(DefaultCandleConfig())
}

// Generate5KJournal generates 5,000 trades with default settings for benchmarking.
func Generate5KJournal() []types.TradeRecord {
	gen := NewDataGenerator(42)
	config := DefaultJournalConfig()
	config.Count = 5000

	return gen.GenerateJournal(config)
}

func (g *DataGenerator) normal() float64 {
	u1 := g.rng.Float64()
	u2 := g.rng.Float64()

	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}
