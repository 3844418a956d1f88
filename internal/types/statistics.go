package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// PerformanceMetrics is the portfolio-level summary of all closed trades.
// Every float field is rounded to two decimals.
type PerformanceMetrics struct {
	// Count of closed (WIN or LOSS) trades.
	TotalTrades   int `yaml:"total_trades" json:"total_trades"`
	WinningTrades int `yaml:"winning_trades" json:"winning_trades"`
	LosingTrades  int `yaml:"losing_trades" json:"losing_trades"`
	// Win rate in percent, 0-100.
	WinRate float64 `yaml:"win_rate" json:"win_rate"`
	// Sum of PnL over WIN trades.
	TotalProfit float64 `yaml:"total_profit" json:"total_profit"`
	// Absolute value of the summed PnL over LOSS trades.
	TotalLoss float64 `yaml:"total_loss" json:"total_loss"`
	// Sum of PnL over all closed trades.
	NetProfit float64 `yaml:"net_profit" json:"net_profit"`
	// 999 when there is profit but no loss.
	ProfitFactor float64 `yaml:"profit_factor" json:"profit_factor"`
	AverageRR    float64 `yaml:"average_rr" json:"average_rr"`
	AverageWin   float64 `yaml:"average_win" json:"average_win"`
	AverageLoss  float64 `yaml:"average_loss" json:"average_loss"`
	// Highest PnL among WIN trades.
	LargestWin float64 `yaml:"largest_win" json:"largest_win"`
	// Lowest (most negative) PnL among LOSS trades.
	LargestLoss float64 `yaml:"largest_loss" json:"largest_loss"`
	Expectancy  float64 `yaml:"expectancy" json:"expectancy"`
	// 999 when there are wins but the average loss is zero.
	WinLossRatio float64 `yaml:"win_loss_ratio" json:"win_loss_ratio"`
	SharpeRatio  float64 `yaml:"sharpe_ratio" json:"sharpe_ratio"`
	SortinoRatio float64 `yaml:"sortino_ratio" json:"sortino_ratio"`
	// Maximum peak-to-trough equity decline in percent.
	MaxDrawdown    float64 `yaml:"max_drawdown" json:"max_drawdown"`
	CalmarRatio    float64 `yaml:"calmar_ratio" json:"calmar_ratio"`
	RecoveryFactor float64 `yaml:"recovery_factor" json:"recovery_factor"`
	// 100 minus twice the standard deviation of monthly win rates, floored at 0.
	ConsistencyScore     float64 `yaml:"consistency_score" json:"consistency_score"`
	MaxConsecutiveWins   int     `yaml:"max_consecutive_wins" json:"max_consecutive_wins"`
	MaxConsecutiveLosses int     `yaml:"max_consecutive_losses" json:"max_consecutive_losses"`
	// Current streak. At most one of the pair is non-zero.
	ConsecutiveWins   int `yaml:"consecutive_wins" json:"consecutive_wins"`
	ConsecutiveLosses int `yaml:"consecutive_losses" json:"consecutive_losses"`
}

// SetupPerformance summarizes the closed trades sharing one setup label.
type SetupPerformance struct {
	SetupType    string  `yaml:"setup_type" json:"setup_type"`
	TotalTrades  int     `yaml:"total_trades" json:"total_trades"`
	Wins         int     `yaml:"wins" json:"wins"`
	Losses       int     `yaml:"losses" json:"losses"`
	WinRate      float64 `yaml:"win_rate" json:"win_rate"`
	TotalPnL     float64 `yaml:"total_pnl" json:"total_pnl"`
	ProfitFactor float64 `yaml:"profit_factor" json:"profit_factor"`
	AverageRR    float64 `yaml:"average_rr" json:"average_rr"`
}

// SessionPerformance summarizes the closed trades of one trading session.
type SessionPerformance struct {
	Session      Session `yaml:"session" json:"session"`
	TotalTrades  int     `yaml:"total_trades" json:"total_trades"`
	Wins         int     `yaml:"wins" json:"wins"`
	Losses       int     `yaml:"losses" json:"losses"`
	WinRate      float64 `yaml:"win_rate" json:"win_rate"`
	TotalPnL     float64 `yaml:"total_pnl" json:"total_pnl"`
	ProfitFactor float64 `yaml:"profit_factor" json:"profit_factor"`
	AverageRR    float64 `yaml:"average_rr" json:"average_rr"`
	// UTC hours with the highest and lowest win rate; ties go to the lower hour.
	BestHour  int `yaml:"best_hour" json:"best_hour"`
	WorstHour int `yaml:"worst_hour" json:"worst_hour"`
	// Mean holding time in minutes over trades that recorded one.
	AvgHoldingTime float64 `yaml:"avg_holding_time" json:"avg_holding_time"`
}

// HourlyPerformance summarizes the closed trades of one UTC hour.
type HourlyPerformance struct {
	Hour        int     `yaml:"hour" json:"hour"`
	TotalTrades int     `yaml:"total_trades" json:"total_trades"`
	WinRate     float64 `yaml:"win_rate" json:"win_rate"`
	AverageRR   float64 `yaml:"average_rr" json:"average_rr"`
	TotalPnL    float64 `yaml:"total_pnl" json:"total_pnl"`
}

// EquityPoint is one point of the equity curve.
type EquityPoint struct {
	Date   time.Time `yaml:"date" json:"date"`
	Equity float64   `yaml:"equity" json:"equity"`
}

// PriceLevel is the estimated volume snapped to one bucket price.
type PriceLevel struct {
	Price  float64 `yaml:"price" json:"price"`
	Volume float64 `yaml:"volume" json:"volume"`
}

// VolumeProfileResult is an approximate volume-by-price distribution.
type VolumeProfileResult struct {
	POC           float64 `yaml:"poc" json:"poc"`
	ValueAreaHigh float64 `yaml:"value_area_high" json:"value_area_high"`
	ValueAreaLow  float64 `yaml:"value_area_low" json:"value_area_low"`
	TotalVolume   float64 `yaml:"total_volume" json:"total_volume"`
	// Profile is ordered by ascending price.
	Profile []PriceLevel `yaml:"profile" json:"profile"`
}

// PlanComparison scores how closely an execution followed its plan.
type PlanComparison struct {
	EntryMatch  bool `yaml:"entry_match" json:"entry_match"`
	StopMatch   bool `yaml:"stop_match" json:"stop_match"`
	TargetMatch bool `yaml:"target_match" json:"target_match"`
	// LotMatch is always true when both sides exist; lot size is not journaled.
	LotMatch bool `yaml:"lot_match" json:"lot_match"`
	// Weighted percentage deviation between plan and execution.
	Deviation    float64 `yaml:"deviation" json:"deviation"`
	OverallScore float64 `yaml:"overall_score" json:"overall_score"`
}

// TradePlanComparison ties a PlanComparison to the trade it was computed for.
type TradePlanComparison struct {
	TradeID        string `yaml:"trade_id" json:"trade_id"`
	PlanComparison `yaml:",inline"`
}

// AnalyticsReport bundles every analytics result computed from one journal snapshot.
type AnalyticsReport struct {
	// ID is the unique identifier for this report.
	ID string `yaml:"id" json:"id"`
	// EngineVersion is the version of the engine that computed the report.
	EngineVersion string `yaml:"engine_version" json:"engine_version"`
	// GeneratedAt is when the report was built. It is also the date of the first equity point.
	GeneratedAt time.Time `yaml:"generated_at" json:"generated_at"`
	// Symbol is the symbol filter applied to the journal, empty for all symbols.
	Symbol string `yaml:"symbol,omitempty" json:"symbol,omitempty"`
	// TradeCount is the number of journal records in the snapshot, open trades included.
	TradeCount      int                   `yaml:"trade_count" json:"trade_count"`
	OpenTrades      int                   `yaml:"open_trades" json:"open_trades"`
	Metrics         PerformanceMetrics    `yaml:"metrics" json:"metrics"`
	Setups          []SetupPerformance    `yaml:"setups" json:"setups"`
	Sessions        []SessionPerformance  `yaml:"sessions" json:"sessions"`
	Hourly          []HourlyPerformance   `yaml:"hourly" json:"hourly"`
	EquityCurve     []EquityPoint         `yaml:"equity_curve" json:"equity_curve"`
	PlanComparisons []TradePlanComparison `yaml:"plan_comparisons" json:"plan_comparisons"`
	// VolumeProfile is only present when candles were supplied.
	VolumeProfile *VolumeProfileResult `yaml:"volume_profile,omitempty" json:"volume_profile,omitempty"`
}

// WriteAnalyticsReport writes the report to a YAML file.
func WriteAnalyticsReport(path string, report AnalyticsReport) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal analytics report to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write analytics report to file: %w", err)
	}

	return nil
}

// ReadAnalyticsReport reads a report previously written by WriteAnalyticsReport.
func ReadAnalyticsReport(path string) (AnalyticsReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AnalyticsReport{}, fmt.Errorf("failed to read analytics report file: %w", err)
	}

	var report AnalyticsReport
	if err := yaml.Unmarshal(data, &report); err != nil {
		return AnalyticsReport{}, fmt.Errorf("failed to unmarshal analytics report: %w", err)
	}

	return report, nil
}
