package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rxtech-lab/argo-analytics/internal/types"
	"github.com/shopspring/decimal"
)

// Summary renders the headline numbers of a report as plain text.
func Summary(report types.AnalyticsReport) string {
	var b strings.Builder

	metrics := report.Metrics

	fmt.Fprintf(&b, "Report %s\n", report.ID)
	fmt.Fprintf(&b, "Generated:      %s\n", report.GeneratedAt.UTC().Format("2006-01-02 15:04:05 MST"))

	if report.EngineVersion != "" {
		fmt.Fprintf(&b, "Engine:         %s\n", report.EngineVersion)
	}

	if report.Symbol != "" {
		fmt.Fprintf(&b, "Symbol:         %s\n", report.Symbol)
	}

	fmt.Fprintf(&b, "Trades:         %d closed, %d open\n", metrics.TotalTrades, report.OpenTrades)
	fmt.Fprintf(&b, "Win rate:       %s%%\n", fixed(metrics.WinRate))
	fmt.Fprintf(&b, "Net profit:     %s\n", fixed(metrics.NetProfit))
	fmt.Fprintf(&b, "Profit factor:  %s\n", fixed(metrics.ProfitFactor))
	fmt.Fprintf(&b, "Expectancy:     %s\n", fixed(metrics.Expectancy))
	fmt.Fprintf(&b, "Max drawdown:   %s%%\n", fixed(metrics.MaxDrawdown))
	fmt.Fprintf(&b, "Sharpe ratio:   %s\n", fixed(metrics.SharpeRatio))

	if len(report.EquityCurve) > 0 {
		fmt.Fprintf(&b, "Final equity:   %s\n", fixed(report.EquityCurve[len(report.EquityCurve)-1].Equity))
	}

	if len(report.Setups) > 0 {
		best := report.Setups[0]
		fmt.Fprintf(&b, "Best setup:     %s (%s%% over %d trades)\n", best.SetupType, fixed(best.WinRate), best.TotalTrades)
	}

	if report.VolumeProfile != nil {
		profile := report.VolumeProfile
		fmt.Fprintf(&b, "Volume POC:     %s (value area %s - %s)\n",
			price(profile.POC),
			price(profile.ValueAreaLow),
			price(profile.ValueAreaHigh),
		)
	}

	return b.String()
}

// fixed formats with two decimals. decimal cannot represent NaN or Inf,
// which fall back to strconv.
func fixed(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return strconv.FormatFloat(value, 'f', 2, 64)
	}

	return decimal.NewFromFloat(value).StringFixed(2)
}

// price keeps every significant digit of a bucket price.
func price(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return strconv.FormatFloat(value, 'g', -1, 64)
	}

	return decimal.NewFromFloat(value).String()
}
