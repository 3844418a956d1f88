// Package report composes the analytics components into a single report
// for one journal snapshot.
package report

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-analytics/internal/analytics"
	"github.com/rxtech-lab/argo-analytics/internal/logger"
	"github.com/rxtech-lab/argo-analytics/internal/marketdata"
	"github.com/rxtech-lab/argo-analytics/internal/types"
	"github.com/rxtech-lab/argo-analytics/internal/version"
	"github.com/rxtech-lab/argo-analytics/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// TradeSource supplies the journal snapshot a report is built from.
type TradeSource interface {
	Trades(ctx context.Context) ([]types.TradeRecord, error)
}

// CandleSource supplies the candles behind the volume profile.
type CandleSource interface {
	ReadCandles(ctx context.Context, query marketdata.Query) ([]types.Candle, error)
}

type Service struct {
	trades      TradeSource
	candles     CandleSource
	candleQuery marketdata.Query
	symbol      string
	logger      *logger.Logger
	now         func() time.Time
}

type Option func(*Service)

// WithCandles adds a volume profile built from the candles matching query.
func WithCandles(source CandleSource, query marketdata.Query) Option {
	return func(s *Service) {
		s.candles = source
		s.candleQuery = query
	}
}

// WithSymbol records the symbol filter the trade source applies.
func WithSymbol(symbol string) Option {
	return func(s *Service) { s.symbol = symbol }
}

// WithClock replaces time.Now as the report timestamp.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(trades TradeSource, logger *logger.Logger, opts ...Option) *Service {
	service := &Service{
		trades: trades,
		logger: logger,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(service)
	}

	return service
}

// Build loads the current snapshot from the sources and computes the report.
func (s *Service) Build(ctx context.Context) (types.AnalyticsReport, error) {
	trades, err := s.trades.Trades(ctx)
	if err != nil {
		return types.AnalyticsReport{}, errors.Wrap(errors.ErrCodeReportBuildFailed, "failed to load trades", err)
	}

	candles := optional.None[[]types.Candle]()

	if s.candles != nil {
		loaded, err := s.candles.ReadCandles(ctx, s.candleQuery)
		if err != nil {
			return types.AnalyticsReport{}, errors.Wrap(errors.ErrCodeReportBuildFailed, "failed to load candles", err)
		}

		candles = optional.Some(loaded)
	}

	report, err := Compose(ctx, trades, candles, s.now())
	if err != nil {
		return types.AnalyticsReport{}, err
	}

	report.Symbol = s.symbol

	s.logger.Info("Built analytics report",
		zap.String("id", report.ID),
		zap.Int("trades", report.TradeCount),
		zap.Int("open_trades", report.OpenTrades),
		zap.Bool("volume_profile", report.VolumeProfile != nil),
	)

	return report, nil
}

// Compose evaluates every analytics component over one snapshot concurrently.
// The volume profile is only computed when candles are given. The first failing
// component cancels the rest.
func Compose(ctx context.Context, trades []types.TradeRecord, candles optional.Option[[]types.Candle], generatedAt time.Time) (types.AnalyticsReport, error) {
	partition, err := analytics.Partition(trades)
	if err != nil {
		return types.AnalyticsReport{}, err
	}

	report := types.AnalyticsReport{
		ID:            uuid.New().String(),
		EngineVersion: version.GetVersion(),
		GeneratedAt:   generatedAt,
		TradeCount:    len(trades),
		OpenTrades:    len(partition.Open),
	}

	g, gctx := errgroup.WithContext(ctx)

	run := func(name string, component func() error) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			if err := component(); err != nil {
				return errors.Wrapf(errors.ErrCodeReportBuildFailed, err, "failed to compute %s", name)
			}

			return nil
		})
	}

	run("metrics", func() (err error) {
		report.Metrics, err = analytics.CalculateMetrics(trades)
		return err
	})
	run("setup performance", func() (err error) {
		report.Setups, err = analytics.AggregateBySetup(trades)
		return err
	})
	run("session performance", func() (err error) {
		report.Sessions, err = analytics.AggregateBySession(trades)
		return err
	})
	run("hourly performance", func() (err error) {
		report.Hourly, err = analytics.AggregateByHour(trades)
		return err
	})
	run("equity curve", func() (err error) {
		report.EquityCurve, err = analytics.BuildEquityCurve(trades, generatedAt)
		return err
	})
	run("plan comparisons", func() (err error) {
		report.PlanComparisons, err = analytics.ComparePlans(trades)
		return err
	})

	if candles.IsSome() {
		run("volume profile", func() error {
			profile, err := analytics.EstimateVolumeProfile(candles.Unwrap())
			if err != nil {
				return err
			}

			report.VolumeProfile = &profile

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return types.AnalyticsReport{}, err
	}

	return report, nil
}

// WriteReport writes the report as YAML, creating the parent directory if needed.
func WriteReport(path string, report types.AnalyticsReport) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(errors.ErrCodeReportWriteFailed, err, "failed to create directory for %s", path)
		}
	}

	if err := types.WriteAnalyticsReport(path, report); err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to write report", err)
	}

	return nil
}

// ReadReport reads a YAML report and rejects one written by an incompatible engine version.
func ReadReport(path string) (types.AnalyticsReport, error) {
	report, err := types.ReadAnalyticsReport(path)
	if err != nil {
		return types.AnalyticsReport{}, errors.Wrap(errors.ErrCodeReportReadFailed, "failed to read report", err)
	}

	if err := version.CheckReportCompatibility(version.GetVersion(), report.EngineVersion); err != nil {
		return types.AnalyticsReport{}, err
	}

	return report, nil
}
