package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-analytics/internal/config"
	"github.com/rxtech-lab/argo-analytics/internal/journal"
	"github.com/rxtech-lab/argo-analytics/internal/logger"
	"github.com/rxtech-lab/argo-analytics/internal/marketdata"
	"github.com/rxtech-lab/argo-analytics/internal/report"
	"github.com/rxtech-lab/argo-analytics/internal/server"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// resolveConfig loads the --config file when given, then applies any flags that were set.
func resolveConfig(cmd *cli.Command) (config.ReportConfig, error) {
	cfg := config.DefaultConfig()

	if path := cmd.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return config.ReportConfig{}, err
		}

		cfg = loaded
	}

	for _, name := range []string{"journal", "candles", "symbol", "start", "end", "output"} {
		if !cmd.IsSet(name) {
			continue
		}

		switch name {
		case "journal":
			cfg.JournalPath = cmd.String(name)
		case "candles":
			cfg.CandlesPath = optional.Some(cmd.String(name))
		case "symbol":
			cfg.Symbol = cmd.String(name)
		case "start":
			cfg.StartTime = optional.Some(cmd.Timestamp(name))
		case "end":
			cfg.EndTime = optional.Some(cmd.Timestamp(name))
		case "output":
			cfg.OutputPath = cmd.String(name)
		}
	}

	if err := cfg.Validate(); err != nil {
		return config.ReportConfig{}, err
	}

	return cfg, nil
}

func reportAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	return runReport(ctx, cfg, log, cmd.Root().Writer)
}

// runReport builds the report described by cfg, writes it to cfg.OutputPath and prints a summary to out.
func runReport(ctx context.Context, cfg config.ReportConfig, log *logger.Logger, out io.Writer) error {
	filter := journal.Filter{
		Symbol: cfg.Symbol,
		Start:  cfg.StartTime,
		End:    cfg.EndTime,
	}

	opts := []report.Option{report.WithSymbol(cfg.Symbol)}

	if cfg.CandlesPath.IsSome() {
		source, err := marketdata.NewDataSource(log)
		if err != nil {
			return err
		}
		defer source.Close()

		if err := source.Initialize(cfg.CandlesPath.Unwrap()); err != nil {
			return err
		}

		opts = append(opts, report.WithCandles(source, marketdata.Query{
			Symbol: cfg.Symbol,
			Start:  cfg.StartTime,
			End:    cfg.EndTime,
		}))
	}

	service := report.NewService(journal.NewFileSource(cfg.JournalPath, filter), log, opts...)

	result, err := service.Build(ctx)
	if err != nil {
		return err
	}

	if err := report.WriteReport(cfg.OutputPath, result); err != nil {
		return err
	}

	log.Info("Wrote analytics report", zap.String("path", cfg.OutputPath))

	if _, err := fmt.Fprint(out, report.Summary(result)); err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "Report written to %s\n", cfg.OutputPath)

	return err
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	listen := config.DefaultListenAddr

	if path := cmd.String("config"); path != "" {
		cfg, err := config.LoadFromFile(path)
		if err != nil {
			return err
		}

		listen = cfg.ListenAddr
	}

	if cmd.IsSet("listen") {
		listen = cmd.String("listen")
	}

	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, server.NewServer(log), listen)
}

// serve runs api on listen until ctx is done.
func serve(ctx context.Context, api *server.Server, listen string) error {
	if err := api.Start(listen); err != nil {
		return err
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return api.Stop(shutdownCtx)
}
