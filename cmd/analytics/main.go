package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/rxtech-lab/argo-analytics/internal/config"
	"github.com/rxtech-lab/argo-analytics/internal/logger"
	"github.com/rxtech-lab/argo-analytics/internal/report"
	"github.com/rxtech-lab/argo-analytics/internal/version"
	"github.com/rxtech-lab/argo-analytics/pkg/errors"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap/zapcore"
)

var timestampLayouts = []string{"2006-01-02", time.RFC3339}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "analytics",
		Usage:   "Performance analytics for a trading journal",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
				Value: "warn",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "report",
				Usage: "Analyze a journal and write a YAML report",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to a YAML report config. Flags override its values",
					},
					&cli.StringFlag{
						Name:    "journal",
						Aliases: []string{"j"},
						Usage:   "Path to the JSON or YAML trade journal",
					},
					&cli.StringFlag{
						Name:  "candles",
						Usage: "Optional parquet or CSV candle file for the volume profile",
					},
					&cli.StringFlag{
						Name:    "symbol",
						Aliases: []string{"s"},
						Usage:   "Only analyze trades on this symbol",
					},
					&cli.TimestampFlag{
						Name:   "start",
						Usage:  "Ignore trades before `YYYY-MM-DD` (or RFC3339)",
						Config: cli.TimestampConfig{Timezone: time.UTC, Layouts: timestampLayouts},
					},
					&cli.TimestampFlag{
						Name:   "end",
						Usage:  "Ignore trades after `YYYY-MM-DD` (or RFC3339)",
						Config: cli.TimestampConfig{Timezone: time.UTC, Layouts: timestampLayouts},
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Where the YAML report is written",
					},
				},
				Action: reportAction,
			},
			{
				Name:  "serve",
				Usage: "Serve the analytics HTTP API",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to a YAML report config providing listen_addr",
					},
					&cli.StringFlag{
						Name:    "listen",
						Aliases: []string{"l"},
						Usage:   "Address to listen on",
					},
				},
				Action: serveAction,
			},
			{
				Name:      "show",
				Usage:     "Print the summary of a previously written report",
				ArgsUsage: "<report.yaml>",
				Action:    showAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the report config",
				Action: schemaAction,
			},
		},
	}
}

// newLogger builds the command logger from the root --log-level flag.
func newLogger(cmd *cli.Command) (*logger.Logger, error) {
	level, err := zapcore.ParseLevel(cmd.String("log-level"))
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	return logger.NewLoggerWithLevel(level)
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	cfg := config.EmptyConfig()

	schema, err := cfg.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	_, err = fmt.Fprintln(cmd.Root().Writer, schema)

	return err
}

func showAction(_ context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return errors.New(errors.ErrCodeMissingParameter, "report path is required")
	}

	result, err := report.ReadReport(path)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(cmd.Root().Writer, report.Summary(result))

	return err
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
