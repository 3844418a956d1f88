// Package marketdata loads OHLC candles from parquet or CSV files through DuckDB.
package marketdata

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-analytics/internal/logger"
	"github.com/rxtech-lab/argo-analytics/internal/types"
	"github.com/rxtech-lab/argo-analytics/pkg/errors"
	"go.uber.org/zap"
)

// Query selects the candles of one symbol inside an optional time window.
// An empty Symbol matches every symbol. Start and End are inclusive.
type Query struct {
	Symbol string
	Start  optional.Option[time.Time]
	End    optional.Option[time.Time]
}

// DataSource reads candles from a view named candles with the columns
// time, symbol, open, high, low and close. Extra columns are ignored.
type DataSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDataSource opens an in-memory DuckDB database.
// Call Initialize to attach a candle file before reading.
func NewDataSource(logger *logger.Logger) (*DataSource, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	return &DataSource{
		db:     db,
		logger: logger,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Initialize points the candles view at a parquet or CSV file, replacing any previous one.
func (d *DataSource) Initialize(path string) error {
	d.logger.Debug("Initializing candle data source", zap.String("path", path))

	reader, err := readerFor(path)
	if err != nil {
		return err
	}

	if _, err := d.db.Exec(`DROP VIEW IF EXISTS candles;`); err != nil {
		return errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to drop existing view", err)
	}

	// squirrel has no CREATE VIEW support
	query := fmt.Sprintf(`
		CREATE VIEW candles AS
		SELECT
			CAST(time AS TIMESTAMP) AS time,
			CAST(symbol AS VARCHAR) AS symbol,
			CAST(open AS DOUBLE) AS open,
			CAST(high AS DOUBLE) AS high,
			CAST(low AS DOUBLE) AS low,
			CAST(close AS DOUBLE) AS close
		FROM %s('%s');
	`, reader, strings.ReplaceAll(path, "'", "''"))

	if _, err := d.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to load candles from %s", path)
	}

	return nil
}

func readerFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return "read_parquet", nil
	case ".csv":
		return "read_csv_auto", nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidConfiguration, "unsupported candle file %s, expected .parquet or .csv", path)
	}
}

func (d *DataSource) buildQuery(columns []string, query Query) squirrel.SelectBuilder {
	conditions := squirrel.And{}

	if query.Symbol != "" {
		conditions = append(conditions, squirrel.Eq{"symbol": query.Symbol})
	}

	if query.Start.IsSome() {
		conditions = append(conditions, squirrel.GtOrEq{"time": query.Start.Unwrap()})
	}

	if query.End.IsSome() {
		conditions = append(conditions, squirrel.LtOrEq{"time": query.End.Unwrap()})
	}

	builder := d.sq.Select(columns...).From("candles")
	if len(conditions) > 0 {
		builder = builder.Where(conditions)
	}

	return builder
}

// ReadCandles returns the matching candles ordered by time.
// No match yields an empty, non-nil slice.
func (d *DataSource) ReadCandles(ctx context.Context, query Query) ([]types.Candle, error) {
	sqlQuery, args, err := d.buildQuery([]string{"time", "open", "high", "low", "close"}, query).
		OrderBy("time ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := d.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query candles", err)
	}
	defer rows.Close()

	result := make([]types.Candle, 0, 256)

	for rows.Next() {
		var (
			timestamp              time.Time
			open, high, low, close float64
		)

		if err := rows.Scan(&timestamp, &open, &high, &low, &close); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan candle", err)
		}

		result = append(result, types.Candle{
			Time:  timestamp.Unix(),
			Open:  open,
			High:  high,
			Low:   low,
			Close: close,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating candles", err)
	}

	d.logger.Debug("Read candles",
		zap.String("symbol", query.Symbol),
		zap.Int("count", len(result)),
	)

	return result, nil
}

// Count returns how many candles match the query.
func (d *DataSource) Count(ctx context.Context, query Query) (int, error) {
	sqlQuery, args, err := d.buildQuery([]string{"COUNT(*)"}, query).ToSql()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	var count int
	if err := d.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count candles", err)
	}

	return count, nil
}

// Close releases the database.
func (d *DataSource) Close() error {
	return d.db.Close()
}
