// Package journal reads trade journals from disk and narrows them to the
// trades a report should cover.
package journal

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-analytics/internal/types"
	"github.com/rxtech-lab/argo-analytics/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// document is the wrapped journal layout. A bare list of entries is accepted as well.
type document struct {
	Trades []Entry `yaml:"trades" json:"trades"`
}

// FormatFromPath picks JSON for .json files and YAML for everything else.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}

	return FormatYAML
}

// Load reads a journal file and returns its trades in file order.
func Load(path string) ([]types.TradeRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrCodeDataNotFound, err, "journal %s does not exist", path)
		}

		return nil, errors.Wrapf(errors.ErrCodeJournalReadFailed, err, "failed to read journal %s", path)
	}

	return Parse(data, FormatFromPath(path))
}

// Parse decodes journal content in the given format.
func Parse(data []byte, format Format) ([]types.TradeRecord, error) {
	var (
		entries []Entry
		err     error
	)

	switch format {
	case FormatJSON:
		entries, err = decodeJSON(data)
	case FormatYAML:
		entries, err = decodeYAML(data)
	default:
		return nil, errors.Newf(errors.ErrCodeJournalParseFailed, "unsupported journal format %q", format)
	}

	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeJournalParseFailed, "failed to parse journal", err)
	}

	return ToRecords(entries)
}

// DecodeEntries decodes a JSON body holding either {"trades": [...]} or a bare list.
func DecodeEntries(data []byte) ([]Entry, error) {
	return decodeJSON(data)
}

func decodeJSON(data []byte) ([]Entry, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []Entry{}, nil
	}

	if trimmed[0] == '[' {
		var entries []Entry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, err
		}

		return entries, nil
	}

	var doc document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, err
	}

	return doc.Trades, nil
}

func decodeYAML(data []byte) ([]Entry, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	if len(root.Content) == 0 {
		return []Entry{}, nil
	}

	node := root.Content[0]
	if node.Kind == yaml.SequenceNode {
		var entries []Entry
		if err := node.Decode(&entries); err != nil {
			return nil, err
		}

		return entries, nil
	}

	var doc document
	if err := node.Decode(&doc); err != nil {
		return nil, err
	}

	return doc.Trades, nil
}

// Write stores trades as a YAML journal in the wrapped layout.
func Write(path string, trades []types.TradeRecord) error {
	doc := document{Trades: make([]Entry, 0, len(trades))}
	for _, trade := range trades {
		doc.Trades = append(doc.Trades, FromRecord(trade))
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return errors.Wrap(errors.ErrCodeJournalWriteFailed, "failed to marshal journal", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(errors.ErrCodeJournalWriteFailed, err, "failed to write journal %s", path)
	}

	return nil
}

// Filter narrows a snapshot. Zero values mean no restriction.
type Filter struct {
	Symbol string
	Start  optional.Option[time.Time]
	End    optional.Option[time.Time]
}

// Apply returns the trades matching the filter in input order. The input is never modified.
// Start and End are inclusive.
func (f Filter) Apply(trades []types.TradeRecord) []types.TradeRecord {
	result := make([]types.TradeRecord, 0, len(trades))

	for _, trade := range trades {
		if f.Symbol != "" && !strings.EqualFold(trade.Symbol, f.Symbol) {
			continue
		}

		if f.Start.IsSome() && trade.Date.Before(f.Start.Unwrap()) {
			continue
		}

		if f.End.IsSome() && trade.Date.After(f.End.Unwrap()) {
			continue
		}

		result = append(result, trade)
	}

	return result
}

// FileSource serves the trades of one journal file, reloading it on every call.
type FileSource struct {
	path   string
	filter Filter
}

func NewFileSource(path string, filter Filter) *FileSource {
	return &FileSource{path: path, filter: filter}
}

// Trades loads the journal and applies the source's filter.
func (s *FileSource) Trades(ctx context.Context) ([]types.TradeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	trades, err := Load(s.path)
	if err != nil {
		return nil, err
	}

	return s.filter.Apply(trades), nil
}
