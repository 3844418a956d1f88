package config

import (
	"encoding/json"
	"os"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-analytics/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultOutputPath = "analytics-report.yaml"
	DefaultListenAddr = ":8080"
)

// ReportConfig describes which journal to analyze and where the report goes.
type ReportConfig struct {
	JournalPath string                     `yaml:"journal_path" json:"journal_path" jsonschema:"title=Journal Path,description=Path to the JSON or YAML trade journal,required" validate:"required"`
	CandlesPath optional.Option[string]    `yaml:"candles_path" json:"candles_path" jsonschema:"title=Candles Path,description=Optional parquet or CSV candle file used for the volume profile"`
	Symbol      string                     `yaml:"symbol" json:"symbol" jsonschema:"title=Symbol,description=Only analyze trades on this symbol. Empty means all symbols"`
	StartTime   optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Ignore trades dated before this time"`
	EndTime     optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Ignore trades dated after this time"`
	OutputPath  string                     `yaml:"output_path" json:"output_path" jsonschema:"title=Output Path,description=Where the YAML report is written" validate:"required"`
	ListenAddr  string                     `yaml:"listen_addr" json:"listen_addr" jsonschema:"title=Listen Address,description=Address the HTTP API binds to" validate:"required,hostname_port"`
}

// UnmarshalYAML implements custom unmarshaling for ReportConfig.
func (c *ReportConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type Config struct {
		JournalPath string     `yaml:"journal_path"`
		CandlesPath *string    `yaml:"candles_path"`
		Symbol      string     `yaml:"symbol"`
		StartTime   *time.Time `yaml:"start_time"`
		EndTime     *time.Time `yaml:"end_time"`
		OutputPath  *string    `yaml:"output_path"`
		ListenAddr  *string    `yaml:"listen_addr"`
	}

	var config Config
	if err := unmarshal(&config); err != nil {
		return err
	}

	*c = DefaultConfig()
	c.JournalPath = config.JournalPath
	c.Symbol = config.Symbol

	if config.CandlesPath != nil && *config.CandlesPath != "" {
		c.CandlesPath = optional.Some(*config.CandlesPath)
	}
	if config.StartTime != nil {
		c.StartTime = optional.Some(*config.StartTime)
	}
	if config.EndTime != nil {
		c.EndTime = optional.Some(*config.EndTime)
	}
	if config.OutputPath != nil {
		c.OutputPath = *config.OutputPath
	}
	if config.ListenAddr != nil {
		c.ListenAddr = *config.ListenAddr
	}

	return nil
}

// Validate checks required fields and that the time window is not inverted.
func (c *ReportConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid report config", err)
	}

	if c.StartTime.IsSome() && c.EndTime.IsSome() && c.EndTime.Unwrap().Before(c.StartTime.Unwrap()) {
		return errors.New(errors.ErrCodeInvalidConfiguration, "end_time must not be before start_time")
	}

	return nil
}

// GenerateSchema generates a JSON schema for the ReportConfig
func (c *ReportConfig) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			switch t.String() {
			case "optional.Option[time.Time]":
				return &jsonschema.Schema{Type: "string", Format: "date-time"}
			case "optional.Option[string]":
				return &jsonschema.Schema{Type: "string"}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)
	schema.Title = "analytics-report-config"
	schema.Description = "Configuration schema for the trading analytics report"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the ReportConfig
func (c *ReportConfig) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

// LoadFromFile reads and validates a YAML report config.
func LoadFromFile(path string) (ReportConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ReportConfig{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
	}

	var config ReportConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return ReportConfig{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse config file %s", path)
	}

	if err := config.Validate(); err != nil {
		return ReportConfig{}, err
	}

	return config, nil
}

// DefaultConfig returns a config with the default output path and listen address.
func DefaultConfig() ReportConfig {
	config := EmptyConfig()
	config.OutputPath = DefaultOutputPath
	config.ListenAddr = DefaultListenAddr

	return config
}

// EmptyConfig returns a ReportConfig with every optional field unset.
func EmptyConfig() ReportConfig {
	return ReportConfig{
		CandlesPath: optional.None[string](),
		StartTime:   optional.None[time.Time](),
		EndTime:     optional.None[time.Time](),
	}
}
