package journal

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-analytics/internal/types"
	"github.com/rxtech-lab/argo-analytics/pkg/errors"
)

// Entry is the on-disk and on-the-wire shape of a trade record.
// Optional values are pointers so that an absent field differs from a zero one.
type Entry struct {
	ID              string           `yaml:"id,omitempty" json:"id,omitempty"`
	Date            *time.Time       `yaml:"date" json:"date" validate:"required"`
	Symbol          string           `yaml:"symbol" json:"symbol"`
	SetupType       string           `yaml:"setupType" json:"setupType"`
	Status          string           `yaml:"status" json:"status" validate:"required,oneof=OPEN WIN LOSS"`
	PnL             *float64         `yaml:"pnl,omitempty" json:"pnl,omitempty"`
	RiskReward      *float64         `yaml:"riskReward,omitempty" json:"riskReward,omitempty"`
	Session         *string          `yaml:"session,omitempty" json:"session,omitempty" validate:"omitempty,oneof=ASIA LONDON NEWYORK CLOSE"`
	HoldingTime     *float64         `yaml:"holdingTime,omitempty" json:"holdingTime,omitempty"`
	TradePlan       *types.TradePlan `yaml:"tradePlan,omitempty" json:"tradePlan,omitempty"`
	ActualExecution *types.Execution `yaml:"actualExecution,omitempty" json:"actualExecution,omitempty"`
}

// Validate checks the fields the analytics engine relies on.
func (e *Entry) Validate() error {
	validate := validator.New()
	if err := validate.Struct(e); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidTradeRecord, "invalid journal entry", err)
	}

	return nil
}

// ToRecord converts a validated entry into a TradeRecord, generating an ID when missing.
func (e *Entry) ToRecord() types.TradeRecord {
	record := types.TradeRecord{
		ID:              e.ID,
		Symbol:          e.Symbol,
		SetupType:       e.SetupType,
		Status:          types.TradeStatus(e.Status),
		PnL:             fromPointer(e.PnL),
		RiskReward:      fromPointer(e.RiskReward),
		HoldingTime:     fromPointer(e.HoldingTime),
		TradePlan:       fromPointer(e.TradePlan),
		ActualExecution: fromPointer(e.ActualExecution),
	}

	if e.Date != nil {
		record.Date = *e.Date
	}

	if e.Session != nil {
		record.Session = optional.Some(types.Session(*e.Session))
	}

	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	return record
}

// FromRecord converts a TradeRecord back into its wire shape.
func FromRecord(record types.TradeRecord) Entry {
	date := record.Date
	entry := Entry{
		ID:              record.ID,
		Date:            &date,
		Symbol:          record.Symbol,
		SetupType:       record.SetupType,
		Status:          string(record.Status),
		PnL:             toPointer(record.PnL),
		RiskReward:      toPointer(record.RiskReward),
		HoldingTime:     toPointer(record.HoldingTime),
		TradePlan:       toPointer(record.TradePlan),
		ActualExecution: toPointer(record.ActualExecution),
	}

	if record.Session.IsSome() {
		session := string(record.Session.Unwrap())
		entry.Session = &session
	}

	return entry
}

// ToRecords validates every entry and converts them in order.
// A nil slice yields an empty, non-nil result.
func ToRecords(entries []Entry) ([]types.TradeRecord, error) {
	records := make([]types.TradeRecord, 0, len(entries))

	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidTradeRecord, err, "journal entry %d", i)
		}

		records = append(records, entries[i].ToRecord())
	}

	return records, nil
}

func fromPointer[T any](value *T) optional.Option[T] {
	if value == nil {
		return optional.None[T]()
	}

	return optional.Some(*value)
}

func toPointer[T any](value optional.Option[T]) *T {
	if value.IsNone() {
		return nil
	}

	v := value.Unwrap()

	return &v
}
