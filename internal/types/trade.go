package types

import (
	"time"

	"github.com/moznion/go-optional"
)

type TradeStatus string

type Session string

const (
	TradeStatusOpen TradeStatus = "OPEN"
	TradeStatusWin  TradeStatus = "WIN"
	TradeStatusLoss TradeStatus = "LOSS"
)

const (
	SessionAsia    Session = "ASIA"
	SessionLondon  Session = "LONDON"
	SessionNewYork Session = "NEWYORK"
	SessionClose   Session = "CLOSE"
)

// AllSessions lists the trading sessions in reporting order.
var AllSessions = []Session{SessionAsia, SessionLondon, SessionNewYork, SessionClose}

// TradePlan is the trade as it was planned before execution.
type TradePlan struct {
	Entry     float64 `yaml:"entry" json:"entry"`
	Stop      float64 `yaml:"stop" json:"stop"`
	Target    float64 `yaml:"target" json:"target"`
	Reasoning string  `yaml:"reasoning" json:"reasoning"`
}

// Execution is the trade as it was actually placed.
type Execution struct {
	Entry  float64 `yaml:"entry" json:"entry"`
	Stop   float64 `yaml:"stop" json:"stop"`
	Target float64 `yaml:"target" json:"target"`
}

// TradeRecord is a single journal entry. The analytics engine only reads records;
// the journal owns creating and updating them.
type TradeRecord struct {
	ID string
	// Date is the authoritative ordering key for every chronological walk.
	Date      time.Time
	Symbol    string
	SetupType string
	Status    TradeStatus
	// PnL is the realized profit and loss. Absent means 0, see PnLOrZero.
	PnL optional.Option[float64]
	// RiskReward is excluded from averages when absent.
	RiskReward optional.Option[float64]
	// Session overrides the session derived from the UTC hour of Date.
	Session optional.Option[Session]
	// HoldingTime is the holding duration in minutes. Excluded from averages when absent.
	HoldingTime     optional.Option[float64]
	TradePlan       optional.Option[TradePlan]
	ActualExecution optional.Option[Execution]
}

// IsClosed reports whether the trade has a final WIN or LOSS outcome.
func (t TradeRecord) IsClosed() bool {
	return t.Status != TradeStatusOpen
}

// PnLOrZero returns the realized PnL, or 0 when it was never recorded.
func (t TradeRecord) PnLOrZero() float64 {
	return t.PnL.TakeOr(0)
}

// IsValid reports whether s is one of the known trade statuses.
func (s TradeStatus) IsValid() bool {
	switch s {
	case TradeStatusOpen, TradeStatusWin, TradeStatusLoss:
		return true
	default:
		return false
	}
}

// IsValid reports whether s is one of the four trading sessions.
func (s Session) IsValid() bool {
	switch s {
	case SessionAsia, SessionLondon, SessionNewYork, SessionClose:
		return true
	default:
		return false
	}
}
