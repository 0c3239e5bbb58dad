package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Signal is one structured trading alert derived from a raw channel message.
// It is created once by the parser, owned exclusively by the orchestrator
// until it reaches a terminal status, and persisted immutably afterwards.
// Money-like values are stored as numeric; derived scores stay float64.
type Signal struct {
	ID         string    `gorm:"type:varchar(36);primaryKey"`
	RawMessage string    `gorm:"type:text;not null"`
	Channel    string    `gorm:"type:varchar(100);not null;index"`
	Timestamp  time.Time `gorm:"type:timestamptz;not null;index"`

	// Parsed fields. Partial extraction is normal; only the absence of both
	// ticker and contract address fails a parse.
	Ticker          *string          `gorm:"type:varchar(10);index"`
	ContractAddress *string          `gorm:"type:varchar(44);index"`
	EntryPrice      *decimal.Decimal `gorm:"type:numeric(30,12)"`
	TargetPrice     *decimal.Decimal `gorm:"type:numeric(30,12)"`
	StopLoss        *decimal.Decimal `gorm:"type:numeric(30,12)"`

	// Enriched fields, best-effort from the provider chain.
	CurrentPrice *decimal.Decimal `gorm:"type:numeric(30,12)"`
	MarketCap    *decimal.Decimal `gorm:"type:numeric(30,2)"`
	Volume24h    *decimal.Decimal `gorm:"type:numeric(30,2)"`
	Liquidity    *decimal.Decimal `gorm:"type:numeric(30,2)"`
	HolderCount  *int64

	// Analysis output.
	ConfidenceScore float64                     `gorm:"not null;default:0"`
	RiskScore       float64                     `gorm:"not null;default:0"`
	RunnerPotential float64                     `gorm:"not null;default:0;index"`
	StrategyMatches datatypes.JSONSlice[string] `gorm:"type:jsonb"`

	Status        SignalStatus                `gorm:"type:varchar(20);not null;index"`
	ProcessingLog datatypes.JSONSlice[string] `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (Signal) TableName() string {
	return "signals"
}

// AdvanceTo moves the signal to the next lifecycle state, enforcing the
// forward-only transition table.
func (s *Signal) AdvanceTo(next SignalStatus) error {
	if !s.Status.CanTransitionTo(next) {
		return fmt.Errorf("illegal signal transition %s -> %s", s.Status, next)
	}
	s.Status = next
	return nil
}

// Trace appends one entry to the processing log. The log is append-only;
// nothing rewrites or reorders existing entries.
func (s *Signal) Trace(format string, args ...any) {
	s.ProcessingLog = append(s.ProcessingLog, fmt.Sprintf(format, args...))
}

// ReceiptDay returns the UTC calendar date the signal was received on,
// which is the grouping key for daily rankings.
func (s *Signal) ReceiptDay() time.Time {
	ts := s.Timestamp.UTC()
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
}
