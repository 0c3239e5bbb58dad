package models

import (
	"time"

	"gorm.io/datatypes"
)

// DailyRanking is one row of a calendar day's top-N runner board. The set for
// a given day is produced atomically by the ranker; a rerun replaces the whole
// day, so (day, rank) and (day, signal) are both unique.
type DailyRanking struct {
	ID   uint64         `gorm:"primaryKey;autoIncrement"`
	Day  datatypes.Date `gorm:"type:date;not null;uniqueIndex:idx_rankings_day_rank,priority:1;uniqueIndex:idx_rankings_day_signal,priority:1"`
	Rank int            `gorm:"not null;uniqueIndex:idx_rankings_day_rank,priority:2"`

	SignalID        string  `gorm:"type:varchar(36);not null;uniqueIndex:idx_rankings_day_signal,priority:2;index"`
	FinalScore      float64 `gorm:"not null"`
	StrategySummary string  `gorm:"type:text"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (DailyRanking) TableName() string {
	return "daily_rankings"
}
