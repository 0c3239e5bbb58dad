package models

import (
	"time"

	"gorm.io/datatypes"
)

// Strategy mirrors one entry of the in-memory strategy bank so downstream
// consumers can inspect the active configuration. Rows are seeded at startup
// from the bank and never edited at runtime.
type Strategy struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"type:varchar(50);uniqueIndex;not null"`
	Description string `gorm:"type:text"`

	Criteria    datatypes.JSON `gorm:"type:jsonb;not null"`
	Weight      float64        `gorm:"not null"`
	SuccessRate float64        `gorm:"not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Strategy) TableName() string {
	return "strategies"
}
