package db

import (
	"time"

	"gorm.io/datatypes"
)

// Event is the append-only audit trail of document writes, including
// system-originated repairs.
type Event struct {
	ID          uint           `gorm:"primaryKey"`
	DocumentKey string         `gorm:"size:64;index;not null"`
	Type        string         `gorm:"size:64;not null"`
	Description string         `gorm:"size:280"`
	Payload     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time      `gorm:"not null"`
}
