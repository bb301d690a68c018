package db

import (
	"time"

	"gorm.io/datatypes"
)

// Document is one game state blob. Payload is the full serialized state; the
// version column is the opaque token compared on every conditional write.
type Document struct {
	ID        uint           `gorm:"primaryKey"`
	Key       string         `gorm:"size:64;uniqueIndex;not null"`
	Version   string         `gorm:"size:64;not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
}
