package models

import (
	"time"

	"finsmar/internal/uuid"

	"gorm.io/gorm"
)

// LocalUserID identifies the single local user this deployment serves.
// Provider connections are scoped to it so a future multi-user migration
// has a column to key on.
const LocalUserID = "finsmar-local-user-01"

// Base contains common columns for all tables
type Base struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}
