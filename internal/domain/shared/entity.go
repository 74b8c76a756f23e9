package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity provides common fields for all entities.
// IDs are opaque strings: documents created by the storefront's original
// document store carry generated keys that are not UUIDs.
type BaseEntity struct {
	ID        string    `gorm:"type:varchar(64);primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() string {
	return e.ID
}

// Touch sets UpdatedAt to now
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// NewBaseEntity creates a new base entity with generated ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        NewID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewID generates a new entity identifier
func NewID() string {
	return uuid.NewString()
}
