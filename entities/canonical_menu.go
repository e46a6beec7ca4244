package entities

import (
	"time"

	"github.com/google/uuid"
)

// CanonicalMenu is the single deduplicated representation of one menu's
// content, shared across every user whose scan hashes to the same content.
// Created exactly once per content hash; only FirstScanID is ever backfilled
// after creation.
type CanonicalMenu struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	ContentHash string     `gorm:"uniqueIndex;size:64" json:"content_hash"`
	DishCount   int        `json:"dish_count"`
	FirstScanID *uuid.UUID `json:"first_scan_id,omitempty"`
	CreatedAt   time.Time  `gorm:"type:timestamp" json:"created_at"`

	Dishes []*MenuDish `gorm:"foreignKey:CanonicalMenuID" json:"dishes,omitempty"`
}
