package entities

import (
	"time"

	"github.com/google/uuid"
)

// MenuScan is one user's ingest event. Always created (even when the content
// matched an existing canonical menu), never updated.
type MenuScan struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID          uuid.UUID `gorm:"index:idx_menu_scan_user_image" json:"user_id"`
	MenuRawText     string    `gorm:"type:text" json:"menu_raw_text"`
	ScannedAt       time.Time `gorm:"type:timestamp" json:"scanned_at"`
	RestaurantName  string    `json:"restaurant_name"`
	Location        string    `json:"location"`
	OcrMethod       string    `json:"ocr_method"`
	ImageHash       string    `gorm:"index:idx_menu_scan_user_image;size:64" json:"image_hash"`
	ImageURL        string    `json:"image_url,omitempty"`
	CanonicalMenuID uuid.UUID `gorm:"index" json:"canonical_menu_id"`

	User          *User          `gorm:"foreignKey:UserID"`
	CanonicalMenu *CanonicalMenu `gorm:"foreignKey:CanonicalMenuID"`
}
