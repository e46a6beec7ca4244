package entities

import (
	"github.com/google/uuid"
)

// MenuDish rows are owned by exactly one CanonicalMenu and are written once,
// at canonical menu creation time. Tags is a JSON-encoded string slice.
type MenuDish struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	CanonicalMenuID uuid.UUID `gorm:"index" json:"canonical_menu_id"`
	DishName        string    `json:"dish_name"`
	Description     string    `gorm:"type:text" json:"description"`
	Price           *float64  `json:"price"`
	Category        string    `json:"category"`
	Tags            string    `gorm:"type:text" json:"tags"`

	CanonicalMenu *CanonicalMenu `gorm:"foreignKey:CanonicalMenuID"`
}
