package entities

import (
	"github.com/google/uuid"
)

type Transaction struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	OrderID     string    `gorm:"uniqueIndex" json:"order_id"`
	GrossAmount int64     `json:"gross_amount"`
	Status      string    `gorm:"default:pending" json:"status"` // "pending", "settlement", "expire", "cancel"
	SnapToken   string    `json:"snap_token,omitempty"`
	PaymentType string    `json:"payment_type,omitempty"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
