package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification types emitted by the order generator
const (
	NotificationOrdersGenerated = "ORDERS_GENERATED"
	NotificationIncomingOrders  = "INCOMING_ORDERS"
)

// Notification is an in-app message for a user. Writes are best-effort: a
// failed notification is logged and never fails the operation that
// triggered it.
type Notification struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"` // foreign key to users table
	User      User           `gorm:"foreignKey:UserID" json:"-"`
	Type      string         `gorm:"not null" json:"type"`
	Title     string         `gorm:"not null" json:"title"`
	Message   string         `gorm:"type:text;not null" json:"message"`
	Read      bool           `gorm:"default:false" json:"read"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}
