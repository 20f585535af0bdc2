package models

import (
	"time"

	"gorm.io/gorm"
)

// Review is a buyer's rating of a menu item. Reviews roll up to a kitchen
// through the chain review -> menu item -> chef.
type Review struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	BuyerID    uint           `gorm:"not null;index" json:"buyer_id"` // foreign key to users table
	Buyer      User           `gorm:"foreignKey:BuyerID" json:"-"`
	MenuItemID uint           `gorm:"not null;index" json:"menu_item_id"`
	MenuItem   MenuItem       `gorm:"foreignKey:MenuItemID" json:"-"`
	Rating     int            `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment    *string        `json:"comment,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}
