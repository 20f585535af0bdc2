package models

import (
	"time"

	"gorm.io/gorm"
)

// MenuItem represents a dish offered by a chef. Price is the current unit
// price; generated orders snapshot it into their line items.
type MenuItem struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ChefID      uint           `gorm:"not null;index" json:"chef_id"` // foreign key to users table
	Chef        User           `gorm:"foreignKey:ChefID" json:"-"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description"`
	Price       float64        `gorm:"not null" json:"price"`
	IsAvailable bool           `gorm:"default:true" json:"is_available"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the MenuItem model
func (MenuItem) TableName() string {
	return "menu_items"
}
