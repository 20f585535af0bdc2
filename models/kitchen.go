package models

import (
	"time"

	"gorm.io/gorm"
)

// Kitchen represents a home chef's kitchen and the aggregate stats the
// reliability scorer reads and writes. ReliabilityScore is mutated only by
// the scorer; the other aggregates are maintained by the wider app.
type Kitchen struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	Name                string         `gorm:"not null" json:"name"`
	ChefID              uint           `gorm:"not null;index" json:"chef_id"` // foreign key to users table
	Chef                User           `gorm:"foreignKey:ChefID" json:"chef,omitempty"`
	Rating              float64        `gorm:"default:0" json:"rating"`
	ReviewCount         int            `gorm:"default:0" json:"review_count"`
	TotalOrders         int            `gorm:"default:0" json:"total_orders"`
	ResponseTimeMinutes float64        `gorm:"default:0" json:"response_time_minutes"`
	DeliveryRatePercent float64        `gorm:"default:0" json:"delivery_rate_percent"` // stored fallback when no completed orders exist
	ReliabilityScore    int            `gorm:"default:50" json:"reliability_score"`    // 0-100, written by the reliability scorer
	MaxCapacity         int            `gorm:"not null;default:10" json:"max_capacity"` // max concurrent orders per delivery slot
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Kitchen model
func (Kitchen) TableName() string {
	return "kitchens"
}
