package models

import (
	"time"

	"gorm.io/gorm"
)

// Order status values
const (
	OrderStatusPending    = "PENDING"
	OrderStatusConfirmed  = "CONFIRMED"
	OrderStatusPreparing  = "PREPARING"
	OrderStatusDelivering = "DELIVERING"
	OrderStatusCompleted  = "COMPLETED"
	OrderStatusCancelled  = "CANCELLED"
)

// Delivery slot values, shared by plan schedules, orders and capacity checks
const (
	SlotBreakfast = "BREAKFAST"
	SlotLunch     = "LUNCH"
	SlotSnacks    = "SNACKS"
	SlotDinner    = "DINNER"
)

// DeliverySlots lists the four slots in serving order.
var DeliverySlots = []string{SlotBreakfast, SlotLunch, SlotSnacks, SlotDinner}

// Order represents a meal order, either placed directly by a buyer or
// materialized from a subscription by the daily generator. The composite
// unique index backs the generator's idempotency check: at most one order
// may exist per (subscription, delivery date, slot). One-off orders carry a
// NULL subscription_id and are excluded from the index.
type Order struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	KitchenID      uint           `gorm:"not null;index" json:"kitchen_id"` // foreign key to kitchens table
	Kitchen        Kitchen        `gorm:"foreignKey:KitchenID" json:"-"`
	BuyerID        uint           `gorm:"not null;index" json:"buyer_id"` // foreign key to users table
	Buyer          User           `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`
	SubscriptionID *uint          `gorm:"index:idx_subscription_delivery,unique" json:"subscription_id,omitempty"` // nullable, set for generated orders
	Status         string         `gorm:"not null;default:'PENDING'" json:"status"`
	DeliveryDate   time.Time      `gorm:"not null;index;index:idx_subscription_delivery,unique" json:"delivery_date"`
	DeliverySlot   string         `gorm:"not null;index:idx_subscription_delivery,unique" json:"delivery_slot"`
	TotalAmount    float64        `gorm:"not null;default:0" json:"total_amount"`
	Items          []OrderItem    `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one line of an order. UnitPrice snapshots the menu item's
// price at the time the order was created.
type OrderItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    uint      `gorm:"not null;index" json:"order_id"` // foreign key to orders table
	MenuItemID uint      `gorm:"not null;index" json:"menu_item_id"`
	MenuItem   MenuItem  `gorm:"foreignKey:MenuItemID" json:"menu_item,omitempty"`
	Quantity   int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitPrice  float64   `gorm:"not null" json:"unit_price"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
