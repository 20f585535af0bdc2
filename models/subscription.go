package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Subscription status values
const (
	SubscriptionActive    = "ACTIVE"
	SubscriptionPaused    = "PAUSED"
	SubscriptionCancelled = "CANCELLED"
	SubscriptionExpired   = "EXPIRED"
)

// Day-of-week names used as weekly schedule keys
const (
	DayMonday    = "MONDAY"
	DayTuesday   = "TUESDAY"
	DayWednesday = "WEDNESDAY"
	DayThursday  = "THURSDAY"
	DayFriday    = "FRIDAY"
	DaySaturday  = "SATURDAY"
	DaySunday    = "SUNDAY"
)

var weekDays = map[string]bool{
	DayMonday:    true,
	DayTuesday:   true,
	DayWednesday: true,
	DayThursday:  true,
	DayFriday:    true,
	DaySaturday:  true,
	DaySunday:    true,
}

// DayName returns the uppercase weekly-schedule key for a date.
func DayName(t time.Time) string {
	return strings.ToUpper(t.Weekday().String())
}

// MealSlot is one scheduled meal within a day: the dishes to deliver, in
// order, and an optional serving time ("08:30").
type MealSlot struct {
	DishIDs []uint `json:"dish_ids"`
	Time    string `json:"time,omitempty"`
}

// DaySchedule holds the up-to-four meal slots of one day.
type DaySchedule struct {
	Breakfast *MealSlot `json:"breakfast,omitempty"`
	Lunch     *MealSlot `json:"lunch,omitempty"`
	Snacks    *MealSlot `json:"snacks,omitempty"`
	Dinner    *MealSlot `json:"dinner,omitempty"`
}

// Slot returns the meal slot for a delivery slot name, or nil if that slot
// is not scheduled.
func (d DaySchedule) Slot(slot string) *MealSlot {
	switch slot {
	case SlotBreakfast:
		return d.Breakfast
	case SlotLunch:
		return d.Lunch
	case SlotSnacks:
		return d.Snacks
	case SlotDinner:
		return d.Dinner
	}
	return nil
}

// WeeklySchedule maps uppercase day names to day schedules. It is stored as
// a JSON column and parsed once here, so downstream code never touches the
// raw blob. Keys are normalized to uppercase on scan; entries for unknown
// day names are dropped.
type WeeklySchedule map[string]DaySchedule

// Value implements driver.Valuer for storing the schedule as JSON.
func (w WeeklySchedule) Value() (driver.Value, error) {
	if w == nil {
		return "{}", nil
	}
	b, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal weekly schedule: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner for loading the schedule from its JSON column.
func (w *WeeklySchedule) Scan(value interface{}) error {
	if value == nil {
		*w = WeeklySchedule{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported weekly schedule column type %T", value)
	}

	var raw map[string]DaySchedule
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse weekly schedule: %w", err)
	}

	parsed := make(WeeklySchedule, len(raw))
	for day, schedule := range raw {
		name := strings.ToUpper(day)
		if weekDays[name] {
			parsed[name] = schedule
		}
	}
	*w = parsed
	return nil
}

// SubscriptionPlan is a kitchen's weekly meal plan. ServingsPerMeal scales
// the quantity of every generated line item.
type SubscriptionPlan struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	KitchenID       uint           `gorm:"not null;index" json:"kitchen_id"` // foreign key to kitchens table
	Kitchen         Kitchen        `gorm:"foreignKey:KitchenID" json:"-"`
	Name            string         `gorm:"not null" json:"name"`
	WeeklySchedule  WeeklySchedule `gorm:"type:text" json:"weekly_schedule"`
	ServingsPerMeal int            `gorm:"default:1" json:"servings_per_meal"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the SubscriptionPlan model
func (SubscriptionPlan) TableName() string {
	return "subscription_plans"
}

// Subscription is a buyer's recurring enrollment in a kitchen's plan. Only
// ACTIVE subscriptions whose date range covers the target date are eligible
// for order generation.
type Subscription struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	BuyerID     uint             `gorm:"not null;index" json:"buyer_id"` // foreign key to users table
	Buyer       User             `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`
	PlanID      uint             `gorm:"not null;index" json:"plan_id"`
	Plan        SubscriptionPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	KitchenID   uint             `gorm:"not null;index" json:"kitchen_id"` // foreign key to kitchens table
	Kitchen     Kitchen          `gorm:"foreignKey:KitchenID" json:"-"`
	Status      string           `gorm:"not null;default:'ACTIVE'" json:"status"`
	StartDate   time.Time        `gorm:"not null" json:"start_date"`
	EndDate     *time.Time       `json:"end_date,omitempty"` // nullable, open-ended when nil
	DeliveryFee float64          `gorm:"default:0" json:"delivery_fee"` // flat fee added once per generated order
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Subscription model
func (Subscription) TableName() string {
	return "subscriptions"
}
