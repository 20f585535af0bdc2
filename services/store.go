package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/homeplate/homeplate-api/models"
	"gorm.io/gorm"
)

// ReliabilityStore is the data-access surface the reliability scorer reads
// and writes. Lookups that may legitimately find nothing return (nil, nil).
type ReliabilityStore interface {
	// GetKitchen returns the kitchen with its stored aggregates, or nil if
	// it does not exist.
	GetKitchen(id uint) (*models.Kitchen, error)

	// ListOrdersByKitchen returns every order belonging to a kitchen.
	ListOrdersByKitchen(kitchenID uint) ([]models.Order, error)

	// ListReviewsBySeller returns every review of the chef's menu items.
	ListReviewsBySeller(chefID uint) ([]models.Review, error)

	// UpdateKitchenScore persists a computed reliability score.
	UpdateKitchenScore(kitchenID uint, score int) error

	// ListKitchenIDs returns every kitchen id, for the batch sweep.
	ListKitchenIDs() ([]uint, error)
}

// GenerationStore is the data-access surface the subscription order
// generator uses.
type GenerationStore interface {
	// GetKitchen returns the kitchen, or nil if it does not exist.
	GetKitchen(id uint) (*models.Kitchen, error)

	// ListActiveSubscriptions returns every ACTIVE subscription whose date
	// range covers target, with plan and buyer loaded.
	ListActiveSubscriptions(target time.Time) ([]models.Subscription, error)

	// FindExistingSubscriptionOrder returns an order already generated for
	// this (subscription, delivery day, slot), or nil if none exists.
	FindExistingSubscriptionOrder(subscriptionID uint, dayStart, dayEnd time.Time, slot string) (*models.Order, error)

	// CountNonCancelledOrders counts a kitchen's non-cancelled orders for a
	// delivery day and slot, for the capacity gate.
	CountNonCancelledOrders(kitchenID uint, dayStart, dayEnd time.Time, slot string) (int64, error)

	// FindMenuItemsByIDsAndChef returns the menu items among ids that are
	// owned by the chef. Foreign dishes are silently excluded.
	FindMenuItemsByIDsAndChef(ids []uint, chefID uint) ([]models.MenuItem, error)

	// CreateOrder persists a new order with its line items.
	CreateOrder(order *models.Order) error
}

// GormStore implements both store interfaces on a gorm database.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a store backed by the given database
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// GetKitchen returns the kitchen with the given id, or nil if it does not exist
func (s *GormStore) GetKitchen(id uint) (*models.Kitchen, error) {
	var kitchen models.Kitchen
	if err := s.db.First(&kitchen, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load kitchen %d: %w", id, err)
	}
	return &kitchen, nil
}

// ListOrdersByKitchen returns every order belonging to the kitchen
func (s *GormStore) ListOrdersByKitchen(kitchenID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Where("kitchen_id = ?", kitchenID).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to load orders for kitchen %d: %w", kitchenID, err)
	}
	return orders, nil
}

// ListReviewsBySeller returns every review whose menu item belongs to the chef
func (s *GormStore) ListReviewsBySeller(chefID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.
		Joins("JOIN menu_items ON menu_items.id = reviews.menu_item_id").
		Where("menu_items.chef_id = ?", chefID).
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews for chef %d: %w", chefID, err)
	}
	return reviews, nil
}

// UpdateKitchenScore persists the computed reliability score onto the kitchen
func (s *GormStore) UpdateKitchenScore(kitchenID uint, score int) error {
	result := s.db.Model(&models.Kitchen{}).
		Where("id = ?", kitchenID).
		Update("reliability_score", score)
	if result.Error != nil {
		return fmt.Errorf("failed to update score for kitchen %d: %w", kitchenID, result.Error)
	}
	return nil
}

// ListKitchenIDs returns the ids of all kitchens
func (s *GormStore) ListKitchenIDs() ([]uint, error) {
	var ids []uint
	if err := s.db.Model(&models.Kitchen{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list kitchens: %w", err)
	}
	return ids, nil
}

// ListActiveSubscriptions returns the subscriptions eligible for generation
// on the target date: ACTIVE, started on or before it, not ended before it.
func (s *GormStore) ListActiveSubscriptions(target time.Time) ([]models.Subscription, error) {
	var subscriptions []models.Subscription
	err := s.db.
		Preload("Plan").
		Preload("Buyer").
		Where("status = ?", models.SubscriptionActive).
		Where("start_date <= ?", target).
		Where("end_date IS NULL OR end_date >= ?", target).
		Find(&subscriptions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active subscriptions: %w", err)
	}
	return subscriptions, nil
}

// FindExistingSubscriptionOrder returns an order already generated for the
// subscription on the delivery day and slot, or nil if none exists
func (s *GormStore) FindExistingSubscriptionOrder(subscriptionID uint, dayStart, dayEnd time.Time, slot string) (*models.Order, error) {
	var order models.Order
	err := s.db.
		Where("subscription_id = ?", subscriptionID).
		Where("delivery_date >= ? AND delivery_date < ?", dayStart, dayEnd).
		Where("delivery_slot = ?", slot).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check existing order for subscription %d: %w", subscriptionID, err)
	}
	return &order, nil
}

// CountNonCancelledOrders counts the kitchen's non-cancelled orders in the
// delivery day window for the slot
func (s *GormStore) CountNonCancelledOrders(kitchenID uint, dayStart, dayEnd time.Time, slot string) (int64, error) {
	var count int64
	err := s.db.Model(&models.Order{}).
		Where("kitchen_id = ?", kitchenID).
		Where("delivery_date >= ? AND delivery_date < ?", dayStart, dayEnd).
		Where("delivery_slot = ?", slot).
		Where("status <> ?", models.OrderStatusCancelled).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count orders for kitchen %d: %w", kitchenID, err)
	}
	return count, nil
}

// FindMenuItemsByIDsAndChef returns the menu items among ids owned by the chef
func (s *GormStore) FindMenuItemsByIDsAndChef(ids []uint, chefID uint) ([]models.MenuItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.MenuItem
	err := s.db.
		Where("id IN ?", ids).
		Where("chef_id = ?", chefID).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load menu items: %w", err)
	}
	return items, nil
}

// CreateOrder persists a new order together with its line items
func (s *GormStore) CreateOrder(order *models.Order) error {
	if err := s.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// startOfDay normalizes a time to local midnight of its calendar day.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
