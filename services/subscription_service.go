package services

import (
	"fmt"
	"log"
	"time"

	"github.com/homeplate/homeplate-api/models"
)

// GenerationReport summarizes one run of the subscription order generator.
// Processed counts subscriptions that produced at least one order; Skipped
// counts those with nothing to do for the day (no schedule, or every slot
// already generated or gated). Errors holds one line per per-subscription
// problem; none of them aborts the run.
type GenerationReport struct {
	TargetDate string   `json:"target_date"`
	Created    int      `json:"created"`
	Processed  int      `json:"processed"`
	Skipped    int      `json:"skipped"`
	Errors     []string `json:"errors"`
}

// SubscriptionGeneratorService expands active subscriptions into concrete
// orders for a delivery date
type SubscriptionGeneratorService interface {
	// GenerateForDate materializes orders for every eligible subscription
	// on the target date. Safe to re-run: slots that already have an order
	// are skipped.
	GenerateForDate(target time.Time) *GenerationReport

	// GenerateForTomorrow runs GenerateForDate for tomorrow, the daily
	// cron's default.
	GenerateForTomorrow() *GenerationReport
}

// DBSubscriptionGeneratorService implements SubscriptionGeneratorService on
// a GenerationStore
type DBSubscriptionGeneratorService struct {
	store GenerationStore
}

var subscriptionGeneratorInstance SubscriptionGeneratorService

// InitSubscriptionGenerator initializes the subscription generator singleton
func InitSubscriptionGenerator(store GenerationStore) SubscriptionGeneratorService {
	subscriptionGeneratorInstance = NewSubscriptionGenerator(store)
	return subscriptionGeneratorInstance
}

// GetSubscriptionGenerator returns the initialized subscription generator instance
func GetSubscriptionGenerator() SubscriptionGeneratorService {
	return subscriptionGeneratorInstance
}

// SetSubscriptionGenerator sets the subscription generator instance (primarily for testing)
func SetSubscriptionGenerator(service SubscriptionGeneratorService) {
	subscriptionGeneratorInstance = service
}

// NewSubscriptionGenerator creates a subscription generator with the given store
func NewSubscriptionGenerator(store GenerationStore) *DBSubscriptionGeneratorService {
	return &DBSubscriptionGeneratorService{store: store}
}

// GenerateForTomorrow generates orders for tomorrow, normalized to local midnight
func (s *DBSubscriptionGeneratorService) GenerateForTomorrow() *GenerationReport {
	return s.GenerateForDate(startOfDay(time.Now().Add(24 * time.Hour)))
}

// GenerateForDate materializes orders for every eligible subscription on
// the target date
func (s *DBSubscriptionGeneratorService) GenerateForDate(target time.Time) *GenerationReport {
	dayStart := startOfDay(target)
	dayEnd := dayStart.Add(24 * time.Hour)
	dayName := models.DayName(dayStart)

	report := &GenerationReport{
		TargetDate: dayStart.Format("2006-01-02"),
		Errors:     []string{},
	}

	subscriptions, err := s.store.ListActiveSubscriptions(dayStart)
	if err != nil {
		log.Printf("Order generation for %s aborted: %v", report.TargetDate, err)
		report.Errors = append(report.Errors, err.Error())
		return report
	}

	log.Printf("Order generation for %s (%s): %d active subscriptions", report.TargetDate, dayName, len(subscriptions))

	for _, subscription := range subscriptions {
		created, errs := s.processSubscription(subscription, dayStart, dayEnd, dayName)
		report.Errors = append(report.Errors, errs...)
		report.Created += created
		if created > 0 {
			report.Processed++
		} else {
			report.Skipped++
		}
	}

	log.Printf("Order generation for %s finished: %d created, %d processed, %d skipped, %d errors",
		report.TargetDate, report.Created, report.Processed, report.Skipped, len(report.Errors))
	return report
}

// processSubscription handles one subscription in isolation. It returns the
// number of orders created and any per-slot problems; a problem in one slot
// never rolls back orders already created for other slots.
func (s *DBSubscriptionGeneratorService) processSubscription(subscription models.Subscription, dayStart, dayEnd time.Time, dayName string) (int, []string) {
	var errs []string

	daySchedule, ok := subscription.Plan.WeeklySchedule[dayName]
	if !ok {
		// Nothing planned for this weekday. Not an error.
		return 0, nil
	}

	kitchen, err := s.store.GetKitchen(subscription.KitchenID)
	if err != nil {
		return 0, []string{subscriptionError(subscription.ID, err.Error())}
	}
	if kitchen == nil {
		return 0, []string{subscriptionError(subscription.ID, fmt.Sprintf("kitchen %d not found", subscription.KitchenID))}
	}

	created := 0
	for _, slot := range models.DeliverySlots {
		meal := daySchedule.Slot(slot)
		if meal == nil || len(meal.DishIDs) == 0 {
			continue
		}

		order, err := s.generateSlotOrder(subscription, kitchen, dayStart, dayEnd, slot, meal)
		if err != nil {
			errs = append(errs, subscriptionError(subscription.ID, err.Error()))
			continue
		}
		if order != nil {
			created++
		}
	}

	if created > 0 {
		s.notifyGenerated(subscription, kitchen, dayStart, created)
	}

	return created, errs
}

// subscriptionError formats a report error line keyed by subscription id.
func subscriptionError(subscriptionID uint, message string) string {
	return fmt.Sprintf("subscription %d: %s", subscriptionID, message)
}

// generateSlotOrder creates the order for one meal slot, or returns
// (nil, nil) when an order for the slot already exists.
func (s *DBSubscriptionGeneratorService) generateSlotOrder(subscription models.Subscription, kitchen *models.Kitchen, dayStart, dayEnd time.Time, slot string, meal *models.MealSlot) (*models.Order, error) {
	// Idempotency: a re-run of the batch must not duplicate this slot.
	existing, err := s.store.FindExistingSubscriptionOrder(subscription.ID, dayStart, dayEnd, slot)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		log.Printf("Subscription %d: %s order for %s already exists (order %d), skipping",
			subscription.ID, slot, dayStart.Format("2006-01-02"), existing.ID)
		return nil, nil
	}

	// Capacity is a hard admission gate, not a queue.
	count, err := s.store.CountNonCancelledOrders(kitchen.ID, dayStart, dayEnd, slot)
	if err != nil {
		return nil, err
	}
	if count >= int64(kitchen.MaxCapacity) {
		return nil, fmt.Errorf("%s capacity reached for kitchen %d (%d/%d)", slot, kitchen.ID, count, kitchen.MaxCapacity)
	}

	// Price from current menu items, restricted to dishes the kitchen's
	// chef actually owns.
	items, err := s.store.FindMenuItemsByIDsAndChef(meal.DishIDs, kitchen.ChefID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no valid menu items for %s slot", slot)
	}

	servings := subscription.Plan.ServingsPerMeal
	if servings < 1 {
		servings = 1
	}

	var orderItems []models.OrderItem
	subtotal := 0.0
	for _, item := range items {
		orderItems = append(orderItems, models.OrderItem{
			MenuItemID: item.ID,
			Quantity:   servings,
			UnitPrice:  item.Price,
		})
		subtotal += item.Price * float64(servings)
	}

	order := &models.Order{
		KitchenID:      kitchen.ID,
		BuyerID:        subscription.BuyerID,
		SubscriptionID: &subscription.ID,
		Status:         models.OrderStatusPending,
		DeliveryDate:   dayStart,
		DeliverySlot:   slot,
		TotalAmount:    subtotal + subscription.DeliveryFee,
		Items:          orderItems,
	}
	if err := s.store.CreateOrder(order); err != nil {
		return nil, err
	}
	return order, nil
}

// notifyGenerated tells the buyer and the kitchen's chef how many orders
// were generated. Notifications are best-effort: failures are logged here
// and never affect the generation outcome.
func (s *DBSubscriptionGeneratorService) notifyGenerated(subscription models.Subscription, kitchen *models.Kitchen, dayStart time.Time, created int) {
	notifier := GetNotificationService()
	if notifier == nil {
		return
	}

	date := dayStart.Format("2006-01-02")
	if err := notifier.Notify(
		subscription.BuyerID,
		models.NotificationOrdersGenerated,
		"Your meals are scheduled",
		fmt.Sprintf("%d order(s) were scheduled for %s from your subscription.", created, date),
	); err != nil {
		log.Printf("Failed to notify buyer %d for subscription %d: %v", subscription.BuyerID, subscription.ID, err)
	}

	if err := notifier.Notify(
		kitchen.ChefID,
		models.NotificationIncomingOrders,
		"New subscription orders",
		fmt.Sprintf("%d subscription order(s) were scheduled for %s.", created, date),
	); err != nil {
		log.Printf("Failed to notify chef %d for kitchen %d: %v", kitchen.ChefID, kitchen.ID, err)
	}
}
