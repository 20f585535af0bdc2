package services

import (
	"fmt"

	"github.com/homeplate/homeplate-api/models"
	"gorm.io/gorm"
)

// NotificationService creates in-app notifications. Callers treat it as a
// best-effort collaborator: failures are logged where they occur and never
// propagated into the outcome of the triggering operation.
type NotificationService interface {
	// Notify creates a notification for a user.
	Notify(userID uint, notificationType, title, message string) error
}

// DBNotificationService implements NotificationService on the database
type DBNotificationService struct {
	db *gorm.DB
}

var notificationServiceInstance NotificationService

// InitNotificationService initializes the notification service singleton
func InitNotificationService(db *gorm.DB) NotificationService {
	notificationServiceInstance = &DBNotificationService{db: db}
	return notificationServiceInstance
}

// GetNotificationService returns the initialized notification service instance
func GetNotificationService() NotificationService {
	return notificationServiceInstance
}

// SetNotificationService sets the notification service instance (primarily for testing)
func SetNotificationService(service NotificationService) {
	notificationServiceInstance = service
}

// Notify creates a notification row for the user
func (s *DBNotificationService) Notify(userID uint, notificationType, title, message string) error {
	notification := models.Notification{
		UserID:  userID,
		Type:    notificationType,
		Title:   title,
		Message: message,
	}
	if err := s.db.Create(&notification).Error; err != nil {
		return fmt.Errorf("failed to create notification for user %d: %w", userID, err)
	}
	return nil
}
