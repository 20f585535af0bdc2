package services

import (
	"fmt"
	"sync"
)

// MockNotification records one Notify call made against the mock.
type MockNotification struct {
	UserID  uint
	Type    string
	Title   string
	Message string
}

// MockNotificationService is a mock implementation of NotificationService
// for testing. It records every notification and can be told to fail.
type MockNotificationService struct {
	notifications []MockNotification
	failNext      bool
	failAlways    bool
	mu            sync.RWMutex
}

// NewMockNotificationService creates a new mock notification service
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

// SetAsMockForTesting sets this mock as the global notification service instance for testing
func (m *MockNotificationService) SetAsMockForTesting() {
	SetNotificationService(m)
}

// Notify records the notification, or fails if the mock was told to
func (m *MockNotificationService) Notify(userID uint, notificationType, title, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failAlways || m.failNext {
		m.failNext = false
		return fmt.Errorf("mock notification failure for user %d", userID)
	}

	m.notifications = append(m.notifications, MockNotification{
		UserID:  userID,
		Type:    notificationType,
		Title:   title,
		Message: message,
	})
	return nil
}

// FailNext makes the next Notify call fail
func (m *MockNotificationService) FailNext() {
	m.mu.Lock()
	m.failNext = true
	m.mu.Unlock()
}

// FailAlways makes every Notify call fail
func (m *MockNotificationService) FailAlways() {
	m.mu.Lock()
	m.failAlways = true
	m.mu.Unlock()
}

// Notifications returns the recorded notifications (for testing assertions)
func (m *MockNotificationService) Notifications() []MockNotification {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]MockNotification, len(m.notifications))
	copy(out, m.notifications)
	return out
}

// Clear removes all recorded notifications
func (m *MockNotificationService) Clear() {
	m.mu.Lock()
	m.notifications = nil
	m.failNext = false
	m.failAlways = false
	m.mu.Unlock()
}
