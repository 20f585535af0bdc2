package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/homeplate/homeplate-api/middleware"
	"github.com/homeplate/homeplate-api/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// seedSubscription creates a chef, kitchen, dish, plan and active
// subscription whose schedule covers the given date's lunch slot.
func seedSubscription(t *testing.T, db *gorm.DB, target time.Time) {
	chef := models.User{Auth0ID: "auth0|cron-chef", Name: "Cron Chef", Email: "cron-chef@example.com", Role: "chef"}
	assert.NoError(t, db.Create(&chef).Error)
	buyer := models.User{Auth0ID: "auth0|cron-buyer", Name: "Cron Buyer", Email: "cron-buyer@example.com", Role: "buyer"}
	assert.NoError(t, db.Create(&buyer).Error)

	kitchen := models.Kitchen{Name: "Cron Kitchen", ChefID: chef.ID, MaxCapacity: 5}
	assert.NoError(t, db.Create(&kitchen).Error)

	dish := models.MenuItem{ChefID: chef.ID, Name: "Khichdi", Price: 7.00}
	assert.NoError(t, db.Create(&dish).Error)

	plan := models.SubscriptionPlan{
		KitchenID: kitchen.ID,
		Name:      "Cron Plan",
		WeeklySchedule: models.WeeklySchedule{
			models.DayName(target): {Lunch: &models.MealSlot{DishIDs: []uint{dish.ID}}},
		},
		ServingsPerMeal: 1,
	}
	assert.NoError(t, db.Create(&plan).Error)

	subscription := models.Subscription{
		BuyerID:   buyer.ID,
		PlanID:    plan.ID,
		KitchenID: kitchen.ID,
		Status:    models.SubscriptionActive,
		StartDate: target.AddDate(0, 0, -30),
	}
	assert.NoError(t, db.Create(&subscription).Error)
}

func TestGenerateSubscriptionOrders_WithSecret(t *testing.T) {
	db := setupControllerTestDB(t)
	initScoringServices(t, db)

	target := time.Date(2026, 9, 7, 0, 0, 0, 0, time.Local)
	seedSubscription(t, db, target)

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "Missing authorization header",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "UNAUTHORIZED",
		},
		{
			name:           "Wrong secret",
			authHeader:     "Bearer wrong-secret",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "UNAUTHORIZED",
		},
		{
			name:           "Not a bearer token",
			authHeader:     "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "UNAUTHORIZED",
		},
		{
			name:           "Correct secret",
			authHeader:     "Bearer cron-test-secret",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.POST("/cron/generate-orders",
				middleware.RequireCronSecret("cron-test-secret"),
				GenerateSubscriptionOrders,
			)

			body, _ := json.Marshal(map[string]string{"date": target.Format("2006-01-02")})
			req, _ := http.NewRequest(http.MethodPost, "/cron/generate-orders", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

			if tt.expectedError != "" {
				assert.False(t, response["success"].(bool))
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errorData["code"])

				// Rejected before any processing: nothing was generated.
				var count int64
				db.Model(&models.Order{}).Count(&count)
				assert.Equal(t, int64(0), count)
			}
		})
	}
}

func TestGenerateSubscriptionOrders_ReturnsReport(t *testing.T) {
	db := setupControllerTestDB(t)
	initScoringServices(t, db)

	target := time.Date(2026, 9, 7, 0, 0, 0, 0, time.Local)
	seedSubscription(t, db, target)

	router := setupTestRouter()
	router.POST("/cron/generate-orders",
		middleware.RequireCronSecret(""), // no secret configured
		GenerateSubscriptionOrders,
	)

	body, _ := json.Marshal(map[string]string{"date": target.Format("2006-01-02")})
	req, _ := http.NewRequest(http.MethodPost, "/cron/generate-orders", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response["success"].(bool))

	data := response["data"].(map[string]interface{})
	assert.Equal(t, target.Format("2006-01-02"), data["target_date"])
	assert.Equal(t, float64(1), data["created"])
	assert.Equal(t, float64(1), data["processed"])
	assert.Equal(t, float64(0), data["skipped"])
	assert.Empty(t, data["errors"])
}

func TestGenerateSubscriptionOrders_InvalidDate(t *testing.T) {
	db := setupControllerTestDB(t)
	initScoringServices(t, db)

	router := setupTestRouter()
	router.POST("/cron/generate-orders", GenerateSubscriptionOrders)

	body, _ := json.Marshal(map[string]string{"date": "07-09-2026"})
	req, _ := http.NewRequest(http.MethodPost, "/cron/generate-orders", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errorData["code"])
}

func TestGenerateSubscriptionOrders_NoBodyDefaultsToTomorrow(t *testing.T) {
	db := setupControllerTestDB(t)
	initScoringServices(t, db)

	tomorrow := time.Now().Add(24 * time.Hour)
	seedSubscription(t, db, tomorrow)

	router := setupTestRouter()
	router.POST("/cron/generate-orders", GenerateSubscriptionOrders)

	req, _ := http.NewRequest(http.MethodPost, "/cron/generate-orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["created"])

	var order models.Order
	assert.NoError(t, db.First(&order).Error)
	assert.Equal(t, tomorrow.Format("2006-01-02"), order.DeliveryDate.Format("2006-01-02"))
}
