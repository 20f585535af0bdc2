package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/homeplate/homeplate-api/services"
)

// GenerateOrdersRequest is the optional body of the batch trigger. When no
// date is given the run targets tomorrow.
type GenerateOrdersRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
}

// GenerateSubscriptionOrders handles POST /api/v1/cron/generate-orders -
// the daily batch trigger that expands subscriptions into orders. Once
// processing starts the endpoint always returns 200 with the report;
// per-subscription problems are inside the report, not the status code.
func GenerateSubscriptionOrders(c *gin.Context) {
	// The body is optional: an empty request targets tomorrow.
	var req GenerateOrdersRequest
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Invalid request data",
					"details": err.Error(),
				},
			})
			return
		}
	}

	generator := services.GetSubscriptionGenerator()

	var report *services.GenerationReport
	if req.Date == "" {
		report = generator.GenerateForTomorrow()
	} else {
		target, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Date must be formatted as YYYY-MM-DD",
				},
			})
			return
		}
		report = generator.GenerateForDate(target)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    report,
	})
}
