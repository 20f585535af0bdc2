package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/homeplate/homeplate-api/services"
)

// GetKitchenScore handles GET /api/v1/kitchens/:id/score - computes the
// kitchen's reliability score on demand without persisting it
func GetKitchenScore(c *gin.Context) {
	kitchenID, ok := parseKitchenID(c)
	if !ok {
		return
	}

	result, err := services.GetReliabilityService().ComputeScore(kitchenID)
	if err != nil {
		respondScoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// RefreshKitchenScore handles POST /api/v1/kitchens/:id/score/refresh -
// computes the score and persists it onto the kitchen
func RefreshKitchenScore(c *gin.Context) {
	kitchenID, ok := parseKitchenID(c)
	if !ok {
		return
	}

	score, err := services.GetReliabilityService().UpdateScore(kitchenID)
	if err != nil {
		respondScoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"kitchen_id": kitchenID,
			"score":      score,
		},
	})
}

// RefreshAllScores handles POST /api/v1/admin/scores/refresh - recomputes
// every kitchen's score. Per-kitchen failures are reported, not raised.
func RefreshAllScores(c *gin.Context) {
	report := services.GetReliabilityService().UpdateAllScores()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    report,
	})
}

// parseKitchenID reads the :id path parameter. On failure it writes the
// error response and returns ok=false.
func parseKitchenID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Kitchen id must be a positive integer",
			},
		})
		return 0, false
	}
	return uint(id), true
}

func respondScoreError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrKitchenNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "KITCHEN_NOT_FOUND",
				"message": "Kitchen not found",
			},
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "DATABASE_ERROR",
			"message": "Failed to compute reliability score",
		},
	})
}
