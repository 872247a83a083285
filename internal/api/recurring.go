package api

import (
	"net/http"
	"time"

	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/config"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/database"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/response"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/services"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/pkg/logging"

	"github.com/gin-gonic/gin"
)

// GenerateRecurringRequestsRequest triggers one expansion run.
// A null scheduled_for means "next occurrence of this window's weekday".
type GenerateRecurringRequestsRequest struct {
	WindowID     string  `json:"window_id" binding:"required"`
	ScheduledFor *string `json:"scheduled_for"` // "YYYY-MM-DD" or null
}

// GenerateRecurringRequests expands one route window into pickup requests
// for a target date and returns the outcome counts.
// POST /api/admin/rotas/generate
func GenerateRecurringRequests(c *gin.Context) {
	var req GenerateRecurringRequestsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	var scheduledFor *time.Time
	dateStr := ""
	if req.ScheduledFor != nil && *req.ScheduledFor != "" {
		parsed, err := time.Parse(services.DateLayout, *req.ScheduledFor)
		if err != nil {
			response.ErrorJSON(c, http.StatusBadRequest, "scheduled_for must be YYYY-MM-DD")
			return
		}
		scheduledFor = &parsed
		dateStr = *req.ScheduledFor
	}

	// Advisory cool-down against double-clicked triggers; the occurrence
	// unique index is the real duplicate guard
	cache := services.NewRedisServiceWithClient(database.GetRedis())
	if dateStr != "" {
		if hot, err := cache.CheckGenerationCooldown(req.WindowID, dateStr); err == nil && hot {
			logging.Warnf("Generation trigger inside cool-down window=%s date=%s", req.WindowID, dateStr)
		}
	}

	result, err := recurringService().Generate(req.WindowID, scheduledFor)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if err := cache.SetGenerationCooldown(result.WindowID, result.ScheduledFor,
		config.AppConfig.GenerationCooldownM); err != nil {
		logging.Warnf("Failed to set generation cool-down: %v", err)
	}

	response.SuccessJSON(c, result)
}

// ListNeighborhoodSubscriptions lists subscriptions for operators.
// GET /api/admin/subscriptions?neighborhood_id=...
func ListNeighborhoodSubscriptions(c *gin.Context) {
	neighborhoodID := c.Query("neighborhood_id")
	if neighborhoodID == "" {
		response.ErrorJSON(c, http.StatusBadRequest, "neighborhood_id is required")
		return
	}
	rows, err := subscriptionService().ListForNeighborhood(neighborhoodID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessJSON(c, rows)
}

// ListSubscriptionOccurrences lists the expansion history of a subscription.
// GET /api/admin/subscriptions/:id/occurrences
func ListSubscriptionOccurrences(c *gin.Context) {
	rows, err := recurringService().ListOccurrences(c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessJSON(c, rows)
}
