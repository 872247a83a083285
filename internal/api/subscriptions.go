package api

import (
	"net/http"

	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/middleware"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/models"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/response"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/services"

	"github.com/gin-gonic/gin"
)

// CreateSubscriptionRequest represents the self-service wizard fields
type CreateSubscriptionRequest struct {
	NeighborhoodID    string `json:"neighborhood_id" binding:"required"`
	FulfillmentMode   string `json:"fulfillment_mode" binding:"required"`
	Cadence           string `json:"cadence"`
	PreferredWeekday  *int   `json:"preferred_weekday" binding:"required"`
	PreferredWindowID string `json:"preferred_window_id"`
	DropPointID       string `json:"drop_point_id"`
	MaterialNotes     string `json:"material_notes"`
}

// CreateSubscription creates a recurring subscription for the caller.
// POST /api/me/subscriptions
func CreateSubscription(c *gin.Context) {
	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}
	actor := middleware.Actor(c)

	sub, err := subscriptionService().Create(services.CreateSubscriptionInput{
		CreatedBy:         actor.UUID,
		NeighborhoodID:    req.NeighborhoodID,
		FulfillmentMode:   req.FulfillmentMode,
		Cadence:           req.Cadence,
		PreferredWeekday:  *req.PreferredWeekday,
		PreferredWindowID: req.PreferredWindowID,
		DropPointID:       req.DropPointID,
		MaterialNotes:     req.MaterialNotes,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, response.Success(sub))
}

// ListMySubscriptions lists the caller's subscriptions.
// GET /api/me/subscriptions
func ListMySubscriptions(c *gin.Context) {
	actor := middleware.Actor(c)
	rows, err := subscriptionService().ListForOwner(actor.UUID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessJSON(c, rows)
}

// PauseSubscription pauses the caller's subscription.
// POST /api/me/subscriptions/:id/pause
func PauseSubscription(c *gin.Context) {
	setSubscriptionStatus(c, models.SubscriptionPaused)
}

// ResumeSubscription reactivates the caller's subscription.
// POST /api/me/subscriptions/:id/resume
func ResumeSubscription(c *gin.Context) {
	setSubscriptionStatus(c, models.SubscriptionActive)
}

func setSubscriptionStatus(c *gin.Context, status string) {
	actor := middleware.Actor(c)
	if err := subscriptionService().SetStatus(actor.UUID, c.Param("id"), status); err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessJSON(c, nil)
}
