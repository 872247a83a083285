package api

import (
	"net/http"

	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/middleware"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/response"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/services"

	"github.com/gin-gonic/gin"
)

// CreatePickupRequestRequest represents the resident wizard submission
type CreatePickupRequestRequest struct {
	NeighborhoodID  string `json:"neighborhood_id" binding:"required"`
	FulfillmentMode string `json:"fulfillment_mode" binding:"required"`
	RouteWindowID   string `json:"route_window_id"`
	DropPointID     string `json:"drop_point_id"`
	ScheduledFor    string `json:"scheduled_for" binding:"required"`
	MaterialNotes   string `json:"material_notes"`
}

// CreatePickupRequest creates a direct pickup request.
// POST /api/me/pickups
func CreatePickupRequest(c *gin.Context) {
	var req CreatePickupRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}
	actor := middleware.Actor(c)

	request, err := pickupService().CreateRequest(services.CreateRequestInput{
		CreatedBy:       actor.UUID,
		NeighborhoodID:  req.NeighborhoodID,
		FulfillmentMode: req.FulfillmentMode,
		RouteWindowID:   req.RouteWindowID,
		DropPointID:     req.DropPointID,
		ScheduledFor:    req.ScheduledFor,
		MaterialNotes:   req.MaterialNotes,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, response.Success(request))
}

// ListMyPickups lists the caller's own requests.
// GET /api/me/pickups
func ListMyPickups(c *gin.Context) {
	actor := middleware.Actor(c)
	rows, err := pickupService().ListForRequester(actor.UUID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessJSON(c, rows)
}

// CancelPickupRequest cancels an open request.
// POST /api/me/pickups/:id/cancel
func CancelPickupRequest(c *gin.Context) {
	actor := middleware.Actor(c)
	request, err := pickupService().Cancel(actor, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessJSON(c, request)
}

// ListCooperadoPickups lists open requests plus the cooperado's assignments.
// GET /api/coop/pickups?neighborhood_id=...
func ListCooperadoPickups(c *gin.Context) {
	actor := middleware.Actor(c)
	rows, err := pickupService().ListForCooperado(actor, c.Query("neighborhood_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessJSON(c, rows)
}

// AcceptPickupRequest transitions open → accepted.
// POST /api/coop/pickups/:id/accept
func AcceptPickupRequest(c *gin.Context) {
	actor := middleware.Actor(c)
	request, err := pickupService().Accept(actor, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessJSON(c, request)
}

// MarkPickupEnRoute transitions accepted → en_route.
// POST /api/coop/pickups/:id/en-route
func MarkPickupEnRoute(c *gin.Context) {
	actor := middleware.Actor(c)
	request, err := pickupService().MarkEnRoute(actor, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessJSON(c, request)
}

// CollectPickupRequestRequest carries the receipt fields for collection
type CollectPickupRequestRequest struct {
	QualityStatus      string   `json:"quality_status" binding:"required"`
	ContaminationFlags []string `json:"contamination_flags"`
	WeightKg           float64  `json:"weight_kg"`
	Notes              string   `json:"notes"`
	ProofMediaPaths    []string `json:"proof_media_paths" binding:"required"`
	ProofContentType   string   `json:"proof_content_type"`
}

// CollectPickupRequest transitions en_route → collected and issues the
// receipt with quality grading and proof media.
// POST /api/coop/pickups/:id/collect
func CollectPickupRequest(c *gin.Context) {
	var req CollectPickupRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}
	actor := middleware.Actor(c)

	receipt, err := pickupService().Collect(actor, c.Param("id"), services.CollectInput{
		QualityStatus:      req.QualityStatus,
		ContaminationFlags: req.ContaminationFlags,
		WeightKg:           req.WeightKg,
		Notes:              req.Notes,
		ProofMediaPaths:    req.ProofMediaPaths,
		ProofContentType:   req.ProofContentType,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, response.Success(receipt))
}
