package api

import (
	"net/http"

	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/database"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/models"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListRouteWindows lists windows, optionally by neighborhood.
// GET /api/admin/windows?neighborhood_id=...
func ListRouteWindows(c *gin.Context) {
	var windows []models.RouteWindow
	query := database.GetDB().Where("is_active = ?", true)
	if neighborhoodID := c.Query("neighborhood_id"); neighborhoodID != "" {
		query = query.Where("neighborhood_id = ?", neighborhoodID)
	}
	if err := query.Order("weekday ASC, start_time ASC").Find(&windows).Error; err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to list windows")
		return
	}
	response.SuccessJSON(c, windows)
}

// CreateRouteWindowRequest represents create window request
type CreateRouteWindowRequest struct {
	NeighborhoodID string `json:"neighborhood_id" binding:"required"`
	Weekday        *int   `json:"weekday" binding:"required"`
	StartTime      string `json:"start_time" binding:"required"`
	EndTime        string `json:"end_time" binding:"required"`
	Capacity       int    `json:"capacity"`
}

// CreateRouteWindow creates a new route window.
// POST /api/admin/windows
func CreateRouteWindow(c *gin.Context) {
	var req CreateRouteWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}
	if *req.Weekday < 0 || *req.Weekday > 6 {
		response.ErrorJSON(c, http.StatusBadRequest, "weekday must be between 0 and 6")
		return
	}
	if req.Capacity < 0 {
		response.ErrorJSON(c, http.StatusBadRequest, "capacity must be non-negative")
		return
	}

	window := models.RouteWindow{
		UUID:           uuid.NewString(),
		NeighborhoodID: req.NeighborhoodID,
		Weekday:        *req.Weekday,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Capacity:       req.Capacity,
		IsActive:       true,
	}
	if err := database.GetDB().Create(&window).Error; err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Failed to create window: "+err.Error())
		return
	}
	response.JSON(c, http.StatusCreated, response.Success(window))
}

// UpdateRouteWindowRequest represents update window request
type UpdateRouteWindowRequest struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Capacity  *int   `json:"capacity"`
	IsActive  *bool  `json:"is_active"`
}

// UpdateRouteWindow updates an existing route window.
// PUT /api/admin/windows/:id
func UpdateRouteWindow(c *gin.Context) {
	var req UpdateRouteWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	updates := make(map[string]interface{})
	if req.StartTime != "" {
		updates["start_time"] = req.StartTime
	}
	if req.EndTime != "" {
		updates["end_time"] = req.EndTime
	}
	if req.Capacity != nil {
		if *req.Capacity < 0 {
			response.ErrorJSON(c, http.StatusBadRequest, "capacity must be non-negative")
			return
		}
		updates["capacity"] = *req.Capacity
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	result := database.GetDB().Model(&models.RouteWindow{}).
		Where("uuid = ?", c.Param("id")).Updates(updates)
	if result.Error != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Failed to update window: "+result.Error.Error())
		return
	}
	if result.RowsAffected == 0 {
		response.ErrorJSON(c, http.StatusNotFound, "Window not found")
		return
	}
	response.SuccessJSON(c, nil)
}

// DeleteRouteWindow soft deletes a route window.
// DELETE /api/admin/windows/:id
func DeleteRouteWindow(c *gin.Context) {
	result := database.GetDB().Where("uuid = ?", c.Param("id")).Delete(&models.RouteWindow{})
	if result.Error != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Failed to delete window: "+result.Error.Error())
		return
	}
	if result.RowsAffected == 0 {
		response.ErrorJSON(c, http.StatusNotFound, "Window not found")
		return
	}
	response.SuccessJSON(c, nil)
}

// GetWindowLoad renders the 7-day queue load and status buckets per window.
// GET /api/admin/windows/load?neighborhood_id=...
func GetWindowLoad(c *gin.Context) {
	rows, err := opsService().WindowLoad7d(c.Query("neighborhood_id"))
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to compute window load: "+err.Error())
		return
	}
	response.SuccessJSON(c, rows)
}

// RefreshOpsAlerts recomputes operator alerts and busts the cached views.
// POST /api/admin/ops/refresh-alerts?neighborhood_id=...
func RefreshOpsAlerts(c *gin.Context) {
	alerts, err := opsService().RefreshOpsAlerts(c.Query("neighborhood_id"))
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to refresh alerts: "+err.Error())
		return
	}
	response.SuccessJSON(c, alerts)
}
