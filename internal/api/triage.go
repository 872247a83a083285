package api

import (
	"net/http"
	"time"

	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/database"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/models"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/response"

	"github.com/gin-gonic/gin"
)

// GetTriageQueue lists drop points pending triage or stale.
// GET /api/admin/galpao/queue?neighborhood_id=...
func GetTriageQueue(c *gin.Context) {
	staleCutoff := time.Now().Add(-database.StaleTriageCutoff)

	var points []models.DropPoint
	query := database.GetDB().Where("is_active = ?", true).
		Where("triage_status <> ? OR last_triaged_at IS NULL OR last_triaged_at < ?",
			models.TriageDone, staleCutoff)
	if neighborhoodID := c.Query("neighborhood_id"); neighborhoodID != "" {
		query = query.Where("neighborhood_id = ?", neighborhoodID)
	}
	if err := query.Order("last_triaged_at ASC").Find(&points).Error; err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to list triage queue")
		return
	}
	response.SuccessJSON(c, points)
}

// UpdateDropPointTriageRequest represents a triage update
type UpdateDropPointTriageRequest struct {
	TriageStatus string `json:"triage_status" binding:"required"`
	TriageNotes  string `json:"triage_notes"`
}

// UpdateDropPointTriage updates a drop point's triage state.
// PUT /api/admin/galpao/drop-points/:id/triage
func UpdateDropPointTriage(c *gin.Context) {
	var req UpdateDropPointTriageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}
	switch req.TriageStatus {
	case models.TriagePending, models.TriageInProgress, models.TriageDone:
	default:
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid triage status")
		return
	}

	updates := map[string]interface{}{
		"triage_status": req.TriageStatus,
		"triage_notes":  req.TriageNotes,
	}
	if req.TriageStatus == models.TriageDone {
		updates["last_triaged_at"] = time.Now()
	}

	result := database.GetDB().Model(&models.DropPoint{}).
		Where("uuid = ?", c.Param("id")).Updates(updates)
	if result.Error != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Failed to update triage: "+result.Error.Error())
		return
	}
	if result.RowsAffected == 0 {
		response.ErrorJSON(c, http.StatusNotFound, "Drop point not found")
		return
	}
	response.SuccessJSON(c, nil)
}
