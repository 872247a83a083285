package api

import (
	"net/http"

	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/database"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/models"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListAnchorCommitments lists commitments for operators.
// GET /api/admin/anchors?neighborhood_id=...
func ListAnchorCommitments(c *gin.Context) {
	var rows []models.AnchorCommitment
	query := database.GetDB().Order("anchor_name ASC")
	if neighborhoodID := c.Query("neighborhood_id"); neighborhoodID != "" {
		query = query.Where("neighborhood_id = ?", neighborhoodID)
	}
	if err := query.Find(&rows).Error; err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to list anchors")
		return
	}
	response.SuccessJSON(c, rows)
}

// CreateAnchorCommitmentRequest represents a new commitment
type CreateAnchorCommitmentRequest struct {
	NeighborhoodID   string  `json:"neighborhood_id" binding:"required"`
	AnchorName       string  `json:"anchor_name" binding:"required"`
	CommittedKgMonth float64 `json:"committed_kg_month" binding:"required"`
	StartsOn         string  `json:"starts_on" binding:"required"`
	EndsOn           string  `json:"ends_on"`
	Notes            string  `json:"notes"`
}

// CreateAnchorCommitment creates a commitment.
// POST /api/admin/anchors
func CreateAnchorCommitment(c *gin.Context) {
	var req CreateAnchorCommitmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}
	if req.CommittedKgMonth <= 0 {
		response.ErrorJSON(c, http.StatusBadRequest, "committed_kg_month must be positive")
		return
	}

	anchor := models.AnchorCommitment{
		UUID:             uuid.NewString(),
		NeighborhoodID:   req.NeighborhoodID,
		AnchorName:       req.AnchorName,
		CommittedKgMonth: req.CommittedKgMonth,
		StartsOn:         req.StartsOn,
		EndsOn:           req.EndsOn,
		IsActive:         true,
		Notes:            req.Notes,
	}
	if err := database.GetDB().Create(&anchor).Error; err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Failed to create anchor: "+err.Error())
		return
	}
	response.JSON(c, http.StatusCreated, response.Success(anchor))
}

// UpdateAnchorCommitmentRequest represents commitment updates
type UpdateAnchorCommitmentRequest struct {
	CommittedKgMonth *float64 `json:"committed_kg_month"`
	EndsOn           string   `json:"ends_on"`
	IsActive         *bool    `json:"is_active"`
	Notes            string   `json:"notes"`
}

// UpdateAnchorCommitment updates a commitment.
// PUT /api/admin/anchors/:id
func UpdateAnchorCommitment(c *gin.Context) {
	var req UpdateAnchorCommitmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	updates := make(map[string]interface{})
	if req.CommittedKgMonth != nil {
		if *req.CommittedKgMonth <= 0 {
			response.ErrorJSON(c, http.StatusBadRequest, "committed_kg_month must be positive")
			return
		}
		updates["committed_kg_month"] = *req.CommittedKgMonth
	}
	if req.EndsOn != "" {
		updates["ends_on"] = req.EndsOn
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Notes != "" {
		updates["notes"] = req.Notes
	}

	result := database.GetDB().Model(&models.AnchorCommitment{}).
		Where("uuid = ?", c.Param("id")).Updates(updates)
	if result.Error != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Failed to update anchor: "+result.Error.Error())
		return
	}
	if result.RowsAffected == 0 {
		response.ErrorJSON(c, http.StatusNotFound, "Anchor not found")
		return
	}
	response.SuccessJSON(c, nil)
}
