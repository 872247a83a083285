package api

import (
	"net/http"
	"time"

	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/database"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/middleware"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/models"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/response"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/services"

	"github.com/gin-gonic/gin"
)

// PromoteUserRequest represents a role change request
type PromoteUserRequest struct {
	TargetUserID string `json:"target_user_id" binding:"required"`
	NewRole      string `json:"new_role" binding:"required"`
}

// PromoteUser changes a profile's role, operator-only.
// POST /api/admin/users/promote
func PromoteUser(c *gin.Context) {
	var req PromoteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}
	profile, err := userService().PromoteUser(req.TargetUserID, req.NewRole)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessJSON(c, profile)
}

// ListProfiles lists active profiles, optionally by role.
// GET /api/admin/users?role=...
func ListProfiles(c *gin.Context) {
	rows, err := userService().ListProfiles(c.Query("role"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessJSON(c, rows)
}

// GetMyProfile returns the authenticated profile.
// GET /api/me
func GetMyProfile(c *gin.Context) {
	response.SuccessJSON(c, middleware.Actor(c))
}

// UpdateMyAddressRequest represents the doorstep address fields
type UpdateMyAddressRequest struct {
	Street       string `json:"street" binding:"required"`
	StreetNumber string `json:"street_number"`
	AddressExtra string `json:"address_extra"`
}

// UpdateMyAddress updates the caller's doorstep address.
// PUT /api/me/address
func UpdateMyAddress(c *gin.Context) {
	var req UpdateMyAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}
	actor := middleware.Actor(c)
	err := userService().UpdateAddress(actor.UUID, services.UpdateAddressInput{
		Street:       req.Street,
		StreetNumber: req.StreetNumber,
		AddressExtra: req.AddressExtra,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessJSON(c, nil)
}

// MintDevTokenRequest represents a dev token request
type MintDevTokenRequest struct {
	Email string `json:"email" binding:"required"`
}

// MintDevToken issues a bearer token for an existing profile by email.
// Registered only in debug mode; production fronts a real auth provider.
// POST /api/auth/dev-token
func MintDevToken(c *gin.Context) {
	var req MintDevTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	var profile models.Profile
	if err := database.GetDB().Where("email = ? AND is_active = ?", req.Email, true).
		First(&profile).Error; err != nil {
		response.ErrorJSON(c, http.StatusNotFound, "Profile not found")
		return
	}

	token, err := middleware.TokenService.MintToken(profile.UUID, profile.Role, 24*time.Hour)
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to mint token")
		return
	}
	response.SuccessJSON(c, gin.H{"token": token, "role": profile.Role})
}
