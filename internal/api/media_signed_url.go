package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/middleware"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/response"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetSignedMediaURL authorizes the caller against receipt/post ownership
// rules and mints time-limited signed URLs.
// GET /api/media/signed-url?media_id=... or ?entity_type=...&entity_id=...
// Errors use the flat {"error": "..."} contract.
func GetSignedMediaURL(c *gin.Context) {
	actor := middleware.Actor(c)
	if actor == nil {
		response.FlatError(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	expiresIn := 0
	if raw := c.Query("expires_in"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.FlatError(c, http.StatusBadRequest, "expires_in must be an integer")
			return
		}
		expiresIn = parsed
	}

	service := mediaService()
	ttl := service.ClampTTL(expiresIn)

	if mediaID := c.Query("media_id"); mediaID != "" {
		if !services.IsStrictUUID(mediaID) {
			response.FlatError(c, http.StatusBadRequest, "media_id must be a valid uuid")
			return
		}
		item, err := service.SingleItem(actor, mediaID, ttl)
		if err != nil {
			writeMediaError(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
		return
	}

	entityType := c.Query("entity_type")
	entityID := c.Query("entity_id")
	if entityType == "" || entityID == "" {
		response.FlatError(c, http.StatusBadRequest, "media_id or entity_type and entity_id are required")
		return
	}
	if entityType != "receipt" && entityType != "post" {
		response.FlatError(c, http.StatusBadRequest, "entity_type must be receipt or post")
		return
	}
	if !services.IsStrictUUID(entityID) {
		response.FlatError(c, http.StatusBadRequest, "entity_id must be a valid uuid")
		return
	}

	batch, err := service.Batch(actor, entityType, entityID, ttl)
	if err != nil {
		writeMediaError(c, err)
		return
	}
	c.JSON(http.StatusOK, batch)
}

// writeMediaError maps service errors onto the flat contract
func writeMediaError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.FlatError(c, http.StatusNotFound, "media not found")
	case errors.Is(err, services.ErrForbidden):
		response.FlatError(c, http.StatusForbidden, "access denied")
	case errors.Is(err, services.ErrSigningNotConfigured):
		response.FlatError(c, http.StatusInternalServerError, "media signing is not configured")
	default:
		response.FlatError(c, http.StatusInternalServerError, err.Error())
	}
}
