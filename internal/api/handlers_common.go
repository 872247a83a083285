package api

import (
	"errors"
	"net/http"

	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/response"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// writeServiceError maps service errors onto the response envelope
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.ErrorJSON(c, http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrForbidden):
		response.ErrorJSON(c, http.StatusForbidden, "Access denied")
	case errors.Is(err, services.ErrConflict):
		response.ErrorJSON(c, http.StatusConflict, err.Error())
	default:
		response.ErrorJSON(c, http.StatusBadRequest, err.Error())
	}
}
