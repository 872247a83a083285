package api

import (
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/middleware"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/response"

	"github.com/gin-gonic/gin"
)

// ListMyNotifications lists the caller's notifications.
// GET /api/me/notifications?unread=true
func ListMyNotifications(c *gin.Context) {
	actor := middleware.Actor(c)
	rows, err := notificationService().ListForProfile(actor.UUID, c.Query("unread") == "true")
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessJSON(c, rows)
}

// MarkNotificationRead marks one of the caller's notifications read.
// POST /api/me/notifications/:id/read
func MarkNotificationRead(c *gin.Context) {
	actor := middleware.Actor(c)
	if err := notificationService().MarkRead(actor.UUID, c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessJSON(c, nil)
}
