package controllers

import (
	"errors"
	"net/http"

	"chemlab_inventory/app"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type NotificationController struct{ *Srv }

func NewNotificationController(s *Srv) *NotificationController {
	return &NotificationController{Srv: s}
}

func (nc *NotificationController) List(c *gin.Context) {
	uid, ok := app.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	unreadOnly := c.Query("unread") == "1"
	ns, err := nc.Repo.ListNotifications(c.Request.Context(), uid, unreadOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"notifications": ns})
}

func (nc *NotificationController) UnreadCount(c *gin.Context) {
	uid, ok := app.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	n, err := nc.Repo.UnreadCount(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"count": n})
}

// MarkRead flips the read flag; only the owning user can do it.
func (nc *NotificationController) MarkRead(c *gin.Context) {
	uid, ok := app.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	err := nc.Repo.MarkNotificationRead(c.Request.Context(), id, uid)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, app.H{"error": "notification not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
