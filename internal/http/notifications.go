package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/openshelf/openshelf/internal/database/notifications"
	"github.com/openshelf/openshelf/internal/entities"
)

// NotificationStore defines database operations for the notification log.
type NotificationStore interface {
	Create(n *entities.Notification) error
	List(f notifications.Filter) ([]entities.Notification, int64, int64, error)
	MarkRead(id string, isRead bool) (*entities.Notification, error)
}

type NotificationsController struct {
	store NotificationStore
}

func NewNotificationsController(store NotificationStore) *NotificationsController {
	return &NotificationsController{store: store}
}

// ListNotifications returns a user's non-expired notifications with the
// unread count.
// GET /api/notifications?userId=...
func (nc *NotificationsController) ListNotifications(c *gin.Context) {
	userID, ok := requireQuery(c, "userId", "User ID is required")
	if !ok {
		return
	}
	page, limit := parsePageQuery(c, 20)

	items, total, unread, err := nc.store.List(notifications.Filter{
		UserID:     userID,
		UnreadOnly: c.Query("unreadOnly") == "true",
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		respondInternalError(c, err, "list notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": items,
		"unreadCount":   unread,
		"pagination":    newPagination(page, limit, total),
	})
}

// CreateNotification appends a notification, optionally with an expiry.
// POST /api/notifications
func (nc *NotificationsController) CreateNotification(c *gin.Context) {
	var req struct {
		UserID    string     `json:"userId"`
		Type      string     `json:"type"`
		Title     string     `json:"title"`
		Message   string     `json:"message"`
		Data      string     `json:"data"`
		ExpiresAt *time.Time `json:"expiresAt"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.UserID == "" || req.Type == "" || req.Title == "" || req.Message == "" {
		respondBadRequest(c, "User ID, type, title, and message are required")
		return
	}

	notification := &entities.Notification{
		UserID:    req.UserID,
		Type:      entities.NotificationType(req.Type),
		Title:     req.Title,
		Message:   req.Message,
		Data:      req.Data,
		ExpiresAt: req.ExpiresAt,
	}
	if err := nc.store.Create(notification); err != nil {
		respondInternalError(c, err, "create notification")
		return
	}

	respondCreated(c, notification)
}

// MarkNotification flips a notification's read flag.
// PATCH /api/notifications
func (nc *NotificationsController) MarkNotification(c *gin.Context) {
	var req struct {
		NotificationID string `json:"notificationId"`
		IsRead         *bool  `json:"isRead"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.NotificationID == "" {
		respondBadRequest(c, "Notification ID is required")
		return
	}

	isRead := true
	if req.IsRead != nil {
		isRead = *req.IsRead
	}

	notification, err := nc.store.MarkRead(req.NotificationID, isRead)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "notification")
		return
	}
	if err != nil {
		respondInternalError(c, err, "mark notification")
		return
	}

	c.JSON(http.StatusOK, notification)
}
