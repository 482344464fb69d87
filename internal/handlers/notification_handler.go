package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tailor_shop/internal/middleware"
	"tailor_shop/internal/services"
)

type NotificationHandler struct {
	notificationService services.NotificationService
}

func NewNotificationHandler(notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not resolve user")
		return
	}

	notifications, err := h.notificationService.GetForUser(user.ID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not resolve user")
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(id, user.ID); err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"status": "read"})
}
