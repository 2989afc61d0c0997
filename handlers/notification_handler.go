package handlers

import (
	"itblog-api/helper"
	"itblog-api/middleware"
	"itblog-api/models"
	"itblog-api/services"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService services.NotificationService
	Helper              *helper.HTTPHelper
}

func NewNotificationHandler(notificationService services.NotificationService, h *helper.HTTPHelper) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, Helper: h}
}

func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	p := helper.PaginationFromQuery(c, defaultNotificationLimit)

	notifications, total, err := h.notificationService.List(middleware.CurrentActor(c), p)
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendPaged(c, models.MsgSuccess, notifications, p, total)
}

func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	id, ok := paramID(c, h.Helper, "id")
	if !ok {
		return
	}

	if err := h.notificationService.Delete(middleware.CurrentActor(c), id); err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, models.MsgNotificationDeleted, h.Helper.EmptyJsonMap())
}

func (h *NotificationHandler) DeleteAllNotifications(c *gin.Context) {
	deleted, err := h.notificationService.DeleteAll(middleware.CurrentActor(c))
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, models.MsgNotificationDeleted, gin.H{"deleted": deleted})
}
