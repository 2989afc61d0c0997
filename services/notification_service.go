package services

import (
	"itblog-api/helper"
	"itblog-api/models"
	"itblog-api/repositories"
)

type NotificationService interface {
	List(actor models.Actor, p helper.Pagination) ([]models.Notification, int64, error)
	Delete(actor models.Actor, id uint) error
	DeleteAll(actor models.Actor) (int64, error)
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationService(notificationRepo repositories.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

func (s *notificationService) List(actor models.Actor, p helper.Pagination) ([]models.Notification, int64, error) {
	if actor.IsAnonymous() {
		return nil, 0, models.NewUnauthorizedError(models.MsgLoginRequired)
	}
	notifications, total, err := s.notificationRepo.ListByUser(actor.ID, p.Offset(), p.Limit)
	if err != nil {
		return nil, 0, models.NewInternalError(models.MsgInternal, err)
	}
	return notifications, total, nil
}

func (s *notificationService) Delete(actor models.Actor, id uint) error {
	notification, err := s.notificationRepo.GetByID(id)
	if err != nil {
		return storeError(err, models.MsgNotificationNotFound)
	}
	if !CanDeleteNotification(actor, notification) {
		return models.NewForbiddenError(models.MsgForbidden)
	}
	if err := s.notificationRepo.Delete(id); err != nil {
		return models.NewInternalError(models.MsgInternal, err)
	}
	return nil
}

// DeleteAll clears the caller's notifications. Having none is reported as not found.
func (s *notificationService) DeleteAll(actor models.Actor) (int64, error) {
	if actor.IsAnonymous() {
		return 0, models.NewUnauthorizedError(models.MsgLoginRequired)
	}
	deleted, err := s.notificationRepo.DeleteAllByUser(actor.ID)
	if err != nil {
		return 0, models.NewInternalError(models.MsgInternal, err)
	}
	if deleted == 0 {
		return 0, models.NewNotFoundError(models.MsgNoNotifications)
	}
	return deleted, nil
}
