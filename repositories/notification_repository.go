package repositories

import (
	"itblog-api/models"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	ListByUser(userID uint, offset, limit int) ([]models.Notification, int64, error)
	GetByID(id uint) (*models.Notification, error)
	Delete(id uint) error
	DeleteAllByUser(userID uint) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) ListByUser(userID uint, offset, limit int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	if err := r.db.Model(&models.Notification{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Where("user_id = ?", userID).
		Preload("RelatedUser").
		Preload("Article").
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&notifications).Error
	return notifications, total, err
}

func (r *notificationRepository) GetByID(id uint) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.First(&notification, id).Error
	return &notification, err
}

func (r *notificationRepository) Delete(id uint) error {
	return r.db.Delete(&models.Notification{}, id).Error
}

func (r *notificationRepository) DeleteAllByUser(userID uint) (int64, error) {
	res := r.db.Where("user_id = ?", userID).Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}
