package repositories

import (
	"time"

	"itblog-api/models"

	"gorm.io/gorm"
)

type CommentRepository interface {
	// Create stores the comment and, when notification is not nil, the
	// notification for the article owner in the same transaction.
	Create(comment *models.Comment, notification *models.Notification) error
	GetByID(id uint) (*models.Comment, error)
	ListByArticle(articleID uint, offset, limit int) ([]models.Comment, int64, error)
	Delete(id uint) error
	CountOnArticlesOf(ownerID uint, from, to time.Time) (int64, error)
	CountCreated(from, to time.Time) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(comment *models.Comment, notification *models.Notification) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User", "Article").Create(comment).Error; err != nil {
			return err
		}
		if notification == nil {
			return nil
		}
		notification.CommentID = &comment.ID
		return tx.Create(notification).Error
	})
}

func (r *commentRepository) GetByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.Preload("User").Preload("Article").First(&comment, id).Error
	return &comment, err
}

func (r *commentRepository) ListByArticle(articleID uint, offset, limit int) ([]models.Comment, int64, error) {
	var comments []models.Comment
	var total int64

	if err := r.db.Model(&models.Comment{}).Where("article_id = ?", articleID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Where("article_id = ?", articleID).
		Preload("User").
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&comments).Error
	return comments, total, err
}

// Delete removes the comment and the notification it raised.
func (r *commentRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Comment{}, id).Error
	})
}

func (r *commentRepository) CountOnArticlesOf(ownerID uint, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).
		Joins("JOIN articles ON articles.id = comments.article_id").
		Where("articles.user_id = ?", ownerID).
		Scopes(Between("comments.created_at", from, to)).
		Count(&count).Error
	return count, err
}

func (r *commentRepository) CountCreated(from, to time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).Scopes(Between("created_at", from, to)).Count(&count).Error
	return count, err
}
