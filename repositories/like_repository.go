package repositories

import (
	"time"

	"itblog-api/models"

	"gorm.io/gorm"
)

type LikeRepository interface {
	// Toggle likes or unlikes the article for userID. The like notification
	// for ownerID is created or removed alongside, unless the owner is the liker.
	Toggle(userID, articleID, ownerID uint) (liked bool, err error)
	Count(articleID uint) (int64, error)
	CountOnArticlesOf(ownerID uint, from, to time.Time) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Toggle(userID, articleID, ownerID uint) (bool, error) {
	liked := false
	notify := ownerID != userID
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND article_id = ?", userID, articleID).Delete(&models.ArticleLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			if !notify {
				return nil
			}
			return tx.Where("user_id = ? AND type = ? AND related_user_id = ? AND article_id = ?",
				ownerID, models.NotificationLike, userID, articleID).
				Delete(&models.Notification{}).Error
		}

		like := models.ArticleLike{UserID: userID, ArticleID: articleID, LikedAt: time.Now()}
		if err := tx.Create(&like).Error; err != nil {
			return err
		}
		liked = true
		if !notify {
			return nil
		}
		return tx.Create(&models.Notification{
			UserID:        ownerID,
			Type:          models.NotificationLike,
			RelatedUserID: &userID,
			ArticleID:     &articleID,
		}).Error
	})
	return liked, err
}

func (r *likeRepository) Count(articleID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.ArticleLike{}).Where("article_id = ?", articleID).Count(&count).Error
	return count, err
}

func (r *likeRepository) CountOnArticlesOf(ownerID uint, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.ArticleLike{}).
		Joins("JOIN articles ON articles.id = article_likes.article_id").
		Where("articles.user_id = ?", ownerID).
		Scopes(Between("article_likes.liked_at", from, to)).
		Count(&count).Error
	return count, err
}
