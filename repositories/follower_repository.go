package repositories

import (
	"time"

	"itblog-api/models"

	"gorm.io/gorm"
)

type FollowerRepository interface {
	Toggle(followerID, followedID uint) (following bool, err error)
	IsFollowing(followerID, followedID uint) (bool, error)
	CountFollowers(userID uint) (int64, error)
	Followers(userID uint) ([]models.User, error)
	Following(userID uint) ([]models.User, error)
	CountNewFollowers(userID uint, from, to time.Time) (int64, error)
}

type followerRepository struct {
	db *gorm.DB
}

func NewFollowerRepository(db *gorm.DB) FollowerRepository {
	return &followerRepository{db: db}
}

// Toggle removes the edge and its follow notifications when it exists and
// creates both otherwise, in a single transaction.
func (r *followerRepository) Toggle(followerID, followedID uint) (bool, error) {
	following := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_user_id = ? AND followed_user_id = ?", followerID, followedID).
			Delete(&models.Follower{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Where("user_id = ? AND type = ? AND related_user_id = ?",
				followedID, models.NotificationFollow, followerID).
				Delete(&models.Notification{}).Error
		}

		edge := models.Follower{FollowerUserID: followerID, FollowedUserID: followedID}
		if err := tx.Create(&edge).Error; err != nil {
			return err
		}
		notification := models.Notification{
			UserID:        followedID,
			Type:          models.NotificationFollow,
			RelatedUserID: &followerID,
		}
		if err := tx.Create(&notification).Error; err != nil {
			return err
		}
		following = true
		return nil
	})
	return following, err
}

func (r *followerRepository) IsFollowing(followerID, followedID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Follower{}).
		Where("follower_user_id = ? AND followed_user_id = ?", followerID, followedID).
		Count(&count).Error
	return count > 0, err
}

func (r *followerRepository) CountFollowers(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follower{}).Where("followed_user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *followerRepository) Followers(userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.Joins("JOIN followers ON followers.follower_user_id = users.id").
		Where("followers.followed_user_id = ?", userID).
		Order("followers.created_at DESC").
		Find(&users).Error
	return users, err
}

func (r *followerRepository) Following(userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.Joins("JOIN followers ON followers.followed_user_id = users.id").
		Where("followers.follower_user_id = ?", userID).
		Order("followers.created_at DESC").
		Find(&users).Error
	return users, err
}

func (r *followerRepository) CountNewFollowers(userID uint, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follower{}).
		Where("followed_user_id = ?", userID).
		Scopes(Between("created_at", from, to)).
		Count(&count).Error
	return count, err
}
