package models

import "time"

type NotificationType string

const (
	NotificationFollow  NotificationType = "follow"
	NotificationComment NotificationType = "comment"
	NotificationLike    NotificationType = "like"
)

type Notification struct {
	ID            uint             `json:"id" gorm:"primarykey"`
	UserID        uint             `json:"user_id" gorm:"not null;index"`
	Type          NotificationType `json:"type" gorm:"size:20;not null;index"`
	RelatedUserID *uint            `json:"related_user_id" gorm:"index"`
	RelatedUser   *UserSummary     `json:"related_user,omitempty" gorm:"foreignKey:RelatedUserID"`
	ArticleID     *uint            `json:"article_id" gorm:"index"`
	Article       *Article         `json:"article,omitempty" gorm:"foreignKey:ArticleID"`
	CommentID     *uint            `json:"comment_id,omitempty" gorm:"index"`
	CreatedAt     time.Time        `json:"created_at" gorm:"index"`
}
