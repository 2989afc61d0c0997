package models

import "time"

type ArticleLike struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_article_like_pair"`
	ArticleID uint      `json:"article_id" gorm:"not null;uniqueIndex:idx_article_like_pair;index"`
	LikedAt   time.Time `json:"liked_at" gorm:"index"`
}
