package models

import "time"

// ArticleView holds the single monotonically increasing view counter of an article.
type ArticleView struct {
	ID        uint      `json:"-" gorm:"primarykey"`
	ArticleID uint      `json:"article_id" gorm:"uniqueIndex;not null"`
	ViewCount int64     `json:"view_count" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"updated_at" gorm:"index"`
}
