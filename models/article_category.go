package models

import "time"

// ArticleCategory is the join row behind Article.Categories.
type ArticleCategory struct {
	ArticleID  uint      `json:"article_id" gorm:"primaryKey"`
	CategoryID uint      `json:"category_id" gorm:"primaryKey;index"`
	CreatedAt  time.Time `json:"created_at"`
}
