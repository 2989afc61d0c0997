package models

import "time"

// ReadingList marks that a user has read an article. One row per (user, article).
type ReadingList struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	UserID     uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_reading_list_pair"`
	ArticleID  uint      `json:"article_id" gorm:"not null;uniqueIndex:idx_reading_list_pair;index"`
	LastReadAt time.Time `json:"last_read_at" gorm:"index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
