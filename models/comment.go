package models

import "time"

type Comment struct {
	ID        uint         `json:"id" gorm:"primarykey"`
	ArticleID uint         `json:"article_id" gorm:"not null;index"`
	Article   *Article     `json:"article,omitempty" gorm:"foreignKey:ArticleID"`
	UserID    uint         `json:"user_id" gorm:"not null;index"`
	User      *UserSummary `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Content   string       `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time    `json:"created_at" gorm:"index"`
	UpdatedAt time.Time    `json:"updated_at"`
}
