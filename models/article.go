package models

import (
	"encoding/json"
	"time"
)

type Article struct {
	ID           uint          `json:"id" gorm:"primarykey"`
	UserID       uint          `json:"user_id" gorm:"not null;index"`
	User         *UserSummary  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Title        string        `json:"title" gorm:"not null"`
	Slug         string        `json:"slug" gorm:"uniqueIndex;not null"`
	Content      string        `json:"content" gorm:"type:text"`
	Tags         string        `json:"tags"`
	Status       ArticleStatus `json:"status" gorm:"size:10;not null;default:'draft';index"`
	RejectReason string        `json:"reject_reason,omitempty"`
	ImageURL     string        `json:"image_url"`
	View         *ArticleView  `json:"views,omitempty" gorm:"foreignKey:ArticleID"`
	Categories   []Category    `json:"categories,omitempty" gorm:"many2many:article_categories;"`
	CreatedAt    time.Time     `json:"created_at" gorm:"index"`
	UpdatedAt    time.Time     `json:"updated_at" gorm:"index"`
}

// MarshalJSON adds the privacy/is_draft pair older clients still read.
func (a Article) MarshalJSON() ([]byte, error) {
	type article Article
	return json.Marshal(struct {
		article
		Privacy string `json:"privacy"`
		IsDraft bool   `json:"is_draft"`
	}{article(a), a.Status.Privacy(), a.Status.IsDraft()})
}

// ViewCount returns 0 when the counter row has not been created yet.
func (a Article) ViewCount() int64 {
	if a.View == nil {
		return 0
	}
	return a.View.ViewCount
}
