package models

import (
	"encoding/json"
	"mime/multipart"
	"strings"
	"time"
)

type RegisterRequest struct {
	Username string `json:"username" form:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Fullname string `json:"fullname" form:"fullname" validate:"max=100"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
}

// LoginRequest accepts either the username or the email in Username.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" form:"old_password" validate:"required"`
	NewPassword string `json:"new_password" form:"new_password" validate:"required,min=6"`
}

type UpdateProfileRequest struct {
	Fullname string                `form:"fullname" validate:"max=100"`
	Avatar   *multipart.FileHeader `form:"avatar"`
}

// ArticleForm is the multipart body shared by create, update and save-draft.
// Categories carries a JSON array of {"value": id} objects.
type ArticleForm struct {
	Title      string                `form:"title" validate:"max=255"`
	Content    string                `form:"content"`
	Tags       string                `form:"tags" validate:"max=255"`
	Slug       string                `form:"slug" validate:"max=255"`
	IsDraft    string                `form:"is_draft"`
	Categories string                `form:"categories"`
	Image      *multipart.FileHeader `form:"image"`
}

func (f ArticleForm) Draft() bool {
	switch strings.ToLower(strings.TrimSpace(f.IsDraft)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// CategoryIDs decodes Categories. An empty field yields an empty slice.
func (f ArticleForm) CategoryIDs() ([]uint, error) {
	raw := strings.TrimSpace(f.Categories)
	if raw == "" {
		return []uint{}, nil
	}
	var options []struct {
		Value uint `json:"value"`
	}
	if err := json.Unmarshal([]byte(raw), &options); err != nil {
		return nil, NewValidationError(MsgCategoryInvalid)
	}
	ids := make([]uint, 0, len(options))
	seen := make(map[uint]bool, len(options))
	for _, o := range options {
		if o.Value == 0 || seen[o.Value] {
			continue
		}
		seen[o.Value] = true
		ids = append(ids, o.Value)
	}
	return ids, nil
}

type RejectRequest struct {
	Reason string `json:"reason" form:"reason" validate:"max=500"`
}

type CategoryRequest struct {
	Name  string                `form:"name" json:"name" validate:"required,max=100"`
	Slug  string                `form:"slug" json:"slug" validate:"required,max=100"`
	Image *multipart.FileHeader `form:"image" json:"-"`
}

type CommentRequest struct {
	Content string `json:"content" form:"content" validate:"required,max=5000"`
}

type RelatedRequest struct {
	CategoryIDs []uint   `json:"category_ids"`
	Tags        []string `json:"tags"`
}

// ArticleSummary is the row shape shared by every ranking and feed query.
type ArticleSummary struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Tags          string    `json:"tags"`
	ImageURL      string    `json:"image_url"`
	UserID        uint      `json:"user_id"`
	Username      string    `json:"username"`
	Fullname      string    `json:"fullname"`
	AvatarURL     string    `json:"avatar_url"`
	TotalViews    int64     `json:"total_views"`
	TotalLikes    int64     `json:"total_likes"`
	TotalComments int64     `json:"total_comments"`
	CreatedAt     time.Time `json:"created_at"`
}

type CategoryCount struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	ImageURL     string `json:"image_url"`
	TotalArticle int64  `json:"total_article"`
}

type CommentSummary struct {
	ID           uint      `json:"id"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
	ArticleID    uint      `json:"article_id"`
	ArticleTitle string    `json:"article_title"`
	ArticleSlug  string    `json:"article_slug"`
	UserID       uint      `json:"user_id"`
	Username     string    `json:"username"`
	Fullname     string    `json:"fullname"`
	AvatarURL    string    `json:"avatar_url"`
}

type PeriodCounts struct {
	Day   int64 `json:"day"`
	Week  int64 `json:"week"`
	Month int64 `json:"month"`
}

type AdminStatistics struct {
	ApprovedArticles        PeriodCounts `json:"approved_articles"`
	RejectedArticles        PeriodCounts `json:"rejected_articles"`
	NewUsers                PeriodCounts `json:"new_users"`
	ArticlesPerMonth        []int64      `json:"articles_per_month"`
	CommentsPerMonth        []int64      `json:"comments_per_month"`
	UsersRegisteredPerMonth []int64      `json:"users_registered_per_month"`
}

type UserStatistics struct {
	LikesPerMonth         []int64      `json:"likes_per_month"`
	ViewsPerMonth         []int64      `json:"views_per_month"`
	FollowersPerMonth     []int64      `json:"followers_per_month"`
	CommentsStats         PeriodCounts `json:"comments_stats"`
	PublicArticlesStats   PeriodCounts `json:"public_articles_stats"`
	RejectedArticlesStats PeriodCounts `json:"rejected_articles_stats"`
}

type FollowStatus struct {
	User          UserSummary `json:"user"`
	FollowerCount int64       `json:"follower_count"`
	IsFollowing   bool        `json:"is_following"`
}

type FollowLists struct {
	Followers []UserSummary `json:"followers"`
	Following []UserSummary `json:"following"`
}
