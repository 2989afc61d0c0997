package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	Username  string         `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email     string         `json:"email" gorm:"uniqueIndex;not null"`
	Fullname  string         `json:"fullname" gorm:"size:100"`
	Password  string         `json:"-" gorm:"not null"`
	Role      UserRole       `json:"role" gorm:"size:10;default:'user';not null"`
	AvatarURL string         `json:"avatar_url"`
	IsBlocked bool           `json:"is_blocked" gorm:"default:false;not null"`
	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// UserSummary is the public projection of a user. It maps onto the users
// table so associations load only these columns.
type UserSummary struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Fullname  string `json:"fullname"`
	AvatarURL string `json:"avatar_url"`
}

func (UserSummary) TableName() string { return "users" }

func (u User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		Fullname:  u.Fullname,
		AvatarURL: u.AvatarURL,
	}
}
