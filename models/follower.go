package models

import "time"

// Follower is a directed edge: FollowerUserID follows FollowedUserID.
type Follower struct {
	ID             uint         `json:"id" gorm:"primarykey"`
	FollowerUserID uint         `json:"follower_user_id" gorm:"not null;uniqueIndex:idx_follower_pair"`
	FollowerUser   *UserSummary `json:"follower_user,omitempty" gorm:"foreignKey:FollowerUserID"`
	FollowedUserID uint         `json:"followed_user_id" gorm:"not null;uniqueIndex:idx_follower_pair;index"`
	FollowedUser   *UserSummary `json:"followed_user,omitempty" gorm:"foreignKey:FollowedUserID"`
	CreatedAt      time.Time    `json:"created_at" gorm:"index"`
}
