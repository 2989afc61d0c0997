package services

import (
	"strings"

	"itblog-api/models"
	"itblog-api/repositories"
)

type FollowerService interface {
	Show(actor models.Actor, key string) (*models.FollowStatus, error)
	Toggle(actor models.Actor, key string) (following bool, err error)
	Lists(key string) (*models.FollowLists, error)
}

type followerService struct {
	followerRepo repositories.FollowerRepository
	userRepo     repositories.UserRepository
}

func NewFollowerService(followerRepo repositories.FollowerRepository, userRepo repositories.UserRepository) FollowerService {
	return &followerService{followerRepo: followerRepo, userRepo: userRepo}
}

func (s *followerService) user(key string) (*models.User, error) {
	user, err := s.userRepo.GetByIDOrUsername(strings.TrimSpace(key))
	if err != nil {
		return nil, storeError(err, models.MsgUserNotFound)
	}
	return user, nil
}

func (s *followerService) Show(actor models.Actor, key string) (*models.FollowStatus, error) {
	user, err := s.user(key)
	if err != nil {
		return nil, err
	}
	count, err := s.followerRepo.CountFollowers(user.ID)
	if err != nil {
		return nil, models.NewInternalError(models.MsgInternal, err)
	}
	status := &models.FollowStatus{User: user.Summary(), FollowerCount: count}
	if !actor.IsAnonymous() && actor.ID != user.ID {
		if status.IsFollowing, err = s.followerRepo.IsFollowing(actor.ID, user.ID); err != nil {
			return nil, models.NewInternalError(models.MsgInternal, err)
		}
	}
	return status, nil
}

// Toggle follows the user identified by key, or unfollows when already following.
func (s *followerService) Toggle(actor models.Actor, key string) (bool, error) {
	if actor.IsAnonymous() {
		return false, models.NewUnauthorizedError(models.MsgLoginRequired)
	}
	user, err := s.user(key)
	if err != nil {
		return false, err
	}
	if user.ID == actor.ID {
		return false, models.NewValidationError(models.MsgFollowSelf)
	}
	following, err := s.followerRepo.Toggle(actor.ID, user.ID)
	if err != nil {
		return false, models.NewInternalError(models.MsgInternal, err)
	}
	return following, nil
}

func (s *followerService) Lists(key string) (*models.FollowLists, error) {
	user, err := s.user(key)
	if err != nil {
		return nil, err
	}
	followers, err := s.followerRepo.Followers(user.ID)
	if err != nil {
		return nil, models.NewInternalError(models.MsgInternal, err)
	}
	following, err := s.followerRepo.Following(user.ID)
	if err != nil {
		return nil, models.NewInternalError(models.MsgInternal, err)
	}
	return &models.FollowLists{Followers: summaries(followers), Following: summaries(following)}, nil
}

func summaries(users []models.User) []models.UserSummary {
	out := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, u.Summary())
	}
	return out
}
