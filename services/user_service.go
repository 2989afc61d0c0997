package services

import (
	"strings"

	"itblog-api/helper"
	"itblog-api/models"
	"itblog-api/repositories"
	"itblog-api/storage"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	Profile(actor models.Actor) (*models.User, error)
	Get(key string) (*models.User, error)
	List(search string, p helper.Pagination) ([]models.User, int64, error)
	UpdateProfile(actor models.Actor, req models.UpdateProfileRequest) (*models.User, error)
	ChangePassword(actor models.Actor, req models.ChangePasswordRequest) error
	ToggleBlock(actor models.Actor, id uint) (*models.User, error)
	ToggleAdmin(actor models.Actor, id uint) (*models.User, error)
}

type userService struct {
	userRepo repositories.UserRepository
	images   storage.ImageStore
	log      *zap.SugaredLogger
}

func NewUserService(userRepo repositories.UserRepository, images storage.ImageStore, log *zap.SugaredLogger) UserService {
	return &userService{userRepo: userRepo, images: images, log: log}
}

func (s *userService) Profile(actor models.Actor) (*models.User, error) {
	if actor.IsAnonymous() {
		return nil, models.NewUnauthorizedError(models.MsgLoginRequired)
	}
	user, err := s.userRepo.GetByID(actor.ID)
	if err != nil {
		return nil, storeError(err, models.MsgUserNotFound)
	}
	return user, nil
}

func (s *userService) Get(key string) (*models.User, error) {
	user, err := s.userRepo.GetByIDOrUsername(strings.TrimSpace(key))
	if err != nil {
		return nil, storeError(err, models.MsgUserNotFound)
	}
	return user, nil
}

func (s *userService) List(search string, p helper.Pagination) ([]models.User, int64, error) {
	users, total, err := s.userRepo.List(search, p.Offset(), p.Limit)
	if err != nil {
		return nil, 0, models.NewInternalError(models.MsgInternal, err)
	}
	return users, total, nil
}

func (s *userService) UpdateProfile(actor models.Actor, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.Profile(actor)
	if err != nil {
		return nil, err
	}

	if fullname := strings.TrimSpace(req.Fullname); fullname != "" {
		user.Fullname = fullname
	}

	oldAvatar := ""
	if req.Avatar != nil {
		url, err := s.images.Save("avatars", req.Avatar)
		if err != nil {
			return nil, err
		}
		oldAvatar = user.AvatarURL
		user.AvatarURL = url
	}

	if err := s.userRepo.Update(user); err != nil {
		if req.Avatar != nil {
			s.removeImage(user.AvatarURL)
		}
		return nil, models.NewInternalError(models.MsgInternal, err)
	}
	s.removeImage(oldAvatar)
	return user, nil
}

func (s *userService) ChangePassword(actor models.Actor, req models.ChangePasswordRequest) error {
	user, err := s.Profile(actor)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		return models.NewValidationError(models.MsgWrongPassword)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(models.MsgInternal, err)
	}
	user.Password = string(hashed)
	if err := s.userRepo.Update(user); err != nil {
		return models.NewInternalError(models.MsgInternal, err)
	}
	return nil
}

func (s *userService) ToggleBlock(actor models.Actor, id uint) (*models.User, error) {
	return s.adminToggle(actor, id, func(u *models.User) {
		u.IsBlocked = !u.IsBlocked
	})
}

func (s *userService) ToggleAdmin(actor models.Actor, id uint) (*models.User, error) {
	return s.adminToggle(actor, id, func(u *models.User) {
		if u.Role == models.RoleAdmin {
			u.Role = models.RoleUser
		} else {
			u.Role = models.RoleAdmin
		}
	})
}

// adminToggle applies change to another user's account. Admins cannot
// change their own account this way.
func (s *userService) adminToggle(actor models.Actor, id uint, change func(*models.User)) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, models.NewForbiddenError(models.MsgAdminRequired)
	}
	if actor.ID == id {
		return nil, models.NewValidationError(models.MsgForbidden)
	}
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, storeError(err, models.MsgUserNotFound)
	}
	change(user)
	if err := s.userRepo.Update(user); err != nil {
		return nil, models.NewInternalError(models.MsgInternal, err)
	}
	return user, nil
}

func (s *userService) removeImage(url string) {
	if url == "" {
		return
	}
	if err := s.images.Delete(url); err != nil {
		s.log.Warnw("failed to remove image", "url", url, "error", err)
	}
}
