package services

import (
	"strings"
	"time"

	"itblog-api/models"
	"itblog-api/repositories"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(req models.RegisterRequest) (*models.AuthResponse, error)
	Login(req models.LoginRequest) (*models.AuthResponse, error)
	GetUserByID(id uint) (*models.User, error)
}

type authService struct {
	userRepo   repositories.UserRepository
	secret     []byte
	expiration time.Duration
}

func NewAuthService(userRepo repositories.UserRepository, secret []byte, expiration time.Duration) AuthService {
	return &authService{userRepo: userRepo, secret: secret, expiration: expiration}
}

func (s *authService) Register(req models.RegisterRequest) (*models.AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.userRepo.Exists(req.Username, req.Email)
	if err != nil {
		return nil, models.NewInternalError(models.MsgInternal, err)
	}
	if exists {
		return nil, models.NewValidationError(models.MsgUserExists)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(models.MsgInternal, err)
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Fullname: strings.TrimSpace(req.Fullname),
		Password: string(hashedPassword),
		Role:     models.RoleUser,
	}

	if err := s.userRepo.Create(user); err != nil {
		// lost a race with a concurrent registration
		if repositories.IsUniqueViolation(err) {
			return nil, models.NewValidationError(models.MsgUserExists)
		}
		return nil, models.NewInternalError(models.MsgInternal, err)
	}

	return s.respond(user)
}

func (s *authService) Login(req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByLogin(strings.TrimSpace(req.Username))
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, models.NewUnauthorizedError(models.MsgInvalidCredentials)
		}
		return nil, models.NewInternalError(models.MsgInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, models.NewUnauthorizedError(models.MsgInvalidCredentials)
	}

	if user.IsBlocked {
		return nil, models.NewForbiddenError(models.MsgAccountBlocked)
	}

	return s.respond(user)
}

func (s *authService) GetUserByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, storeError(err, models.MsgUserNotFound)
	}
	return user, nil
}

func (s *authService) respond(user *models.User) (*models.AuthResponse, error) {
	token, err := s.generateToken(user)
	if err != nil {
		return nil, models.NewInternalError(models.MsgInternal, err)
	}

	return &models.AuthResponse{
		Token: token,
		User:  *user,
	}, nil
}

func (s *authService) generateToken(user *models.User) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      now.Add(s.expiration).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(s.secret)
}
