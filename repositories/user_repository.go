package repositories

import (
	"strconv"
	"strings"
	"time"

	"itblog-api/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByLogin(login string) (*models.User, error)
	GetByIDOrUsername(key string) (*models.User, error)
	Exists(username, email string) (bool, error)
	List(search string, offset, limit int) ([]models.User, int64, error)
	Newest(limit int) ([]models.User, error)
	Update(user *models.User) error
	CountCreated(from, to time.Time) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	return &user, err
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *userRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	return &user, err
}

// GetByLogin matches either the username or the email.
func (r *userRepository) GetByLogin(login string) (*models.User, error) {
	var user models.User
	err := r.db.Where("(username = ? OR email = ?)", login, strings.ToLower(login)).First(&user).Error
	return &user, err
}

// GetByIDOrUsername treats a numeric key as an id and anything else as a username.
func (r *userRepository) GetByIDOrUsername(key string) (*models.User, error) {
	if id, err := strconv.ParseUint(key, 10, 64); err == nil {
		return r.GetByID(uint(id))
	}
	return r.GetByUsername(key)
}

func (r *userRepository) Exists(username, email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("(username = ? OR email = ?)", username, email).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) List(search string, offset, limit int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	query := r.db.Model(&models.User{})
	if search != "" {
		pattern := likePattern(search)
		query = query.Where("(LOWER(username) LIKE ? ESCAPE '\\' OR LOWER(fullname) LIKE ? ESCAPE '\\')", pattern, pattern)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("id DESC").Offset(offset).Limit(limit).Find(&users).Error
	return users, total, err
}

func (r *userRepository) Newest(limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("is_blocked = ?", false).Order("created_at DESC, id DESC").Limit(limit).Find(&users).Error
	return users, err
}

func (r *userRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *userRepository) CountCreated(from, to time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Scopes(Between("created_at", from, to)).Count(&count).Error
	return count, err
}
