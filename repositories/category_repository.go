package repositories

import (
	"itblog-api/models"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *models.Category) error
	GetByID(id uint) (*models.Category, error)
	GetBySlug(slug string) (*models.Category, error)
	List(search string) ([]models.Category, error)
	CountExisting(ids []uint) (int64, error)
	Delete(id uint) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}

func (r *categoryRepository) GetByID(id uint) (*models.Category, error) {
	var category models.Category
	err := r.db.First(&category, id).Error
	return &category, err
}

func (r *categoryRepository) GetBySlug(slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.Where("slug = ?", slug).First(&category).Error
	return &category, err
}

func (r *categoryRepository) List(search string) ([]models.Category, error) {
	var categories []models.Category
	query := r.db.Model(&models.Category{})
	if search != "" {
		query = query.Where("LOWER(name) LIKE ? ESCAPE '\\'", likePattern(search))
	}
	err := query.Order("name ASC, id ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) CountExisting(ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.Model(&models.Category{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

// Delete removes the category together with its article links.
func (r *categoryRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&models.ArticleCategory{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
