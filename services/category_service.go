package services

import (
	"strings"

	"itblog-api/models"
	"itblog-api/repositories"
	"itblog-api/storage"

	"go.uber.org/zap"
)

type CategoryService interface {
	CreateCategory(actor models.Actor, req models.CategoryRequest) (*models.Category, error)
	GetCategories(search string) ([]models.Category, error)
	DeleteCategory(actor models.Actor, id uint) error
}

type categoryService struct {
	categoryRepo repositories.CategoryRepository
	images       storage.ImageStore
	log          *zap.SugaredLogger
}

func NewCategoryService(categoryRepo repositories.CategoryRepository, images storage.ImageStore, log *zap.SugaredLogger) CategoryService {
	return &categoryService{categoryRepo: categoryRepo, images: images, log: log}
}

func (s *categoryService) CreateCategory(actor models.Actor, req models.CategoryRequest) (*models.Category, error) {
	if !actor.IsAdmin() {
		return nil, models.NewForbiddenError(models.MsgAdminRequired)
	}

	slug := strings.TrimSpace(req.Slug)
	_, err := s.categoryRepo.GetBySlug(slug)
	if err == nil {
		return nil, models.NewValidationError(models.MsgCategoryExists)
	}
	if !repositories.IsNotFound(err) {
		return nil, models.NewInternalError(models.MsgInternal, err)
	}

	category := &models.Category{
		Name: strings.TrimSpace(req.Name),
		Slug: slug,
	}
	if req.Image != nil {
		if category.ImageURL, err = s.images.Save("categories", req.Image); err != nil {
			return nil, err
		}
	}

	if err := s.categoryRepo.Create(category); err != nil {
		if category.ImageURL != "" {
			if rmErr := s.images.Delete(category.ImageURL); rmErr != nil {
				s.log.Warnw("failed to remove image", "url", category.ImageURL, "error", rmErr)
			}
		}
		if repositories.IsUniqueViolation(err) {
			return nil, models.NewValidationError(models.MsgCategoryExists)
		}
		return nil, models.NewInternalError(models.MsgInternal, err)
	}

	return category, nil
}

func (s *categoryService) GetCategories(search string) ([]models.Category, error) {
	categories, err := s.categoryRepo.List(strings.TrimSpace(search))
	if err != nil {
		return nil, models.NewInternalError(models.MsgInternal, err)
	}
	return categories, nil
}

func (s *categoryService) DeleteCategory(actor models.Actor, id uint) error {
	if !actor.IsAdmin() {
		return models.NewForbiddenError(models.MsgAdminRequired)
	}
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return storeError(err, models.MsgCategoryNotFound)
	}
	if err := s.categoryRepo.Delete(id); err != nil {
		return storeError(err, models.MsgCategoryNotFound)
	}
	if category.ImageURL != "" {
		if err := s.images.Delete(category.ImageURL); err != nil {
			s.log.Warnw("failed to remove image", "url", category.ImageURL, "error", err)
		}
	}
	return nil
}
