package repositories

import (
	"strconv"
	"time"

	"itblog-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ArticleRepository interface {
	CreateWithCategories(article *models.Article, categoryIDs []uint) error
	GetByID(id uint) (*models.Article, error)
	GetByIDOrSlug(key string) (*models.Article, error)
	SlugExists(slug string, excludeID uint) (bool, error)
	List(offset, limit int, scopes ...Scope) ([]models.Article, int64, error)
	UpdateWithCategories(article *models.Article, categoryIDs []uint) error
	UpdateStatus(article *models.Article) error
	DeleteCascade(id uint) error
	IncrementView(articleID uint) error
	UpsertReadingList(userID, articleID uint, at time.Time) error
}

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func categoryLinks(articleID uint, categoryIDs []uint) []models.ArticleCategory {
	links := make([]models.ArticleCategory, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		links = append(links, models.ArticleCategory{ArticleID: articleID, CategoryID: id})
	}
	return links
}

// CreateWithCategories inserts the article and all of its category links in one transaction.
func (r *articleRepository) CreateWithCategories(article *models.Article, categoryIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(article).Error; err != nil {
			return err
		}
		if len(categoryIDs) == 0 {
			return nil
		}
		return tx.Create(categoryLinks(article.ID, categoryIDs)).Error
	})
}

func (r *articleRepository) GetByID(id uint) (*models.Article, error) {
	var article models.Article
	err := r.db.Preload("User").
		Preload("View").
		Preload("Categories").
		First(&article, id).Error
	return &article, err
}

// GetByIDOrSlug looks the key up as an id first and falls back to the slug.
func (r *articleRepository) GetByIDOrSlug(key string) (*models.Article, error) {
	if id, err := strconv.ParseUint(key, 10, 64); err == nil {
		article, err := r.GetByID(uint(id))
		if err == nil || !IsNotFound(err) {
			return article, err
		}
	}

	var article models.Article
	err := r.db.Preload("User").
		Preload("View").
		Preload("Categories").
		Where("slug = ?", key).
		First(&article).Error
	return &article, err
}

func (r *articleRepository) SlugExists(slug string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&models.Article{}).Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *articleRepository) List(offset, limit int, scopes ...Scope) ([]models.Article, int64, error) {
	var articles []models.Article
	var total int64

	if err := r.db.Model(&models.Article{}).Scopes(scopes...).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Model(&models.Article{}).
		Scopes(scopes...).
		Preload("User").
		Preload("View").
		Order("articles.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&articles).Error

	return articles, total, err
}

// UpdateWithCategories saves the article columns and, when categoryIDs is not
// nil, replaces its category links within the same transaction.
func (r *articleRepository) UpdateWithCategories(article *models.Article, categoryIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(article).Error; err != nil {
			return err
		}
		if categoryIDs == nil {
			return nil
		}
		if err := tx.Where("article_id = ?", article.ID).Delete(&models.ArticleCategory{}).Error; err != nil {
			return err
		}
		if len(categoryIDs) == 0 {
			return nil
		}
		return tx.Create(categoryLinks(article.ID, categoryIDs)).Error
	})
}

func (r *articleRepository) UpdateStatus(article *models.Article) error {
	return r.db.Model(article).Select("status", "reject_reason", "updated_at").Updates(map[string]interface{}{
		"status":        article.Status,
		"reject_reason": article.RejectReason,
		"updated_at":    time.Now(),
	}).Error
}

// DeleteCascade removes the article and every row that references it.
func (r *articleRepository) DeleteCascade(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		dependents := []interface{}{
			&models.Notification{},
			&models.Comment{},
			&models.ArticleLike{},
			&models.ArticleView{},
			&models.ReadingList{},
			&models.ArticleCategory{},
		}
		for _, model := range dependents {
			if err := tx.Where("article_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}

		res := tx.Delete(&models.Article{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// IncrementView creates the counter row on first view and otherwise bumps it
// in the same statement, so concurrent readers never lose an update.
func (r *articleRepository) IncrementView(articleID uint) error {
	now := time.Now()
	view := models.ArticleView{ArticleID: articleID, ViewCount: 1, CreatedAt: now, UpdatedAt: now}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "article_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"view_count": gorm.Expr("article_views.view_count + 1"),
			"updated_at": now,
		}),
	}).Create(&view).Error
}

func (r *articleRepository) UpsertReadingList(userID, articleID uint, at time.Time) error {
	entry := models.ReadingList{UserID: userID, ArticleID: articleID, LastReadAt: at, CreatedAt: at, UpdatedAt: at}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "article_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"last_read_at": at,
			"updated_at":   at,
		}),
	}).Create(&entry).Error
}
