package repositories

import (
	"fmt"
	"strings"
	"time"

	"itblog-api/models"

	"gorm.io/gorm"
)

// RankMetric is an output column of summarySelect an article ranking can order by.
type RankMetric string

const (
	RankByViews    RankMetric = "total_views"
	RankByLikes    RankMetric = "total_likes"
	RankByComments RankMetric = "total_comments"
)

func (m RankMetric) valid() bool {
	return m == RankByViews || m == RankByLikes || m == RankByComments
}

// Views come from the single counter row per article; likes and comments are
// counted from their child rows.
const summarySelect = `SELECT a.id, a.title, a.slug, a.tags, a.image_url, a.user_id, a.created_at,
	u.username, u.fullname, u.avatar_url,
	COALESCE(v.view_count, 0) AS total_views,
	(SELECT COUNT(*) FROM article_likes l WHERE l.article_id = a.id) AS total_likes,
	(SELECT COUNT(*) FROM comments c WHERE c.article_id = a.id) AS total_comments
FROM articles a
JOIN users u ON u.id = a.user_id
LEFT JOIN article_views v ON v.article_id = a.id`

const recommendOrder = `CASE WHEN a.id IN (
	SELECT ac.article_id FROM article_categories ac
	WHERE ac.category_id IN (
		SELECT lc.category_id FROM article_categories lc
		WHERE lc.article_id = (
			SELECT rl.article_id FROM reading_lists rl
			WHERE rl.user_id = ?
			ORDER BY rl.last_read_at DESC, rl.id DESC
			LIMIT 1
		)
	)
) THEN 0 ELSE 1 END, a.id DESC`

type StatsRepository interface {
	TopArticles(metric RankMetric, limit int, since time.Time) ([]models.ArticleSummary, error)
	TopArticlesCreatedBetween(metric RankMetric, from, to time.Time, offset, limit int) ([]models.ArticleSummary, int64, error)
	PublicArticles(search string, offset, limit int) ([]models.ArticleSummary, int64, error)
	ArticlesByCategory(categoryID uint, offset, limit int) ([]models.ArticleSummary, int64, error)
	ArticlesByUser(userID uint, search string, offset, limit int) ([]models.ArticleSummary, int64, error)
	FollowingFeed(userID uint, offset, limit int) ([]models.ArticleSummary, int64, error)
	Recommend(userID uint, offset, limit int) ([]models.ArticleSummary, int64, error)
	RelatedByCategories(articleID uint, categoryIDs []uint, limit int) ([]models.ArticleSummary, error)
	RelatedByTags(articleID uint, tags []string, limit int) ([]models.ArticleSummary, error)
	PopularOnLatestDay(before time.Time) (*models.ArticleSummary, error)
	TopCategories(limit int) ([]models.CategoryCount, error)
	CategoriesWithCount() ([]models.CategoryCount, error)
	LastComments(limit int) ([]models.CommentSummary, error)
	CountArticles(filter ArticleCountFilter) (int64, error)
	SumViews(ownerID uint, from, to time.Time) (int64, error)
}

// ArticleCountFilter selects articles by status, owner (0 for any) and a
// time range over CreatedAt, or UpdatedAt when ByUpdate is set.
type ArticleCountFilter struct {
	Status   models.ArticleStatus
	OwnerID  uint
	ByUpdate bool
	From     time.Time
	To       time.Time
}

type statsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

// summaries runs summarySelect with the given WHERE and ORDER BY fragments.
// Both fragments are written in this file; values always travel as arguments.
func (r *statsRepository) summaries(where string, args []interface{}, order string, orderArgs []interface{}, offset, limit int) ([]models.ArticleSummary, error) {
	query := summarySelect + " WHERE " + where + " ORDER BY " + order + " LIMIT ? OFFSET ?"
	all := make([]interface{}, 0, len(args)+len(orderArgs)+2)
	all = append(all, args...)
	all = append(all, orderArgs...)
	all = append(all, limit, offset)

	var out []models.ArticleSummary
	if err := r.db.Raw(query, all...).Scan(&out).Error; err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.ArticleSummary{}
	}
	return out, nil
}

func (r *statsRepository) count(where string, args []interface{}) (int64, error) {
	var total int64
	err := r.db.Raw("SELECT COUNT(*) FROM articles a WHERE "+where, args...).Scan(&total).Error
	return total, err
}

func (r *statsRepository) paged(where string, args []interface{}, order string, orderArgs []interface{}, offset, limit int) ([]models.ArticleSummary, int64, error) {
	total, err := r.count(where, args)
	if err != nil {
		return nil, 0, err
	}
	items, err := r.summaries(where, args, order, orderArgs, offset, limit)
	return items, total, err
}

func (r *statsRepository) TopArticles(metric RankMetric, limit int, since time.Time) ([]models.ArticleSummary, error) {
	if !metric.valid() {
		return nil, fmt.Errorf("unknown rank metric %q", metric)
	}
	where := "a.status = ?"
	args := []interface{}{models.StatusPublic}
	if !since.IsZero() {
		where += " AND a.created_at >= ?"
		args = append(args, since)
	}
	return r.summaries(where, args, string(metric)+" DESC, a.id ASC", nil, 0, limit)
}

func (r *statsRepository) TopArticlesCreatedBetween(metric RankMetric, from, to time.Time, offset, limit int) ([]models.ArticleSummary, int64, error) {
	if !metric.valid() {
		return nil, 0, fmt.Errorf("unknown rank metric %q", metric)
	}
	where := "a.status = ? AND a.created_at >= ? AND a.created_at < ?"
	args := []interface{}{models.StatusPublic, from, to}
	return r.paged(where, args, string(metric)+" DESC, a.id ASC", nil, offset, limit)
}

func (r *statsRepository) PublicArticles(search string, offset, limit int) ([]models.ArticleSummary, int64, error) {
	where := "a.status = ?"
	args := []interface{}{models.StatusPublic}
	if strings.TrimSpace(search) != "" {
		where += " AND LOWER(a.title) LIKE ? ESCAPE '\\'"
		args = append(args, likePattern(search))
	}
	return r.paged(where, args, "a.id DESC", nil, offset, limit)
}

func (r *statsRepository) ArticlesByCategory(categoryID uint, offset, limit int) ([]models.ArticleSummary, int64, error) {
	where := "a.status = ? AND a.id IN (SELECT ac.article_id FROM article_categories ac WHERE ac.category_id = ?)"
	args := []interface{}{models.StatusPublic, categoryID}
	return r.paged(where, args, "a.id DESC", nil, offset, limit)
}

func (r *statsRepository) ArticlesByUser(userID uint, search string, offset, limit int) ([]models.ArticleSummary, int64, error) {
	where := "a.status = ? AND a.user_id = ?"
	args := []interface{}{models.StatusPublic, userID}
	if strings.TrimSpace(search) != "" {
		where += " AND LOWER(a.title) LIKE ? ESCAPE '\\'"
		args = append(args, likePattern(search))
	}
	return r.paged(where, args, "a.id DESC", nil, offset, limit)
}

func (r *statsRepository) FollowingFeed(userID uint, offset, limit int) ([]models.ArticleSummary, int64, error) {
	where := "a.status = ? AND a.user_id IN (SELECT f.followed_user_id FROM followers f WHERE f.follower_user_id = ?)"
	args := []interface{}{models.StatusPublic, userID}
	return r.paged(where, args, "a.created_at DESC, a.id DESC", nil, offset, limit)
}

// Recommend lists every public article, those sharing a category with the
// user's most recently read article first.
func (r *statsRepository) Recommend(userID uint, offset, limit int) ([]models.ArticleSummary, int64, error) {
	where := "a.status = ?"
	args := []interface{}{models.StatusPublic}
	return r.paged(where, args, recommendOrder, []interface{}{userID}, offset, limit)
}

func (r *statsRepository) RelatedByCategories(articleID uint, categoryIDs []uint, limit int) ([]models.ArticleSummary, error) {
	if len(categoryIDs) == 0 {
		return []models.ArticleSummary{}, nil
	}
	where := "a.status = ? AND a.id <> ? AND a.id IN (SELECT ac.article_id FROM article_categories ac WHERE ac.category_id IN ?)"
	args := []interface{}{models.StatusPublic, articleID, categoryIDs}
	return r.summaries(where, args, "a.created_at DESC, a.id DESC", nil, 0, limit)
}

func (r *statsRepository) RelatedByTags(articleID uint, tags []string, limit int) ([]models.ArticleSummary, error) {
	var conds []string
	args := []interface{}{models.StatusPublic, articleID}
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			continue
		}
		conds = append(conds, "LOWER(a.tags) LIKE ? ESCAPE '\\'")
		args = append(args, likePattern(tag))
	}
	if len(conds) == 0 {
		return []models.ArticleSummary{}, nil
	}
	where := "a.status = ? AND a.id <> ? AND (" + strings.Join(conds, " OR ") + ")"
	return r.summaries(where, args, "a.created_at DESC, a.id DESC", nil, 0, limit)
}

// PopularOnLatestDay finds the most recent day before the cutoff with a
// public article and returns that day's most viewed one.
func (r *statsRepository) PopularOnLatestDay(before time.Time) (*models.ArticleSummary, error) {
	var latest models.Article
	err := r.db.Select("id", "created_at").
		Where("status = ? AND created_at < ?", models.StatusPublic, before).
		Order("created_at DESC, id DESC").
		First(&latest).Error
	if err != nil {
		return nil, err
	}

	created := latest.CreatedAt.In(before.Location())
	dayStart := time.Date(created.Year(), created.Month(), created.Day(), 0, 0, 0, 0, before.Location())
	where := "a.status = ? AND a.created_at >= ? AND a.created_at < ?"
	args := []interface{}{models.StatusPublic, dayStart, dayStart.AddDate(0, 0, 1)}
	items, err := r.summaries(where, args, "total_views DESC, a.created_at DESC, a.id DESC", nil, 0, 1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &items[0], nil
}

func (r *statsRepository) TopCategories(limit int) ([]models.CategoryCount, error) {
	var out []models.CategoryCount
	err := r.db.Raw(`SELECT c.id, c.name, c.slug, c.image_url, COUNT(a.id) AS total_article
FROM categories c
JOIN article_categories ac ON ac.category_id = c.id
JOIN articles a ON a.id = ac.article_id AND a.status = ?
GROUP BY c.id, c.name, c.slug, c.image_url
ORDER BY total_article DESC, c.id ASC
LIMIT ?`, models.StatusPublic, limit).Scan(&out).Error
	return out, err
}

func (r *statsRepository) CategoriesWithCount() ([]models.CategoryCount, error) {
	var out []models.CategoryCount
	err := r.db.Raw(`SELECT c.id, c.name, c.slug, c.image_url, COUNT(a.id) AS total_article
FROM categories c
LEFT JOIN article_categories ac ON ac.category_id = c.id
LEFT JOIN articles a ON a.id = ac.article_id AND a.status = ?
GROUP BY c.id, c.name, c.slug, c.image_url
ORDER BY c.name ASC, c.id ASC`, models.StatusPublic).Scan(&out).Error
	return out, err
}

func (r *statsRepository) LastComments(limit int) ([]models.CommentSummary, error) {
	var out []models.CommentSummary
	err := r.db.Raw(`SELECT cm.id, cm.content, cm.created_at, cm.article_id,
	a.title AS article_title, a.slug AS article_slug,
	cm.user_id, u.username, u.fullname, u.avatar_url
FROM comments cm
JOIN articles a ON a.id = cm.article_id
JOIN users u ON u.id = cm.user_id
WHERE a.status = ?
ORDER BY cm.created_at DESC, cm.id DESC
LIMIT ?`, models.StatusPublic, limit).Scan(&out).Error
	return out, err
}

func (r *statsRepository) CountArticles(filter ArticleCountFilter) (int64, error) {
	column := "created_at"
	if filter.ByUpdate {
		column = "updated_at"
	}
	query := r.db.Model(&models.Article{}).
		Where("status = ?", filter.Status).
		Scopes(Between(column, filter.From, filter.To))
	if filter.OwnerID != 0 {
		query = query.Where("user_id = ?", filter.OwnerID)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

// SumViews adds up the counters of ownerID's articles last bumped in [from, to).
func (r *statsRepository) SumViews(ownerID uint, from, to time.Time) (int64, error) {
	var total int64
	err := r.db.Raw(`SELECT CAST(COALESCE(SUM(v.view_count), 0) AS BIGINT)
FROM article_views v
JOIN articles a ON a.id = v.article_id
WHERE a.user_id = ? AND v.updated_at >= ? AND v.updated_at < ?`, ownerID, from, to).Scan(&total).Error
	return total, err
}
