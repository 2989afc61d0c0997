package services

import (
	"sort"
	"strings"
	"time"

	"itblog-api/helper"
	"itblog-api/models"
	"itblog-api/repositories"

	"golang.org/x/sync/errgroup"
)

const (
	trendingPerMetric = 2
	mostPopularLimit  = 3
	topInteractLimit  = 4
	topCategoryLimit  = 4
	lastCommentLimit  = 3
	newUsersLimit     = 18
	relatedPerSource  = 3
	statsConcurrency  = 8
)

type StatsService interface {
	ListArticles(search string, p helper.Pagination) ([]models.ArticleSummary, int64, error)
	TopMonthViews(p helper.Pagination) ([]models.ArticleSummary, int64, error)
	TopInteract() ([]models.ArticleSummary, error)
	Trending() ([]models.ArticleSummary, error)
	MostPopular() ([]models.ArticleSummary, error)
	PopularToday() (*models.ArticleSummary, error)
	Related(articleID uint, req models.RelatedRequest) ([]models.ArticleSummary, error)
	ListCategories() ([]models.CategoryCount, error)
	TopCategories() ([]models.CategoryCount, error)
	LastComments() ([]models.CommentSummary, error)
	NewUsers() ([]models.UserSummary, error)
	ArticlesByCategory(slug string, p helper.Pagination) (*models.Category, []models.ArticleSummary, int64, error)
	ArticlesByUser(username, search string, p helper.Pagination) (*models.UserSummary, []models.ArticleSummary, int64, error)
	FollowingFeed(actor models.Actor, p helper.Pagination) ([]models.ArticleSummary, int64, error)
	Recommend(actor models.Actor, p helper.Pagination) ([]models.ArticleSummary, int64, error)
	AdminStatistics(actor models.Actor) (*models.AdminStatistics, error)
	UserStatistics(actor models.Actor) (*models.UserStatistics, error)
}

type statsService struct {
	statsRepo    repositories.StatsRepository
	userRepo     repositories.UserRepository
	categoryRepo repositories.CategoryRepository
	commentRepo  repositories.CommentRepository
	likeRepo     repositories.LikeRepository
	followerRepo repositories.FollowerRepository
	now          func() time.Time
}

func NewStatsService(
	statsRepo repositories.StatsRepository,
	userRepo repositories.UserRepository,
	categoryRepo repositories.CategoryRepository,
	commentRepo repositories.CommentRepository,
	likeRepo repositories.LikeRepository,
	followerRepo repositories.FollowerRepository,
) StatsService {
	return &statsService{
		statsRepo:    statsRepo,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		commentRepo:  commentRepo,
		likeRepo:     likeRepo,
		followerRepo: followerRepo,
		now:          time.Now,
	}
}

// windows holds the starts of the current local day, week (from Sunday) and month.
type windows struct {
	day, week, month time.Time
}

func windowsAt(now time.Time) windows {
	loc := now.Location()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	return windows{
		day:   day,
		week:  day.AddDate(0, 0, -int(day.Weekday())),
		month: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc),
	}
}

// monthStart returns the first instant of month m (1-12) of the given year.
func monthStart(year int, m time.Month, loc *time.Location) time.Time {
	return time.Date(year, m, 1, 0, 0, 0, 0, loc)
}

type rangeCounter func(from, to time.Time) (int64, error)

// perMonth fills twelve buckets, January to December of now's year.
func perMonth(g *errgroup.Group, now time.Time, count rangeCounter) []int64 {
	buckets := make([]int64, 12)
	for i := range buckets {
		i := i
		from := monthStart(now.Year(), time.Month(i+1), now.Location())
		to := from.AddDate(0, 1, 0)
		g.Go(func() error {
			n, err := count(from, to)
			buckets[i] = n
			return err
		})
	}
	return buckets
}

// perPeriod counts from the start of each window up to now.
func perPeriod(g *errgroup.Group, w windows, out *models.PeriodCounts, count rangeCounter) {
	targets := []struct {
		from time.Time
		dst  *int64
	}{
		{w.day, &out.Day},
		{w.week, &out.Week},
		{w.month, &out.Month},
	}
	for _, t := range targets {
		t := t
		g.Go(func() error {
			n, err := count(t.from, time.Time{})
			*t.dst = n
			return err
		})
	}
}

func internal(err error) error {
	if err == nil {
		return nil
	}
	return models.NewInternalError(models.MsgInternal, err)
}

func (s *statsService) ListArticles(search string, p helper.Pagination) ([]models.ArticleSummary, int64, error) {
	items, total, err := s.statsRepo.PublicArticles(search, p.Offset(), p.Limit)
	return items, total, internal(err)
}

// TopMonthViews ranks the public articles created this calendar month by views.
func (s *statsService) TopMonthViews(p helper.Pagination) ([]models.ArticleSummary, int64, error) {
	w := windowsAt(s.now())
	items, total, err := s.statsRepo.TopArticlesCreatedBetween(repositories.RankByViews, w.month, w.month.AddDate(0, 1, 0), p.Offset(), p.Limit)
	return items, total, internal(err)
}

func (s *statsService) TopInteract() ([]models.ArticleSummary, error) {
	items, err := s.statsRepo.TopArticles(repositories.RankByComments, topInteractLimit, time.Time{})
	return items, internal(err)
}

func (s *statsService) MostPopular() ([]models.ArticleSummary, error) {
	items, err := s.statsRepo.TopArticles(repositories.RankByViews, mostPopularLimit, time.Time{})
	return items, internal(err)
}

// Trending is the union of the top articles by views, likes and comments,
// each article once, newest id first.
func (s *statsService) Trending() ([]models.ArticleSummary, error) {
	metrics := []repositories.RankMetric{repositories.RankByViews, repositories.RankByLikes, repositories.RankByComments}
	results := make([][]models.ArticleSummary, len(metrics))

	var g errgroup.Group
	for i, metric := range metrics {
		i, metric := i, metric
		g.Go(func() error {
			items, err := s.statsRepo.TopArticles(metric, trendingPerMetric, time.Time{})
			results[i] = items
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, internal(err)
	}

	return mergeTrending(results...), nil
}

func mergeTrending(lists ...[]models.ArticleSummary) []models.ArticleSummary {
	byID := make(map[uint]models.ArticleSummary)
	for _, list := range lists {
		for _, a := range list {
			if _, ok := byID[a.ID]; !ok {
				byID[a.ID] = a
			}
		}
	}
	out := make([]models.ArticleSummary, 0, len(byID))
	for _, a := range byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *statsService) PopularToday() (*models.ArticleSummary, error) {
	tomorrow := windowsAt(s.now()).day.AddDate(0, 0, 1)
	item, err := s.statsRepo.PopularOnLatestDay(tomorrow)
	if err != nil {
		return nil, storeError(err, models.MsgArticleNotFound)
	}
	return item, nil
}

// Related returns up to three articles sharing a category and up to three
// sharing a tag, category matches first, without duplicates.
func (s *statsService) Related(articleID uint, req models.RelatedRequest) ([]models.ArticleSummary, error) {
	var tags []string
	for _, tag := range req.Tags {
		for _, part := range strings.Split(tag, ",") {
			if part = strings.TrimSpace(part); part != "" {
				tags = append(tags, part)
			}
		}
	}

	byCategory, err := s.statsRepo.RelatedByCategories(articleID, req.CategoryIDs, relatedPerSource)
	if err != nil {
		return nil, internal(err)
	}
	byTag, err := s.statsRepo.RelatedByTags(articleID, tags, relatedPerSource)
	if err != nil {
		return nil, internal(err)
	}

	seen := make(map[uint]bool)
	out := make([]models.ArticleSummary, 0, len(byCategory)+len(byTag))
	for _, a := range append(byCategory, byTag...) {
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		out = append(out, a)
	}
	return out, nil
}

func (s *statsService) ListCategories() ([]models.CategoryCount, error) {
	items, err := s.statsRepo.CategoriesWithCount()
	return items, internal(err)
}

func (s *statsService) TopCategories() ([]models.CategoryCount, error) {
	items, err := s.statsRepo.TopCategories(topCategoryLimit)
	return items, internal(err)
}

func (s *statsService) LastComments() ([]models.CommentSummary, error) {
	items, err := s.statsRepo.LastComments(lastCommentLimit)
	return items, internal(err)
}

func (s *statsService) NewUsers() ([]models.UserSummary, error) {
	users, err := s.userRepo.Newest(newUsersLimit)
	if err != nil {
		return nil, internal(err)
	}
	return summaries(users), nil
}

func (s *statsService) ArticlesByCategory(slug string, p helper.Pagination) (*models.Category, []models.ArticleSummary, int64, error) {
	category, err := s.categoryRepo.GetBySlug(strings.TrimSpace(slug))
	if err != nil {
		return nil, nil, 0, storeError(err, models.MsgCategoryNotFound)
	}
	items, total, err := s.statsRepo.ArticlesByCategory(category.ID, p.Offset(), p.Limit)
	if err != nil {
		return nil, nil, 0, internal(err)
	}
	return category, items, total, nil
}

func (s *statsService) ArticlesByUser(username, search string, p helper.Pagination) (*models.UserSummary, []models.ArticleSummary, int64, error) {
	user, err := s.userRepo.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, nil, 0, storeError(err, models.MsgUserNotFound)
	}
	items, total, err := s.statsRepo.ArticlesByUser(user.ID, search, p.Offset(), p.Limit)
	if err != nil {
		return nil, nil, 0, internal(err)
	}
	summary := user.Summary()
	return &summary, items, total, nil
}

func (s *statsService) FollowingFeed(actor models.Actor, p helper.Pagination) ([]models.ArticleSummary, int64, error) {
	if actor.IsAnonymous() {
		return nil, 0, models.NewUnauthorizedError(models.MsgLoginRequired)
	}
	items, total, err := s.statsRepo.FollowingFeed(actor.ID, p.Offset(), p.Limit)
	return items, total, internal(err)
}

func (s *statsService) Recommend(actor models.Actor, p helper.Pagination) ([]models.ArticleSummary, int64, error) {
	if actor.IsAnonymous() {
		return nil, 0, models.NewUnauthorizedError(models.MsgLoginRequired)
	}
	items, total, err := s.statsRepo.Recommend(actor.ID, p.Offset(), p.Limit)
	return items, total, internal(err)
}

func (s *statsService) countArticles(status models.ArticleStatus, ownerID uint, byUpdate bool) rangeCounter {
	return func(from, to time.Time) (int64, error) {
		return s.statsRepo.CountArticles(repositories.ArticleCountFilter{
			Status:   status,
			OwnerID:  ownerID,
			ByUpdate: byUpdate,
			From:     from,
			To:       to,
		})
	}
}

// AdminStatistics counts approvals and rejections by when they happened
// (the article's last update) and registrations, plus monthly series for
// the current year.
func (s *statsService) AdminStatistics(actor models.Actor) (*models.AdminStatistics, error) {
	if !actor.IsAdmin() {
		return nil, models.NewForbiddenError(models.MsgAdminRequired)
	}
	now := s.now()
	w := windowsAt(now)
	stats := &models.AdminStatistics{}

	g := new(errgroup.Group)
	g.SetLimit(statsConcurrency)

	perPeriod(g, w, &stats.ApprovedArticles, s.countArticles(models.StatusPublic, 0, true))
	perPeriod(g, w, &stats.RejectedArticles, s.countArticles(models.StatusRejected, 0, true))
	perPeriod(g, w, &stats.NewUsers, s.userRepo.CountCreated)
	stats.ArticlesPerMonth = perMonth(g, now, s.countArticles(models.StatusPublic, 0, false))
	stats.CommentsPerMonth = perMonth(g, now, s.commentRepo.CountCreated)
	stats.UsersRegisteredPerMonth = perMonth(g, now, s.userRepo.CountCreated)

	if err := g.Wait(); err != nil {
		return nil, internal(err)
	}
	return stats, nil
}

// UserStatistics describes the audience of the caller's own articles.
func (s *statsService) UserStatistics(actor models.Actor) (*models.UserStatistics, error) {
	if actor.IsAnonymous() {
		return nil, models.NewUnauthorizedError(models.MsgLoginRequired)
	}
	now := s.now()
	w := windowsAt(now)
	stats := &models.UserStatistics{}
	owner := actor.ID

	g := new(errgroup.Group)
	g.SetLimit(statsConcurrency)

	stats.LikesPerMonth = perMonth(g, now, func(from, to time.Time) (int64, error) {
		return s.likeRepo.CountOnArticlesOf(owner, from, to)
	})
	stats.ViewsPerMonth = perMonth(g, now, func(from, to time.Time) (int64, error) {
		return s.statsRepo.SumViews(owner, from, to)
	})
	stats.FollowersPerMonth = perMonth(g, now, func(from, to time.Time) (int64, error) {
		return s.followerRepo.CountNewFollowers(owner, from, to)
	})
	perPeriod(g, w, &stats.CommentsStats, func(from, to time.Time) (int64, error) {
		return s.commentRepo.CountOnArticlesOf(owner, from, to)
	})
	perPeriod(g, w, &stats.PublicArticlesStats, s.countArticles(models.StatusPublic, owner, false))
	perPeriod(g, w, &stats.RejectedArticlesStats, s.countArticles(models.StatusRejected, owner, false))

	if err := g.Wait(); err != nil {
		return nil, internal(err)
	}
	return stats, nil
}
