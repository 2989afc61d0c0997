package services

import (
	"testing"
	"time"

	"itblog-api/helper"
	"itblog-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowsAt(t *testing.T) {
	// Wednesday
	now := time.Date(2026, time.October, 14, 15, 30, 0, 0, time.UTC)
	w := windowsAt(now)

	assert.Equal(t, time.Date(2026, time.October, 14, 0, 0, 0, 0, time.UTC), w.day)
	assert.Equal(t, time.Date(2026, time.October, 11, 0, 0, 0, 0, time.UTC), w.week)
	assert.Equal(t, time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC), w.month)

	sunday := windowsAt(time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, sunday.day, sunday.week)
}

func TestMergeTrending(t *testing.T) {
	views := []models.ArticleSummary{{ID: 3, TotalViews: 10}, {ID: 1}}
	likes := []models.ArticleSummary{{ID: 1}, {ID: 7}}
	comments := []models.ArticleSummary{{ID: 3}}

	merged := mergeTrending(views, likes, comments)

	ids := make([]uint, 0, len(merged))
	for _, a := range merged {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []uint{7, 3, 1}, ids)
	assert.EqualValues(t, 10, merged[1].TotalViews)
}

type statsWorld struct {
	f        *fixture
	svc      StatsService
	articles ArticleService
	author   models.Actor
	reader   models.Actor
	admin    models.Actor
	golang   *models.Category
	web      *models.Category
	first    *models.Article
	second   *models.Article
	rejected *models.Article
}

// newStatsWorld publishes two articles by author, rejects a third, and has
// reader follow the author, read, like and comment on the first one.
func newStatsWorld(t *testing.T) *statsWorld {
	f := newFixture(t)
	w := &statsWorld{
		f:        f,
		svc:      NewStatsService(f.stats, f.users, f.categories, f.comments, f.likes, f.followers),
		articles: NewArticleService(f.articles, f.categories, f.images, f.log),
		author:   f.user(t, "author", models.RoleUser),
		reader:   f.user(t, "reader", models.RoleUser),
		admin:    f.user(t, "admin", models.RoleAdmin),
		golang:   f.category(t, "golang"),
		web:      f.category(t, "web"),
	}
	w.first = f.publish(t, w.author, w.admin, "first", w.golang.ID)
	w.second = f.publish(t, w.author, w.admin, "second", w.web.ID)

	pending, err := w.articles.Create(w.author, articleForm("Third", "third", w.golang.ID))
	require.NoError(t, err)
	w.rejected, err = w.articles.Reject(w.admin, pending.Slug, "off topic")
	require.NoError(t, err)

	_, err = NewFollowerService(f.followers, f.users).Toggle(w.reader, "author")
	require.NoError(t, err)

	interactions := NewInteractionService(f.articles, f.comments, f.likes)
	_, err = w.articles.Show(w.reader, w.first.Slug)
	require.NoError(t, err)
	_, _, err = interactions.ToggleLike(w.reader, w.first.Slug)
	require.NoError(t, err)
	_, err = interactions.AddComment(w.reader, w.first.Slug, models.CommentRequest{Content: "thanks"})
	require.NoError(t, err)
	return w
}

func TestStatsRankings(t *testing.T) {
	w := newStatsWorld(t)

	popular, err := w.svc.MostPopular()
	require.NoError(t, err)
	require.Len(t, popular, 2)
	assert.Equal(t, w.first.ID, popular[0].ID)
	assert.EqualValues(t, 1, popular[0].TotalViews)
	assert.EqualValues(t, 1, popular[0].TotalLikes)
	assert.EqualValues(t, 1, popular[0].TotalComments)
	assert.Equal(t, "author", popular[0].Username)

	interact, err := w.svc.TopInteract()
	require.NoError(t, err)
	require.NotEmpty(t, interact)
	assert.Equal(t, w.first.ID, interact[0].ID)

	trending, err := w.svc.Trending()
	require.NoError(t, err)
	require.Len(t, trending, 2)
	assert.Equal(t, w.second.ID, trending[0].ID)

	month, total, err := w.svc.TopMonthViews(helper.Pagination{Page: 1, Limit: 6})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, w.first.ID, month[0].ID)

	today, err := w.svc.PopularToday()
	require.NoError(t, err)
	assert.Equal(t, w.first.ID, today.ID)

	list, total, err := w.svc.ListArticles("SEC", helper.Pagination{Page: 1, Limit: 6})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, w.second.ID, list[0].ID)
}

func TestStatsPopularTodayEmpty(t *testing.T) {
	f := newFixture(t)
	svc := NewStatsService(f.stats, f.users, f.categories, f.comments, f.likes, f.followers)

	_, err := svc.PopularToday()
	assert.ErrorAs(t, err, &models.ErrorNotFound{})
}

func TestStatsCategoriesAndPeople(t *testing.T) {
	w := newStatsWorld(t)

	categories, err := w.svc.ListCategories()
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "golang", categories[0].Slug)
	// the rejected article is not counted
	assert.EqualValues(t, 1, categories[0].TotalArticle)

	top, err := w.svc.TopCategories()
	require.NoError(t, err)
	assert.Len(t, top, 2)

	category, items, total, err := w.svc.ArticlesByCategory("web", helper.Pagination{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, w.web.ID, category.ID)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, w.second.ID, items[0].ID)

	_, _, _, err = w.svc.ArticlesByCategory("missing", helper.Pagination{Page: 1, Limit: 10})
	assert.ErrorAs(t, err, &models.ErrorNotFound{})

	user, _, total, err := w.svc.ArticlesByUser("author", "", helper.Pagination{Page: 1, Limit: 6})
	require.NoError(t, err)
	assert.Equal(t, w.author.ID, user.ID)
	assert.EqualValues(t, 2, total)

	comments, err := w.svc.LastComments()
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "first", comments[0].ArticleSlug)
	assert.Equal(t, "reader", comments[0].Username)

	users, err := w.svc.NewUsers()
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

func TestStatsFeeds(t *testing.T) {
	w := newStatsWorld(t)
	p := helper.Pagination{Page: 1, Limit: 10}

	feed, total, err := w.svc.FollowingFeed(w.reader, p)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, feed, 2)

	_, total, err = w.svc.FollowingFeed(w.admin, p)
	require.NoError(t, err)
	assert.Zero(t, total)

	_, _, err = w.svc.FollowingFeed(models.Actor{}, p)
	assert.ErrorAs(t, err, &models.ErrorUnauthorized{})

	// reader last read an article in golang, so golang articles come first
	recommended, total, err := w.svc.Recommend(w.reader, p)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, w.first.ID, recommended[0].ID)

	related, err := w.svc.Related(w.first.ID, models.RelatedRequest{
		CategoryIDs: []uint{w.web.ID},
		Tags:        []string{"go"},
	})
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, w.second.ID, related[0].ID)
}

func TestAdminStatistics(t *testing.T) {
	w := newStatsWorld(t)
	month := int(time.Now().Month()) - 1

	_, err := w.svc.AdminStatistics(w.author)
	assert.ErrorAs(t, err, &models.ErrorForbidden{})

	stats, err := w.svc.AdminStatistics(w.admin)
	require.NoError(t, err)
	assert.Equal(t, models.PeriodCounts{Day: 2, Week: 2, Month: 2}, stats.ApprovedArticles)
	assert.Equal(t, models.PeriodCounts{Day: 1, Week: 1, Month: 1}, stats.RejectedArticles)
	assert.Equal(t, models.PeriodCounts{Day: 3, Week: 3, Month: 3}, stats.NewUsers)
	require.Len(t, stats.ArticlesPerMonth, 12)
	assert.EqualValues(t, 2, stats.ArticlesPerMonth[month])
	assert.EqualValues(t, 1, stats.CommentsPerMonth[month])
	assert.EqualValues(t, 3, stats.UsersRegisteredPerMonth[month])
}

func TestUserStatistics(t *testing.T) {
	w := newStatsWorld(t)
	month := int(time.Now().Month()) - 1

	_, err := w.svc.UserStatistics(models.Actor{})
	assert.ErrorAs(t, err, &models.ErrorUnauthorized{})

	stats, err := w.svc.UserStatistics(w.author)
	require.NoError(t, err)
	require.Len(t, stats.LikesPerMonth, 12)
	assert.EqualValues(t, 1, stats.LikesPerMonth[month])
	assert.EqualValues(t, 1, stats.ViewsPerMonth[month])
	assert.EqualValues(t, 1, stats.FollowersPerMonth[month])
	assert.Equal(t, models.PeriodCounts{Day: 1, Week: 1, Month: 1}, stats.CommentsStats)
	assert.Equal(t, models.PeriodCounts{Day: 2, Week: 2, Month: 2}, stats.PublicArticlesStats)
	assert.Equal(t, models.PeriodCounts{Day: 1, Week: 1, Month: 1}, stats.RejectedArticlesStats)

	reader, err := w.svc.UserStatistics(w.reader)
	require.NoError(t, err)
	assert.Zero(t, reader.ViewsPerMonth[month])
}
