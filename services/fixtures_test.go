package services

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"sync"
	"testing"

	"itblog-api/config"
	"itblog-api/models"
	"itblog-api/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeImages records saved and deleted URLs without touching the disk.
type fakeImages struct {
	mu      sync.Mutex
	saved   []string
	deleted []string
}

func (f *fakeImages) Save(dir string, file *multipart.FileHeader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	url := fmt.Sprintf("/uploads/%s/%d.jpg", dir, len(f.saved)+1)
	f.saved = append(f.saved, url)
	return url, nil
}

func (f *fakeImages) Delete(url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, url)
	return nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return openTestDB(t, fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
}

// newFileTestDB opens a WAL sqlite file that several connections can write to.
func newFileTestDB(t *testing.T, conns int) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blog.db")
	db := openTestDB(t, "file:"+path+"?_journal_mode=WAL&_busy_timeout=5000")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(conns)
	return db
}

func openTestDB(t *testing.T, dsn string) *gorm.DB {
	t.Helper()
	db, err := config.OpenDB(sqlite.Open(dsn), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type fixture struct {
	db     *gorm.DB
	images *fakeImages
	log    *zap.SugaredLogger

	users         repositories.UserRepository
	articles      repositories.ArticleRepository
	categories    repositories.CategoryRepository
	comments      repositories.CommentRepository
	likes         repositories.LikeRepository
	followers     repositories.FollowerRepository
	notifications repositories.NotificationRepository
	stats         repositories.StatsRepository
}

func newFixture(t *testing.T) *fixture {
	return newFixtureOn(newTestDB(t))
}

func newFixtureOn(db *gorm.DB) *fixture {
	return &fixture{
		db:            db,
		images:        &fakeImages{},
		log:           zap.NewNop().Sugar(),
		users:         repositories.NewUserRepository(db),
		articles:      repositories.NewArticleRepository(db),
		categories:    repositories.NewCategoryRepository(db),
		comments:      repositories.NewCommentRepository(db),
		likes:         repositories.NewLikeRepository(db),
		followers:     repositories.NewFollowerRepository(db),
		notifications: repositories.NewNotificationRepository(db),
		stats:         repositories.NewStatsRepository(db),
	}
}

func (f *fixture) user(t *testing.T, username string, role models.UserRole) models.Actor {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Fullname: username,
		Password: "x",
		Role:     role,
	}
	require.NoError(t, f.users.Create(u))
	return models.Actor{ID: u.ID, Username: u.Username, Role: u.Role}
}

func (f *fixture) category(t *testing.T, slug string) *models.Category {
	t.Helper()
	c := &models.Category{Name: slug, Slug: slug}
	require.NoError(t, f.categories.Create(c))
	return c
}

func articleForm(title, slug string, categoryIDs ...uint) models.ArticleForm {
	categories := "["
	for i, id := range categoryIDs {
		if i > 0 {
			categories += ","
		}
		categories += fmt.Sprintf(`{"value":%d}`, id)
	}
	categories += "]"
	return models.ArticleForm{
		Title:      title,
		Content:    "content of " + title,
		Tags:       "go,web",
		Slug:       slug,
		Categories: categories,
		Image:      &multipart.FileHeader{Filename: slug + ".png"},
	}
}

// publish creates an article as author and has admin approve it.
func (f *fixture) publish(t *testing.T, author, admin models.Actor, slug string, categoryIDs ...uint) *models.Article {
	t.Helper()
	svc := NewArticleService(f.articles, f.categories, f.images, f.log)
	created, err := svc.Create(author, articleForm("Title "+slug, slug, categoryIDs...))
	require.NoError(t, err)
	if created.Status == models.StatusPublic {
		return created
	}
	approved, err := svc.Approve(admin, slug)
	require.NoError(t, err)
	return approved
}

func (f *fixture) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}
