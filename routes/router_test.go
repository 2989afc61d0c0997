package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"itblog-api/config"
	"itblog-api/handlers"
	"itblog-api/helper"
	"itblog-api/metrics"
	"itblog-api/middleware"
	"itblog-api/models"
	"itblog-api/repositories"
	"itblog-api/services"
	"itblog-api/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testSecret = []byte("test-secret")

const loginsPerMinute = 5

type envelope struct {
	Code        int             `json:"code"`
	CodeType    string          `json:"code_type"`
	CodeMessage json.RawMessage `json:"code_message"`
	Data        json.RawMessage `json:"data"`
}

type paged struct {
	Items      json.RawMessage `json:"items"`
	Pagination struct {
		TotalItems  int64 `json:"total_items"`
		PerPage     int   `json:"per_page"`
		CurrentPage int   `json:"current_page"`
		TotalPages  int   `json:"total_pages"`
		Links       struct {
			Next string `json:"next"`
		} `json:"links"`
	} `json:"pagination"`
}

type IntegrationTestSuite struct {
	suite.Suite
	db         *gorm.DB
	router     *gin.Engine
	uploadDir  string
	userToken  string
	adminToken string
	userID     uint
	categoryID uint
}

func (s *IntegrationTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := config.OpenDB(sqlite.Open(dsn), logger)
	s.Require().NoError(err)
	s.Require().NoError(config.Migrate(db))
	s.db = db
	s.uploadDir = s.T().TempDir()

	s.setupRouter(logger)

	s.userID = s.register("writer")
	s.userToken = s.login("writer")
	adminID := s.register("admin")
	s.Require().NoError(s.db.Model(&models.User{}).Where("id = ?", adminID).Update("role", models.RoleAdmin).Error)
	s.adminToken = s.login("admin")

	w, env := s.doJSON(http.MethodPost, "/categories", s.adminToken, models.CategoryRequest{Name: "Go", Slug: "go"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var category models.Category
	s.Require().NoError(json.Unmarshal(env.Data, &category))
	s.categoryID = category.ID
}

func (s *IntegrationTestSuite) TearDownTest() {
	if sqlDB, err := s.db.DB(); err == nil {
		sqlDB.Close()
	}
}

func (s *IntegrationTestSuite) setupRouter(logger *zap.Logger) {
	sugar := logger.Sugar()
	images := storage.NewLocalImageStore(s.uploadDir, 800)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(s.db)
	articleRepo := repositories.NewArticleRepository(s.db)
	categoryRepo := repositories.NewCategoryRepository(s.db)
	commentRepo := repositories.NewCommentRepository(s.db)
	likeRepo := repositories.NewLikeRepository(s.db)
	followerRepo := repositories.NewFollowerRepository(s.db)
	notificationRepo := repositories.NewNotificationRepository(s.db)
	statsRepo := repositories.NewStatsRepository(s.db)

	h := helper.NewHTTPHelper()
	hs := Handlers{
		Auth:         handlers.NewAuthHandler(services.NewAuthService(userRepo, testSecret, time.Hour), h),
		Article:      handlers.NewArticleHandler(services.NewArticleService(articleRepo, categoryRepo, images, sugar), h),
		Interaction:  handlers.NewInteractionHandler(services.NewInteractionService(articleRepo, commentRepo, likeRepo), h),
		Follower:     handlers.NewFollowerHandler(services.NewFollowerService(followerRepo, userRepo), h),
		Notification: handlers.NewNotificationHandler(services.NewNotificationService(notificationRepo), h),
		Category:     handlers.NewCategoryHandler(services.NewCategoryService(categoryRepo, images, sugar), h),
		User:         handlers.NewUserHandler(services.NewUserService(userRepo, images, sugar), h),
		Stats: handlers.NewStatsHandler(
			services.NewStatsService(statsRepo, userRepo, categoryRepo, commentRepo, likeRepo, followerRepo), h),
	}

	m, err := metrics.New("itblog-api-test")
	s.Require().NoError(err)

	s.router = SetupRouter(hs, Options{
		JWTSecret:    testSecret,
		Logger:       logger,
		CORSOrigins:  []string{"*"},
		UploadDir:    s.uploadDir,
		LoginLimiter: middleware.NewIPRateLimiter(loginsPerMinute, time.Minute),
		Accounts:     userRepo,
		Metrics:      m,
	})
}

func (s *IntegrationTestSuite) do(method, path, token, contentType string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *IntegrationTestSuite) decode(w *httptest.ResponseRecorder) envelope {
	var env envelope
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func (s *IntegrationTestSuite) doJSON(method, path, token string, payload interface{}) (*httptest.ResponseRecorder, envelope) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		s.Require().NoError(err)
		body = bytes.NewReader(raw)
	}
	w := s.do(method, path, token, "application/json", body)
	return w, s.decode(w)
}

// register signs username up. Registration always yields a plain user.
func (s *IntegrationTestSuite) register(username string) uint {
	w, env := s.doJSON(http.MethodPost, "/auth/register", "", models.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Fullname: strings.ToUpper(username),
		Password: "password123",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var registered models.AuthResponse
	s.Require().NoError(json.Unmarshal(env.Data, &registered))
	s.Equal(models.RoleUser, registered.User.Role)
	s.NotEmpty(registered.Token)
	return registered.User.ID
}

func (s *IntegrationTestSuite) login(username string) string {
	w, env := s.doJSON(http.MethodPost, "/auth/login", "", models.LoginRequest{Username: username, Password: "password123"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp models.AuthResponse
	s.Require().NoError(json.Unmarshal(env.Data, &resp))
	s.Require().NotEmpty(resp.Token)
	return resp.Token
}

func pngBytes() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 1600, 900))
	for x := 0; x < 1600; x += 7 {
		img.Set(x, x%900, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// articleMultipart builds a multipart article form, optionally with a PNG cover.
func (s *IntegrationTestSuite) articleMultipart(fields map[string]string, withImage bool) (string, io.Reader) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		s.Require().NoError(mw.WriteField(k, v))
	}
	if withImage {
		part, err := mw.CreateFormFile("image", "cover.png")
		s.Require().NoError(err)
		_, err = part.Write(pngBytes())
		s.Require().NoError(err)
	}
	s.Require().NoError(mw.Close())
	return mw.FormDataContentType(), &buf
}

func (s *IntegrationTestSuite) createArticle(token, slug string) models.Article {
	contentType, body := s.articleMultipart(map[string]string{
		"title":      "Article " + slug,
		"content":    "<p>Body</p>",
		"tags":       "go,testing",
		"slug":       slug,
		"categories": fmt.Sprintf(`[{"value":%d}]`, s.categoryID),
	}, true)
	w := s.do(http.MethodPost, "/articles", token, contentType, body)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var article models.Article
	s.Require().NoError(json.Unmarshal(s.decode(w).Data, &article))
	return article
}

func (s *IntegrationTestSuite) TestHealthAndMetrics() {
	w := s.do(http.MethodGet, "/health", "", "", nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/metrics", "", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "http_server_requests")
}

func (s *IntegrationTestSuite) TestGetProfile() {
	w, env := s.doJSON(http.MethodGet, "/users/profile", s.userToken, nil)
	s.Equal(http.StatusOK, w.Code)

	var user models.User
	s.Require().NoError(json.Unmarshal(env.Data, &user))
	s.Equal("writer", user.Username)
	s.Empty(user.Password)

	w, _ = s.doJSON(http.MethodGet, "/users/profile", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *IntegrationTestSuite) TestRegisterValidation() {
	w, env := s.doJSON(http.MethodPost, "/auth/register", "", models.RegisterRequest{Username: "x", Email: "not-an-email"})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("validationError", env.CodeType)

	var fields map[string][]string
	s.Require().NoError(json.Unmarshal(env.CodeMessage, &fields))
	s.Contains(fields, "email")
	s.Contains(fields, "password")

	w, _ = s.doJSON(http.MethodPost, "/auth/register", "", models.RegisterRequest{
		Username: "writer", Email: "other@example.com", Password: "password123",
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *IntegrationTestSuite) TestLoginRateLimit() {
	// SetupTest already logged in twice
	for i := 2; i < loginsPerMinute; i++ {
		w, _ := s.doJSON(http.MethodPost, "/auth/login", "", models.LoginRequest{Username: "writer", Password: "wrong"})
		s.Equal(http.StatusUnauthorized, w.Code)
	}
	w, env := s.doJSON(http.MethodPost, "/auth/login", "", models.LoginRequest{Username: "writer", Password: "password123"})
	s.Equal(http.StatusTooManyRequests, w.Code)
	s.Equal("tooManyRequests", env.CodeType)
}

func (s *IntegrationTestSuite) TestArticleLifecycle() {
	article := s.createArticle(s.userToken, "hello-go")
	s.Equal(models.StatusPending, article.Status)
	s.True(strings.HasPrefix(article.ImageURL, storage.URLPrefix+"/articles/"))
	_, err := os.Stat(filepath.Join(s.uploadDir, strings.TrimPrefix(article.ImageURL, storage.URLPrefix)))
	s.NoError(err)

	w := s.do(http.MethodGet, "/articles/hello-go", "", "", nil)
	s.Equal(http.StatusNotFound, w.Code)

	contentType, body := s.articleMultipart(map[string]string{
		"title":      "Copy",
		"content":    "x",
		"slug":       "hello-go",
		"categories": fmt.Sprintf(`[{"value":%d}]`, s.categoryID),
	}, true)
	w = s.do(http.MethodPost, "/articles", s.userToken, contentType, body)
	s.Equal(http.StatusBadRequest, w.Code)

	w, _ = s.doJSON(http.MethodPut, "/articles/hello-go/public", s.userToken, nil)
	s.Equal(http.StatusForbidden, w.Code)
	w, _ = s.doJSON(http.MethodPut, "/articles/hello-go/public", s.adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	for i := 0; i < 2; i++ {
		w = s.do(http.MethodGet, fmt.Sprintf("/articles/%d", article.ID), "", "", nil)
		s.Require().Equal(http.StatusOK, w.Code)
	}
	var shown models.Article
	s.Require().NoError(json.Unmarshal(s.decode(w).Data, &shown))
	s.EqualValues(2, shown.ViewCount())

	w, env := s.doJSON(http.MethodGet, "/articles/list?limit=1", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var page paged
	s.Require().NoError(json.Unmarshal(env.Data, &page))
	s.EqualValues(1, page.Pagination.TotalItems)
	s.Equal(1, page.Pagination.PerPage)
	s.Empty(page.Pagination.Links.Next)

	w, _ = s.doJSON(http.MethodPatch, "/articles/hello-go/reject", s.adminToken, models.RejectRequest{Reason: "late"})
	s.Equal(http.StatusBadRequest, w.Code)

	w, _ = s.doJSON(http.MethodDelete, "/articles/hello-go", s.adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	w = s.do(http.MethodGet, "/articles/hello-go", s.userToken, "", nil)
	s.Equal(http.StatusNotFound, w.Code)
	_, err = os.Stat(filepath.Join(s.uploadDir, strings.TrimPrefix(article.ImageURL, storage.URLPrefix)))
	s.True(os.IsNotExist(err))
}

func (s *IntegrationTestSuite) TestRejectFlow() {
	s.createArticle(s.userToken, "needs-work")

	w, _ := s.doJSON(http.MethodPatch, "/articles/needs-work/reject", s.adminToken, models.RejectRequest{})
	s.Equal(http.StatusBadRequest, w.Code)

	w, _ = s.doJSON(http.MethodPatch, "/articles/needs-work/reject", s.adminToken, models.RejectRequest{Reason: "add sources"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w, env := s.doJSON(http.MethodGet, "/articles/list/rejected", s.userToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var page paged
	s.Require().NoError(json.Unmarshal(env.Data, &page))
	s.EqualValues(1, page.Pagination.TotalItems)

	w, env = s.doJSON(http.MethodGet, "/articles/list/rejected/needs-work", s.userToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var article models.Article
	s.Require().NoError(json.Unmarshal(env.Data, &article))
	s.Equal("add sources", article.RejectReason)
	s.Equal("needs-work", article.Slug)

	w, _ = s.doJSON(http.MethodGet, "/articles/list/pending", s.userToken, nil)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *IntegrationTestSuite) TestSocialFlow() {
	article := s.createArticle(s.adminToken, "admin-post")
	s.Equal(models.StatusPublic, article.Status)

	w, env := s.doJSON(http.MethodPost, "/followers/admin", s.userToken, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var follow map[string]bool
	s.Require().NoError(json.Unmarshal(env.Data, &follow))
	s.True(follow["is_following"])

	w, _ = s.doJSON(http.MethodPost, "/followers/writer", s.userToken, nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w, _ = s.doJSON(http.MethodPost, "/articles/admin-post/like", s.userToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	w, _ = s.doJSON(http.MethodPost, "/articles/admin-post/comments", s.userToken, models.CommentRequest{Content: "Nice"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w, env = s.doJSON(http.MethodGet, "/notifications", s.adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var page paged
	s.Require().NoError(json.Unmarshal(env.Data, &page))
	s.EqualValues(3, page.Pagination.TotalItems)

	w, env = s.doJSON(http.MethodGet, "/others/articles_following", s.userToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Require().NoError(json.Unmarshal(env.Data, &page))
	s.EqualValues(1, page.Pagination.TotalItems)

	w, _ = s.doJSON(http.MethodDelete, "/notifications", s.adminToken, nil)
	s.Equal(http.StatusOK, w.Code)
	w, _ = s.doJSON(http.MethodDelete, "/notifications", s.adminToken, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *IntegrationTestSuite) TestOthers() {
	s.createArticle(s.adminToken, "first")
	s.createArticle(s.adminToken, "second")

	for _, path := range []string{
		"/others/list_articles",
		"/others/top_month_view",
		"/others/top_interacts",
		"/others/top_trendings",
		"/others/list_categories",
		"/others/last_comments",
		"/others/most_popular",
		"/others/new_users",
		"/others/top_categories",
		"/others/top_popular_today",
		"/others/articles_by_category?slug=go",
		"/others/users/admin/articles",
	} {
		w := s.do(http.MethodGet, path, "", "", nil)
		s.Equal(http.StatusOK, w.Code, path)
	}

	w, env := s.doJSON(http.MethodGet, "/others/top_trendings", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var trending []models.ArticleSummary
	s.Require().NoError(json.Unmarshal(env.Data, &trending))
	s.Require().Len(trending, 2)
	s.Greater(trending[0].ID, trending[1].ID)

	w, _ = s.doJSON(http.MethodGet, "/others/articles_by_category?slug=missing", "", nil)
	s.Equal(http.StatusNotFound, w.Code)

	w, _ = s.doJSON(http.MethodPost, "/others/top_related/1", "", models.RelatedRequest{Tags: []string{"go"}})
	s.Equal(http.StatusOK, w.Code)

	w, _ = s.doJSON(http.MethodGet, "/others/statistics", s.userToken, nil)
	s.Equal(http.StatusForbidden, w.Code)

	w, env = s.doJSON(http.MethodGet, "/others/statistics", s.adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var stats models.AdminStatistics
	s.Require().NoError(json.Unmarshal(env.Data, &stats))
	s.Len(stats.ArticlesPerMonth, 12)
	s.EqualValues(2, stats.ApprovedArticles.Day)
	s.EqualValues(2, stats.NewUsers.Day)

	w, _ = s.doJSON(http.MethodGet, "/others/statistics_user", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *IntegrationTestSuite) TestAdminUserManagement() {
	w, _ := s.doJSON(http.MethodGet, "/users", s.userToken, nil)
	s.Equal(http.StatusForbidden, w.Code)

	w, _ = s.doJSON(http.MethodPatch, fmt.Sprintf("/users/%d/block", s.userID), s.adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w, _ = s.doJSON(http.MethodPost, "/auth/login", "", models.LoginRequest{Username: "writer", Password: "password123"})
	s.Equal(http.StatusForbidden, w.Code)

	// a token issued before the block stops working right away
	w, _ = s.doJSON(http.MethodGet, "/users/profile", s.userToken, nil)
	s.Equal(http.StatusForbidden, w.Code)

	w, _ = s.doJSON(http.MethodPatch, "/users/abc/block", s.adminToken, nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *IntegrationTestSuite) TestAccountFieldsStayPrivate() {
	s.createArticle(s.adminToken, "public-post")

	w := s.do(http.MethodGet, "/articles", "", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.NotContains(w.Body.String(), `"email"`)
	s.Contains(w.Body.String(), `"username":"admin"`)

	path := fmt.Sprintf("/users/%d", s.userID)
	for _, token := range []string{"", s.adminToken} {
		w = s.do(http.MethodGet, "/users/writer", token, "", nil)
		s.Require().Equal(http.StatusOK, w.Code)
		if token == "" {
			s.NotContains(w.Body.String(), `"email"`)
		} else {
			s.Contains(w.Body.String(), `"email":"writer@example.com"`)
		}
	}
	w = s.do(http.MethodGet, path, s.userToken, "", nil)
	s.Contains(w.Body.String(), `"email":"writer@example.com"`)

	w = s.do(http.MethodGet, "/followers/admin/listFollowerAndFollowing", "", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
	w = s.do(http.MethodGet, "/followers/admin/listFollowerAndFollowing", s.userToken, "", nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *IntegrationTestSuite) TestDemotedAdminLosesAccess() {
	adminID := s.register("moderator")
	s.Require().NoError(s.db.Model(&models.User{}).Where("id = ?", adminID).Update("role", models.RoleAdmin).Error)
	token := s.login("moderator")

	w, _ := s.doJSON(http.MethodGet, "/users", token, nil)
	s.Equal(http.StatusOK, w.Code)

	s.Require().NoError(s.db.Model(&models.User{}).Where("id = ?", adminID).Update("role", models.RoleUser).Error)
	w, _ = s.doJSON(http.MethodGet, "/users", token, nil)
	s.Equal(http.StatusForbidden, w.Code)
}

func TestIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}
