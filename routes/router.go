package routes

import (
	"net/http"

	"itblog-api/handlers"
	"itblog-api/metrics"
	"itblog-api/middleware"
	"itblog-api/models"
	"itblog-api/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Article      *handlers.ArticleHandler
	Interaction  *handlers.InteractionHandler
	Follower     *handlers.FollowerHandler
	Notification *handlers.NotificationHandler
	Category     *handlers.CategoryHandler
	User         *handlers.UserHandler
	Stats        *handlers.StatsHandler
}

type Options struct {
	JWTSecret    []byte
	Logger       *zap.Logger
	CORSOrigins  []string
	UploadDir    string
	LoginLimiter *middleware.IPRateLimiter
	// Accounts, when set, rechecks block state and role on every request.
	Accounts middleware.AccountLookup
	// Metrics is optional; nil disables /metrics.
	Metrics *metrics.Metrics
}

func SetupRouter(h Handlers, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(opts.Logger))
	router.Use(middleware.CORS(opts.CORSOrigins))
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware())
		router.GET("/metrics", opts.Metrics.Handler())
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.Static(storage.URLPrefix, opts.UploadDir)

	authenticator := middleware.NewAuthenticator(opts.JWTSecret, opts.Accounts)
	optional := authenticator.Optional()
	auth := authenticator.Required()
	admin := middleware.RequireRole(models.RoleAdmin)

	// Auth routes (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		login := []gin.HandlerFunc{h.Auth.Login}
		if opts.LoginLimiter != nil {
			login = append([]gin.HandlerFunc{opts.LoginLimiter.Middleware()}, login...)
		}
		authGroup.POST("/login", login...)
	}

	articles := router.Group("/articles")
	{
		articles.GET("", optional, h.Article.GetArticles)
		articles.GET("/list", h.Article.GetPublicArticles)
		articles.GET("/list/rejected", auth, h.Article.GetRejectedArticles)
		articles.GET("/list/rejected/:id", auth, h.Article.GetRejectedArticle)
		articles.GET("/list/pending", auth, admin, h.Article.GetPendingArticles)
		articles.GET("/:id", optional, h.Article.GetArticle)
		articles.GET("/:id/detail", auth, h.Article.GetArticleDetail)
		articles.POST("", auth, h.Article.CreateArticle)
		articles.PUT("/:id", auth, h.Article.UpdateArticle)
		articles.PUT("/:id/draft", auth, h.Article.SaveDraft)
		articles.PUT("/:id/public", auth, admin, h.Article.ApproveArticle)
		articles.PATCH("/:id/reject", auth, admin, h.Article.RejectArticle)
		articles.DELETE("/:id", auth, h.Article.DeleteArticle)

		articles.POST("/:id/like", auth, h.Interaction.ToggleLike)
		articles.GET("/:id/comments", optional, h.Interaction.GetComments)
		articles.POST("/:id/comments", auth, h.Interaction.CreateComment)
	}
	router.DELETE("/comments/:id", auth, h.Interaction.DeleteComment)

	followers := router.Group("/followers")
	{
		followers.GET("/:id", optional, h.Follower.GetFollowStatus)
		followers.POST("/:id", auth, h.Follower.ToggleFollow)
		followers.GET("/:id/listFollowerAndFollowing", auth, h.Follower.GetFollowLists)
	}

	notifications := router.Group("/notifications", auth)
	{
		notifications.GET("", h.Notification.GetNotifications)
		notifications.DELETE("/:id", h.Notification.DeleteNotification)
		notifications.DELETE("", h.Notification.DeleteAllNotifications)
	}

	categories := router.Group("/categories")
	{
		categories.GET("", h.Category.GetCategories)
		categories.POST("", auth, admin, h.Category.CreateCategory)
		categories.DELETE("/:id", auth, admin, h.Category.DeleteCategory)
	}

	users := router.Group("/users")
	{
		users.GET("/profile", auth, h.Auth.GetProfile)
		users.GET("", auth, admin, h.User.GetUsers)
		users.GET("/:id", optional, h.User.GetUser)
		users.PUT("", auth, h.User.UpdateProfile)
		users.PATCH("/changePassword", auth, h.User.ChangePassword)
		users.PATCH("/:id/block", auth, admin, h.User.ToggleBlock)
		users.PATCH("/:id/toggleAdmin", auth, admin, h.User.ToggleAdmin)
	}

	others := router.Group("/others")
	{
		others.GET("/list_articles", h.Stats.ListArticles)
		others.GET("/top_month_view", h.Stats.TopMonthView)
		others.GET("/top_interacts", h.Stats.TopInteracts)
		others.GET("/top_trendings", h.Stats.TopTrendings)
		others.GET("/list_categories", h.Stats.ListCategories)
		others.GET("/last_comments", h.Stats.LastComments)
		others.GET("/most_popular", h.Stats.MostPopular)
		others.GET("/new_users", h.Stats.NewUsers)
		others.GET("/top_categories", h.Stats.TopCategories)
		others.GET("/top_popular_today", h.Stats.TopPopularToday)
		others.GET("/articles_by_category", h.Stats.ArticlesByCategory)
		others.GET("/users/:username/articles", h.Stats.ArticlesByUser)
		others.POST("/top_related/:id", h.Stats.TopRelated)

		others.GET("/articles_following", auth, h.Stats.ArticlesFollowing)
		others.GET("/articles_recommend", auth, h.Stats.ArticlesRecommend)
		others.GET("/statistics_user", auth, h.Stats.StatisticsUser)
		others.GET("/statistics", auth, admin, h.Stats.Statistics)
	}

	return router
}
