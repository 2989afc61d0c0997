package handlers

import (
	"itblog-api/helper"
	"itblog-api/middleware"
	"itblog-api/models"
	"itblog-api/services"

	"github.com/gin-gonic/gin"
)

const (
	defaultListLimit      = 6
	defaultTopMonthLimit  = 6
	defaultCategoryLimit  = 10
	defaultUserPageLimit  = 6
	defaultFollowingLimit = 10
	defaultRecommendLimit = 6
)

// StatsHandler serves the read-only aggregations under /others.
type StatsHandler struct {
	statsService services.StatsService
	Helper       *helper.HTTPHelper
}

func NewStatsHandler(statsService services.StatsService, h *helper.HTTPHelper) *StatsHandler {
	return &StatsHandler{statsService: statsService, Helper: h}
}

func (h *StatsHandler) send(c *gin.Context, data interface{}, err error) {
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}
	h.Helper.SendSuccess(c, models.MsgSuccess, data)
}

func (h *StatsHandler) sendPaged(c *gin.Context, items []models.ArticleSummary, p helper.Pagination, total int64, err error) {
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}
	h.Helper.SendPaged(c, models.MsgSuccess, items, p, total)
}

func (h *StatsHandler) ListArticles(c *gin.Context) {
	p := helper.PaginationFromQuery(c, defaultListLimit)
	items, total, err := h.statsService.ListArticles(c.Query("search"), p)
	h.sendPaged(c, items, p, total, err)
}

func (h *StatsHandler) TopMonthView(c *gin.Context) {
	p := helper.PaginationFromQuery(c, defaultTopMonthLimit)
	items, total, err := h.statsService.TopMonthViews(p)
	h.sendPaged(c, items, p, total, err)
}

func (h *StatsHandler) TopInteracts(c *gin.Context) {
	items, err := h.statsService.TopInteract()
	h.send(c, items, err)
}

func (h *StatsHandler) TopTrendings(c *gin.Context) {
	items, err := h.statsService.Trending()
	h.send(c, items, err)
}

func (h *StatsHandler) MostPopular(c *gin.Context) {
	items, err := h.statsService.MostPopular()
	h.send(c, items, err)
}

func (h *StatsHandler) TopPopularToday(c *gin.Context) {
	item, err := h.statsService.PopularToday()
	h.send(c, item, err)
}

func (h *StatsHandler) ListCategories(c *gin.Context) {
	items, err := h.statsService.ListCategories()
	h.send(c, items, err)
}

func (h *StatsHandler) TopCategories(c *gin.Context) {
	items, err := h.statsService.TopCategories()
	h.send(c, items, err)
}

func (h *StatsHandler) LastComments(c *gin.Context) {
	items, err := h.statsService.LastComments()
	h.send(c, items, err)
}

func (h *StatsHandler) NewUsers(c *gin.Context) {
	items, err := h.statsService.NewUsers()
	h.send(c, items, err)
}

func (h *StatsHandler) TopRelated(c *gin.Context) {
	id, ok := paramID(c, h.Helper, "id")
	if !ok {
		return
	}
	var req models.RelatedRequest
	if !h.Helper.BindAndValidate(c, &req) {
		return
	}

	items, err := h.statsService.Related(id, req)
	h.send(c, items, err)
}

func (h *StatsHandler) ArticlesByCategory(c *gin.Context) {
	p := helper.PaginationFromQuery(c, defaultCategoryLimit)

	category, items, total, err := h.statsService.ArticlesByCategory(c.Query("slug"), p)
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, models.MsgSuccess, gin.H{
		"category":   category,
		"items":      items,
		"pagination": h.Helper.GeneratePaging(c, p, total),
	})
}

func (h *StatsHandler) ArticlesByUser(c *gin.Context) {
	p := helper.PaginationFromQuery(c, defaultUserPageLimit)

	user, items, total, err := h.statsService.ArticlesByUser(c.Param("username"), c.Query("search"), p)
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, models.MsgSuccess, gin.H{
		"user":       user,
		"items":      items,
		"pagination": h.Helper.GeneratePaging(c, p, total),
	})
}

func (h *StatsHandler) ArticlesFollowing(c *gin.Context) {
	p := helper.PaginationFromQuery(c, defaultFollowingLimit)
	items, total, err := h.statsService.FollowingFeed(middleware.CurrentActor(c), p)
	h.sendPaged(c, items, p, total, err)
}

func (h *StatsHandler) ArticlesRecommend(c *gin.Context) {
	p := helper.PaginationFromQuery(c, defaultRecommendLimit)
	items, total, err := h.statsService.Recommend(middleware.CurrentActor(c), p)
	h.sendPaged(c, items, p, total, err)
}

func (h *StatsHandler) Statistics(c *gin.Context) {
	stats, err := h.statsService.AdminStatistics(middleware.CurrentActor(c))
	h.send(c, stats, err)
}

func (h *StatsHandler) StatisticsUser(c *gin.Context) {
	stats, err := h.statsService.UserStatistics(middleware.CurrentActor(c))
	h.send(c, stats, err)
}
