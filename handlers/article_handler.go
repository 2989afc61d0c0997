package handlers

import (
	"itblog-api/helper"
	"itblog-api/middleware"
	"itblog-api/models"
	"itblog-api/services"

	"github.com/gin-gonic/gin"
)

type ArticleHandler struct {
	articleService services.ArticleService
	Helper         *helper.HTTPHelper
}

func NewArticleHandler(articleService services.ArticleService, h *helper.HTTPHelper) *ArticleHandler {
	return &ArticleHandler{articleService: articleService, Helper: h}
}

// GetArticles lists what the caller may see: public articles for guests,
// their own for users, both for admins.
func (h *ArticleHandler) GetArticles(c *gin.Context) {
	p := helper.PaginationFromQuery(c, defaultArticleLimit)

	articles, total, err := h.articleService.List(middleware.CurrentActor(c), c.Query("search"), p)
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendPaged(c, models.MsgSuccess, articles, p, total)
}

func (h *ArticleHandler) GetPublicArticles(c *gin.Context) {
	p := helper.PaginationFromQuery(c, defaultArticleLimit)

	articles, total, err := h.articleService.ListPublic(c.Query("search"), p)
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendPaged(c, models.MsgSuccess, articles, p, total)
}

func (h *ArticleHandler) GetRejectedArticles(c *gin.Context) {
	p := helper.PaginationFromQuery(c, defaultArticleLimit)

	articles, total, err := h.articleService.ListRejected(middleware.CurrentActor(c), p)
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendPaged(c, models.MsgSuccess, articles, p, total)
}

func (h *ArticleHandler) GetRejectedArticle(c *gin.Context) {
	article, err := h.articleService.DetailRejected(middleware.CurrentActor(c), c.Param("id"))
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, models.MsgSuccess, article)
}

func (h *ArticleHandler) GetPendingArticles(c *gin.Context) {
	p := helper.PaginationFromQuery(c, defaultArticleLimit)

	articles, total, err := h.articleService.ListPending(middleware.CurrentActor(c), p)
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendPaged(c, models.MsgSuccess, articles, p, total)
}

// GetArticle accepts a numeric id or a slug.
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	article, err := h.articleService.Show(middleware.CurrentActor(c), c.Param("id"))
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, models.MsgSuccess, article)
}

func (h *ArticleHandler) GetArticleDetail(c *gin.Context) {
	article, err := h.articleService.Detail(middleware.CurrentActor(c), c.Param("id"))
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, models.MsgSuccess, article)
}

func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	var form models.ArticleForm
	if !h.Helper.BindAndValidate(c, &form) {
		return
	}

	article, err := h.articleService.Create(middleware.CurrentActor(c), form)
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendCreated(c, models.MsgArticleCreated, article)
}

func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	var form models.ArticleForm
	if !h.Helper.BindAndValidate(c, &form) {
		return
	}

	article, err := h.articleService.Update(middleware.CurrentActor(c), c.Param("id"), form)
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, models.MsgArticleUpdated, article)
}

func (h *ArticleHandler) SaveDraft(c *gin.Context) {
	var form models.ArticleForm
	if !h.Helper.BindAndValidate(c, &form) {
		return
	}

	article, err := h.articleService.SaveDraft(middleware.CurrentActor(c), c.Param("id"), form)
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, models.MsgArticleDrafted, article)
}

func (h *ArticleHandler) ApproveArticle(c *gin.Context) {
	article, err := h.articleService.Approve(middleware.CurrentActor(c), c.Param("id"))
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, models.MsgArticleApproved, article)
}

func (h *ArticleHandler) RejectArticle(c *gin.Context) {
	var req models.RejectRequest
	if !h.Helper.BindAndValidate(c, &req) {
		return
	}

	article, err := h.articleService.Reject(middleware.CurrentActor(c), c.Param("id"), req.Reason)
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, models.MsgArticleRejected, article)
}

func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	if err := h.articleService.Delete(middleware.CurrentActor(c), c.Param("id")); err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, models.MsgArticleDeleted, h.Helper.EmptyJsonMap())
}
