package handlers

import (
	"itblog-api/helper"
	"itblog-api/middleware"
	"itblog-api/models"
	"itblog-api/services"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categoryService services.CategoryService
	Helper          *helper.HTTPHelper
}

func NewCategoryHandler(categoryService services.CategoryService, h *helper.HTTPHelper) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, Helper: h}
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req models.CategoryRequest
	if !h.Helper.BindAndValidate(c, &req) {
		return
	}

	category, err := h.categoryService.CreateCategory(middleware.CurrentActor(c), req)
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendCreated(c, models.MsgSuccess, category)
}

func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.categoryService.GetCategories(c.Query("search"))
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, models.MsgSuccess, categories)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := paramID(c, h.Helper, "id")
	if !ok {
		return
	}

	if err := h.categoryService.DeleteCategory(middleware.CurrentActor(c), id); err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, models.MsgSuccess, h.Helper.EmptyJsonMap())
}
