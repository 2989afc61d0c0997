package handlers

import (
	"itblog-api/helper"
	"itblog-api/middleware"
	"itblog-api/models"
	"itblog-api/services"

	"github.com/gin-gonic/gin"
)

type InteractionHandler struct {
	interactionService services.InteractionService
	Helper             *helper.HTTPHelper
}

func NewInteractionHandler(interactionService services.InteractionService, h *helper.HTTPHelper) *InteractionHandler {
	return &InteractionHandler{interactionService: interactionService, Helper: h}
}

func (h *InteractionHandler) GetComments(c *gin.Context) {
	p := helper.PaginationFromQuery(c, defaultCommentLimit)

	comments, total, err := h.interactionService.Comments(middleware.CurrentActor(c), c.Param("id"), p)
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendPaged(c, models.MsgSuccess, comments, p, total)
}

func (h *InteractionHandler) CreateComment(c *gin.Context) {
	var req models.CommentRequest
	if !h.Helper.BindAndValidate(c, &req) {
		return
	}

	comment, err := h.interactionService.AddComment(middleware.CurrentActor(c), c.Param("id"), req)
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendCreated(c, models.MsgSuccess, comment)
}

func (h *InteractionHandler) DeleteComment(c *gin.Context) {
	id, ok := paramID(c, h.Helper, "id")
	if !ok {
		return
	}

	if err := h.interactionService.DeleteComment(middleware.CurrentActor(c), id); err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, models.MsgSuccess, h.Helper.EmptyJsonMap())
}

func (h *InteractionHandler) ToggleLike(c *gin.Context) {
	liked, total, err := h.interactionService.ToggleLike(middleware.CurrentActor(c), c.Param("id"))
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	message := models.MsgUnliked
	if liked {
		message = models.MsgLiked
	}
	h.Helper.SendSuccess(c, message, gin.H{"liked": liked, "total_likes": total})
}
