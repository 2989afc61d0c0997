package handlers

import (
	"itblog-api/helper"
	"itblog-api/middleware"
	"itblog-api/models"
	"itblog-api/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService services.UserService
	Helper      *helper.HTTPHelper
}

func NewUserHandler(userService services.UserService, h *helper.HTTPHelper) *UserHandler {
	return &UserHandler{userService: userService, Helper: h}
}

// GetUser accepts a numeric id or a username. Only the user and admins see
// the full account; everyone else gets the public summary.
func (h *UserHandler) GetUser(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	user, err := h.userService.Get(c.Param("id"))
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	if !services.CanViewAccount(actor, user) {
		h.Helper.SendSuccess(c, models.MsgSuccess, user.Summary())
		return
	}
	h.Helper.SendSuccess(c, models.MsgSuccess, user)
}

func (h *UserHandler) GetUsers(c *gin.Context) {
	p := helper.PaginationFromQuery(c, defaultUserLimit)

	users, total, err := h.userService.List(c.Query("search"), p)
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendPaged(c, models.MsgSuccess, users, p, total)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if !h.Helper.BindAndValidate(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(middleware.CurrentActor(c), req)
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, models.MsgSuccess, user)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if !h.Helper.BindAndValidate(c, &req) {
		return
	}

	if err := h.userService.ChangePassword(middleware.CurrentActor(c), req); err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, models.MsgSuccess, h.Helper.EmptyJsonMap())
}

func (h *UserHandler) ToggleBlock(c *gin.Context) {
	id, ok := paramID(c, h.Helper, "id")
	if !ok {
		return
	}

	user, err := h.userService.ToggleBlock(middleware.CurrentActor(c), id)
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, models.MsgSuccess, user)
}

func (h *UserHandler) ToggleAdmin(c *gin.Context) {
	id, ok := paramID(c, h.Helper, "id")
	if !ok {
		return
	}

	user, err := h.userService.ToggleAdmin(middleware.CurrentActor(c), id)
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, models.MsgSuccess, user)
}
