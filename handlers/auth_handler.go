package handlers

import (
	"itblog-api/helper"
	"itblog-api/middleware"
	"itblog-api/models"
	"itblog-api/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService services.AuthService
	Helper      *helper.HTTPHelper
}

func NewAuthHandler(authService services.AuthService, h *helper.HTTPHelper) *AuthHandler {
	return &AuthHandler{authService: authService, Helper: h}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !h.Helper.BindAndValidate(c, &req) {
		return
	}

	response, err := h.authService.Register(req)
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendCreated(c, models.MsgSuccess, response)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !h.Helper.BindAndValidate(c, &req) {
		return
	}

	response, err := h.authService.Login(req)
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, models.MsgSuccess, response)
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	if actor.IsAnonymous() {
		h.Helper.SendUnauthorizedError(c, models.MsgLoginRequired, h.Helper.EmptyJsonMap())
		return
	}

	user, err := h.authService.GetUserByID(actor.ID)
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, models.MsgSuccess, user)
}
