package handlers

import (
	"itblog-api/helper"
	"itblog-api/middleware"
	"itblog-api/models"
	"itblog-api/services"

	"github.com/gin-gonic/gin"
)

type FollowerHandler struct {
	followerService services.FollowerService
	Helper          *helper.HTTPHelper
}

func NewFollowerHandler(followerService services.FollowerService, h *helper.HTTPHelper) *FollowerHandler {
	return &FollowerHandler{followerService: followerService, Helper: h}
}

// GetFollowStatus reports the follower count of the user at :id (id or
// username) and whether the caller follows them.
func (h *FollowerHandler) GetFollowStatus(c *gin.Context) {
	status, err := h.followerService.Show(middleware.CurrentActor(c), c.Param("id"))
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, models.MsgSuccess, status)
}

func (h *FollowerHandler) ToggleFollow(c *gin.Context) {
	following, err := h.followerService.Toggle(middleware.CurrentActor(c), c.Param("id"))
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	message := models.MsgUnfollowed
	if following {
		message = models.MsgFollowed
	}
	h.Helper.SendSuccess(c, message, gin.H{"is_following": following})
}

func (h *FollowerHandler) GetFollowLists(c *gin.Context) {
	lists, err := h.followerService.Lists(c.Param("id"))
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, models.MsgSuccess, lists)
}
