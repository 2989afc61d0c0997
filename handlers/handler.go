package handlers

import (
	"strconv"

	"itblog-api/helper"
	"itblog-api/models"

	"github.com/gin-gonic/gin"
)

const (
	defaultArticleLimit      = 10
	defaultCommentLimit      = 10
	defaultNotificationLimit = 10
	defaultUserLimit         = 10
)

// paramID reads a numeric path parameter. It answers 400 itself and
// reports false when the value is not a positive integer.
func paramID(c *gin.Context, h *helper.HTTPHelper, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		h.SendBadRequest(c, models.MsgInvalidRequest, h.EmptyJsonMap())
		return 0, false
	}
	return uint(id), true
}
