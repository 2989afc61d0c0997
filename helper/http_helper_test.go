package helper

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"itblog-api/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStatusCode(t *testing.T) {
	h := NewHTTPHelper()

	assert.Equal(t, http.StatusOK, h.GetStatusCode(nil))
	assert.Equal(t, http.StatusBadRequest, h.GetStatusCode(models.NewValidationError("x")))
	assert.Equal(t, http.StatusUnauthorized, h.GetStatusCode(models.NewUnauthorizedError("x")))
	assert.Equal(t, http.StatusForbidden, h.GetStatusCode(models.NewForbiddenError("x")))
	assert.Equal(t, http.StatusNotFound, h.GetStatusCode(fmt.Errorf("wrapped: %w", models.NewNotFoundError("x"))))
	assert.Equal(t, http.StatusInternalServerError, h.GetStatusCode(errors.New("boom")))
}

func TestSendErrorFromEchoesInternalCause(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHTTPHelper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.SendErrorFrom(c, models.NewInternalError("Lỗi khi lưu", errors.New("disk full")))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body struct {
		Code        int               `json:"code"`
		CodeMessage string            `json:"code_message"`
		Data        map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 500, body.Code)
	assert.Equal(t, "Lỗi khi lưu", body.CodeMessage)
	assert.Contains(t, body.Data["error"], "disk full")
}

func TestGeneratePaging(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHTTPHelper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/articles?search=go&page=2&limit=5", nil)

	paging := h.GeneratePaging(c, Pagination{Page: 2, Limit: 5}, 12)

	assert.Equal(t, int64(12), paging["total_items"])
	assert.Equal(t, 3, paging["total_pages"])
	links := paging["links"].(map[string]interface{})
	assert.Equal(t, "http://example.com/articles?limit=5&page=3&search=go", links["next"])
	assert.Equal(t, "http://example.com/articles?limit=5&page=1&search=go", links["previous"])
}

func TestBindAndValidate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHTTPHelper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", jsonBody(`{"username":""}`))
	c.Request.Header.Set("Content-Type", "application/json")

	var req models.LoginRequest
	ok := h.BindAndValidate(c, &req)

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validationError")
	assert.Contains(t, w.Body.String(), "password")
}

func TestUnderscore(t *testing.T) {
	assert.Equal(t, "image_url", Underscore("ImageURL"))
	assert.Equal(t, "old_password", Underscore("OldPassword"))
	assert.Equal(t, "id", Underscore("ID"))
	assert.Equal(t, "username", Underscore("Username"))
}

func jsonBody(s string) *strings.Reader {
	return strings.NewReader(s)
}
