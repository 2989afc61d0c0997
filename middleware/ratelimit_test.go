package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestIPRateLimiterAllow(t *testing.T) {
	l := NewIPRateLimiter(3, time.Minute)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("1.1.1.1"), "attempt %d", i+1)
	}
	assert.False(t, l.Allow("1.1.1.1"))
	assert.True(t, l.Allow("2.2.2.2"), "other IPs have their own bucket")

	now = now.Add(20 * time.Second)
	assert.True(t, l.Allow("1.1.1.1"), "one token refills every 20s")
}

func TestIPRateLimiterEvictsIdleVisitors(t *testing.T) {
	l := NewIPRateLimiter(5, time.Minute)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("1.1.1.1")
	l.Allow("2.2.2.2")
	assert.Len(t, l.visitors, 2)

	now = now.Add(2 * time.Minute)
	l.Allow("3.3.3.3")
	assert.Len(t, l.visitors, 1)
}

func TestIPRateLimiterMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/login", NewIPRateLimiter(1, time.Minute).Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func() int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
		return w.Code
	}
	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}
