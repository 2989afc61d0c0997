package helper

import (
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const MaxLimit = 100

type Pagination struct {
	Page  int
	Limit int
}

// NewPagination never fails: unparsable or out of range input falls back to
// page 1 and defaultLimit, limit is capped at MaxLimit and page is capped so
// that Offset fits in an int32.
func NewPagination(page, limit string, defaultLimit int) Pagination {
	p := Pagination{Page: 1, Limit: defaultLimit}
	if n, err := strconv.Atoi(strings.TrimSpace(page)); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(limit)); err == nil && n > 0 {
		p.Limit = n
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Limit > 0 && p.Page > math.MaxInt32/p.Limit+1 {
		p.Page = math.MaxInt32/p.Limit + 1
	}
	return p
}

// PaginationFromQuery reads ?page= and ?limit=.
func PaginationFromQuery(c *gin.Context, defaultLimit int) Pagination {
	return NewPagination(c.Query("page"), c.Query("limit"), defaultLimit)
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

func (p Pagination) TotalPages(total int64) int {
	if p.Limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}
