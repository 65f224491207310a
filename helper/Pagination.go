package helper

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Pagination is the envelope returned alongside every paginated listing.
type Pagination struct {
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	Total      int64 `json:"total"`
	HasMore    bool  `json:"hasMore"`
	TotalPages int64 `json:"totalPages"`
}

func NewPagination(page, limit, total int64) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	totalPages := (total + limit - 1) / limit
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		HasMore:    (page-1)*limit+limit < total,
		TotalPages: totalPages,
	}
}

func (p Pagination) Skip() int64 {
	return (p.Page - 1) * p.Limit
}

// PageParams reads ?page and ?limit with sane defaults.
func PageParams(c *gin.Context, defaultLimit int64) (page, limit int64) {
	page, _ = strconv.ParseInt(c.Query("page"), 10, 64)
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.ParseInt(c.Query("limit"), 10, 64)
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}
