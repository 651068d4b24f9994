// Package query parses list pagination from request query strings and
// applies it to GORM queries.
package query

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// MaxPage keeps Offset from overflowing at any page size.
	MaxPage = math.MaxInt / MaxPageSize
)

// Params is a parsed page request. Page is 1-based.
type Params struct {
	Page      int
	PageSize  int
	SortOrder string
}

// ParseFromRequest reads page, pageSize (or limit) and order from r.
func ParseFromRequest(r *http.Request) Params {
	q := r.URL.Query()

	size := q.Get("pageSize")
	if size == "" {
		size = q.Get("limit")
	}

	return Params{
		Page:      clamp(intOrDefault(q.Get("page"), 1), 1, MaxPage),
		PageSize:  clamp(intOrDefault(size, DefaultPageSize), 1, MaxPageSize),
		SortOrder: normalizeSortOrder(q.Get("order")),
	}
}

// Offset returns the row offset of the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Paginate returns a GORM scope applying limit, offset and created_at ordering.
func (p Params) Paginate() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at " + p.SortOrder).Offset(p.Offset()).Limit(p.PageSize)
	}
}

func normalizeSortOrder(order string) string {
	if strings.EqualFold(order, "asc") {
		return "asc"
	}
	return "desc"
}

func intOrDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
