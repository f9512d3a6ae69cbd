package models

import (
	"github.com/contaslab/contas_backend/config"
	"gorm.io/gorm"
)

const (
	defaultPerPage = config.SearchLimit
	maxPerPage     = 100
)

type PageParams struct {
	Page    int `form:"page"`
	PerPage int `form:"per_page"`
}

func (p PageParams) normalized() (int, int) {
	page := p.Page
	if page < 1 {
		page = 1
	}
	perPage := p.PerPage
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

// Paginate is a gorm scope applying offset pagination.
func Paginate(p PageParams) func(db *gorm.DB) *gorm.DB {
	page, perPage := p.normalized()
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((page - 1) * perPage).Limit(perPage)
	}
}

// Slice paginates an in-memory list (used for aggregated invoice rows that
// only exist after grouping).
func PaginateSlice[T any](items []T, p PageParams) []T {
	page, perPage := p.normalized()
	start := (page - 1) * perPage
	if start >= len(items) {
		return []T{}
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
