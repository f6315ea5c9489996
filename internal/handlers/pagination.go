package handlers

import (
	"net/http"
	"strconv"
)

// Лимиты страниц по умолчанию для разных ресурсов.
const (
	defaultLimitProjects    = 10
	defaultLimitPeriods     = 10
	defaultLimitFiles       = 20
	defaultLimitGeoPoints   = 20
	defaultLimitUsers       = 100
	defaultLimitAssignments = 100
)

// Page — страница списка с метаданными пагинации.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Pages    int   `json:"pages"`
}

// parsePagination читает skip/limit из query. Отрицательный skip
// обнуляется, невалидный limit заменяется дефолтом ресурса.
func parsePagination(r *http.Request, defaultLimit int) (skip, limit int) {
	skip = 0
	limit = defaultLimit
	if v := r.URL.Query().Get("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			skip = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	return skip, limit
}

// newPage собирает страницу: page = skip/limit + 1, pages = ceil(total/limit);
// при limit <= 0 обе величины равны 1.
func newPage[T any](items []T, total int64, skip, limit int) Page[T] {
	if items == nil {
		items = []T{}
	}
	page, pages := 1, 1
	if limit > 0 {
		page = skip/limit + 1
		pages = int((total + int64(limit) - 1) / int64(limit))
		if pages < 1 {
			pages = 1
		}
	}
	return Page[T]{Items: items, Total: total, Page: page, PageSize: limit, Pages: pages}
}
