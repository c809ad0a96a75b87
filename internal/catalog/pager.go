package catalog

import "github.com/medbazaar/pharmacy-catalog/internal/model"

// clampPage forces a page number to at least 1.
func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// clampPageSize applies the default when unset and the server-side maximum
// otherwise.
func (e *Engine) clampPageSize(size int) int {
	if size < 1 {
		return e.defaultPageSize
	}
	if size > e.maxPageSize {
		return e.maxPageSize
	}
	return size
}

// buildPagination assembles page metadata with ceiling division. An
// out-of-range page keeps its number; it simply has no items.
func buildPagination(page, pageSize, total int) model.Pagination {
	totalPages := 0
	if total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return model.Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: pageSize,
		HasNextPage:  page < totalPages,
		HasPrevPage:  page > 1,
	}
}

// pageWindow applies skip/limit to an already-sorted row slice. Out-of-range
// windows yield an empty slice, not an error.
func pageWindow[T any](items []T, skip, limit int) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) {
		return []T{}
	}
	items = items[skip:]
	if limit >= 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
