package application

import "github.com/Rhey-Ranido/service-hub-sub001/internal/public/domain"

// Paginate slices items into the requested page. A page past the end yields no
// items but keeps accurate totals. pageSize is clamped to domain.MaxPageSize.
func Paginate[T any](items []T, page, pageSize int) domain.Page[T] {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = domain.DefaultPageSize
	}
	if pageSize > domain.MaxPageSize {
		pageSize = domain.MaxPageSize
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize

	start := total
	// compare before multiplying so huge page numbers cannot overflow
	if page-1 <= total/pageSize {
		start = min((page-1)*pageSize, total)
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return domain.Page[T]{
		Items:       append(make([]T, 0, end-start), items[start:end]...),
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  total,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}
