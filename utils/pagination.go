package utils

// Pagination describes one page of a zero-indexed paged collection
type Pagination struct {
	CurrentPage     int  `json:"current_page"`
	PageSize        int  `json:"page_size"`
	TotalItems      int  `json:"total_items"`
	TotalPages      int  `json:"total_pages"`
	HasNextPage     bool `json:"has_next_page"`
	HasPreviousPage bool `json:"has_previous_page"`
}

// NewPagination computes page metadata over the unpaginated total.
// page is zero-indexed and pageSize must be positive.
func NewPagination(page, pageSize, totalItems int) Pagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (totalItems + pageSize - 1) / pageSize
	}
	return Pagination{
		CurrentPage:     page,
		PageSize:        pageSize,
		TotalItems:      totalItems,
		TotalPages:      totalPages,
		HasNextPage:     page+1 < totalPages,
		HasPreviousPage: page > 0,
	}
}

// PageBounds returns the half-open [start, end) slice window for a page,
// clamped to total.
func PageBounds(page, pageSize, total int) (start, end int) {
	start = page * pageSize
	if start > total {
		start = total
	}
	end = start + pageSize
	if end > total {
		end = total
	}
	return start, end
}

// ValidatePage checks zero-indexed page parameters against an upper page size bound
func ValidatePage(page, pageSize, maxPageSize int) error {
	if page < 0 {
		return NewValidationError("INVALID_PAGE", "page must be zero or greater")
	}
	if pageSize <= 0 {
		return NewValidationError("INVALID_PAGE_SIZE", "page_size must be greater than zero")
	}
	if maxPageSize > 0 && pageSize > maxPageSize {
		return NewValidationError("INVALID_PAGE_SIZE", "page_size exceeds the maximum allowed")
	}
	return nil
}
