package listing

// DefaultPageSize is the number of profiles shown per page.
const DefaultPageSize = 20

// Pagination describes the visible page of a listing.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// TotalPages returns max(1, ceil(n/size)).
func TotalPages(n, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// Bounds returns the half-open index range of page within a sequence of n
// items. Pages outside [1, TotalPages] yield an empty range.
func Bounds(n, page, size int) (start, end int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 || page > TotalPages(n, size) {
		return 0, 0
	}
	start = (page - 1) * size
	if start > n {
		start = n
	}
	end = start + size
	if end > n {
		end = n
	}
	return start, end
}

// Paginate returns the items of the given 1-based page.
func Paginate[T any](items []T, page, size int) []T {
	start, end := Bounds(len(items), page, size)
	return items[start:end]
}
