package listing

import "github.com/stemsi/profile-directory/internal/model"

// View holds the state of one listing: the full profile list, the current
// query, and the current page. Changing the query or the list resets the page
// to 1. A View is not safe for concurrent use.
type View struct {
	fields   FieldSet
	pageSize int

	all      []model.Profile
	query    string
	filtered []model.Profile
	page     int
}

// NewView creates an empty View on page 1.
func NewView(fields FieldSet, pageSize int) *View {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &View{fields: fields, pageSize: pageSize, page: 1}
}

// SetProfiles replaces the underlying list and resets to page 1.
func (v *View) SetProfiles(profiles []model.Profile) {
	v.all = profiles
	v.refilter()
}

// SetQuery replaces the query and resets to page 1.
func (v *View) SetQuery(query string) {
	v.query = query
	v.refilter()
}

func (v *View) refilter() {
	v.filtered = Filter(v.all, v.query, v.fields)
	v.page = 1
}

// Query returns the current query.
func (v *View) Query() string { return v.query }

// CurrentPage returns the 1-based current page.
func (v *View) CurrentPage() int { return v.page }

// TotalPages returns the page count of the filtered list.
func (v *View) TotalPages() int { return TotalPages(len(v.filtered), v.pageSize) }

// GoTo moves to page p. Pages outside [1, TotalPages] are ignored and GoTo
// reports false.
func (v *View) GoTo(p int) bool {
	if p < 1 || p > v.TotalPages() {
		return false
	}
	v.page = p
	return true
}

// Next moves forward one page if possible.
func (v *View) Next() bool { return v.GoTo(v.page + 1) }

// Prev moves back one page if possible.
func (v *View) Prev() bool { return v.GoTo(v.page - 1) }

// Filtered returns the full filtered list.
func (v *View) Filtered() []model.Profile { return v.filtered }

// Items returns the profiles on the current page.
func (v *View) Items() []model.Profile {
	return Paginate(v.filtered, v.page, v.pageSize)
}

// Pagination describes the current page.
func (v *View) Pagination() Pagination {
	return Pagination{
		Page:       v.page,
		PerPage:    v.pageSize,
		TotalItems: len(v.filtered),
		TotalPages: v.TotalPages(),
	}
}
