package domain

// Sortable columns per resource. sortByProperty comes straight from the query
// string, so anything outside these sets falls back to the resource default.
var (
	UserSortFields = map[string]struct{}{
		"id": {}, "id_visible": {}, "username": {}, "mail": {},
		"name": {}, "last_name": {}, "created_at": {},
	}
	CitySortFields = map[string]struct{}{
		"id_visible": {}, "name": {}, "active": {}, "created_at": {},
	}
)

const (
	UserDefaultSort = "id"
	CityDefaultSort = "id_visible"
)

// Paginator is the shared list-query shape. Pagination only applies when both
// Page and PerPage are set; sorting only when SortBy is set.
type Paginator struct {
	Page           int    `form:"page"`
	PerPage        int    `form:"perPage"`
	SortBy         string `form:"sortBy"` // "asc" | "desc"
	SortByProperty string `form:"sortByProperty"`
}

func (p Paginator) Paged() bool { return p.Page > 0 && p.PerPage > 0 }

func (p Paginator) Offset() int { return (p.Page - 1) * p.PerPage }

// OrderClause returns the ORDER BY expression, or ok=false when no sort was
// requested. The property is checked against the allow-list before it ever
// reaches SQL.
func (p Paginator) OrderClause(allowed map[string]struct{}, def string) (string, bool) {
	if p.SortBy == "" {
		return "", false
	}
	dir := "asc"
	if p.SortBy == "desc" {
		dir = "desc"
	}
	prop := p.SortByProperty
	if _, ok := allowed[prop]; !ok {
		prop = def
	}
	return prop + " " + dir, true
}

// Metadata mirrors the two response shapes: {page,totalRecords,lastPage} when
// paginated, {totalRecords} alone otherwise.
type Metadata struct {
	Page         int   `json:"page,omitempty"`
	TotalRecords int64 `json:"totalRecords"`
	LastPage     *int  `json:"lastPage,omitempty"`
}

// Metadata computes lastPage = ceil(total/perPage), substituting perPage 1
// when unset to avoid dividing by zero.
func (p Paginator) Metadata(total int64) Metadata {
	if !p.Paged() {
		return Metadata{TotalRecords: total}
	}
	per := p.PerPage
	if per <= 0 {
		per = 1
	}
	last := int((total + int64(per) - 1) / int64(per))
	return Metadata{Page: p.Page, TotalRecords: total, LastPage: &last}
}

type List[T any] struct {
	Data     []T      `json:"data"`
	Metadata Metadata `json:"metadata"`
}
