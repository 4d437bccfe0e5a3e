package entity

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage keeps (page-1)*size far from int overflow.
	MaxPage = 100000
)

type SortField string

const (
	SortPublished  SortField = "published"
	SortCreatedAt  SortField = "created_at"
	SortTitle      SortField = "title"
	SortLikesCount SortField = "likes_count"
)

type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

// ListQuery is every shape an article listing can take.
type ListQuery struct {
	Source        string
	Search        string
	SortField     SortField
	SortDirection SortDirection
	Offset        int
	Limit         int
}

// ParseListQuery builds a ListQuery from request parameters. Unknown sort
// fields fall back to newest published first; page and size are clamped.
func ParseListQuery(page, pageSize, source, sortBy, search string) ListQuery {
	p, err := strconv.Atoi(page)
	if err != nil || p < 1 {
		p = 1
	}
	if p > MaxPage {
		p = MaxPage
	}
	size, err := strconv.Atoi(pageSize)
	if err != nil || size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	field, direction := parseSort(sortBy)
	return ListQuery{
		Source:        strings.TrimSpace(source),
		Search:        strings.TrimSpace(search),
		SortField:     field,
		SortDirection: direction,
		Offset:        (p - 1) * size,
		Limit:         size,
	}
}

func parseSort(sortBy string) (SortField, SortDirection) {
	field, dir, _ := strings.Cut(strings.TrimSpace(sortBy), ".")
	switch SortField(field) {
	case SortPublished, SortCreatedAt, SortTitle, SortLikesCount:
	default:
		return SortPublished, Desc
	}
	if dir == string(Desc) {
		return SortField(field), Desc
	}
	return SortField(field), Asc
}

func (q ListQuery) Page() int {
	if q.Limit <= 0 {
		return 1
	}
	return q.Offset/q.Limit + 1
}

// TotalPages is the number of pages of q.Limit needed for total rows.
func (q ListQuery) TotalPages(total int64) int {
	if q.Limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(q.Limit) - 1) / int64(q.Limit))
}

// CacheKey identifies the result set of q. Field values are query-escaped so
// no source or search text can pose as another field.
func (q ListQuery) CacheKey() string {
	return url.Values{
		"src":  {q.Source},
		"q":    {strings.ToLower(q.Search)},
		"sort": {string(q.SortField) + "." + string(q.SortDirection)},
		"off":  {strconv.Itoa(q.Offset)},
		"lim":  {strconv.Itoa(q.Limit)},
	}.Encode()
}
