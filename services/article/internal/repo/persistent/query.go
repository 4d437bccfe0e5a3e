package persistent

import (
	"fmt"
	"strings"

	"audslp/services/article/internal/entity"

	"gorm.io/gorm"
)

var searchColumns = []string{"title", "title_translated", "tldr", "english_tldr"}

// ApplyListQuery applies filters, ordering and paging of q to db. It is the
// only place listing SQL is built.
func ApplyListQuery(db *gorm.DB, q entity.ListQuery) *gorm.DB {
	return applyFilters(db, q).
		Order(orderClause(q)).
		Offset(q.Offset).
		Limit(q.Limit)
}

// applyFilters narrows db to the rows q counts, without ordering or paging.
func applyFilters(db *gorm.DB, q entity.ListQuery) *gorm.DB {
	if q.Source != "" {
		db = db.Where("source = ?", q.Source)
	}
	if q.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(q.Search)) + "%"
		conds := make([]string, len(searchColumns))
		args := make([]interface{}, len(searchColumns))
		for i, col := range searchColumns {
			conds[i] = "LOWER(" + col + ") LIKE ? ESCAPE '\\'"
			args[i] = pattern
		}
		db = db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
	return db
}

// orderClause renders the ORDER BY of q. The field is whitelisted, so it is
// safe to inline.
func orderClause(q entity.ListQuery) string {
	field := q.SortField
	switch field {
	case entity.SortPublished, entity.SortCreatedAt, entity.SortTitle, entity.SortLikesCount:
	default:
		field = entity.SortPublished
	}

	dir := "ASC"
	if q.SortDirection == entity.Desc {
		dir = "DESC"
	}

	// Missing dates and titles sink to the end in both directions.
	nulls := ""
	if field == entity.SortPublished || field == entity.SortTitle {
		nulls = " NULLS LAST"
	}
	return fmt.Sprintf("%s %s%s, id DESC", field, dir, nulls)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
