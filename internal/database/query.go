package database

import (
	"strings"
)

// QueryBuilder rewrites queries written with ? placeholders for the active dialect.
type QueryBuilder struct {
	dialect Dialect
}

// NewQueryBuilder creates a new QueryBuilder for the given dialect.
func NewQueryBuilder(dialect Dialect) *QueryBuilder {
	return &QueryBuilder{dialect: dialect}
}

// Build replaces each ? outside a quoted literal with the dialect's placeholder.
//
//	input:    "SELECT id FROM rooms WHERE seed = ? AND kind = ?"
//	SQLite:   "SELECT id FROM rooms WHERE seed = ? AND kind = ?"
//	Postgres: "SELECT id FROM rooms WHERE seed = $1 AND kind = $2"
func (qb *QueryBuilder) Build(query string) string {
	if _, ok := qb.dialect.(*SQLiteDialect); ok {
		return query
	}

	var result strings.Builder
	result.Grow(len(query) + 8)
	position := 1
	quoted := false

	for i := 0; i < len(query); i++ {
		switch c := query[i]; {
		case c == '\'':
			quoted = !quoted
			result.WriteByte(c)
		case c == '?' && !quoted:
			result.WriteString(qb.dialect.Placeholder(position))
			position++
		default:
			result.WriteByte(c)
		}
	}

	return result.String()
}

// BuildWithReturning is Build plus a RETURNING clause when the dialect cannot
// report the inserted id through LastInsertId.
func (qb *QueryBuilder) BuildWithReturning(query string, column string) string {
	converted := qb.Build(query)
	if !qb.dialect.SupportsLastInsertID() {
		converted += qb.dialect.ReturningClause(column)
	}
	return converted
}
