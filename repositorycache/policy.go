package repositorycache

import "github.com/uptrace/bun"

// ActiveFilter narrows GetAll(ctx, false) to the rows an entity type
// considers active. Targeted lookups never apply it.
type ActiveFilter interface {
	Apply(q *bun.SelectQuery) *bun.SelectQuery
}

// NoActiveFilter keeps every row.
type NoActiveFilter struct{}

func (NoActiveFilter) Apply(q *bun.SelectQuery) *bun.SelectQuery { return q }

// ActiveColumn keeps rows whose boolean column is true.
type ActiveColumn string

func (c ActiveColumn) Apply(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Where("? = ?", bun.Ident(string(c)), true)
}

// ActiveFilterFunc adapts a function to ActiveFilter.
type ActiveFilterFunc func(q *bun.SelectQuery) *bun.SelectQuery

func (f ActiveFilterFunc) Apply(q *bun.SelectQuery) *bun.SelectQuery { return f(q) }
