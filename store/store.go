// Package store is the source of truth behind the cached repositories: a small
// generic contract over bun plus the helpers to open and prepare a database.
package store

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// Criteria narrows or orders a select query. It is go-repository-bun's select
// criteria, so repository.SelectBy, repository.SelectOrderAsc,
// repository.SelectColumnIn and friends are criteria as they are.
type Criteria = repository.SelectCriteria

// EntityStore is the storage contract the repositories consume. FindByID
// returns (nil, nil) when no row matches; any other failure is an error.
type EntityStore[T any, ID comparable] interface {
	FindByID(ctx context.Context, id ID) (*T, error)
	Query(ctx context.Context, criteria ...Criteria) ([]T, error)
	Insert(ctx context.Context, entity *T) (*T, error)
	Update(ctx context.Context, entity *T) (*T, error)
	Delete(ctx context.Context, id ID) (bool, error)
	Exists(ctx context.Context, criteria ...Criteria) (bool, error)
}

// Where adds a WHERE clause using bun placeholders. Arguments keep their Go
// type, so time.Time values are bound in the dialect's own format.
func Where(query string, args ...any) Criteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where(query, args...)
	}
}

// WhereColumn matches column = value for ids and flags.
// repository.SelectBy binds strings only; use it for text columns.
func WhereColumn(column string, value any) Criteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.? = ?", bun.Ident(column), value)
	}
}

// Apply runs every criteria against q in order.
func Apply(q *bun.SelectQuery, criteria ...Criteria) *bun.SelectQuery {
	for _, c := range criteria {
		if c != nil {
			q = c(q)
		}
	}
	return q
}
