package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// DefaultIDColumn is the primary key column of every reporting table.
const DefaultIDColumn = "id"

// BunStore implements EntityStore on top of bun. Reads are plain snapshot
// selects and never lock rows.
type BunStore[T any, ID comparable] struct {
	db       bun.IDB
	idColumn string
}

var _ EntityStore[struct{}, int64] = (*BunStore[struct{}, int64])(nil)

// NewBunStore builds a store for model T keyed by the "id" column.
func NewBunStore[T any, ID comparable](db bun.IDB) *BunStore[T, ID] {
	return NewBunStoreWithIDColumn[T, ID](db, DefaultIDColumn)
}

// NewBunStoreWithIDColumn builds a store whose primary key lives in idColumn.
func NewBunStoreWithIDColumn[T any, ID comparable](db bun.IDB, idColumn string) *BunStore[T, ID] {
	if idColumn == "" {
		idColumn = DefaultIDColumn
	}
	return &BunStore[T, ID]{db: db, idColumn: idColumn}
}

// DB returns the underlying handle.
func (s *BunStore[T, ID]) DB() bun.IDB {
	return s.db
}

func (s *BunStore[T, ID]) FindByID(ctx context.Context, id ID) (*T, error) {
	entity := new(T)
	err := s.db.NewSelect().
		Model(entity).
		Where("? = ?", bun.Ident(s.idColumn), id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find %T by id: %w", entity, err)
	}
	return entity, nil
}

func (s *BunStore[T, ID]) Query(ctx context.Context, criteria ...Criteria) ([]T, error) {
	records := make([]T, 0)
	q := Apply(s.db.NewSelect().Model(&records), criteria...)
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return records, nil
		}
		return nil, fmt.Errorf("query %T: %w", records, err)
	}
	return records, nil
}

func (s *BunStore[T, ID]) Insert(ctx context.Context, entity *T) (*T, error) {
	if entity == nil {
		return nil, errors.New("insert: nil entity")
	}
	if _, err := s.db.NewInsert().Model(entity).Exec(ctx); err != nil {
		return nil, fmt.Errorf("insert %T: %w", entity, err)
	}
	return entity, nil
}

func (s *BunStore[T, ID]) Update(ctx context.Context, entity *T) (*T, error) {
	if entity == nil {
		return nil, errors.New("update: nil entity")
	}
	if _, err := s.db.NewUpdate().Model(entity).WherePK().Exec(ctx); err != nil {
		return nil, fmt.Errorf("update %T: %w", entity, err)
	}
	return entity, nil
}

func (s *BunStore[T, ID]) Delete(ctx context.Context, id ID) (bool, error) {
	res, err := s.db.NewDelete().
		Model((*T)(nil)).
		Where("? = ?", bun.Ident(s.idColumn), id).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("delete %T: %w", (*T)(nil), err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *BunStore[T, ID]) Exists(ctx context.Context, criteria ...Criteria) (bool, error) {
	q := Apply(s.db.NewSelect().Model((*T)(nil)), criteria...)
	exists, err := q.Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("exists %T: %w", (*T)(nil), err)
	}
	return exists, nil
}
