package store

import (
	"context"

	"github.com/puzpuzpuz/xsync/v3"
)

// Store operation names used by Counting.
const (
	OpFindByID = "FindByID"
	OpQuery    = "Query"
	OpInsert   = "Insert"
	OpUpdate   = "Update"
	OpDelete   = "Delete"
	OpExists   = "Exists"
)

// CallHook runs before every delegated call. A non-nil error is returned to
// the caller instead of reaching the wrapped store.
type CallHook func(ctx context.Context, op string) error

// Counting decorates an EntityStore and counts calls per operation. It is how
// tests and the demo observe whether a read reached the store.
type Counting[T any, ID comparable] struct {
	next   EntityStore[T, ID]
	counts *xsync.MapOf[string, *xsync.Counter]
	hook   CallHook
}

var _ EntityStore[struct{}, int64] = (*Counting[struct{}, int64])(nil)

// NewCounting wraps next.
func NewCounting[T any, ID comparable](next EntityStore[T, ID]) *Counting[T, ID] {
	return &Counting[T, ID]{
		next:   next,
		counts: xsync.NewMapOf[string, *xsync.Counter](),
	}
}

// WithHook installs hook and returns the decorator for chaining.
func (c *Counting[T, ID]) WithHook(hook CallHook) *Counting[T, ID] {
	c.hook = hook
	return c
}

// Calls returns how many times op was invoked.
func (c *Counting[T, ID]) Calls(op string) int64 {
	counter, ok := c.counts.Load(op)
	if !ok {
		return 0
	}
	return counter.Value()
}

// Reads returns the number of read calls of any kind.
func (c *Counting[T, ID]) Reads() int64 {
	return c.Calls(OpFindByID) + c.Calls(OpQuery) + c.Calls(OpExists)
}

// Reset zeroes every counter.
func (c *Counting[T, ID]) Reset() {
	c.counts.Range(func(_ string, counter *xsync.Counter) bool {
		counter.Reset()
		return true
	})
}

func (c *Counting[T, ID]) record(ctx context.Context, op string) error {
	counter, _ := c.counts.LoadOrCompute(op, xsync.NewCounter)
	counter.Inc()
	if c.hook != nil {
		return c.hook(ctx, op)
	}
	return nil
}

func (c *Counting[T, ID]) FindByID(ctx context.Context, id ID) (*T, error) {
	if err := c.record(ctx, OpFindByID); err != nil {
		return nil, err
	}
	return c.next.FindByID(ctx, id)
}

func (c *Counting[T, ID]) Query(ctx context.Context, criteria ...Criteria) ([]T, error) {
	if err := c.record(ctx, OpQuery); err != nil {
		return nil, err
	}
	return c.next.Query(ctx, criteria...)
}

func (c *Counting[T, ID]) Insert(ctx context.Context, entity *T) (*T, error) {
	if err := c.record(ctx, OpInsert); err != nil {
		return nil, err
	}
	return c.next.Insert(ctx, entity)
}

func (c *Counting[T, ID]) Update(ctx context.Context, entity *T) (*T, error) {
	if err := c.record(ctx, OpUpdate); err != nil {
		return nil, err
	}
	return c.next.Update(ctx, entity)
}

func (c *Counting[T, ID]) Delete(ctx context.Context, id ID) (bool, error) {
	if err := c.record(ctx, OpDelete); err != nil {
		return false, err
	}
	return c.next.Delete(ctx, id)
}

func (c *Counting[T, ID]) Exists(ctx context.Context, criteria ...Criteria) (bool, error) {
	if err := c.record(ctx, OpExists); err != nil {
		return false, err
	}
	return c.next.Exists(ctx, criteria...)
}
