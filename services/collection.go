package services

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"
)

type Record interface {
	GetID() string
}

// Collection keeps one persisted list in memory and writes it back wholesale
// after every change.
type Collection[T Record] struct {
	mu     sync.RWMutex
	key    string
	items  []T
	store  *Store
	logger *zap.Logger
}

func NewCollection[T Record](ctx context.Context, store *Store, key string, logger *zap.Logger) *Collection[T] {
	return &Collection[T]{
		key:    key,
		items:  LoadFromStore(ctx, store, key, []T{}),
		store:  store,
		logger: logger.Named(key),
	}
}

func (c *Collection[T]) Key() string { return c.key }

func (c *Collection[T]) All() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if item.GetID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Add prepends item, newest first.
func (c *Collection[T]) Add(ctx context.Context, item T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commit(ctx, append([]T{item}, c.items...))
}

func (c *Collection[T]) Update(ctx context.Context, id string, fn func(T) T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, item := range c.items {
		if item.GetID() == id {
			next := slices.Clone(c.items)
			next[i] = fn(item)
			if err := c.commit(ctx, next); err != nil {
				return item, err
			}
			return next[i], nil
		}
	}
	var zero T
	return zero, ErrNotFound
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := slices.IndexFunc(c.items, func(item T) bool { return item.GetID() == id })
	if idx < 0 {
		return ErrNotFound
	}
	return c.commit(ctx, slices.Delete(slices.Clone(c.items), idx, idx+1))
}

func (c *Collection[T]) Replace(ctx context.Context, items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commit(ctx, slices.Clone(items))
}

// commit saves next and only then makes it the in-memory list.
func (c *Collection[T]) commit(ctx context.Context, next []T) error {
	if err := c.store.Save(ctx, c.key, next); err != nil {
		c.logger.Error("failed to persist collection", zap.Error(err))
		return err
	}
	c.items = next
	return nil
}
