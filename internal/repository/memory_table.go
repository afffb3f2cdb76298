package repository

import (
	"slices"
	"sync"

	"github.com/google/uuid"
)

// table is a mutex-guarded map. Values go in and come out as clones so callers
// never hold a reference into the stored state.
type table[T any] struct {
	mu    sync.RWMutex
	rows  map[uuid.UUID]T
	clone func(T) T
	order func(a, b T) int
}

func newTable[T any](clone func(T) T, order func(a, b T) int) *table[T] {
	return &table[T]{
		rows:  make(map[uuid.UUID]T),
		clone: clone,
		order: order,
	}
}

func (t *table[T]) put(id uuid.UUID, v T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows[id] = t.clone(v)
}

func (t *table[T]) get(id uuid.UUID) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, false
	}
	return t.clone(v), true
}

func (t *table[T]) len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// filter returns clones of the rows accepted by keep, sorted by t.order. A nil keep accepts all.
func (t *table[T]) filter(keep func(T) bool) []T {
	t.mu.RLock()
	out := make([]T, 0, len(t.rows))
	for _, v := range t.rows {
		if keep == nil || keep(v) {
			out = append(out, t.clone(v))
		}
	}
	t.mu.RUnlock()
	if t.order != nil {
		slices.SortFunc(out, t.order)
	}
	return out
}

func (t *table[T]) update(id uuid.UUID, fn func(*T) error) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	cur, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	next := t.clone(cur)
	if err := fn(&next); err != nil {
		var zero T
		return zero, err
	}
	t.rows[id] = next
	return t.clone(next), nil
}

func (t *table[T]) remove(id uuid.UUID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

func (t *table[T]) removeWhere(match func(T) bool) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	var n int64
	for id, v := range t.rows {
		if match(v) {
			delete(t.rows, id)
			n++
		}
	}
	return n
}
