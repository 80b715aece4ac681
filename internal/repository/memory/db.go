// Package memory is the in-process record store. Every collection is a map guarded by its own
// RWMutex with a monotonically increasing identity counter, so the service layer can run without
// a database and tests can exercise the full stack.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/apper-apps/scholar-array-protocol/internal/models"
)

// DB holds the tables of the in-memory store.
type DB struct {
	students    *table[models.Student]
	classes     *table[models.Class]
	assignments *table[models.Assignment]
	grades      *table[models.Grade]
	attendance  *table[models.AttendanceRecord]
}

// NewDB returns an empty store.
func NewDB() *DB {
	return &DB{
		students:    newTable[models.Student](),
		classes:     newTable[models.Class](),
		assignments: newTable[models.Assignment](),
		grades:      newTable[models.Grade](),
		attendance:  newTable[models.AttendanceRecord](),
	}
}

type table[T any] struct {
	mu   sync.RWMutex
	pk   int64
	rows map[int64]T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[int64]T)}
}

// query returns matching rows ordered by identity. Caller must hold the lock.
func (t *table[T]) query(match func(T) bool) []T {
	ids := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		row := t.rows[id]
		if match == nil || match(row) {
			out = append(out, row)
		}
	}
	return out
}

func (t *table[T]) list(match func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.query(match)
}

func (t *table[T]) get(id int64) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	return row, ok
}

// insert assigns the next identity via assign and stores the row. When conflict reports true for
// an existing row nothing is stored and false is returned.
func (t *table[T]) insert(row T, assign func(*T, int64), conflict func(T) bool) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if conflict != nil {
		for _, existing := range t.rows {
			if conflict(existing) {
				return row, false
			}
		}
	}
	t.pk++
	assign(&row, t.pk)
	t.rows[t.pk] = row
	return row, true
}

func (t *table[T]) replace(id int64, fn func(*T)) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	row, ok := t.rows[id]
	if !ok {
		return row, false
	}
	fn(&row)
	t.rows[id] = row
	return row, true
}

func (t *table[T]) remove(id int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

func (t *table[T]) count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

func (t *table[T]) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = make(map[int64]T)
	t.pk = 0
}

// Reset empties every table and restarts identities at 1.
func (db *DB) Reset() {
	db.students.reset()
	db.classes.reset()
	db.assignments.reset()
	db.grades.reset()
	db.attendance.reset()
}

// Ping always succeeds unless ctx is done.
func (db *DB) Ping(ctx context.Context) error {
	return ctx.Err()
}
