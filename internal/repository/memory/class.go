package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/apper-apps/scholar-array-protocol/internal/models"
	"github.com/apper-apps/scholar-array-protocol/internal/repository"
)

// ClassRepository is the in-memory class collection.
type ClassRepository struct {
	t *table[models.Class]
}

// NewClassRepository binds a repository to db.
func NewClassRepository(db *DB) *ClassRepository {
	return &ClassRepository{t: db.classes}
}

// List returns matching classes ordered by ID.
func (r *ClassRepository) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.t.list(filter.Matches), nil
}

// FindByID fetches a class by ID.
func (r *ClassRepository) FindByID(ctx context.Context, id int64) (*models.Class, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	row, ok := r.t.get(id)
	if !ok {
		return nil, fmt.Errorf("find class %d: %w", id, repository.ErrNotFound)
	}
	return &row, nil
}

// Create stores a class and assigns its ID.
func (r *ClassRepository) Create(ctx context.Context, row *models.Class) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := time.Now().UTC()
	row.CreatedAt = now
	row.UpdatedAt = now
	stored, _ := r.t.insert(*row, func(v *models.Class, id int64) { v.ID = id }, nil)
	*row = stored
	return nil
}

// Update overwrites a stored class.
func (r *ClassRepository) Update(ctx context.Context, row *models.Class) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	row.UpdatedAt = time.Now().UTC()
	stored, ok := r.t.replace(row.ID, func(v *models.Class) {
		createdAt := v.CreatedAt
		*v = *row
		v.CreatedAt = createdAt
	})
	if !ok {
		return fmt.Errorf("update class %d: %w", row.ID, repository.ErrNotFound)
	}
	*row = stored
	return nil
}

// Delete removes a class. It reports false when the ID is unknown.
func (r *ClassRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return r.t.remove(id), nil
}
