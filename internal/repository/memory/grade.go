package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/apper-apps/scholar-array-protocol/internal/models"
	"github.com/apper-apps/scholar-array-protocol/internal/repository"
)

// GradeRepository is the in-memory grade collection.
type GradeRepository struct {
	t *table[models.Grade]
}

// NewGradeRepository binds a repository to db.
func NewGradeRepository(db *DB) *GradeRepository {
	return &GradeRepository{t: db.grades}
}

// List returns matching grades ordered by ID.
func (r *GradeRepository) List(ctx context.Context, filter models.GradeFilter) ([]models.Grade, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.t.list(filter.Matches), nil
}

// FindByID fetches a grade by ID.
func (r *GradeRepository) FindByID(ctx context.Context, id int64) (*models.Grade, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	row, ok := r.t.get(id)
	if !ok {
		return nil, fmt.Errorf("find grade %d: %w", id, repository.ErrNotFound)
	}
	return &row, nil
}

// Create stores a grade and assigns its ID.
func (r *GradeRepository) Create(ctx context.Context, row *models.Grade) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := time.Now().UTC()
	row.CreatedAt = now
	row.UpdatedAt = now
	stored, _ := r.t.insert(*row, func(v *models.Grade, id int64) { v.ID = id }, nil)
	*row = stored
	return nil
}

// Update overwrites a stored grade.
func (r *GradeRepository) Update(ctx context.Context, row *models.Grade) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	row.UpdatedAt = time.Now().UTC()
	stored, ok := r.t.replace(row.ID, func(v *models.Grade) {
		createdAt := v.CreatedAt
		*v = *row
		v.CreatedAt = createdAt
	})
	if !ok {
		return fmt.Errorf("update grade %d: %w", row.ID, repository.ErrNotFound)
	}
	*row = stored
	return nil
}

// Delete removes a grade. It reports false when the ID is unknown.
func (r *GradeRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return r.t.remove(id), nil
}
