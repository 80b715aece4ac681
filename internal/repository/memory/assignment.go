package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/apper-apps/scholar-array-protocol/internal/models"
	"github.com/apper-apps/scholar-array-protocol/internal/repository"
)

// AssignmentRepository is the in-memory assignment collection.
type AssignmentRepository struct {
	t *table[models.Assignment]
}

// NewAssignmentRepository binds a repository to db.
func NewAssignmentRepository(db *DB) *AssignmentRepository {
	return &AssignmentRepository{t: db.assignments}
}

// List returns matching assignments ordered by ID.
func (r *AssignmentRepository) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.t.list(filter.Matches), nil
}

// FindByID fetches a assignment by ID.
func (r *AssignmentRepository) FindByID(ctx context.Context, id int64) (*models.Assignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	row, ok := r.t.get(id)
	if !ok {
		return nil, fmt.Errorf("find assignment %d: %w", id, repository.ErrNotFound)
	}
	return &row, nil
}

// Create stores a assignment and assigns its ID.
func (r *AssignmentRepository) Create(ctx context.Context, row *models.Assignment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := time.Now().UTC()
	row.CreatedAt = now
	row.UpdatedAt = now
	stored, _ := r.t.insert(*row, func(v *models.Assignment, id int64) { v.ID = id }, nil)
	*row = stored
	return nil
}

// Update overwrites a stored assignment.
func (r *AssignmentRepository) Update(ctx context.Context, row *models.Assignment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	row.UpdatedAt = time.Now().UTC()
	stored, ok := r.t.replace(row.ID, func(v *models.Assignment) {
		createdAt := v.CreatedAt
		*v = *row
		v.CreatedAt = createdAt
	})
	if !ok {
		return fmt.Errorf("update assignment %d: %w", row.ID, repository.ErrNotFound)
	}
	*row = stored
	return nil
}

// Delete removes a assignment. It reports false when the ID is unknown.
func (r *AssignmentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return r.t.remove(id), nil
}
