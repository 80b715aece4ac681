package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/apper-apps/scholar-array-protocol/internal/models"
	"github.com/apper-apps/scholar-array-protocol/internal/repository"
)

// StudentRepository is the in-memory student collection.
type StudentRepository struct {
	t *table[models.Student]
}

// NewStudentRepository binds a repository to db.
func NewStudentRepository(db *DB) *StudentRepository {
	return &StudentRepository{t: db.students}
}

// List returns matching students and the total match count. A zero PageSize returns every match.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	all := r.t.list(filter.Matches)
	total := len(all)
	if filter.PageSize <= 0 {
		return all, total, nil
	}
	page := models.Pagination{Page: filter.Page, PageSize: filter.PageSize}
	page.Normalize(filter.PageSize, 0)
	start := page.Offset()
	if start >= total {
		return []models.Student{}, total, nil
	}
	end := start + page.PageSize
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

// FindByID fetches a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	student, ok := r.t.get(id)
	if !ok {
		return nil, fmt.Errorf("find student %d: %w", id, repository.ErrNotFound)
	}
	return &student, nil
}

// Create stores a student and assigns its ID.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := time.Now().UTC()
	student.CreatedAt = now
	student.UpdatedAt = now
	stored, _ := r.t.insert(*student, func(s *models.Student, id int64) { s.ID = id }, nil)
	*student = stored
	return nil
}

// Update overwrites a stored student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	student.UpdatedAt = time.Now().UTC()
	stored, ok := r.t.replace(student.ID, func(s *models.Student) {
		createdAt := s.CreatedAt
		*s = *student
		s.CreatedAt = createdAt
	})
	if !ok {
		return fmt.Errorf("update student %d: %w", student.ID, repository.ErrNotFound)
	}
	*student = stored
	return nil
}

// Delete removes a student. It reports false when the ID is unknown.
func (r *StudentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return r.t.remove(id), nil
}
