package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/apper-apps/scholar-array-protocol/internal/models"
)

const assignmentColumns = `id, name, class_id, category, weight, due_date, total_points, created_at, updated_at`

// AssignmentRepository manages persistence for assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// List returns assignments, optionally limited to one class.
func (r *AssignmentRepository) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error) {
	query := "SELECT " + assignmentColumns + " FROM assignments"
	args := []interface{}{}
	if filter.ClassID != nil {
		query += " WHERE class_id = $1"
		args = append(args, *filter.ClassID)
	}
	query += " ORDER BY id ASC"

	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// FindByID fetches an assignment by ID.
func (r *AssignmentRepository) FindByID(ctx context.Context, id int64) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, "SELECT "+assignmentColumns+" FROM assignments WHERE id = $1", id); err != nil {
		return nil, translate(err, "find assignment")
	}
	return &assignment, nil
}

// Create inserts an assignment and stores the assigned ID on it.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	now := time.Now().UTC()
	assignment.CreatedAt = now
	assignment.UpdatedAt = now
	const query = `INSERT INTO assignments (name, class_id, category, weight, due_date, total_points, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := r.db.QueryRowxContext(ctx, query,
		assignment.Name, assignment.ClassID, assignment.Category, assignment.Weight, assignment.DueDate,
		assignment.TotalPoints, assignment.CreatedAt, assignment.UpdatedAt,
	).Scan(&assignment.ID)
	if err != nil {
		return translate(err, "create assignment")
	}
	return nil
}

// Update overwrites the mutable columns of an assignment.
func (r *AssignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	assignment.UpdatedAt = time.Now().UTC()
	const query = `UPDATE assignments SET name = :name, class_id = :class_id, category = :category, weight = :weight,
        due_date = :due_date, total_points = :total_points, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, assignment)
	if err != nil {
		return translate(err, "update assignment")
	}
	return requireRow(res, "update assignment")
}

// Delete removes an assignment. It reports false when no row matched.
func (r *AssignmentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM assignments WHERE id = $1", id)
	if err != nil {
		return false, translate(err, "delete assignment")
	}
	return affected(res, "delete assignment")
}
