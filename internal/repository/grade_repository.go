package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/apper-apps/scholar-array-protocol/internal/models"
)

const gradeColumns = `id, student_id, class_id, assignment_id, score, max_score, percentage, letter_grade, date_recorded, created_at, updated_at`

// GradeRepository manages persistence for grades.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository constructs a GradeRepository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// List returns grades matching the filter, oldest first.
func (r *GradeRepository) List(ctx context.Context, filter models.GradeFilter) ([]models.Grade, error) {
	args := []interface{}{}
	conditions := []string{"1=1"}
	if filter.StudentID != nil {
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, *filter.StudentID)
	}
	if filter.ClassID != nil {
		conditions = append(conditions, fmt.Sprintf("class_id = $%d", len(args)+1))
		args = append(args, *filter.ClassID)
	}
	if filter.AssignmentID != nil {
		conditions = append(conditions, fmt.Sprintf("assignment_id = $%d", len(args)+1))
		args = append(args, *filter.AssignmentID)
	}

	query := fmt.Sprintf("SELECT %s FROM grades WHERE %s ORDER BY id ASC", gradeColumns, strings.Join(conditions, " AND "))
	var grades []models.Grade
	if err := r.db.SelectContext(ctx, &grades, query, args...); err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}
	return grades, nil
}

// FindByID fetches a grade by ID.
func (r *GradeRepository) FindByID(ctx context.Context, id int64) (*models.Grade, error) {
	var grade models.Grade
	if err := r.db.GetContext(ctx, &grade, "SELECT "+gradeColumns+" FROM grades WHERE id = $1", id); err != nil {
		return nil, translate(err, "find grade")
	}
	return &grade, nil
}

// Create inserts a grade and stores the assigned ID on it.
func (r *GradeRepository) Create(ctx context.Context, grade *models.Grade) error {
	now := time.Now().UTC()
	grade.CreatedAt = now
	grade.UpdatedAt = now
	const query = `INSERT INTO grades (student_id, class_id, assignment_id, score, max_score, percentage, letter_grade, date_recorded, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	err := r.db.QueryRowxContext(ctx, query,
		grade.StudentID, grade.ClassID, grade.AssignmentID, grade.Score, grade.MaxScore,
		grade.Percentage, grade.LetterGrade, grade.DateRecorded, grade.CreatedAt, grade.UpdatedAt,
	).Scan(&grade.ID)
	if err != nil {
		return translate(err, "create grade")
	}
	return nil
}

// Update overwrites the mutable columns of a grade.
func (r *GradeRepository) Update(ctx context.Context, grade *models.Grade) error {
	grade.UpdatedAt = time.Now().UTC()
	const query = `UPDATE grades SET student_id = :student_id, class_id = :class_id, assignment_id = :assignment_id, score = :score,
        max_score = :max_score, percentage = :percentage, letter_grade = :letter_grade, date_recorded = :date_recorded,
        updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, grade)
	if err != nil {
		return translate(err, "update grade")
	}
	return requireRow(res, "update grade")
}

// Delete removes a grade. It reports false when no row matched.
func (r *GradeRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM grades WHERE id = $1", id)
	if err != nil {
		return false, translate(err, "delete grade")
	}
	return affected(res, "delete grade")
}
