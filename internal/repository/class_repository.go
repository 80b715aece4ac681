package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/apper-apps/scholar-array-protocol/internal/models"
)

const classColumns = `id, name, subject, period, room, year, semester, created_at, updated_at`

// ClassRepository manages persistence for classes.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a ClassRepository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns classes matching the filter.
func (r *ClassRepository) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, error) {
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Subject != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(subject) = $%d", len(args)+1))
		args = append(args, strings.ToLower(filter.Subject))
	}
	if filter.Semester != "" {
		conditions = append(conditions, fmt.Sprintf("semester = $%d", len(args)+1))
		args = append(args, filter.Semester)
	}
	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("year = $%d", len(args)+1))
		args = append(args, *filter.Year)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		n := len(args) + 1
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(subject) LIKE $%d OR LOWER(room) LIKE $%d)", n, n, n))
		args = append(args, "%"+strings.ToLower(search)+"%")
	}

	query := fmt.Sprintf("SELECT %s FROM classes WHERE %s ORDER BY id ASC", classColumns, strings.Join(conditions, " AND "))
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, args...); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// FindByID fetches a class by ID.
func (r *ClassRepository) FindByID(ctx context.Context, id int64) (*models.Class, error) {
	var class models.Class
	if err := r.db.GetContext(ctx, &class, "SELECT "+classColumns+" FROM classes WHERE id = $1", id); err != nil {
		return nil, translate(err, "find class")
	}
	return &class, nil
}

// Create inserts a class and stores the assigned ID on it.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	now := time.Now().UTC()
	class.CreatedAt = now
	class.UpdatedAt = now
	const query = `INSERT INTO classes (name, subject, period, room, year, semester, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := r.db.QueryRowxContext(ctx, query,
		class.Name, class.Subject, class.Period, class.Room, class.Year, class.Semester, class.CreatedAt, class.UpdatedAt,
	).Scan(&class.ID)
	if err != nil {
		return translate(err, "create class")
	}
	return nil
}

// Update overwrites the mutable columns of a class.
func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	class.UpdatedAt = time.Now().UTC()
	const query = `UPDATE classes SET name = :name, subject = :subject, period = :period, room = :room, year = :year,
        semester = :semester, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, class)
	if err != nil {
		return translate(err, "update class")
	}
	return requireRow(res, "update class")
}

// Delete removes a class. It reports false when no row matched.
func (r *ClassRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM classes WHERE id = $1", id)
	if err != nil {
		return false, translate(err, "delete class")
	}
	return affected(res, "delete class")
}
