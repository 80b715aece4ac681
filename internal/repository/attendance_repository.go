package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/apper-apps/scholar-array-protocol/internal/models"
)

const attendanceColumns = `id, student_id, class_id, date, status, notes, created_at, updated_at`

// AttendanceRepository manages persistence for attendance records. The table carries a unique
// key on (student_id, class_id, date).
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// List returns records matching the filter ordered by date then ID.
func (r *AttendanceRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error) {
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
	if filter.Date != nil {
		conditions = append(conditions, fmt.Sprintf("date = $%d", len(args)+1))
		args = append(args, *filter.Date)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	query := fmt.Sprintf("SELECT %s FROM attendance WHERE %s ORDER BY date ASC, id ASC", attendanceColumns, strings.Join(conditions, " AND "))
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return records, nil
}

// FindByID fetches a record by ID.
func (r *AttendanceRepository) FindByID(ctx context.Context, id int64) (*models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	if err := r.db.GetContext(ctx, &record, "SELECT "+attendanceColumns+" FROM attendance WHERE id = $1", id); err != nil {
		return nil, translate(err, "find attendance")
	}
	return &record, nil
}

// Create inserts a record. A second record for the same key fails with ErrDuplicate.
func (r *AttendanceRepository) Create(ctx context.Context, record *models.AttendanceRecord) error {
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now
	const query = `INSERT INTO attendance (student_id, class_id, date, status, notes, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRowxContext(ctx, query,
		record.StudentID, record.ClassID, record.Date, record.Status, record.Notes, record.CreatedAt, record.UpdatedAt,
	).Scan(&record.ID)
	if err != nil {
		return translate(err, "create attendance")
	}
	return nil
}

// Update changes status and notes. The record's key columns are never rewritten.
func (r *AttendanceRepository) Update(ctx context.Context, record *models.AttendanceRecord) error {
	record.UpdatedAt = time.Now().UTC()
	const query = `UPDATE attendance SET status = :status, notes = :notes, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, record)
	if err != nil {
		return translate(err, "update attendance")
	}
	return requireRow(res, "update attendance")
}

// Delete removes a record. It reports false when no row matched.
func (r *AttendanceRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM attendance WHERE id = $1", id)
	if err != nil {
		return false, translate(err, "delete attendance")
	}
	return affected(res, "delete attendance")
}
