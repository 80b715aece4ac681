package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/apper-apps/scholar-array-protocol/internal/models"
	"github.com/apper-apps/scholar-array-protocol/internal/repository"
)

// AttendanceRepository is the in-memory attendance collection. Like the Postgres table it refuses
// a second record for an existing (student, class, date) key.
type AttendanceRepository struct {
	t *table[models.AttendanceRecord]
}

// NewAttendanceRepository binds a repository to db.
func NewAttendanceRepository(db *DB) *AttendanceRepository {
	return &AttendanceRepository{t: db.attendance}
}

// List returns matching records ordered by date then ID.
func (r *AttendanceRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records := r.t.list(filter.Matches)
	sortByDate(records)
	return records, nil
}

// FindByID fetches a record by ID.
func (r *AttendanceRepository) FindByID(ctx context.Context, id int64) (*models.AttendanceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	row, ok := r.t.get(id)
	if !ok {
		return nil, fmt.Errorf("find attendance %d: %w", id, repository.ErrNotFound)
	}
	return &row, nil
}

// Create stores a record and assigns its ID. It fails with repository.ErrDuplicate when the key is taken.
func (r *AttendanceRepository) Create(ctx context.Context, record *models.AttendanceRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now
	key := record.Key()
	stored, ok := r.t.insert(*record, func(v *models.AttendanceRecord, id int64) { v.ID = id }, key.Matches)
	if !ok {
		return fmt.Errorf("create attendance %s: %w", key, repository.ErrDuplicate)
	}
	*record = stored
	return nil
}

// Update changes status and notes of a stored record.
func (r *AttendanceRepository) Update(ctx context.Context, record *models.AttendanceRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := time.Now().UTC()
	stored, ok := r.t.replace(record.ID, func(v *models.AttendanceRecord) {
		v.Status = record.Status
		v.Notes = record.Notes
		v.UpdatedAt = now
	})
	if !ok {
		return fmt.Errorf("update attendance %d: %w", record.ID, repository.ErrNotFound)
	}
	*record = stored
	return nil
}

// Delete removes a record. It reports false when the ID is unknown.
func (r *AttendanceRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return r.t.remove(id), nil
}

func sortByDate(records []models.AttendanceRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date.Time)
	})
}
