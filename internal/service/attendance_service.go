package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/apper-apps/scholar-array-protocol/internal/models"
	"github.com/apper-apps/scholar-array-protocol/internal/repository"
	"github.com/apper-apps/scholar-array-protocol/internal/scoring"
	appErrors "github.com/apper-apps/scholar-array-protocol/pkg/errors"
)

const (
	defaultBatchConcurrency = 4
	maxBatchSize            = 500
	markAllPresentOperation = "mark_all_present"
)

type attendanceRepository interface {
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error)
	FindByID(ctx context.Context, id int64) (*models.AttendanceRecord, error)
	Create(ctx context.Context, record *models.AttendanceRecord) error
	Update(ctx context.Context, record *models.AttendanceRecord) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// MarkAttendanceRequest sets the status of one student in one class on one day.
type MarkAttendanceRequest struct {
	StudentID models.ForeignKey       `json:"student_id" validate:"required,gt=0"`
	ClassID   models.ForeignKey       `json:"class_id" validate:"required,gt=0"`
	Date      models.Date             `json:"date"`
	Status    models.AttendanceStatus `json:"status" validate:"required,attendance_status"`
	Notes     string                  `json:"notes" validate:"max=500"`
}

// MarkAllPresentRequest marks a list of students present in a class on a day.
type MarkAllPresentRequest struct {
	StudentIDs []models.ForeignKey `json:"student_ids" validate:"required,min=1,dive,gt=0"`
	ClassID    models.ForeignKey   `json:"class_id" validate:"required,gt=0"`
	Date       models.Date         `json:"date"`
}

// AttendanceMark is the outcome of a single mark.
type AttendanceMark struct {
	Record  models.AttendanceRecord `json:"record"`
	Created bool                    `json:"created"`
}

// BatchFailure is a failed batch item in response form.
type BatchFailure struct {
	Key       string `json:"key"`
	StudentID int64  `json:"student_id"`
	Error     string `json:"error"`
}

// BatchResult lists what a batch mark did.
type BatchResult struct {
	Records   []models.AttendanceRecord `json:"records"`
	Succeeded []string                  `json:"succeeded"`
	Failed    []BatchFailure            `json:"failed"`
}

// RateResult is a student's attendance rate, optionally scoped to a class.
type RateResult struct {
	StudentID int64   `json:"student_id"`
	ClassID   *int64  `json:"class_id,omitempty"`
	Rate      float64 `json:"rate"`
}

// AttendanceService keeps one attendance record per student, class and day.
type AttendanceService struct {
	repo        attendanceRepository
	cache       cacheInvalidator
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	locks       *keyedLock
	concurrency int
}

// AttendanceServiceParams groups constructor dependencies.
type AttendanceServiceParams struct {
	Attendance       attendanceRepository
	Cache            cacheInvalidator
	Metrics          *MetricsService
	Validator        *validator.Validate
	Logger           *zap.Logger
	BatchConcurrency int
}

// NewAttendanceService constructs the attendance service and registers the attendance_status rule.
func NewAttendanceService(params AttendanceServiceParams) *AttendanceService {
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	_ = validate.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		return models.AttendanceStatus(fl.Field().String()).Valid()
	})
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	concurrency := params.BatchConcurrency
	if concurrency <= 0 {
		concurrency = defaultBatchConcurrency
	}
	return &AttendanceService{
		repo:        params.Attendance,
		cache:       params.Cache,
		metrics:     params.Metrics,
		validator:   validate,
		logger:      logger,
		locks:       newKeyedLock(),
		concurrency: concurrency,
	}
}

// List returns records matching filter ordered by date.
func (s *AttendanceService) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, appErrors.InvalidInput(fmt.Sprintf("unknown attendance status %q", filter.Status))
	}
	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, storeError(err, "attendance record not found", "failed to list attendance")
	}
	return records, nil
}

// Get returns one record.
func (s *AttendanceService) Get(ctx context.Context, id int64) (*models.AttendanceRecord, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "attendance record not found", "failed to load attendance")
	}
	return record, nil
}

// Delete removes a record.
func (s *AttendanceService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return storeError(err, "attendance record not found", "failed to delete attendance")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
	}
	s.logger.Info("attendance deleted", zap.Int64("attendance_id", id))
	invalidateDashboard(ctx, s.cache, s.logger)
	return nil
}

// MarkAttendance creates the record for the request's key or overwrites status and notes of the
// existing one. Calls for the same key are serialised.
func (s *AttendanceService) MarkAttendance(ctx context.Context, req MarkAttendanceRequest) (*AttendanceMark, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid attendance payload")
	}
	if req.Date.IsZero() {
		return nil, appErrors.InvalidInput("date is required")
	}
	key := models.AttendanceKey{StudentID: req.StudentID.Int64(), ClassID: req.ClassID.Int64(), Date: req.Date}
	mark, err := s.upsert(ctx, key, req.Status, req.Notes)
	if err != nil {
		s.metrics.RecordAttendanceMark(MarkFailed)
		return nil, err
	}
	invalidateDashboard(ctx, s.cache, s.logger)
	return mark, nil
}

// MarkAllPresent marks every listed student present. Items run concurrently and independently;
// when some fail the result still lists the successes and a *PartialBatchFailure is returned.
func (s *AttendanceService) MarkAllPresent(ctx context.Context, req MarkAllPresentRequest) (*BatchResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid attendance batch")
	}
	if req.Date.IsZero() {
		return nil, appErrors.InvalidInput("date is required")
	}
	if len(req.StudentIDs) > maxBatchSize {
		return nil, appErrors.InvalidInput(fmt.Sprintf("at most %d students per batch", maxBatchSize))
	}

	keys := batchKeys(req)
	marks := make([]*AttendanceMark, len(keys))
	errs := make([]error, len(keys))

	p := pool.New().WithMaxGoroutines(s.concurrency)
	for i, key := range keys {
		i, key := i, key
		p.Go(func() {
			marks[i], errs[i] = s.upsert(ctx, key, models.AttendanceStatusPresent, "")
		})
	}
	p.Wait()

	result := &BatchResult{
		Records:   make([]models.AttendanceRecord, 0, len(keys)),
		Succeeded: make([]string, 0, len(keys)),
		Failed:    []BatchFailure{},
	}
	failure := &appErrors.PartialBatchFailure{Operation: markAllPresentOperation}
	for i, key := range keys {
		if errs[i] != nil {
			s.metrics.RecordAttendanceMark(MarkFailed)
			result.Failed = append(result.Failed, BatchFailure{Key: key.String(), StudentID: key.StudentID, Error: errs[i].Error()})
			failure.Failed = append(failure.Failed, appErrors.BatchItemError{Key: key.String(), Err: errs[i]})
			continue
		}
		result.Records = append(result.Records, marks[i].Record)
		result.Succeeded = append(result.Succeeded, key.String())
	}
	failure.Succeeded = result.Succeeded

	if len(result.Succeeded) > 0 {
		invalidateDashboard(ctx, s.cache, s.logger)
	}
	if len(failure.Failed) > 0 {
		s.metrics.RecordPartialBatch(markAllPresentOperation)
		s.logger.Warn("attendance batch partially failed",
			zap.Int64("class_id", req.ClassID.Int64()),
			zap.String("date", req.Date.String()),
			zap.Int("succeeded", len(failure.Succeeded)),
			zap.Strings("failed", failure.FailedKeys()),
		)
		return result, failure
	}
	s.logger.Info("attendance batch marked",
		zap.Int64("class_id", req.ClassID.Int64()),
		zap.String("date", req.Date.String()),
		zap.Int("students", len(keys)),
	)
	return result, nil
}

// AttendanceRate returns the share of present or late records for a student. A student without
// records has a rate of 100.
func (s *AttendanceService) AttendanceRate(ctx context.Context, studentID int64, classID *int64) (*RateResult, error) {
	records, err := s.repo.List(ctx, models.AttendanceFilter{StudentID: &studentID, ClassID: classID})
	if err != nil {
		return nil, storeError(err, "attendance record not found", "failed to load attendance")
	}
	return &RateResult{
		StudentID: studentID,
		ClassID:   classID,
		Rate:      scoring.AttendanceRate(studentID, classID, records),
	}, nil
}

// StudentSummary returns per-status counts and the rate for a student.
func (s *AttendanceService) StudentSummary(ctx context.Context, studentID int64, classID *int64) (*models.AttendanceSummary, error) {
	records, err := s.repo.List(ctx, models.AttendanceFilter{StudentID: &studentID, ClassID: classID})
	if err != nil {
		return nil, storeError(err, "attendance record not found", "failed to load attendance")
	}
	summary := scoring.Summarize(records)
	return &summary, nil
}

// ClassDay returns the records of a class on one date.
func (s *AttendanceService) ClassDay(ctx context.Context, classID int64, date models.Date) ([]models.AttendanceRecord, error) {
	if date.IsZero() {
		return nil, appErrors.InvalidInput("date is required")
	}
	return s.List(ctx, models.AttendanceFilter{ClassID: &classID, Date: &date})
}

func (s *AttendanceService) upsert(ctx context.Context, key models.AttendanceKey, status models.AttendanceStatus, notes string) (*AttendanceMark, error) {
	unlock := s.locks.Lock(key.String())
	defer unlock()

	existing, err := s.findByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return s.overwrite(ctx, existing, status, notes)
	}

	record := &models.AttendanceRecord{
		StudentID: models.Ref(key.StudentID),
		ClassID:   models.Ref(key.ClassID),
		Date:      key.Date,
		Status:    status,
		Notes:     notes,
	}
	err = s.repo.Create(ctx, record)
	if errors.Is(err, repository.ErrDuplicate) {
		// Another process inserted the key between our lookup and insert.
		existing, err = s.findByKey(ctx, key)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, appErrors.StoreFailure(repository.ErrDuplicate, "attendance key conflict could not be resolved")
		}
		return s.overwrite(ctx, existing, status, notes)
	}
	if err != nil {
		return nil, storeError(err, "attendance record not found", "failed to create attendance")
	}
	s.metrics.RecordAttendanceMark(MarkCreated)
	s.logger.Info("attendance created", zap.Int64("attendance_id", record.ID), zap.String("key", key.String()))
	return &AttendanceMark{Record: *record, Created: true}, nil
}

func (s *AttendanceService) overwrite(ctx context.Context, record *models.AttendanceRecord, status models.AttendanceStatus, notes string) (*AttendanceMark, error) {
	record.Status = status
	record.Notes = notes
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, storeError(err, "attendance record not found", "failed to update attendance")
	}
	s.metrics.RecordAttendanceMark(MarkUpdated)
	s.logger.Info("attendance updated", zap.Int64("attendance_id", record.ID), zap.String("status", string(status)))
	return &AttendanceMark{Record: *record, Created: false}, nil
}

func (s *AttendanceService) findByKey(ctx context.Context, key models.AttendanceKey) (*models.AttendanceRecord, error) {
	records, err := s.repo.List(ctx, models.AttendanceFilter{
		StudentID: &key.StudentID,
		ClassID:   &key.ClassID,
		Date:      &key.Date,
	})
	if err != nil {
		return nil, storeError(err, "attendance record not found", "failed to look up attendance")
	}
	for i := range records {
		if key.Matches(records[i]) {
			return &records[i], nil
		}
	}
	return nil, nil
}

// batchKeys expands a batch request into distinct keys, keeping first-seen order.
func batchKeys(req MarkAllPresentRequest) []models.AttendanceKey {
	seen := make(map[int64]struct{}, len(req.StudentIDs))
	keys := make([]models.AttendanceKey, 0, len(req.StudentIDs))
	for _, id := range req.StudentIDs {
		if _, ok := seen[id.Int64()]; ok {
			continue
		}
		seen[id.Int64()] = struct{}{}
		keys = append(keys, models.AttendanceKey{StudentID: id.Int64(), ClassID: req.ClassID.Int64(), Date: req.Date})
	}
	return keys
}
