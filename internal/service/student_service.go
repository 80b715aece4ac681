package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/apper-apps/scholar-array-protocol/internal/models"
	appErrors "github.com/apper-apps/scholar-array-protocol/pkg/errors"
	"github.com/apper-apps/scholar-array-protocol/pkg/export"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// CreateStudentRequest holds payload for creating students.
type CreateStudentRequest struct {
	FirstName      string       `json:"first_name" validate:"required,max=100"`
	LastName       string       `json:"last_name" validate:"required,max=100"`
	Email          string       `json:"email" validate:"required,email"`
	Phone          string       `json:"phone" validate:"max=40"`
	GradeLevel     int          `json:"grade_level" validate:"required,min=9,max=12"`
	DateOfBirth    models.Date  `json:"date_of_birth"`
	EnrollmentDate *models.Date `json:"enrollment_date,omitempty"`
}

// UpdateStudentRequest holds a partial student update. Nil fields are left untouched.
type UpdateStudentRequest struct {
	FirstName      *string               `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName       *string               `json:"last_name,omitempty" validate:"omitempty,min=1,max=100"`
	Email          *string               `json:"email,omitempty" validate:"omitempty,email"`
	Phone          *string               `json:"phone,omitempty" validate:"omitempty,max=40"`
	GradeLevel     *int                  `json:"grade_level,omitempty" validate:"omitempty,min=9,max=12"`
	DateOfBirth    *models.Date          `json:"date_of_birth,omitempty"`
	EnrollmentDate *models.Date          `json:"enrollment_date,omitempty"`
	Status         *models.StudentStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive graduated"`
}

// UpdateStudentStatusRequest changes only the lifecycle status.
type UpdateStudentStatusRequest struct {
	Status models.StudentStatus `json:"status" validate:"required,oneof=active inactive graduated"`
}

// ImportRowError describes a roster row that could not be imported.
type ImportRowError struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

// ImportResult summarises a roster import.
type ImportResult struct {
	Created []models.Student `json:"created"`
	Failed  []ImportRowError `json:"failed"`
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	cache     cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns students and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, nil, appErrors.InvalidInput(fmt.Sprintf("unknown student status %q", filter.Status))
	}
	page := models.Pagination{Page: filter.Page, PageSize: filter.PageSize}
	page.Normalize(defaultPageSize, maxPageSize)
	filter.Page, filter.PageSize = page.Page, page.PageSize

	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storeError(err, "student not found", "failed to list students")
	}
	page.TotalCount = total
	return students, &page, nil
}

// Get returns one student.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "student not found", "failed to load student")
	}
	return student, nil
}

// Create registers a new, active student. The enrollment date defaults to today.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid student payload")
	}
	student := &models.Student{
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:          strings.TrimSpace(req.Phone),
		GradeLevel:     req.GradeLevel,
		DateOfBirth:    req.DateOfBirth,
		EnrollmentDate: models.Today(),
		Status:         models.StudentStatusActive,
	}
	if req.EnrollmentDate != nil && !req.EnrollmentDate.IsZero() {
		student.EnrollmentDate = *req.EnrollmentDate
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, storeError(err, "student not found", "failed to create student")
	}
	s.logger.Info("student created", zap.Int64("student_id", student.ID))
	invalidateDashboard(ctx, s.cache, s.logger)
	return student, nil
}

// Update applies a partial update.
func (s *StudentService) Update(ctx context.Context, id int64, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid student payload")
	}
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "student not found", "failed to load student")
	}
	if req.FirstName != nil {
		student.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		student.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		student.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		student.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.GradeLevel != nil {
		student.GradeLevel = *req.GradeLevel
	}
	if req.DateOfBirth != nil {
		student.DateOfBirth = *req.DateOfBirth
	}
	if req.EnrollmentDate != nil && !req.EnrollmentDate.IsZero() {
		student.EnrollmentDate = *req.EnrollmentDate
	}
	if req.Status != nil {
		student.Status = *req.Status
	}
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, storeError(err, "student not found", "failed to update student")
	}
	s.logger.Info("student updated", zap.Int64("student_id", id))
	invalidateDashboard(ctx, s.cache, s.logger)
	return student, nil
}

// UpdateStatus changes a student's status independently of the other fields.
func (s *StudentService) UpdateStatus(ctx context.Context, id int64, req UpdateStudentStatusRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid student status")
	}
	status := req.Status
	return s.Update(ctx, id, UpdateStudentRequest{Status: &status})
}

// Delete removes a student permanently.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return storeError(err, "student not found", "failed to delete student")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	s.logger.Info("student deleted", zap.Int64("student_id", id))
	invalidateDashboard(ctx, s.cache, s.logger)
	return nil
}

// Import creates a student for every valid row of an XLSX roster. Rows that fail validation or
// storage are reported back; when any row failed the returned error is a PartialBatchFailure.
func (s *StudentService) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	rows, err := export.ReadRoster(r)
	if err != nil {
		return nil, invalid(err, "invalid roster workbook")
	}
	if len(rows) == 0 {
		return nil, appErrors.InvalidInput("roster contains no students")
	}

	result := &ImportResult{Created: []models.Student{}, Failed: []ImportRowError{}}
	batch := &appErrors.PartialBatchFailure{Operation: "import students"}
	for _, row := range rows {
		key := fmt.Sprintf("line %d", row.Line)
		req, err := rosterRequest(row)
		if err == nil {
			var student *models.Student
			student, err = s.Create(ctx, req)
			if err == nil {
				result.Created = append(result.Created, *student)
				batch.Succeeded = append(batch.Succeeded, key)
				continue
			}
		}
		result.Failed = append(result.Failed, ImportRowError{Line: row.Line, Error: err.Error()})
		batch.Failed = append(batch.Failed, appErrors.BatchItemError{Key: key, Err: err})
	}

	s.logger.Info("roster imported", zap.Int("created", len(result.Created)), zap.Int("failed", len(result.Failed)))
	if len(batch.Failed) > 0 {
		return result, batch
	}
	return result, nil
}

func rosterRequest(row export.RosterRow) (CreateStudentRequest, error) {
	req := CreateStudentRequest{
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Email:     row.Email,
		Phone:     row.Phone,
	}
	if row.GradeLevel != "" {
		level, err := strconv.Atoi(row.GradeLevel)
		if err != nil {
			return req, appErrors.InvalidInput(fmt.Sprintf("grade level %q is not a number", row.GradeLevel))
		}
		req.GradeLevel = level
	}
	if row.DateOfBirth != "" {
		dob, err := models.ParseDate(row.DateOfBirth)
		if err != nil {
			return req, invalid(err, "date of birth must be YYYY-MM-DD")
		}
		req.DateOfBirth = dob
	}
	return req, nil
}
