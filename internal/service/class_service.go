package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/apper-apps/scholar-array-protocol/internal/models"
	"github.com/apper-apps/scholar-array-protocol/internal/scoring"
	appErrors "github.com/apper-apps/scholar-array-protocol/pkg/errors"
)

type classRepository interface {
	List(ctx context.Context, filter models.ClassFilter) ([]models.Class, error)
	FindByID(ctx context.Context, id int64) (*models.Class, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type gradeLister interface {
	List(ctx context.Context, filter models.GradeFilter) ([]models.Grade, error)
}

type attendanceLister interface {
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error)
}

type assignmentLister interface {
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error)
}

// ClassRequest is the payload for creating a class or replacing its fields.
type ClassRequest struct {
	Name     string          `json:"name" validate:"required,max=120"`
	Subject  string          `json:"subject" validate:"required,max=80"`
	Period   string          `json:"period" validate:"max=40"`
	Room     string          `json:"room" validate:"max=40"`
	Year     int             `json:"year" validate:"required,min=1900,max=2200"`
	Semester models.Semester `json:"semester" validate:"required,oneof=Fall Spring Summer"`
}

// ClassService handles class use-cases and derived class figures.
type ClassService struct {
	repo        classRepository
	grades      gradeLister
	attendance  attendanceLister
	assignments assignmentLister
	cache       cacheInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// ClassServiceParams groups constructor dependencies.
type ClassServiceParams struct {
	Classes     classRepository
	Grades      gradeLister
	Attendance  attendanceLister
	Assignments assignmentLister
	Cache       cacheInvalidator
	Validator   *validator.Validate
	Logger      *zap.Logger
}

// NewClassService constructs the class service.
func NewClassService(params ClassServiceParams) *ClassService {
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{
		repo:        params.Classes,
		grades:      params.Grades,
		attendance:  params.Attendance,
		assignments: params.Assignments,
		cache:       params.Cache,
		validator:   validate,
		logger:      logger,
	}
}

// List returns classes matching filter.
func (s *ClassService) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, error) {
	if filter.Semester != "" && !filter.Semester.Valid() {
		return nil, appErrors.InvalidInput("unknown semester")
	}
	classes, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, storeError(err, "class not found", "failed to list classes")
	}
	return classes, nil
}

// Get returns one class.
func (s *ClassService) Get(ctx context.Context, id int64) (*models.Class, error) {
	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "class not found", "failed to load class")
	}
	return class, nil
}

// Create stores a new class.
func (s *ClassService) Create(ctx context.Context, req ClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid class payload")
	}
	class := &models.Class{}
	applyClassRequest(class, req)
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, storeError(err, "class not found", "failed to create class")
	}
	s.logger.Info("class created", zap.Int64("class_id", class.ID))
	invalidateDashboard(ctx, s.cache, s.logger)
	return class, nil
}

// Update replaces the descriptive fields of a class.
func (s *ClassService) Update(ctx context.Context, id int64, req ClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid class payload")
	}
	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "class not found", "failed to load class")
	}
	applyClassRequest(class, req)
	if err := s.repo.Update(ctx, class); err != nil {
		return nil, storeError(err, "class not found", "failed to update class")
	}
	s.logger.Info("class updated", zap.Int64("class_id", id))
	invalidateDashboard(ctx, s.cache, s.logger)
	return class, nil
}

// Delete removes a class.
func (s *ClassService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return storeError(err, "class not found", "failed to delete class")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	s.logger.Info("class deleted", zap.Int64("class_id", id))
	invalidateDashboard(ctx, s.cache, s.logger)
	return nil
}

// Stats derives roster size, average and assignment count for a class. The roster is every
// distinct student with a grade or attendance record in the class.
func (s *ClassService) Stats(ctx context.Context, id int64) (*models.ClassStats, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	grades, err := s.grades.List(ctx, models.GradeFilter{ClassID: &id})
	if err != nil {
		return nil, storeError(err, "class not found", "failed to load class grades")
	}
	records, err := s.attendance.List(ctx, models.AttendanceFilter{ClassID: &id})
	if err != nil {
		return nil, storeError(err, "class not found", "failed to load class attendance")
	}
	assignments, err := s.assignments.List(ctx, models.AssignmentFilter{ClassID: &id})
	if err != nil {
		return nil, storeError(err, "class not found", "failed to load class assignments")
	}

	roster := make(map[int64]struct{})
	for _, g := range grades {
		roster[g.StudentID.Int64()] = struct{}{}
	}
	for _, r := range records {
		roster[r.StudentID.Int64()] = struct{}{}
	}
	avg := scoring.ClassAverage(id, grades)
	return &models.ClassStats{
		ClassID:         id,
		StudentCount:    len(roster),
		AverageGrade:    avg,
		LetterGrade:     scoring.LetterGrade(avg),
		AssignmentCount: len(assignments),
	}, nil
}

func applyClassRequest(class *models.Class, req ClassRequest) {
	class.Name = strings.TrimSpace(req.Name)
	class.Subject = strings.TrimSpace(req.Subject)
	class.Period = strings.TrimSpace(req.Period)
	class.Room = strings.TrimSpace(req.Room)
	class.Year = req.Year
	class.Semester = req.Semester
}
