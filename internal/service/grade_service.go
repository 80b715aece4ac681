package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/apper-apps/scholar-array-protocol/internal/models"
	"github.com/apper-apps/scholar-array-protocol/internal/scoring"
	appErrors "github.com/apper-apps/scholar-array-protocol/pkg/errors"
)

type gradeRepository interface {
	List(ctx context.Context, filter models.GradeFilter) ([]models.Grade, error)
	FindByID(ctx context.Context, id int64) (*models.Grade, error)
	Create(ctx context.Context, grade *models.Grade) error
	Update(ctx context.Context, grade *models.Grade) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type studentReader interface {
	FindByID(ctx context.Context, id int64) (*models.Student, error)
}

type assignmentReader interface {
	FindByID(ctx context.Context, id int64) (*models.Assignment, error)
}

// CreateGradeRequest holds payload for recording a grade. MaxScore falls back to the
// assignment's total points when omitted.
type CreateGradeRequest struct {
	StudentID    models.ForeignKey `json:"student_id" validate:"required,gt=0"`
	ClassID      models.ForeignKey `json:"class_id" validate:"required,gt=0"`
	AssignmentID models.ForeignKey `json:"assignment_id" validate:"omitempty,gt=0"`
	Score        *float64          `json:"score" validate:"required,min=0"`
	MaxScore     *float64          `json:"max_score,omitempty" validate:"omitempty,gt=0"`
	DateRecorded *models.Date      `json:"date_recorded,omitempty"`
}

// UpdateGradeRequest holds a partial grade update.
type UpdateGradeRequest struct {
	Score        *float64     `json:"score,omitempty" validate:"omitempty,min=0"`
	MaxScore     *float64     `json:"max_score,omitempty" validate:"omitempty,gt=0"`
	DateRecorded *models.Date `json:"date_recorded,omitempty"`
}

// AverageResult pairs an average with its letter band.
type AverageResult struct {
	ID          int64              `json:"id"`
	Average     float64            `json:"average"`
	LetterGrade models.LetterGrade `json:"letter_grade"`
	Count       int                `json:"count"`
}

// GradeService records grades and computes averages.
type GradeService struct {
	repo        gradeRepository
	students    studentReader
	classes     classReader
	assignments assignmentReader
	cache       cacheInvalidator
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
}

// GradeServiceParams groups constructor dependencies.
type GradeServiceParams struct {
	Grades      gradeRepository
	Students    studentReader
	Classes     classReader
	Assignments assignmentReader
	Cache       cacheInvalidator
	Metrics     *MetricsService
	Validator   *validator.Validate
	Logger      *zap.Logger
}

// NewGradeService constructs the grade service.
func NewGradeService(params GradeServiceParams) *GradeService {
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{
		repo:        params.Grades,
		students:    params.Students,
		classes:     params.Classes,
		assignments: params.Assignments,
		cache:       params.Cache,
		metrics:     params.Metrics,
		validator:   validate,
		logger:      logger,
	}
}

// List returns grades matching filter.
func (s *GradeService) List(ctx context.Context, filter models.GradeFilter) ([]models.Grade, error) {
	grades, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, storeError(err, "grade not found", "failed to list grades")
	}
	return grades, nil
}

// Get returns one grade.
func (s *GradeService) Get(ctx context.Context, id int64) (*models.Grade, error) {
	grade, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "grade not found", "failed to load grade")
	}
	return grade, nil
}

// Create records a grade. Percentage and letter are derived together from score and max score.
func (s *GradeService) Create(ctx context.Context, req CreateGradeRequest) (*models.Grade, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid grade payload")
	}
	score := *req.Score
	if req.MaxScore == nil && !req.AssignmentID.Valid() {
		return nil, appErrors.InvalidInput("max_score is required when no assignment is given")
	}
	if req.MaxScore != nil {
		if _, _, err := scoring.Evaluate(score, *req.MaxScore); err != nil {
			return nil, err
		}
	}

	var maxScore float64
	if req.MaxScore != nil {
		maxScore = *req.MaxScore
	}
	// Without max_score the assignment's total points are the denominator.
	if req.AssignmentID.Valid() {
		assignment, err := s.assignments.FindByID(ctx, req.AssignmentID.Int64())
		if err != nil {
			return nil, storeError(err, "assignment not found", "failed to load assignment")
		}
		if assignment.ClassID != req.ClassID {
			return nil, appErrors.InvalidInput("assignment does not belong to class")
		}
		if req.MaxScore == nil {
			maxScore = assignment.TotalPoints
		}
	}

	percentage, letter, err := scoring.Evaluate(score, maxScore)
	if err != nil {
		return nil, err
	}

	if _, err := s.students.FindByID(ctx, req.StudentID.Int64()); err != nil {
		return nil, storeError(err, "student not found", "failed to load student")
	}
	if _, err := s.classes.FindByID(ctx, req.ClassID.Int64()); err != nil {
		return nil, storeError(err, "class not found", "failed to load class")
	}

	grade := &models.Grade{
		StudentID:    req.StudentID,
		ClassID:      req.ClassID,
		AssignmentID: req.AssignmentID,
		Score:        score,
		MaxScore:     maxScore,
		Percentage:   percentage,
		LetterGrade:  letter,
		DateRecorded: models.Today(),
	}
	if req.DateRecorded != nil && !req.DateRecorded.IsZero() {
		grade.DateRecorded = *req.DateRecorded
	}
	if err := s.repo.Create(ctx, grade); err != nil {
		return nil, storeError(err, "grade not found", "failed to create grade")
	}
	s.metrics.RecordGrade()
	s.logger.Info("grade recorded",
		zap.Int64("grade_id", grade.ID),
		zap.Int64("student_id", grade.StudentID.Int64()),
		zap.Int("percentage", grade.Percentage),
	)
	invalidateDashboard(ctx, s.cache, s.logger)
	return grade, nil
}

// Update changes score, max score or date recorded. The derived fields are recomputed from the
// merged pair whenever score or max score is supplied.
func (s *GradeService) Update(ctx context.Context, id int64, req UpdateGradeRequest) (*models.Grade, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid grade payload")
	}
	grade, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "grade not found", "failed to load grade")
	}

	if req.Score != nil || req.MaxScore != nil {
		score, maxScore := grade.Score, grade.MaxScore
		if req.Score != nil {
			score = *req.Score
		}
		if req.MaxScore != nil {
			maxScore = *req.MaxScore
		}
		percentage, letter, err := scoring.Evaluate(score, maxScore)
		if err != nil {
			return nil, err
		}
		grade.Score = score
		grade.MaxScore = maxScore
		grade.Percentage = percentage
		grade.LetterGrade = letter
	}
	if req.DateRecorded != nil && !req.DateRecorded.IsZero() {
		grade.DateRecorded = *req.DateRecorded
	}

	if err := s.repo.Update(ctx, grade); err != nil {
		return nil, storeError(err, "grade not found", "failed to update grade")
	}
	s.logger.Info("grade updated", zap.Int64("grade_id", id))
	invalidateDashboard(ctx, s.cache, s.logger)
	return grade, nil
}

// Delete removes a grade.
func (s *GradeService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return storeError(err, "grade not found", "failed to delete grade")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "grade not found")
	}
	s.logger.Info("grade deleted", zap.Int64("grade_id", id))
	invalidateDashboard(ctx, s.cache, s.logger)
	return nil
}

// StudentAverage averages the student's grade percentages. A student with no grades averages 0.
func (s *GradeService) StudentAverage(ctx context.Context, studentID int64) (*AverageResult, error) {
	grades, err := s.repo.List(ctx, models.GradeFilter{StudentID: &studentID})
	if err != nil {
		return nil, storeError(err, "grade not found", "failed to load student grades")
	}
	avg := scoring.StudentAverage(studentID, grades)
	return &AverageResult{ID: studentID, Average: avg, LetterGrade: scoring.LetterGrade(avg), Count: len(grades)}, nil
}

// ClassAverage averages every grade recorded in the class.
func (s *GradeService) ClassAverage(ctx context.Context, classID int64) (*AverageResult, error) {
	grades, err := s.repo.List(ctx, models.GradeFilter{ClassID: &classID})
	if err != nil {
		return nil, storeError(err, "grade not found", "failed to load class grades")
	}
	avg := scoring.ClassAverage(classID, grades)
	return &AverageResult{ID: classID, Average: avg, LetterGrade: scoring.LetterGrade(avg), Count: len(grades)}, nil
}
