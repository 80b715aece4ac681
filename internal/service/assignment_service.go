package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/apper-apps/scholar-array-protocol/internal/models"
	appErrors "github.com/apper-apps/scholar-array-protocol/pkg/errors"
)

type assignmentRepository interface {
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error)
	FindByID(ctx context.Context, id int64) (*models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Update(ctx context.Context, assignment *models.Assignment) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type classReader interface {
	FindByID(ctx context.Context, id int64) (*models.Class, error)
}

// AssignmentRequest is the payload for creating an assignment or replacing its fields.
type AssignmentRequest struct {
	Name        string            `json:"name" validate:"required,max=120"`
	ClassID     models.ForeignKey `json:"class_id" validate:"required,gt=0"`
	Category    string            `json:"category" validate:"max=60"`
	Weight      float64           `json:"weight" validate:"min=0"`
	DueDate     models.Date       `json:"due_date"`
	TotalPoints float64           `json:"total_points" validate:"gt=0"`
}

// AssignmentService handles assignment use-cases.
type AssignmentService struct {
	repo      assignmentRepository
	classes   classReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssignmentService constructs the assignment service.
func NewAssignmentService(repo assignmentRepository, classes classReader, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{repo: repo, classes: classes, validator: validate, logger: logger}
}

// List returns assignments, optionally for one class.
func (s *AssignmentService) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error) {
	assignments, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, storeError(err, "assignment not found", "failed to list assignments")
	}
	return assignments, nil
}

// Get returns one assignment.
func (s *AssignmentService) Get(ctx context.Context, id int64) (*models.Assignment, error) {
	assignment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "assignment not found", "failed to load assignment")
	}
	return assignment, nil
}

// Create stores a new assignment for an existing class.
func (s *AssignmentService) Create(ctx context.Context, req AssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid assignment payload")
	}
	if _, err := s.classes.FindByID(ctx, req.ClassID.Int64()); err != nil {
		return nil, storeError(err, "class not found", "failed to load class")
	}
	assignment := &models.Assignment{}
	applyAssignmentRequest(assignment, req)
	if err := s.repo.Create(ctx, assignment); err != nil {
		return nil, storeError(err, "assignment not found", "failed to create assignment")
	}
	s.logger.Info("assignment created", zap.Int64("assignment_id", assignment.ID), zap.Int64("class_id", req.ClassID.Int64()))
	return assignment, nil
}

// Update replaces an assignment's fields.
func (s *AssignmentService) Update(ctx context.Context, id int64, req AssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid assignment payload")
	}
	assignment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "assignment not found", "failed to load assignment")
	}
	if assignment.ClassID != req.ClassID {
		if _, err := s.classes.FindByID(ctx, req.ClassID.Int64()); err != nil {
			return nil, storeError(err, "class not found", "failed to load class")
		}
	}
	applyAssignmentRequest(assignment, req)
	if err := s.repo.Update(ctx, assignment); err != nil {
		return nil, storeError(err, "assignment not found", "failed to update assignment")
	}
	return assignment, nil
}

// Delete removes an assignment.
func (s *AssignmentService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return storeError(err, "assignment not found", "failed to delete assignment")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
	}
	return nil
}

func applyAssignmentRequest(a *models.Assignment, req AssignmentRequest) {
	a.Name = strings.TrimSpace(req.Name)
	a.ClassID = req.ClassID
	a.Category = strings.TrimSpace(req.Category)
	a.Weight = req.Weight
	a.DueDate = req.DueDate
	a.TotalPoints = req.TotalPoints
}
