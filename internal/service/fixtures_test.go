package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/apper-apps/scholar-array-protocol/internal/models"
	"github.com/apper-apps/scholar-array-protocol/internal/repository/memory"
)

var errStoreDown = errors.New("store unavailable")

type stores struct {
	db          *memory.DB
	students    *memory.StudentRepository
	classes     *memory.ClassRepository
	assignments *memory.AssignmentRepository
	grades      *memory.GradeRepository
	attendance  *memory.AttendanceRepository
}

func newStores() *stores {
	db := memory.NewDB()
	return &stores{
		db:          db,
		students:    memory.NewStudentRepository(db),
		classes:     memory.NewClassRepository(db),
		assignments: memory.NewAssignmentRepository(db),
		grades:      memory.NewGradeRepository(db),
		attendance:  memory.NewAttendanceRepository(db),
	}
}

func (s *stores) addStudent(t *testing.T, first, last string) models.Student {
	t.Helper()
	st := models.Student{
		FirstName:      first,
		LastName:       last,
		Email:          first + "@school.edu",
		GradeLevel:     10,
		DateOfBirth:    models.MustParseDate("2008-01-01"),
		EnrollmentDate: models.MustParseDate("2024-08-26"),
		Status:         models.StudentStatusActive,
	}
	require.NoError(t, s.students.Create(context.Background(), &st))
	return st
}

func (s *stores) addClass(t *testing.T, name string) models.Class {
	t.Helper()
	c := models.Class{Name: name, Subject: "Mathematics", Year: 2024, Semester: models.SemesterFall}
	require.NoError(t, s.classes.Create(context.Background(), &c))
	return c
}

func (s *stores) addGrade(t *testing.T, studentID, classID int64, pct int, recorded string) models.Grade {
	t.Helper()
	g := models.Grade{
		StudentID:    models.Ref(studentID),
		ClassID:      models.Ref(classID),
		Score:        float64(pct),
		MaxScore:     100,
		Percentage:   pct,
		DateRecorded: models.MustParseDate(recorded),
	}
	require.NoError(t, s.grades.Create(context.Background(), &g))
	return g
}

// recordingCache counts invalidations.
type recordingCache struct {
	patterns []string
	err      error
}

func (c *recordingCache) Invalidate(ctx context.Context, pattern string) error {
	c.patterns = append(c.patterns, pattern)
	return c.err
}

// failingAttendanceRepo wraps a repository and fails writes for selected students.
type failingAttendanceRepo struct {
	attendanceRepository
	failStudents map[int64]bool
	listErr      error
}

func (r *failingAttendanceRepo) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.attendanceRepository.List(ctx, filter)
}

func (r *failingAttendanceRepo) Create(ctx context.Context, record *models.AttendanceRecord) error {
	if r.failStudents[record.StudentID.Int64()] {
		return errStoreDown
	}
	return r.attendanceRepository.Create(ctx, record)
}

func ptr[T any](v T) *T { return &v }
