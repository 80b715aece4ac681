package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apper-apps/scholar-array-protocol/internal/models"
	appErrors "github.com/apper-apps/scholar-array-protocol/pkg/errors"
)

func newClassService(st *stores) *ClassService {
	return NewClassService(ClassServiceParams{
		Classes:     st.classes,
		Grades:      st.grades,
		Attendance:  st.attendance,
		Assignments: st.assignments,
	})
}

func TestClassServiceCRUD(t *testing.T) {
	st := newStores()
	svc := newClassService(st)
	ctx := context.Background()

	req := ClassRequest{Name: "Algebra II", Subject: "Mathematics", Period: "1st Period", Room: "101", Year: 2024, Semester: models.SemesterFall}
	class, err := svc.Create(ctx, req)
	require.NoError(t, err)
	assert.NotZero(t, class.ID)

	req.Room = "B12"
	updated, err := svc.Update(ctx, class.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "B12", updated.Room)

	listed, err := svc.List(ctx, models.ClassFilter{Subject: "Mathematics"})
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	require.NoError(t, svc.Delete(ctx, class.ID))
	_, err = svc.Get(ctx, class.ID)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestClassServiceRejectsUnknownSemester(t *testing.T) {
	svc := newClassService(newStores())

	_, err := svc.Create(context.Background(), ClassRequest{Name: "X", Subject: "Art", Year: 2024, Semester: "Winter"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidInput)

	_, err = svc.List(context.Background(), models.ClassFilter{Semester: "Winter"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidInput)
}

func TestClassServiceStatsDerivesRoster(t *testing.T) {
	st := newStores()
	class := st.addClass(t, "Biology")
	a := st.addStudent(t, "a", "One")
	b := st.addStudent(t, "b", "Two")
	c := st.addStudent(t, "c", "Three")
	st.addGrade(t, a.ID, class.ID, 90, "2024-09-10")
	st.addGrade(t, b.ID, class.ID, 80, "2024-09-10")
	st.addGrade(t, a.ID, 99, 10, "2024-09-10")

	record := models.AttendanceRecord{StudentID: models.Ref(c.ID), ClassID: models.Ref(class.ID), Date: markDay, Status: models.AttendanceStatusPresent}
	require.NoError(t, st.attendance.Create(context.Background(), &record))
	record2 := models.AttendanceRecord{StudentID: models.Ref(a.ID), ClassID: models.Ref(class.ID), Date: markDay, Status: models.AttendanceStatusLate}
	require.NoError(t, st.attendance.Create(context.Background(), &record2))

	assignment := models.Assignment{Name: "Quiz", ClassID: models.Ref(class.ID), TotalPoints: 10}
	require.NoError(t, st.assignments.Create(context.Background(), &assignment))

	stats, err := newClassService(st).Stats(context.Background(), class.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.StudentCount)
	assert.Equal(t, 85.0, stats.AverageGrade)
	assert.Equal(t, models.LetterB, stats.LetterGrade)
	assert.Equal(t, 1, stats.AssignmentCount)
}

func TestClassServiceStatsUngraded(t *testing.T) {
	st := newStores()
	class := st.addClass(t, "Music")

	stats, err := newClassService(st).Stats(context.Background(), class.ID)
	require.NoError(t, err)
	assert.Zero(t, stats.StudentCount)
	assert.Equal(t, 0.0, stats.AverageGrade)

	_, err = newClassService(st).Stats(context.Background(), 404)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestAssignmentServiceRequiresClass(t *testing.T) {
	st := newStores()
	class := st.addClass(t, "Physics")
	svc := NewAssignmentService(st.assignments, st.classes, nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, AssignmentRequest{Name: "Lab", ClassID: 500, TotalPoints: 10})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.Create(ctx, AssignmentRequest{Name: "Lab", ClassID: models.Ref(class.ID), TotalPoints: 0})
	assert.ErrorIs(t, err, appErrors.ErrInvalidInput)

	_, err = svc.Create(ctx, AssignmentRequest{Name: "Lab", ClassID: models.Ref(class.ID), TotalPoints: 10, Weight: -1})
	assert.ErrorIs(t, err, appErrors.ErrInvalidInput)

	created, err := svc.Create(ctx, AssignmentRequest{Name: " Lab ", ClassID: models.Ref(class.ID), TotalPoints: 10, Weight: 0.3})
	require.NoError(t, err)
	assert.Equal(t, "Lab", created.Name)

	classID := class.ID
	listed, err := svc.List(ctx, models.AssignmentFilter{ClassID: &classID})
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), appErrors.ErrNotFound)
}
