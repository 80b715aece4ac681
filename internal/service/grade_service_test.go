package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apper-apps/scholar-array-protocol/internal/models"
	appErrors "github.com/apper-apps/scholar-array-protocol/pkg/errors"
)

func newGradeService(st *stores, cache cacheInvalidator) *GradeService {
	return NewGradeService(GradeServiceParams{
		Grades:      st.grades,
		Students:    st.students,
		Classes:     st.classes,
		Assignments: st.assignments,
		Cache:       cache,
		Metrics:     NewMetricsService(),
	})
}

func TestGradeServiceCreateDerivesPercentageAndLetter(t *testing.T) {
	st := newStores()
	student := st.addStudent(t, "emma", "Johnson")
	class := st.addClass(t, "Algebra II")
	cache := &recordingCache{}
	svc := newGradeService(st, cache)

	grade, err := svc.Create(context.Background(), CreateGradeRequest{
		StudentID: models.Ref(student.ID),
		ClassID:   models.Ref(class.ID),
		Score:     ptr(42.0),
		MaxScore:  ptr(50.0),
	})
	require.NoError(t, err)
	assert.Equal(t, 84, grade.Percentage)
	assert.Equal(t, models.LetterB, grade.LetterGrade)
	assert.True(t, grade.DateRecorded.Equal(models.Today()))
	assert.Equal(t, []string{DashboardCachePattern}, cache.patterns)
}

func TestGradeServiceCreateUsesAssignmentTotalPoints(t *testing.T) {
	st := newStores()
	student := st.addStudent(t, "liam", "Smith")
	class := st.addClass(t, "Biology")
	assignment := models.Assignment{Name: "Lab Report", ClassID: models.Ref(class.ID), TotalPoints: 40}
	require.NoError(t, st.assignments.Create(context.Background(), &assignment))
	svc := newGradeService(st, nil)

	grade, err := svc.Create(context.Background(), CreateGradeRequest{
		StudentID:    models.Ref(student.ID),
		ClassID:      models.Ref(class.ID),
		AssignmentID: models.Ref(assignment.ID),
		Score:        ptr(39.0),
		DateRecorded: models.MustParseDate("2024-09-20").Ptr(),
	})
	require.NoError(t, err)
	assert.Equal(t, 40.0, grade.MaxScore)
	assert.Equal(t, 98, grade.Percentage)
	assert.Equal(t, models.LetterAPlus, grade.LetterGrade)
	assert.Equal(t, "2024-09-20", grade.DateRecorded.String())
}

func TestGradeServiceCreateRejectsBeforeStoreAccess(t *testing.T) {
	st := newStores()
	svc := newGradeService(st, nil)
	ctx := context.Background()

	cases := map[string]CreateGradeRequest{
		"zero max":       {StudentID: 1, ClassID: 1, Score: ptr(1.0), MaxScore: ptr(0.0)},
		"negative score": {StudentID: 1, ClassID: 1, Score: ptr(-1.0), MaxScore: ptr(10.0)},
		"missing score":  {StudentID: 1, ClassID: 1, MaxScore: ptr(10.0)},
		"no denominator": {StudentID: 1, ClassID: 1, Score: ptr(5.0)},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(ctx, req)
			assert.ErrorIs(t, err, appErrors.ErrInvalidInput)
		})
	}

	grades, err := st.grades.List(ctx, models.GradeFilter{})
	require.NoError(t, err)
	assert.Empty(t, grades)
}

type countingStudents struct {
	studentReader
	reads int
}

func (c *countingStudents) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	c.reads++
	return c.studentReader.FindByID(ctx, id)
}

func TestGradeServiceCreateRejectsAssignmentBeforeRosterReads(t *testing.T) {
	st := newStores()
	ctx := context.Background()
	student := st.addStudent(t, "ava", "Wilson")
	biology := st.addClass(t, "Biology")
	chemistry := st.addClass(t, "Chemistry")
	unscored := models.Assignment{Name: "Field Notes", ClassID: models.Ref(biology.ID)}
	require.NoError(t, st.assignments.Create(ctx, &unscored))
	quiz := models.Assignment{Name: "Quiz 1", ClassID: models.Ref(biology.ID), TotalPoints: 20}
	require.NoError(t, st.assignments.Create(ctx, &quiz))

	students := &countingStudents{studentReader: st.students}
	svc := NewGradeService(GradeServiceParams{
		Grades:      st.grades,
		Students:    students,
		Classes:     st.classes,
		Assignments: st.assignments,
	})

	_, err := svc.Create(ctx, CreateGradeRequest{
		StudentID:    models.Ref(student.ID),
		ClassID:      models.Ref(biology.ID),
		AssignmentID: models.Ref(unscored.ID),
		Score:        ptr(5.0),
	})
	assert.ErrorIs(t, err, appErrors.ErrInvalidInput)

	_, err = svc.Create(ctx, CreateGradeRequest{
		StudentID:    models.Ref(student.ID),
		ClassID:      models.Ref(chemistry.ID),
		AssignmentID: models.Ref(quiz.ID),
		Score:        ptr(15.0),
	})
	assert.ErrorIs(t, err, appErrors.ErrInvalidInput)
	assert.Zero(t, students.reads)

	grade, err := svc.Create(ctx, CreateGradeRequest{
		StudentID:    models.Ref(student.ID),
		ClassID:      models.Ref(biology.ID),
		AssignmentID: models.Ref(quiz.ID),
		Score:        ptr(15.0),
	})
	require.NoError(t, err)
	assert.Equal(t, 75, grade.Percentage)
	assert.Equal(t, 1, students.reads)

	grades, err := st.grades.List(ctx, models.GradeFilter{})
	require.NoError(t, err)
	assert.Len(t, grades, 1)
}

func TestGradeServiceCreateUnknownReferences(t *testing.T) {
	st := newStores()
	student := st.addStudent(t, "olivia", "Brown")
	svc := newGradeService(st, nil)

	_, err := svc.Create(context.Background(), CreateGradeRequest{StudentID: models.Ref(student.ID), ClassID: 77, Score: ptr(5.0), MaxScore: ptr(10.0)})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.Create(context.Background(), CreateGradeRequest{StudentID: 99, ClassID: 1, Score: ptr(5.0), MaxScore: ptr(10.0)})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestGradeServiceUpdateRecomputesTogether(t *testing.T) {
	st := newStores()
	student := st.addStudent(t, "noah", "Davis")
	class := st.addClass(t, "History")
	svc := newGradeService(st, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateGradeRequest{
		StudentID:    models.Ref(student.ID),
		ClassID:      models.Ref(class.ID),
		Score:        ptr(45.0),
		MaxScore:     ptr(50.0),
		DateRecorded: models.MustParseDate("2024-09-01").Ptr(),
	})
	require.NoError(t, err)
	assert.Equal(t, 90, created.Percentage)
	assert.Equal(t, models.LetterAMinus, created.LetterGrade)

	updated, err := svc.Update(ctx, created.ID, UpdateGradeRequest{MaxScore: ptr(60.0)})
	require.NoError(t, err)
	assert.Equal(t, 45.0, updated.Score)
	assert.Equal(t, 75, updated.Percentage)
	assert.Equal(t, models.LetterC, updated.LetterGrade)
	assert.Equal(t, "2024-09-01", updated.DateRecorded.String())

	_, err = svc.Update(ctx, created.ID, UpdateGradeRequest{MaxScore: ptr(-3.0)})
	assert.ErrorIs(t, err, appErrors.ErrInvalidInput)

	stored, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 75, stored.Percentage)
}

func TestGradeServiceAverages(t *testing.T) {
	st := newStores()
	student := st.addStudent(t, "ava", "Wilson")
	other := st.addStudent(t, "mia", "Hall")
	class := st.addClass(t, "Chemistry")
	for _, pct := range []int{90, 80, 70} {
		st.addGrade(t, student.ID, class.ID, pct, "2024-09-10")
	}
	svc := newGradeService(st, nil)

	avg, err := svc.StudentAverage(context.Background(), student.ID)
	require.NoError(t, err)
	assert.Equal(t, 80.0, avg.Average)
	assert.Equal(t, models.LetterBMinus, avg.LetterGrade)
	assert.Equal(t, 3, avg.Count)

	empty, err := svc.StudentAverage(context.Background(), other.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, empty.Average)
	assert.Equal(t, models.LetterF, empty.LetterGrade)

	classAvg, err := svc.ClassAverage(context.Background(), class.ID)
	require.NoError(t, err)
	assert.Equal(t, 80.0, classAvg.Average)
}

func TestGradeServiceDelete(t *testing.T) {
	st := newStores()
	student := st.addStudent(t, "zoe", "Park")
	class := st.addClass(t, "Art")
	g := st.addGrade(t, student.ID, class.ID, 88, "2024-09-10")
	svc := newGradeService(st, nil)

	require.NoError(t, svc.Delete(context.Background(), g.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), g.ID), appErrors.ErrNotFound)
}
