package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apper-apps/scholar-array-protocol/internal/models"
)

var gradeRowColumns = []string{"id", "student_id", "class_id", "assignment_id", "score", "max_score", "percentage", "letter_grade", "date_recorded", "created_at", "updated_at"}

func TestGradeRepositoryListByClass(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	classID := int64(3)
	mock.ExpectQuery(regexp.QuoteMeta("FROM grades WHERE 1=1 AND class_id = $1 ORDER BY id ASC")).
		WithArgs(classID).
		WillReturnRows(sqlmock.NewRows(gradeRowColumns).
			AddRow(1, 4, 3, nil, 42.0, 50.0, 84, "B", time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC), time.Now(), time.Now()).
			AddRow(2, 5, 3, 8, 47.0, 50.0, 94, "A", time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC), time.Now(), time.Now()))

	grades, err := repo.List(context.Background(), models.GradeFilter{ClassID: &classID})
	require.NoError(t, err)
	require.Len(t, grades, 2)
	assert.False(t, grades[0].AssignmentID.Valid())
	assert.Equal(t, int64(8), grades[1].AssignmentID.Int64())
	assert.Equal(t, models.LetterA, grades[1].LetterGrade)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	mock.ExpectQuery("INSERT INTO grades").
		WithArgs(int64(4), int64(3), nil, 42.0, 50.0, 84, models.LetterB, "2024-09-30", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

	grade := &models.Grade{StudentID: 4, ClassID: 3, Score: 42, MaxScore: 50, Percentage: 84, LetterGrade: models.LetterB, DateRecorded: models.MustParseDate("2024-09-30")}
	require.NoError(t, repo.Create(context.Background(), grade))
	assert.Equal(t, int64(12), grade.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	mock.ExpectQuery("FROM grades WHERE id").WillReturnRows(sqlmock.NewRows(gradeRowColumns))

	_, err := repo.FindByID(context.Background(), 1)
	assert.True(t, errors.Is(err, ErrNotFound))
}
