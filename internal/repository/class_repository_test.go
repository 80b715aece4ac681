package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apper-apps/scholar-array-protocol/internal/models"
)

func TestClassRepositoryListBySubjectAndYear(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	year := 2024
	mock.ExpectQuery(regexp.QuoteMeta("FROM classes WHERE 1=1 AND LOWER(subject) = $1 AND year = $2 ORDER BY id ASC")).
		WithArgs("mathematics", year).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "subject", "period", "room", "year", "semester", "created_at", "updated_at"}).
			AddRow(1, "Algebra II", "Mathematics", "1st", "101", 2024, "Fall", time.Now(), time.Now()))

	classes, err := repo.List(context.Background(), models.ClassFilter{Subject: "Mathematics", Year: &year})
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, models.SemesterFall, classes[0].Semester)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectQuery("INSERT INTO assignments").
		WithArgs("Quiz 1", int64(1), "Quiz", 0.1, "2024-10-01", 50.0, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))

	assignment := &models.Assignment{Name: "Quiz 1", ClassID: 1, Category: "Quiz", Weight: 0.1, DueDate: models.MustParseDate("2024-10-01"), TotalPoints: 50}
	require.NoError(t, repo.Create(context.Background(), assignment))
	assert.Equal(t, int64(2), assignment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
