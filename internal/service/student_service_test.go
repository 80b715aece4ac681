package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/apper-apps/scholar-array-protocol/internal/models"
	appErrors "github.com/apper-apps/scholar-array-protocol/pkg/errors"
	"github.com/apper-apps/scholar-array-protocol/pkg/export"
)

func TestStudentServiceCreateDefaults(t *testing.T) {
	st := newStores()
	cache := &recordingCache{}
	svc := NewStudentService(st.students, cache, nil, nil)

	student, err := svc.Create(context.Background(), CreateStudentRequest{
		FirstName:   " Emma ",
		LastName:    "Johnson",
		Email:       "Emma.Johnson@School.edu",
		GradeLevel:  10,
		DateOfBirth: models.MustParseDate("2008-03-15"),
	})
	require.NoError(t, err)
	assert.NotZero(t, student.ID)
	assert.Equal(t, "Emma", student.FirstName)
	assert.Equal(t, "emma.johnson@school.edu", student.Email)
	assert.Equal(t, models.StudentStatusActive, student.Status)
	assert.True(t, student.EnrollmentDate.Equal(models.Today()))
	assert.Equal(t, []string{DashboardCachePattern}, cache.patterns)
}

func TestStudentServiceCreateValidation(t *testing.T) {
	svc := NewStudentService(newStores().students, nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateStudentRequest{FirstName: "A", LastName: "B", Email: "not-an-email", GradeLevel: 10})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrInvalidInput)

	_, err = svc.Create(context.Background(), CreateStudentRequest{FirstName: "A", LastName: "B", Email: "a@b.co", GradeLevel: 8})
	assert.ErrorIs(t, err, appErrors.ErrInvalidInput)
}

func TestStudentServiceListFiltersAndPaginates(t *testing.T) {
	st := newStores()
	for _, name := range []string{"amy", "ben", "cara"} {
		st.addStudent(t, name, "Lee")
	}
	svc := NewStudentService(st.students, nil, nil, nil)

	students, page, err := svc.List(context.Background(), models.StudentFilter{Search: "BEN"})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "ben", students[0].FirstName)
	assert.Equal(t, 1, page.TotalCount)
	assert.Equal(t, defaultPageSize, page.PageSize)

	students, page, err = svc.List(context.Background(), models.StudentFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, 3, page.TotalCount)

	_, _, err = svc.List(context.Background(), models.StudentFilter{Status: "expelled"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidInput)
}

func TestStudentServiceUpdateStatusKeepsOtherFields(t *testing.T) {
	st := newStores()
	existing := st.addStudent(t, "dana", "Ray")
	svc := NewStudentService(st.students, nil, nil, nil)

	updated, err := svc.UpdateStatus(context.Background(), existing.ID, UpdateStudentStatusRequest{Status: models.StudentStatusGraduated})
	require.NoError(t, err)
	assert.Equal(t, models.StudentStatusGraduated, updated.Status)
	assert.Equal(t, existing.Email, updated.Email)
	assert.Equal(t, existing.GradeLevel, updated.GradeLevel)

	_, err = svc.UpdateStatus(context.Background(), existing.ID, UpdateStudentStatusRequest{Status: "suspended"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidInput)
}

func TestStudentServiceNotFound(t *testing.T) {
	svc := NewStudentService(newStores().students, nil, nil, nil)

	_, err := svc.Get(context.Background(), 99)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.Update(context.Background(), 99, UpdateStudentRequest{FirstName: ptr("x")})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	err = svc.Delete(context.Background(), 99)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestStudentServiceDelete(t *testing.T) {
	st := newStores()
	existing := st.addStudent(t, "eli", "Moss")
	cache := &recordingCache{}
	svc := NewStudentService(st.students, cache, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), existing.ID))
	_, err := svc.Get(context.Background(), existing.ID)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Len(t, cache.patterns, 1)
}

func TestStudentServiceCacheFailureDoesNotFailWrite(t *testing.T) {
	cache := &recordingCache{err: errors.New("redis down")}
	svc := NewStudentService(newStores().students, cache, nil, nil)

	_, err := svc.Create(context.Background(), CreateStudentRequest{FirstName: "A", LastName: "B", Email: "a@b.co", GradeLevel: 9})
	assert.NoError(t, err)
}

func rosterWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	header := make([]interface{}, len(export.RosterColumns))
	for i, c := range export.RosterColumns {
		header[i] = c
	}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		row := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestStudentServiceImportReportsBadRows(t *testing.T) {
	st := newStores()
	svc := NewStudentService(st.students, nil, nil, nil)

	book := rosterWorkbook(t, [][]interface{}{
		{"Ada", "Lovelace", "ada@school.edu", "", "11", "2007-12-10"},
		{"Bad", "Grade", "bad@school.edu", "", "seven", ""},
		{"Alan", "Turing", "alan@school.edu", "555-0100", "12", "2006-06-23"},
	})

	result, err := svc.Import(context.Background(), book)
	require.Error(t, err)

	var batch *appErrors.PartialBatchFailure
	require.True(t, errors.As(err, &batch))
	assert.Equal(t, []string{"line 3"}, batch.FailedKeys())
	assert.Len(t, batch.Succeeded, 2)

	require.Len(t, result.Created, 2)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, 3, result.Failed[0].Line)

	_, total, err := st.students.List(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestStudentServiceImportRejectsGarbage(t *testing.T) {
	svc := NewStudentService(newStores().students, nil, nil, nil)

	_, err := svc.Import(context.Background(), bytes.NewBufferString("not a workbook"))
	assert.ErrorIs(t, err, appErrors.ErrInvalidInput)
}
