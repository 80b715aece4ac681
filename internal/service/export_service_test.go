package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apper-apps/scholar-array-protocol/internal/models"
	appErrors "github.com/apper-apps/scholar-array-protocol/pkg/errors"
)

func newExportService(st *stores, maxRows int) *ExportService {
	return NewExportService(ExportServiceParams{
		Students:    st.students,
		Classes:     st.classes,
		Assignments: st.assignments,
		Grades:      st.grades,
		Attendance:  st.attendance,
		Config:      ExportConfig{MaxRows: maxRows},
	})
}

func TestExportGradesCSV(t *testing.T) {
	st := newStores()
	class := st.addClass(t, "Algebra II")
	student := st.addStudent(t, "emma", "Johnson")
	g := models.Grade{StudentID: models.Ref(student.ID), ClassID: models.Ref(class.ID), Score: 42, MaxScore: 50, Percentage: 84, LetterGrade: models.LetterB, DateRecorded: markDay}
	require.NoError(t, st.grades.Create(context.Background(), &g))

	file, err := newExportService(st, 0).Grades(context.Background(), models.GradeFilter{}, "csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(file.Filename, "grades-"))
	assert.True(t, strings.HasSuffix(file.Filename, ".csv"))
	assert.Equal(t, 1, file.Rows)

	records, err := csv.NewReader(bytes.NewReader(file.Body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, gradeExportHeaders, records[0])
	assert.Equal(t, []string{"emma Johnson", "Algebra II", "", "42", "50", "84%", "B", "2024-09-02"}, records[1])
}

func TestExportAttendanceFormats(t *testing.T) {
	st := newStores()
	class := st.addClass(t, "Biology")
	student := st.addStudent(t, "liam", "Smith")
	r := models.AttendanceRecord{StudentID: models.Ref(student.ID), ClassID: models.Ref(class.ID), Date: markDay, Status: models.AttendanceStatusLate, Notes: "bus"}
	require.NoError(t, st.attendance.Create(context.Background(), &r))
	svc := newExportService(st, 0)

	for _, format := range []string{"csv", "pdf", "xlsx"} {
		t.Run(format, func(t *testing.T) {
			file, err := svc.Attendance(context.Background(), class.ID, markDay, format)
			require.NoError(t, err)
			assert.NotEmpty(t, file.Body)
			assert.NotEmpty(t, file.ContentType)
			assert.True(t, strings.HasSuffix(file.Filename, "."+format))
			assert.Contains(t, file.Filename, "attendance-2024-09-02")
		})
	}
}

func TestExportRejectsBadInput(t *testing.T) {
	st := newStores()
	class := st.addClass(t, "Art")
	for i := 0; i < 3; i++ {
		st.addGrade(t, int64(i+1), class.ID, 80, "2024-09-01")
	}
	svc := newExportService(st, 2)

	_, err := svc.Grades(context.Background(), models.GradeFilter{}, "docx")
	assert.ErrorIs(t, err, appErrors.ErrInvalidInput)

	_, err = svc.Grades(context.Background(), models.GradeFilter{}, "csv")
	assert.ErrorIs(t, err, appErrors.ErrInvalidInput)

	_, err = svc.Attendance(context.Background(), class.ID, models.Date{}, "csv")
	assert.ErrorIs(t, err, appErrors.ErrInvalidInput)
}
