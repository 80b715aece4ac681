package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/apper-apps/scholar-array-protocol/internal/models"
	appErrors "github.com/apper-apps/scholar-array-protocol/pkg/errors"
	"github.com/apper-apps/scholar-array-protocol/pkg/export"
)

const defaultExportMaxRows = 10000

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	MaxRows int
}

// ExportFile is a rendered export ready to stream.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
	Rows        int
}

// ExportService builds grade and attendance datasets and renders them.
type ExportService struct {
	students    studentLister
	classes     classLister
	assignments assignmentLister
	grades      gradeLister
	attendance  attendanceLister
	logger      *zap.Logger
	now         func() time.Time
	cfg         ExportConfig
}

// ExportServiceParams groups constructor dependencies.
type ExportServiceParams struct {
	Students    studentLister
	Classes     classLister
	Assignments assignmentLister
	Grades      gradeLister
	Attendance  attendanceLister
	Logger      *zap.Logger
	Config      ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(params ExportServiceParams) *ExportService {
	cfg := params.Config
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = defaultExportMaxRows
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		students:    params.Students,
		classes:     params.Classes,
		assignments: params.Assignments,
		grades:      params.Grades,
		attendance:  params.Attendance,
		logger:      logger,
		now:         time.Now,
		cfg:         cfg,
	}
}

var gradeExportHeaders = []string{"Student", "Class", "Assignment", "Score", "Max Score", "Percentage", "Letter", "Date Recorded"}

var attendanceExportHeaders = []string{"Student", "Class", "Date", "Status", "Notes"}

// Grades exports grades matching filter in the requested format.
func (s *ExportService) Grades(ctx context.Context, filter models.GradeFilter, format string) (*ExportFile, error) {
	renderer, err := s.renderer(format)
	if err != nil {
		return nil, err
	}
	grades, err := s.grades.List(ctx, filter)
	if err != nil {
		return nil, storeError(err, "grade not found", "failed to load grades")
	}
	if err := s.checkSize(len(grades)); err != nil {
		return nil, err
	}
	names, err := s.names(ctx)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{Title: "Grades", Headers: gradeExportHeaders, Rows: make([]map[string]string, 0, len(grades))}
	for _, g := range grades {
		view := names.gradeView(g)
		data.Rows = append(data.Rows, map[string]string{
			"Student":       view.StudentName,
			"Class":         view.ClassName,
			"Assignment":    view.AssignmentName,
			"Score":         formatFloat(g.Score),
			"Max Score":     formatFloat(g.MaxScore),
			"Percentage":    strconv.Itoa(g.Percentage) + "%",
			"Letter":        string(g.LetterGrade),
			"Date Recorded": g.DateRecorded.String(),
		})
	}
	return s.render(renderer, "grades", data)
}

// Attendance exports the records of a class on one date.
func (s *ExportService) Attendance(ctx context.Context, classID int64, date models.Date, format string) (*ExportFile, error) {
	if date.IsZero() {
		return nil, appErrors.InvalidInput("date is required")
	}
	renderer, err := s.renderer(format)
	if err != nil {
		return nil, err
	}
	records, err := s.attendance.List(ctx, models.AttendanceFilter{ClassID: &classID, Date: &date})
	if err != nil {
		return nil, storeError(err, "attendance record not found", "failed to load attendance")
	}
	if err := s.checkSize(len(records)); err != nil {
		return nil, err
	}
	names, err := s.names(ctx)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Title:   fmt.Sprintf("Attendance %s %s", names.class(models.Ref(classID)), date.String()),
		Headers: attendanceExportHeaders,
		Rows:    make([]map[string]string, 0, len(records)),
	}
	for _, r := range records {
		data.Rows = append(data.Rows, map[string]string{
			"Student": names.student(r.StudentID),
			"Class":   names.class(r.ClassID),
			"Date":    r.Date.String(),
			"Status":  string(r.Status),
			"Notes":   r.Notes,
		})
	}
	return s.render(renderer, "attendance-"+date.String(), data)
}

func (s *ExportService) renderer(format string) (export.Renderer, error) {
	parsed, err := export.ParseFormat(format)
	if err != nil {
		return nil, appErrors.InvalidInput(err.Error())
	}
	renderer, err := export.NewRenderer(parsed)
	if err != nil {
		return nil, appErrors.InvalidInput(err.Error())
	}
	return renderer, nil
}

func (s *ExportService) checkSize(rows int) error {
	if rows > s.cfg.MaxRows {
		return appErrors.InvalidInput(fmt.Sprintf("export of %d rows exceeds the limit of %d", rows, s.cfg.MaxRows))
	}
	return nil
}

func (s *ExportService) names(ctx context.Context) (nameIndex, error) {
	students, _, err := s.students.List(ctx, models.StudentFilter{})
	if err != nil {
		return nameIndex{}, storeError(err, "student not found", "failed to load students")
	}
	classes, err := s.classes.List(ctx, models.ClassFilter{})
	if err != nil {
		return nameIndex{}, storeError(err, "class not found", "failed to load classes")
	}
	assignments, err := s.assignments.List(ctx, models.AssignmentFilter{})
	if err != nil {
		return nameIndex{}, storeError(err, "assignment not found", "failed to load assignments")
	}
	return newNameIndex(students, classes, assignments), nil
}

func (s *ExportService) render(renderer export.Renderer, prefix string, data export.Dataset) (*ExportFile, error) {
	body, err := renderer.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	filename := fmt.Sprintf("%s-%s-%s.%s", prefix, s.now().UTC().Format("20060102"), uuid.NewString()[:8], renderer.Extension())
	s.logger.Info("export rendered", zap.String("file", filename), zap.Int("rows", len(data.Rows)))
	return &ExportFile{Filename: filename, ContentType: renderer.ContentType(), Body: body, Rows: len(data.Rows)}, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
