package service

import (
	"context"
	"sort"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/apper-apps/scholar-array-protocol/internal/models"
	"github.com/apper-apps/scholar-array-protocol/internal/scoring"
)

type studentLister interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
}

type classLister interface {
	List(ctx context.Context, filter models.ClassFilter) ([]models.Class, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL          time.Duration
	RecentGradesLimit int
	TopStudentsLimit  int
}

// DashboardService composes the landing page overview from point-in-time store snapshots.
type DashboardService struct {
	students    studentLister
	classes     classLister
	grades      gradeLister
	attendance  attendanceLister
	assignments assignmentLister
	cache       *CacheService
	metrics     *MetricsService
	logger      *zap.Logger
	now         func() time.Time
	cfg         DashboardServiceConfig
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Students    studentLister
	Classes     classLister
	Grades      gradeLister
	Attendance  attendanceLister
	Assignments assignmentLister
	Cache       *CacheService
	Metrics     *MetricsService
	Logger      *zap.Logger
	Config      DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.RecentGradesLimit <= 0 {
		cfg.RecentGradesLimit = 5
	}
	if cfg.TopStudentsLimit <= 0 {
		cfg.TopStudentsLimit = 5
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		students:    params.Students,
		classes:     params.Classes,
		grades:      params.Grades,
		attendance:  params.Attendance,
		assignments: params.Assignments,
		cache:       params.Cache,
		metrics:     params.Metrics,
		logger:      logger,
		now:         time.Now,
		cfg:         cfg,
	}
}

type dashboardSnapshot struct {
	students    []models.Student
	classes     []models.Class
	grades      []models.Grade
	attendance  []models.AttendanceRecord
	assignments []models.Assignment
}

// Overview returns the dashboard summary and whether it was served from cache.
func (s *DashboardService) Overview(ctx context.Context) (*models.DashboardOverview, bool, error) {
	var cached models.DashboardOverview
	hit, err := s.cache.Get(ctx, dashboardOverviewKey, &cached)
	if err != nil {
		s.logger.Warn("dashboard cache read failed, recomputing", zap.Error(err))
	}
	if hit {
		return &cached, true, nil
	}

	start := time.Now()
	snap, err := s.load(ctx)
	s.metrics.ObserveStoreOperation("dashboard_overview", time.Since(start))
	if err != nil {
		return nil, false, storeError(err, "dashboard data not found", "failed to load dashboard data")
	}

	overview := s.compose(snap)
	if err := s.cache.Set(ctx, dashboardOverviewKey, overview, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
	return overview, false, nil
}

func (s *DashboardService) load(ctx context.Context) (*dashboardSnapshot, error) {
	snap := &dashboardSnapshot{}
	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		students, _, err := s.students.List(ctx, models.StudentFilter{})
		snap.students = students
		return err
	})
	p.Go(func(ctx context.Context) error {
		classes, err := s.classes.List(ctx, models.ClassFilter{})
		snap.classes = classes
		return err
	})
	p.Go(func(ctx context.Context) error {
		grades, err := s.grades.List(ctx, models.GradeFilter{})
		snap.grades = grades
		return err
	})
	p.Go(func(ctx context.Context) error {
		records, err := s.attendance.List(ctx, models.AttendanceFilter{})
		snap.attendance = records
		return err
	})
	p.Go(func(ctx context.Context) error {
		assignments, err := s.assignments.List(ctx, models.AssignmentFilter{})
		snap.assignments = assignments
		return err
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *DashboardService) compose(snap *dashboardSnapshot) *models.DashboardOverview {
	overview := &models.DashboardOverview{
		TotalStudents:  len(snap.students),
		TotalClasses:   len(snap.classes),
		AverageGrade:   scoring.OverallAverage(snap.grades),
		AttendanceRate: scoring.OverallRate(snap.attendance),
		Attendance:     scoring.Summarize(snap.attendance),
		GeneratedAt:    s.now().UTC(),
	}
	if overview.Attendance.Total == 0 {
		overview.Attendance.Rate = 0
	}
	for _, st := range snap.students {
		if st.Status == models.StudentStatusActive {
			overview.ActiveStudents++
		}
	}
	overview.RecentGrades = recentGrades(snap, s.cfg.RecentGradesLimit)
	overview.TopStudents = topStudents(snap, s.cfg.TopStudentsLimit)
	return overview
}

func recentGrades(snap *dashboardSnapshot, limit int) []models.GradeView {
	grades := append([]models.Grade(nil), snap.grades...)
	sort.SliceStable(grades, func(i, j int) bool {
		if !grades[i].DateRecorded.Equal(grades[j].DateRecorded) {
			return grades[i].DateRecorded.After(grades[j].DateRecorded.Time)
		}
		return grades[i].ID > grades[j].ID
	})
	if len(grades) > limit {
		grades = grades[:limit]
	}
	names := newNameIndex(snap.students, snap.classes, snap.assignments)
	views := make([]models.GradeView, 0, len(grades))
	for _, g := range grades {
		views = append(views, names.gradeView(g))
	}
	return views
}

func topStudents(snap *dashboardSnapshot, limit int) []models.StudentStanding {
	standings := make([]models.StudentStanding, 0, len(snap.students))
	for _, st := range snap.students {
		avg := scoring.StudentAverage(st.ID, snap.grades)
		if avg <= 0 {
			continue
		}
		standings = append(standings, models.StudentStanding{
			StudentID:   st.ID,
			Name:        st.FullName(),
			GradeLevel:  st.GradeLevel,
			Average:     avg,
			LetterGrade: scoring.LetterGrade(avg),
		})
	}
	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Average != standings[j].Average {
			return standings[i].Average > standings[j].Average
		}
		return standings[i].StudentID < standings[j].StudentID
	})
	if len(standings) > limit {
		standings = standings[:limit]
	}
	return standings
}

// nameIndex resolves display names for foreign keys.
type nameIndex struct {
	students    map[int64]string
	classes     map[int64]string
	assignments map[int64]string
}

func newNameIndex(students []models.Student, classes []models.Class, assignments []models.Assignment) nameIndex {
	idx := nameIndex{
		students:    make(map[int64]string, len(students)),
		classes:     make(map[int64]string, len(classes)),
		assignments: make(map[int64]string, len(assignments)),
	}
	for _, st := range students {
		idx.students[st.ID] = st.FullName()
	}
	for _, c := range classes {
		idx.classes[c.ID] = c.Name
	}
	for _, a := range assignments {
		idx.assignments[a.ID] = a.Name
	}
	return idx
}

func (n nameIndex) student(id models.ForeignKey) string {
	if name, ok := n.students[id.Int64()]; ok {
		return name
	}
	return "Unknown Student"
}

func (n nameIndex) class(id models.ForeignKey) string {
	if name, ok := n.classes[id.Int64()]; ok {
		return name
	}
	return "Unknown Class"
}

func (n nameIndex) gradeView(g models.Grade) models.GradeView {
	return models.GradeView{
		Grade:          g,
		StudentName:    n.student(g.StudentID),
		ClassName:      n.class(g.ClassID),
		AssignmentName: n.assignments[g.AssignmentID.Int64()],
	}
}
