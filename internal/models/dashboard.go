package models

import "time"

// DashboardOverview is the landing page summary.
type DashboardOverview struct {
	TotalStudents  int               `json:"total_students"`
	ActiveStudents int               `json:"active_students"`
	TotalClasses   int               `json:"total_classes"`
	AverageGrade   int               `json:"average_grade"`
	AttendanceRate int               `json:"attendance_rate"`
	Attendance     AttendanceSummary `json:"attendance"`
	RecentGrades   []GradeView       `json:"recent_grades"`
	TopStudents    []StudentStanding `json:"top_students"`
	GeneratedAt    time.Time         `json:"generated_at"`
}

// GradeView is a grade joined with display names.
type GradeView struct {
	Grade
	StudentName    string `json:"student_name"`
	ClassName      string `json:"class_name"`
	AssignmentName string `json:"assignment_name,omitempty"`
}

// StudentStanding ranks a student by average grade.
type StudentStanding struct {
	StudentID   int64       `json:"student_id"`
	Name        string      `json:"name"`
	GradeLevel  int         `json:"grade_level"`
	Average     float64     `json:"average"`
	LetterGrade LetterGrade `json:"letter_grade"`
}
