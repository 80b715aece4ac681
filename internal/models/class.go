package models

import (
	"strings"
	"time"
)

// Semester is the academic period a class runs in.
type Semester string

const (
	SemesterFall   Semester = "Fall"
	SemesterSpring Semester = "Spring"
	SemesterSummer Semester = "Summer"
)

// Valid returns true when the semester is a supported value.
func (s Semester) Valid() bool {
	switch s {
	case SemesterFall, SemesterSpring, SemesterSummer:
		return true
	default:
		return false
	}
}

// Subjects offered by the dashboard forms. Class.Subject is free-form; these are suggestions.
var Subjects = []string{
	"Mathematics",
	"English",
	"Science",
	"History",
	"Art",
	"Physical Education",
	"Music",
	"Computer Science",
}

// Class is a teaching section. Its roster is not stored; see ClassStats.
type Class struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Subject   string    `db:"subject" json:"subject"`
	Period    string    `db:"period" json:"period"`
	Room      string    `db:"room" json:"room"`
	Year      int       `db:"year" json:"year"`
	Semester  Semester  `db:"semester" json:"semester"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ClassFilter narrows class listings.
type ClassFilter struct {
	Search   string
	Subject  string
	Semester Semester
	Year     *int
}

// Matches applies the filter to a single class.
func (f ClassFilter) Matches(c Class) bool {
	if f.Subject != "" && !strings.EqualFold(c.Subject, f.Subject) {
		return false
	}
	if f.Semester != "" && c.Semester != f.Semester {
		return false
	}
	if f.Year != nil && c.Year != *f.Year {
		return false
	}
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		return strings.Contains(strings.ToLower(c.Name), term) ||
			strings.Contains(strings.ToLower(c.Subject), term) ||
			strings.Contains(strings.ToLower(c.Room), term)
	}
	return true
}

// ClassStats holds the figures derived for a class from its grade and attendance records.
type ClassStats struct {
	ClassID         int64       `json:"class_id"`
	StudentCount    int         `json:"student_count"`
	AverageGrade    float64     `json:"average_grade"`
	LetterGrade     LetterGrade `json:"letter_grade"`
	AssignmentCount int         `json:"assignment_count"`
}
