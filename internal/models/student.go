package models

import (
	"strings"
	"time"
)

// StudentStatus is the enrolment lifecycle state of a student.
type StudentStatus string

const (
	StudentStatusActive    StudentStatus = "active"
	StudentStatusInactive  StudentStatus = "inactive"
	StudentStatusGraduated StudentStatus = "graduated"
)

// Valid returns true when the status is a supported value.
func (s StudentStatus) Valid() bool {
	switch s {
	case StudentStatusActive, StudentStatusInactive, StudentStatusGraduated:
		return true
	default:
		return false
	}
}

// Grade levels accepted for a student.
const (
	MinGradeLevel = 9
	MaxGradeLevel = 12
)

// Student represents a learner registered in the school.
type Student struct {
	ID             int64         `db:"id" json:"id"`
	FirstName      string        `db:"first_name" json:"first_name"`
	LastName       string        `db:"last_name" json:"last_name"`
	Email          string        `db:"email" json:"email"`
	Phone          string        `db:"phone" json:"phone,omitempty"`
	GradeLevel     int           `db:"grade_level" json:"grade_level"`
	DateOfBirth    Date          `db:"date_of_birth" json:"date_of_birth"`
	EnrollmentDate Date          `db:"enrollment_date" json:"enrollment_date"`
	Status         StudentStatus `db:"status" json:"status"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updated_at"`
}

// FullName joins first and last name.
func (s Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search     string
	Status     StudentStatus
	GradeLevel *int
	Page       int
	PageSize   int
}

// Matches applies the filter to a single student. Pagination is not considered.
func (f StudentFilter) Matches(s Student) bool {
	if f.Status != "" && s.Status != f.Status {
		return false
	}
	if f.GradeLevel != nil && s.GradeLevel != *f.GradeLevel {
		return false
	}
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		return strings.Contains(strings.ToLower(s.FirstName), term) ||
			strings.Contains(strings.ToLower(s.LastName), term) ||
			strings.Contains(strings.ToLower(s.Email), term)
	}
	return true
}
