package models

import (
	"fmt"
	"time"
)

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
	AttendanceStatusLate    AttendanceStatus = "late"
	AttendanceStatusExcused AttendanceStatus = "excused"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusLate, AttendanceStatusExcused:
		return true
	default:
		return false
	}
}

// CountsAsPresent reports whether the status contributes to the attendance rate.
func (s AttendanceStatus) CountsAsPresent() bool {
	return s == AttendanceStatusPresent || s == AttendanceStatusLate
}

// AttendanceRecord is one student's attendance for one class on one day.
// At most one record exists per AttendanceKey.
type AttendanceRecord struct {
	ID        int64            `db:"id" json:"id"`
	StudentID ForeignKey       `db:"student_id" json:"student_id"`
	ClassID   ForeignKey       `db:"class_id" json:"class_id"`
	Date      Date             `db:"date" json:"date"`
	Status    AttendanceStatus `db:"status" json:"status"`
	Notes     string           `db:"notes" json:"notes"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}

// Key returns the record's (student, class, date) triple.
func (r AttendanceRecord) Key() AttendanceKey {
	return AttendanceKey{StudentID: r.StudentID.Int64(), ClassID: r.ClassID.Int64(), Date: r.Date}
}

// AttendanceKey identifies the single record allowed per student, class and day.
type AttendanceKey struct {
	StudentID int64
	ClassID   int64
	Date      Date
}

// String renders the key as "student:class:date".
func (k AttendanceKey) String() string {
	return fmt.Sprintf("%d:%d:%s", k.StudentID, k.ClassID, k.Date.String())
}

// Matches reports whether the record sits on this key.
func (k AttendanceKey) Matches(r AttendanceRecord) bool {
	return r.StudentID.Matches(k.StudentID) && r.ClassID.Matches(k.ClassID) && r.Date.Equal(k.Date)
}

// AttendanceFilter narrows attendance listings.
type AttendanceFilter struct {
	StudentID *int64
	ClassID   *int64
	Date      *Date
	Status    AttendanceStatus
}

// Matches applies the filter to a single record.
func (f AttendanceFilter) Matches(r AttendanceRecord) bool {
	if f.StudentID != nil && !r.StudentID.Matches(*f.StudentID) {
		return false
	}
	if f.ClassID != nil && !r.ClassID.Matches(*f.ClassID) {
		return false
	}
	if f.Date != nil && !r.Date.Equal(*f.Date) {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	return true
}

// AttendanceSummary holds explicit per-status counts and the attendance rate.
type AttendanceSummary struct {
	Present int     `json:"present"`
	Absent  int     `json:"absent"`
	Late    int     `json:"late"`
	Excused int     `json:"excused"`
	Total   int     `json:"total"`
	Rate    float64 `json:"rate"`
}
