package models

import "time"

// LetterGrade is the band a percentage falls into.
type LetterGrade string

const (
	LetterAPlus  LetterGrade = "A+"
	LetterA      LetterGrade = "A"
	LetterAMinus LetterGrade = "A-"
	LetterBPlus  LetterGrade = "B+"
	LetterB      LetterGrade = "B"
	LetterBMinus LetterGrade = "B-"
	LetterCPlus  LetterGrade = "C+"
	LetterC      LetterGrade = "C"
	LetterCMinus LetterGrade = "C-"
	LetterD      LetterGrade = "D"
	LetterF      LetterGrade = "F"
)

// Grade is a student's score on an assignment. Percentage and LetterGrade are derived
// from Score and MaxScore and are always written together.
type Grade struct {
	ID           int64       `db:"id" json:"id"`
	StudentID    ForeignKey  `db:"student_id" json:"student_id"`
	ClassID      ForeignKey  `db:"class_id" json:"class_id"`
	AssignmentID ForeignKey  `db:"assignment_id" json:"assignment_id"`
	Score        float64     `db:"score" json:"score"`
	MaxScore     float64     `db:"max_score" json:"max_score"`
	Percentage   int         `db:"percentage" json:"percentage"`
	LetterGrade  LetterGrade `db:"letter_grade" json:"letter_grade"`
	DateRecorded Date        `db:"date_recorded" json:"date_recorded"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}

// GradeFilter narrows grade listings.
type GradeFilter struct {
	StudentID    *int64
	ClassID      *int64
	AssignmentID *int64
}

// Matches applies the filter to a single grade.
func (f GradeFilter) Matches(g Grade) bool {
	if f.StudentID != nil && !g.StudentID.Matches(*f.StudentID) {
		return false
	}
	if f.ClassID != nil && !g.ClassID.Matches(*f.ClassID) {
		return false
	}
	if f.AssignmentID != nil && !g.AssignmentID.Matches(*f.AssignmentID) {
		return false
	}
	return true
}
