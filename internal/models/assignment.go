package models

import "time"

// Assignment is a graded piece of work belonging to a class.
type Assignment struct {
	ID          int64      `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	ClassID     ForeignKey `db:"class_id" json:"class_id"`
	Category    string     `db:"category" json:"category"`
	Weight      float64    `db:"weight" json:"weight"`
	DueDate     Date       `db:"due_date" json:"due_date"`
	TotalPoints float64    `db:"total_points" json:"total_points"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// AssignmentFilter narrows assignment listings.
type AssignmentFilter struct {
	ClassID *int64
}

// Matches applies the filter to a single assignment.
func (f AssignmentFilter) Matches(a Assignment) bool {
	return f.ClassID == nil || a.ClassID.Matches(*f.ClassID)
}
