package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/apper-apps/scholar-array-protocol/internal/models"
	"github.com/apper-apps/scholar-array-protocol/internal/scoring"
)

// Seed fills an empty store with a small demo school. It is a no-op when students already exist.
func Seed(ctx context.Context, db *DB) error {
	if db.students.count() > 0 {
		return nil
	}

	students := []models.Student{
		{FirstName: "Emma", LastName: "Johnson", Email: "emma.johnson@school.edu", Phone: "(555) 123-4567", GradeLevel: 10, DateOfBirth: models.MustParseDate("2008-03-15")},
		{FirstName: "Liam", LastName: "Smith", Email: "liam.smith@school.edu", Phone: "(555) 234-5678", GradeLevel: 11, DateOfBirth: models.MustParseDate("2007-07-22")},
		{FirstName: "Olivia", LastName: "Brown", Email: "olivia.brown@school.edu", GradeLevel: 9, DateOfBirth: models.MustParseDate("2009-01-08")},
		{FirstName: "Noah", LastName: "Davis", Email: "noah.davis@school.edu", GradeLevel: 12, DateOfBirth: models.MustParseDate("2006-11-30")},
		{FirstName: "Ava", LastName: "Wilson", Email: "ava.wilson@school.edu", GradeLevel: 10, DateOfBirth: models.MustParseDate("2008-05-19")},
	}
	classes := []models.Class{
		{Name: "Algebra II", Subject: "Mathematics", Period: "1st Period", Room: "101", Year: 2024, Semester: models.SemesterFall},
		{Name: "World History", Subject: "History", Period: "2nd Period", Room: "204", Year: 2024, Semester: models.SemesterFall},
		{Name: "Biology", Subject: "Science", Period: "3rd Period", Room: "Lab 2", Year: 2024, Semester: models.SemesterFall},
	}

	studentRepo := NewStudentRepository(db)
	classRepo := NewClassRepository(db)
	assignmentRepo := NewAssignmentRepository(db)
	gradeRepo := NewGradeRepository(db)
	attendanceRepo := NewAttendanceRepository(db)

	enrolled := models.MustParseDate("2024-08-26")
	for i := range students {
		students[i].Status = models.StudentStatusActive
		students[i].EnrollmentDate = enrolled
		if err := studentRepo.Create(ctx, &students[i]); err != nil {
			return fmt.Errorf("seed students: %w", err)
		}
	}

	for i := range classes {
		if err := classRepo.Create(ctx, &classes[i]); err != nil {
			return fmt.Errorf("seed classes: %w", err)
		}
		assignments := []models.Assignment{
			{Name: "Unit 1 Quiz", Category: "Quiz", Weight: 0.2, TotalPoints: 50, DueDate: models.MustParseDate("2024-09-13")},
			{Name: "Midterm Exam", Category: "Exam", Weight: 0.5, TotalPoints: 100, DueDate: models.MustParseDate("2024-10-18")},
		}
		for j := range assignments {
			assignments[j].ClassID = models.Ref(classes[i].ID)
			if err := assignmentRepo.Create(ctx, &assignments[j]); err != nil {
				return fmt.Errorf("seed assignments: %w", err)
			}
			for k, student := range students {
				score := assignments[j].TotalPoints * float64(70+((k*7+i*5+j*3)%29)) / 100
				pct, letter, err := scoring.Evaluate(score, assignments[j].TotalPoints)
				if err != nil {
					return fmt.Errorf("seed grades: %w", err)
				}
				grade := models.Grade{
					StudentID:    models.Ref(student.ID),
					ClassID:      models.Ref(classes[i].ID),
					AssignmentID: models.Ref(assignments[j].ID),
					Score:        score,
					MaxScore:     assignments[j].TotalPoints,
					Percentage:   pct,
					LetterGrade:  letter,
					DateRecorded: assignments[j].DueDate,
				}
				if err := gradeRepo.Create(ctx, &grade); err != nil {
					return fmt.Errorf("seed grades: %w", err)
				}
			}
		}
	}

	statuses := []models.AttendanceStatus{
		models.AttendanceStatusPresent,
		models.AttendanceStatusPresent,
		models.AttendanceStatusLate,
		models.AttendanceStatusPresent,
		models.AttendanceStatusAbsent,
		models.AttendanceStatusExcused,
	}
	start := time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)
	for day := 0; day < 5; day++ {
		date := models.NewDate(start.AddDate(0, 0, day))
		for _, class := range classes {
			for k, student := range students {
				record := models.AttendanceRecord{
					StudentID: models.Ref(student.ID),
					ClassID:   models.Ref(class.ID),
					Date:      date,
					Status:    statuses[(k+day+int(class.ID))%len(statuses)],
				}
				if err := attendanceRepo.Create(ctx, &record); err != nil {
					return fmt.Errorf("seed attendance: %w", err)
				}
			}
		}
	}
	return nil
}
