package service

// Repositories is the record store collaborator: one collection per entity. Either adapter in
// internal/repository satisfies every field.
type Repositories struct {
	Students    studentRepository
	Classes     classRepository
	Assignments assignmentRepository
	Grades      gradeRepository
	Attendance  attendanceRepository
}
