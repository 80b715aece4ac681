package scoring

import "github.com/apper-apps/scholar-array-protocol/internal/models"

// fullAttendance is the rate reported for a student with no records. Unmarked students are
// assumed present, unlike Average where ungraded means 0.
const fullAttendance = 100

// AttendanceRate is the share of the student's records that are present or late, in percent
// with two decimals. classID narrows the records to one class when non-nil.
func AttendanceRate(studentID int64, classID *int64, records []models.AttendanceRecord) float64 {
	filter := models.AttendanceFilter{StudentID: &studentID, ClassID: classID}
	var total, attended int
	for _, r := range records {
		if !filter.Matches(r) {
			continue
		}
		total++
		if r.Status.CountsAsPresent() {
			attended++
		}
	}
	if total == 0 {
		return fullAttendance
	}
	return round2(float64(attended) / float64(total) * 100)
}

// Summarize counts records per status and computes the rate over all of them.
// The rate of an empty set is 100.
func Summarize(records []models.AttendanceRecord) models.AttendanceSummary {
	var s models.AttendanceSummary
	for _, r := range records {
		switch r.Status {
		case models.AttendanceStatusPresent:
			s.Present++
		case models.AttendanceStatusAbsent:
			s.Absent++
		case models.AttendanceStatusLate:
			s.Late++
		case models.AttendanceStatusExcused:
			s.Excused++
		default:
			continue
		}
		s.Total++
	}
	s.Rate = fullAttendance
	if s.Total > 0 {
		s.Rate = round2(float64(s.Present+s.Late) / float64(s.Total) * 100)
	}
	return s
}

// OverallRate is the rate over every record regardless of student, rounded to a whole
// percent. It reports 0 when there are no records, as the dashboard displays it.
func OverallRate(records []models.AttendanceRecord) int {
	s := Summarize(records)
	if s.Total == 0 {
		return 0
	}
	return int(roundHalfUp(float64(s.Present+s.Late) / float64(s.Total) * 100))
}
