package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/apper-apps/scholar-array-protocol/internal/models"
	"github.com/apper-apps/scholar-array-protocol/internal/service"
	"github.com/apper-apps/scholar-array-protocol/pkg/response"
)

type attendanceService interface {
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error)
	Get(ctx context.Context, id int64) (*models.AttendanceRecord, error)
	Delete(ctx context.Context, id int64) error
	MarkAttendance(ctx context.Context, req service.MarkAttendanceRequest) (*service.AttendanceMark, error)
	MarkAllPresent(ctx context.Context, req service.MarkAllPresentRequest) (*service.BatchResult, error)
	AttendanceRate(ctx context.Context, studentID int64, classID *int64) (*service.RateResult, error)
	StudentSummary(ctx context.Context, studentID int64, classID *int64) (*models.AttendanceSummary, error)
}

// AttendanceHandler exposes attendance endpoints.
type AttendanceHandler struct {
	attendance attendanceService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance attendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// List godoc
// @Summary List attendance records
// @Tags Attendance
// @Produce json
// @Param student_id query int false "Student ID"
// @Param class_id query int false "Class ID"
// @Param date query string false "Date (YYYY-MM-DD)"
// @Param status query string false "present, absent, late or excused"
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	var filter models.AttendanceFilter
	var err error
	if filter.StudentID, err = queryID(c, "student_id"); err != nil {
		response.Error(c, err)
		return
	}
	if filter.ClassID, err = queryID(c, "class_id"); err != nil {
		response.Error(c, err)
		return
	}
	if filter.Date, err = queryDate(c, "date"); err != nil {
		response.Error(c, err)
		return
	}
	filter.Status = models.AttendanceStatus(strings.ToLower(strings.TrimSpace(c.Query("status"))))

	records, err := h.attendance.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// Get godoc
// @Summary Get attendance record
// @Tags Attendance
// @Produce json
// @Param id path int true "Attendance ID"
// @Success 200 {object} response.Envelope
// @Router /attendance/{id} [get]
func (h *AttendanceHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	record, err := h.attendance.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Delete godoc
// @Summary Delete attendance record
// @Tags Attendance
// @Param id path int true "Attendance ID"
// @Success 204
// @Router /attendance/{id} [delete]
func (h *AttendanceHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.attendance.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Mark godoc
// @Summary Mark attendance
// @Description Creates the record for (student, class, date) or overwrites its status and notes.
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.MarkAttendanceRequest true "Attendance payload"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Router /attendance/mark [post]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req service.MarkAttendanceRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	mark, err := h.attendance.MarkAttendance(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if mark.Created {
		response.Created(c, mark.Record)
		return
	}
	response.JSON(c, http.StatusOK, mark.Record, nil)
}

// MarkAllPresent godoc
// @Summary Mark a list of students present
// @Description Items are applied independently. A partial failure responds 207 with both lists.
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.MarkAllPresentRequest true "Batch payload"
// @Success 200 {object} response.Envelope
// @Success 207 {object} response.Envelope
// @Router /attendance/mark-all-present [post]
func (h *AttendanceHandler) MarkAllPresent(c *gin.Context) {
	var req service.MarkAllPresentRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.attendance.MarkAllPresent(c.Request.Context(), req)
	if result == nil {
		response.Error(c, err)
		return
	}
	response.Partial(c, result, err)
}

// Rate godoc
// @Summary Student attendance rate
// @Tags Attendance
// @Produce json
// @Param id path int true "Student ID"
// @Param class_id query int false "Class ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/attendance-rate [get]
func (h *AttendanceHandler) Rate(c *gin.Context) {
	id, classID, err := studentScope(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	rate, err := h.attendance.AttendanceRate(c.Request.Context(), id, classID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rate, nil)
}

// Summary godoc
// @Summary Student attendance counts per status
// @Tags Attendance
// @Produce json
// @Param id path int true "Student ID"
// @Param class_id query int false "Class ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/attendance-summary [get]
func (h *AttendanceHandler) Summary(c *gin.Context) {
	id, classID, err := studentScope(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	summary, err := h.attendance.StudentSummary(c.Request.Context(), id, classID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

func studentScope(c *gin.Context) (int64, *int64, error) {
	id, err := pathID(c, "id")
	if err != nil {
		return 0, nil, err
	}
	classID, err := queryID(c, "class_id")
	if err != nil {
		return 0, nil, err
	}
	return id, classID, nil
}
