package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/apper-apps/scholar-array-protocol/internal/models"
	"github.com/apper-apps/scholar-array-protocol/internal/service"
	appErrors "github.com/apper-apps/scholar-array-protocol/pkg/errors"
	"github.com/apper-apps/scholar-array-protocol/pkg/response"
)

type exportService interface {
	Grades(ctx context.Context, filter models.GradeFilter, format string) (*service.ExportFile, error)
	Attendance(ctx context.Context, classID int64, date models.Date, format string) (*service.ExportFile, error)
}

// ExportHandler streams CSV, PDF and XLSX exports.
type ExportHandler struct {
	exports exportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports exportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Grades godoc
// @Summary Export grades
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv (default), pdf or xlsx"
// @Param student_id query int false "Student ID"
// @Param class_id query int false "Class ID"
// @Param assignment_id query int false "Assignment ID"
// @Success 200 {file} file
// @Router /exports/grades [get]
func (h *ExportHandler) Grades(c *gin.Context) {
	filter, err := gradeFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exports.Grades(c.Request.Context(), filter, exportFormat(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// Attendance godoc
// @Summary Export a class's attendance for one day
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv (default), pdf or xlsx"
// @Param class_id query int true "Class ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {file} file
// @Router /exports/attendance [get]
func (h *ExportHandler) Attendance(c *gin.Context) {
	classID, err := queryID(c, "class_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if classID == nil {
		response.Error(c, appErrors.InvalidInput("class_id is required"))
		return
	}
	date, err := queryDate(c, "date")
	if err != nil {
		response.Error(c, err)
		return
	}
	if date == nil {
		response.Error(c, appErrors.InvalidInput("date is required"))
		return
	}
	file, err := h.exports.Attendance(c.Request.Context(), *classID, *date, exportFormat(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

func exportFormat(c *gin.Context) string {
	return strings.ToLower(strings.TrimSpace(c.Query("format")))
}
