package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// RosterColumns is the column order expected in an imported roster sheet.
var RosterColumns = []string{"First Name", "Last Name", "Email", "Phone", "Grade Level", "Date of Birth"}

// RosterRow is one raw student row of an imported workbook.
type RosterRow struct {
	Line        int
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	GradeLevel  string
	DateOfBirth string
}

// ReadRoster reads the first sheet of an XLSX workbook. The first row is a header and blank rows
// are skipped.
func ReadRoster(r io.Reader) ([]RosterRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open roster workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("roster workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read roster sheet %s: %w", sheet, err)
	}

	out := make([]RosterRow, 0, len(rows))
	for i, row := range rows {
		if i == 0 || blank(row) {
			continue
		}
		out = append(out, RosterRow{
			Line:        i + 1,
			FirstName:   cell(row, 0),
			LastName:    cell(row, 1),
			Email:       cell(row, 2),
			Phone:       cell(row, 3),
			GradeLevel:  cell(row, 4),
			DateOfBirth: cell(row, 5),
		})
	}
	return out, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
