// Package export renders the attendance ledger as spreadsheet and PDF files.
package export

import (
	"strconv"

	"github.com/Flyrell/punchclock/internal/attendance"
)

const (
	DefaultXLSXName = "attendance_records.xlsx"
	DefaultPDFName  = "attendance_records.pdf"
	SheetName       = "Attendance"
)

// Header names one column per record field, in export order.
var Header = []string{
	"employee_name",
	"work_date",
	"punch_in_time",
	"punch_out_time",
	"status",
	"extra_hours",
}

// Rows renders records as strings in Header order. An open record has an
// empty punch_out_time; extra hours use two decimals.
func Rows(records []attendance.Record) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.EmployeeName,
			r.WorkDate.String(),
			r.PunchIn.String(),
			punchOut(r),
			string(r.Status),
			strconv.FormatFloat(r.ExtraHours, 'f', 2, 64),
		})
	}
	return rows
}

// TotalExtraHours sums overtime across records.
func TotalExtraHours(records []attendance.Record) float64 {
	var total float64
	for _, r := range records {
		total += r.ExtraHours
	}
	return total
}

func punchOut(r attendance.Record) string {
	if r.PunchOut == nil {
		return ""
	}
	return r.PunchOut.String()
}
