// Package ingest turns uploaded roster spreadsheets into rows the student
// service can upsert. It is a pure data transform: no store access, no
// ownership decisions.
package ingest

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mentorlink/attendance-portal/internal/core/ports"
)

// Column aliases accepted in the header row. Mentors upload sheets exported
// from different tools, so both the display headings and the camelCase field
// names are recognized.
var columnAliases = map[string]string{
	"roll number":      "roll_no",
	"rollno":           "roll_no",
	"full name":        "full_name",
	"fullname":         "full_name",
	"subject":          "subject",
	"actual attnd%":    "attendance",
	"actualattendance": "attendance",
	"p_ name":          "parent_name",
	"parentname":       "parent_name",
	"number":           "parent_phone",
	"parentphone":      "parent_phone",
	"email":            "parent_email",
	"parentemail":      "parent_email",
}

// ParseRoster reads the first sheet of an .xlsx file. The first row is the
// header; unrecognized columns are ignored. Rows without a roll number are
// dropped here so a single bad row never fails the batch.
func ParseRoster(r io.Reader) ([]ports.RosterRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return []ports.RosterRow{}, nil
	}

	// Map column index → canonical field name.
	fields := make(map[int]string, len(rows[0]))
	for i, heading := range rows[0] {
		if name, ok := columnAliases[strings.ToLower(strings.TrimSpace(heading))]; ok {
			fields[i] = name
		}
	}

	out := make([]ports.RosterRow, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		row := ports.RosterRow{}
		for i, cell := range cells {
			cell = strings.TrimSpace(cell)
			switch fields[i] {
			case "roll_no":
				row.RollNo = cell
			case "full_name":
				row.FullName = cell
			case "subject":
				row.Subject = cell
			case "attendance":
				row.ActualAttendance = parseAttendance(cell)
			case "parent_name":
				row.ParentName = cell
			case "parent_phone":
				row.ParentPhone = cell
			case "parent_email":
				row.ParentEmail = cell
			}
		}
		if row.RollNo == "" {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

// parseAttendance tolerates "87.5", "87.5%" and blank cells; anything
// unparseable counts as 0, matching the original import behavior.
func parseAttendance(cell string) float64 {
	cell = strings.TrimSuffix(cell, "%")
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return 0
	}
	return v
}
