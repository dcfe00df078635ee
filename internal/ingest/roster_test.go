package ingest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// buildSheet writes rows into an in-memory .xlsx and returns it as a reader.
func buildSheet(t *testing.T, rows [][]interface{}) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write buffer: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func TestParseRoster_DisplayHeadings(t *testing.T) {
	r := buildSheet(t, [][]interface{}{
		{"Roll Number", "Full Name", "Subject", "Actual Attnd%", "P_ NAME", "NUMBER", "EMAIL"},
		{"R-1", "Ana Flores", "Mathematics", "82.5%", "Luis Flores", "555-0101", "luis@example.com"},
		{"R-2", "Ben Ortiz", "Mathematics", "60", "Mara Ortiz", "555-0102", "mara@example.com"},
	})

	rows, err := ParseRoster(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.RollNo != "R-1" || first.FullName != "Ana Flores" || first.Subject != "Mathematics" {
		t.Errorf("unexpected row: %+v", first)
	}
	if first.ActualAttendance != 82.5 {
		t.Errorf("percent suffix must be tolerated, got %v", first.ActualAttendance)
	}
	if first.ParentName != "Luis Flores" || first.ParentPhone != "555-0101" || first.ParentEmail != "luis@example.com" {
		t.Errorf("parent fields wrong: %+v", first)
	}
}

func TestParseRoster_CamelCaseHeadings(t *testing.T) {
	r := buildSheet(t, [][]interface{}{
		{"rollNo", "fullName", "subject", "actualAttendance", "parentName", "parentPhone", "parentEmail"},
		{"R-9", "Cleo Díaz", "History", "91", "Iris Díaz", "555-0900", "iris@example.com"},
	})

	rows, err := ParseRoster(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].RollNo != "R-9" || rows[0].ActualAttendance != 91 {
		t.Errorf("unexpected row: %+v", rows[0])
	}
}

func TestParseRoster_DropsRowsWithoutRollNo(t *testing.T) {
	r := buildSheet(t, [][]interface{}{
		{"Roll Number", "Full Name"},
		{"", "Ghost Row"},
		{"R-1", "Ana"},
		{"   ", "Another Ghost"},
	})

	rows, err := ParseRoster(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected only the row with a roll number, got %d", len(rows))
	}
	if rows[0].FullName != "Ana" {
		t.Errorf("unexpected survivor: %+v", rows[0])
	}
}

func TestParseRoster_UnparseableAttendanceDefaultsToZero(t *testing.T) {
	r := buildSheet(t, [][]interface{}{
		{"Roll Number", "Actual Attnd%"},
		{"R-1", "absent"},
		{"R-2", ""},
	})

	rows, err := ParseRoster(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, row := range rows {
		if row.ActualAttendance != 0 {
			t.Errorf("roll %s: expected attendance 0, got %v", row.RollNo, row.ActualAttendance)
		}
	}
}

func TestParseRoster_IgnoresUnknownColumns(t *testing.T) {
	r := buildSheet(t, [][]interface{}{
		{"Roll Number", "Homeroom", "Full Name"},
		{"R-1", "B-12", "Ana"},
	})

	rows, err := ParseRoster(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].RollNo != "R-1" || rows[0].FullName != "Ana" {
		t.Errorf("unexpected row: %+v", rows[0])
	}
}

func TestParseRoster_HeaderOnly(t *testing.T) {
	r := buildSheet(t, [][]interface{}{
		{"Roll Number", "Full Name"},
	})

	rows, err := ParseRoster(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestParseRoster_NotASpreadsheet(t *testing.T) {
	if _, err := ParseRoster(strings.NewReader("this is not xlsx")); err == nil {
		t.Fatal("expected an error for a non-spreadsheet payload")
	}
}
