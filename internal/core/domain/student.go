package domain

import (
	"errors"
	"time"
)

// AlertThreshold is the attendance percentage below which a student is
// flagged. Exactly 75.0 is acceptable; anything strictly below is not.
const AlertThreshold = 75.0

var ErrStudentNotFound = errors.New("student not found")
var ErrForbidden = errors.New("access forbidden")
var ErrAlertThrottled = errors.New("alert already sent recently")

// Student is a record imported from a mentor's roster spreadsheet. It is
// keyed by roll number and bound to at most one owning mentor at a time.
// Records are never deleted; re-imports overwrite field by field.
type Student struct {
	RollNo           string    `json:"roll_no"`
	FullName         string    `json:"full_name"`
	Subject          string    `json:"subject"`
	ActualAttendance float64   `json:"actual_attendance"`
	ParentID         string    `json:"parent_id"`
	ParentName       string    `json:"parent_name"`
	ParentPhone      string    `json:"parent_phone"`
	ParentEmail      string    `json:"parent_email"`
	MentorID         string    `json:"mentor_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NeedsAlert reports whether the student's attendance is below the threshold.
func (s *Student) NeedsAlert() bool {
	return s.ActualAttendance < AlertThreshold
}
