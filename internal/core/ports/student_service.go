package ports

import (
	"context"

	"github.com/mentorlink/attendance-portal/internal/core/domain"
)

// RosterRow is one parsed spreadsheet row handed to ImportRoster. Rows come
// from the ingest collaborator; the service validates and claims them.
type RosterRow struct {
	RollNo           string
	FullName         string
	Subject          string
	ActualAttendance float64
	ParentName       string
	ParentPhone      string
	ParentEmail      string
}

// MentorStats is the dashboard summary for a mentor.
type MentorStats struct {
	Total  int64 `json:"total"`
	Alerts int64 `json:"alerts"`
}

// MentorContact is the public projection of an owning mentor shown to
// parents. When the student has no owner, the sentinel values
// "Not Assigned"/"N/A" are used instead of failing the lookup.
type MentorContact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ChildLookup is the result of a parent-facing lookup by public identifier.
type ChildLookup struct {
	Student *domain.Student `json:"student"`
	Mentor  MentorContact   `json:"mentor"`
}

// ImportResult summarizes a roster import. Reassigned counts the rows that
// were owned by another mentor before this import claimed them.
type ImportResult struct {
	Processed  int64 `json:"processed"`
	Skipped    int   `json:"skipped"`
	Reassigned int64 `json:"reassigned"`
}

// StudentService is the ownership-scoped access layer over student records.
// Every mentor-facing operation filters by the caller's identity; the
// parent-facing lookup is deliberately unscoped.
type StudentService interface {
	ListOwned(ctx context.Context, mentorID string) ([]*domain.Student, error)
	GetOwned(ctx context.Context, mentorID, rollNo string) (*domain.Student, error)
	UpdateOwned(ctx context.Context, mentorID, rollNo string, update StudentUpdate) error
	Stats(ctx context.Context, mentorID string) (*MentorStats, error)
	LookupByPublicID(ctx context.Context, identifier string) (*ChildLookup, error)
	ImportRoster(ctx context.Context, mentorID string, rows []RosterRow) (*ImportResult, error)
}
