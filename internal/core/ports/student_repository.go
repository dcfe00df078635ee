package ports

import (
	"context"

	"github.com/mentorlink/attendance-portal/internal/core/domain"
)

// StudentUpdate carries the optional fields of a partial update. Nil fields
// are left untouched.
type StudentUpdate struct {
	FullName         *string
	Subject          *string
	ActualAttendance *float64
	// ParentID overrides the parent-facing id a roster import defaulted to
	// the roll number.
	ParentID    *string
	ParentName  *string
	ParentPhone *string
	ParentEmail *string
}

// StudentRepository defines persistence operations for student records.
// Ownership scoping is the service's responsibility; the repository exposes
// both scoped and unscoped lookups so the service can distinguish "absent"
// from "not owned" internally while conflating them at the API boundary.
type StudentRepository interface {
	// ListByMentor returns all students owned by mentorID, ordered by
	// full_name ascending.
	ListByMentor(ctx context.Context, mentorID string) ([]*domain.Student, error)
	// FindByRollNo retrieves a student regardless of owner.
	FindByRollNo(ctx context.Context, rollNo string) (*domain.Student, error)
	// FindByPublicID matches identifier against roll_no or parent_id.
	FindByPublicID(ctx context.Context, identifier string) (*domain.Student, error)
	// Update merges the non-nil fields into the record owned by mentorID.
	// Returns domain.ErrStudentNotFound when no owned record matches.
	Update(ctx context.Context, mentorID, rollNo string, update StudentUpdate) error
	// UpsertBatch inserts or overwrites records keyed by roll_no, claiming
	// ownership for every row. Returns the number of rows written.
	UpsertBatch(ctx context.Context, students []*domain.Student) (int64, error)
	// CountOwnedByOthers reports how many of rollNos currently belong to a
	// mentor other than mentorID. Used to surface silent reassignments.
	CountOwnedByOthers(ctx context.Context, rollNos []string, mentorID string) (int64, error)
	CountByMentor(ctx context.Context, mentorID string) (int64, error)
	CountAlertsByMentor(ctx context.Context, mentorID string) (int64, error)
}
