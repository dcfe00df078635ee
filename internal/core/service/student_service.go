package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mentorlink/attendance-portal/internal/core/domain"
	"github.com/mentorlink/attendance-portal/internal/core/ports"
)

// Sentinel projection returned to parents whose child has no owning mentor
// yet. The lookup still succeeds; only the contact fields are placeholders.
var unassignedMentor = ports.MentorContact{Name: "Not Assigned", Email: "N/A"}

// StudentService is the ownership-scoped access layer. Every mentor-facing
// read and write carries an implicit mentor_id predicate; cross-mentor access
// is indistinguishable from a missing record.
type StudentService struct {
	students ports.StudentRepository
	users    ports.AuthRepository
	logger   zerolog.Logger
}

func NewStudentService(students ports.StudentRepository, users ports.AuthRepository, logger zerolog.Logger) *StudentService {
	return &StudentService{students: students, users: users, logger: logger}
}

// ListOwned returns the caller's students ordered by full name. An empty
// roster is a valid result, not an error.
func (s *StudentService) ListOwned(ctx context.Context, mentorID string) ([]*domain.Student, error) {
	return s.students.ListByMentor(ctx, mentorID)
}

// GetOwned fetches a single owned record. The public contract conflates
// "does not exist" with "not owned" on purpose (anti-enumeration); the two
// cases are only distinguished here, at debug level, for auditability.
func (s *StudentService) GetOwned(ctx context.Context, mentorID, rollNo string) (*domain.Student, error) {
	student, err := s.students.FindByRollNo(ctx, rollNo)
	if err != nil {
		return nil, err
	}
	if student.MentorID != mentorID {
		s.logger.Debug().
			Str("roll_no", rollNo).
			Str("mentor_id", mentorID).
			Msg("student exists but is owned by another mentor")
		return nil, domain.ErrStudentNotFound
	}
	return student, nil
}

// UpdateOwned merges the provided fields into an owned record. Partial field
// sets are allowed; unset fields are untouched.
func (s *StudentService) UpdateOwned(ctx context.Context, mentorID, rollNo string, update ports.StudentUpdate) error {
	// Same existence-then-ownership walk as GetOwned so the caller sees a
	// single 404 regardless of which check failed.
	if _, err := s.GetOwned(ctx, mentorID, rollNo); err != nil {
		return err
	}
	return s.students.Update(ctx, mentorID, rollNo, update)
}

// Stats returns the caller's dashboard counters: owned students and how many
// sit below the attendance threshold.
func (s *StudentService) Stats(ctx context.Context, mentorID string) (*ports.MentorStats, error) {
	total, err := s.students.CountByMentor(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	alerts, err := s.students.CountAlertsByMentor(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	return &ports.MentorStats{Total: total, Alerts: alerts}, nil
}

// LookupByPublicID is the parent-facing lookup. It matches the identifier
// against roll_no or the parent-facing id without any ownership filter, and
// resolves the current owning mentor's contact projection.
func (s *StudentService) LookupByPublicID(ctx context.Context, identifier string) (*ports.ChildLookup, error) {
	student, err := s.students.FindByPublicID(ctx, strings.TrimSpace(identifier))
	if err != nil {
		return nil, err
	}

	lookup := &ports.ChildLookup{Student: student, Mentor: unassignedMentor}
	if student.MentorID == "" {
		return lookup, nil
	}

	mentor, err := s.users.FindByID(ctx, student.MentorID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Dangling mentor reference behaves like an unassigned record.
			return lookup, nil
		}
		return nil, err
	}

	lookup.Mentor = ports.MentorContact{Name: mentor.Name, Email: mentor.Email}
	return lookup, nil
}

// ImportRoster bulk-upserts parsed spreadsheet rows, claiming ownership of
// every row for the caller. Rows without a roll number are dropped rather
// than failing the batch; applying the same batch twice is a no-op beyond
// refreshed timestamps.
func (s *StudentService) ImportRoster(ctx context.Context, mentorID string, rows []ports.RosterRow) (*ports.ImportResult, error) {
	now := time.Now().UTC()
	students := make([]*domain.Student, 0, len(rows))
	rollNos := make([]string, 0, len(rows))
	skipped := 0

	for _, row := range rows {
		rollNo := strings.TrimSpace(row.RollNo)
		if rollNo == "" {
			skipped++
			continue
		}
		students = append(students, &domain.Student{
			RollNo:           rollNo,
			FullName:         row.FullName,
			Subject:          row.Subject,
			ActualAttendance: row.ActualAttendance,
			// Parents log in with the roll number unless the sheet
			// overrides it later via the parent-facing id.
			ParentID:    rollNo,
			ParentName:  row.ParentName,
			ParentPhone: row.ParentPhone,
			ParentEmail: row.ParentEmail,
			MentorID:    mentorID,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		rollNos = append(rollNos, rollNo)
	}

	if len(students) == 0 {
		return &ports.ImportResult{Processed: 0, Skipped: skipped}, nil
	}

	// An import always claims ownership, which can silently re-parent a
	// record imported by another mentor. The behavior is kept, but made
	// observable.
	reassigned, err := s.students.CountOwnedByOthers(ctx, rollNos, mentorID)
	if err != nil {
		s.logger.Warn().Err(err).Msg("reassignment pre-check failed, importing anyway")
		reassigned = 0
	} else if reassigned > 0 {
		s.logger.Warn().
			Int64("reassigned", reassigned).
			Str("mentor_id", mentorID).
			Msg("roster import reassigns students from other mentors")
	}

	processed, err := s.students.UpsertBatch(ctx, students)
	if err != nil {
		s.logger.Error().Err(err).Str("mentor_id", mentorID).Msg("roster upsert failed")
		return nil, err
	}

	s.logger.Info().
		Int64("processed", processed).
		Int("skipped", skipped).
		Int64("reassigned", reassigned).
		Str("mentor_id", mentorID).
		Msg("roster imported")

	return &ports.ImportResult{Processed: processed, Skipped: skipped, Reassigned: reassigned}, nil
}
