package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mentorlink/attendance-portal/internal/core/domain"
	"github.com/mentorlink/attendance-portal/internal/core/ports"
)

// AlertService triggers manual low-attendance notifications. Delivery is
// asynchronous through the dispatcher; the throttle keeps a mentor from
// re-sending the same student's alert within the cooldown window.
type AlertService struct {
	students   ports.StudentService
	throttle   ports.AlertThrottle
	dispatcher ports.AlertDispatcher
	logger     zerolog.Logger
}

func NewAlertService(students ports.StudentService, throttle ports.AlertThrottle, dispatcher ports.AlertDispatcher, logger zerolog.Logger) *AlertService {
	return &AlertService{students: students, throttle: throttle, dispatcher: dispatcher, logger: logger}
}

// Trigger enqueues an alert for an owned student. Ownership follows the same
// conflated-404 policy as all scoped reads.
func (s *AlertService) Trigger(ctx context.Context, mentorID, rollNo string) error {
	student, err := s.students.GetOwned(ctx, mentorID, rollNo)
	if err != nil {
		return err
	}

	allowed, err := s.throttle.Allow(ctx, rollNo)
	if err != nil {
		// Throttle store being down should not block an explicit,
		// mentor-initiated alert.
		s.logger.Warn().Err(err).Str("roll_no", rollNo).Msg("alert throttle check failed, sending anyway")
	} else if !allowed {
		return domain.ErrAlertThrottled
	}

	s.dispatcher.Enqueue(ports.AlertJob{Student: *student, MentorID: mentorID})
	s.logger.Info().
		Str("roll_no", rollNo).
		Str("mentor_id", mentorID).
		Float64("attendance", student.ActualAttendance).
		Msg("alert queued")
	return nil
}
