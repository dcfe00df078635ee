package ports

import (
	"context"

	"github.com/mentorlink/attendance-portal/internal/core/domain"
)

// AlertJob is one outbound notification request for a student's parent
// contact fields. Delivery itself happens in the notify dispatcher.
type AlertJob struct {
	Student domain.Student
	// MentorID identifies the mentor who triggered the alert.
	MentorID string
}

// AlertDispatcher enqueues alert jobs for asynchronous delivery.
type AlertDispatcher interface {
	Enqueue(job AlertJob)
}

// AlertThrottle limits how often an alert can be sent per student.
type AlertThrottle interface {
	// Allow reports whether an alert for rollNo may be sent now and, when
	// it may, records the send so the next call within the window is denied.
	Allow(ctx context.Context, rollNo string) (bool, error)
}

// Notifier is the outbound delivery collaborator (email / messaging
// channel). The portal only depends on this interface; the default
// implementation logs the alert instead of sending it.
type Notifier interface {
	SendLowAttendanceAlert(ctx context.Context, student *domain.Student) error
}

// AlertService triggers manual low-attendance alerts for owned students.
type AlertService interface {
	Trigger(ctx context.Context, mentorID, rollNo string) error
}
