package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mentorlink/attendance-portal/internal/core/domain"
)

// LogNotifier is the default Notifier: it renders the alert and writes it to
// the log instead of an outbound channel. Real delivery (SMTP, WhatsApp)
// plugs in behind the same port.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendLowAttendanceAlert(_ context.Context, student *domain.Student) error {
	msg := fmt.Sprintf(
		"Attendance Alert: %s's attendance in %s is %.2f%%. A minimum of %.0f%% is required.",
		student.FullName, student.Subject, student.ActualAttendance, domain.AlertThreshold,
	)

	n.log.Info().
		Str("roll_no", student.RollNo).
		Str("parent_email", student.ParentEmail).
		Str("parent_phone", student.ParentPhone).
		Str("body", msg).
		Msg("low attendance alert")
	return nil
}
