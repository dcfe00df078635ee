package domain

import (
	"errors"
	"time"
)

var ErrEmptyMessage = errors.New("message body is empty")
var ErrNotAllowed = errors.New("messaging this user is not allowed")

// Message is a single chat entry between a mentor and a parent. Messages are
// immutable once stored; the log is append-only and ordered by CreatedAt,
// with ID as the tiebreaker so replays are deterministic.
type Message struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}

// Contact is an identity the caller is currently permitted to message. The
// set is derived from the live student→mentor mapping on every call, never
// cached, because a re-import can reassign a student to another mentor.
type Contact struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	RollNo string `json:"roll_no,omitempty"`
}
