package ports

import (
	"context"

	"github.com/mentorlink/attendance-portal/internal/core/domain"
)

// ChatService is the mentor↔parent messaging subsystem. Delivery is
// pull-based: clients poll History on an interval; there is no push channel
// and no delivery latency guarantee. The stored timestamp is the single
// source of truth for ordering.
type ChatService interface {
	// Send appends a message and returns the stored copy so the caller can
	// reconcile its optimistic local echo with the authoritative id and
	// timestamp.
	Send(ctx context.Context, senderID, recipientID, body string) (*domain.Message, error)
	History(ctx context.Context, userID, targetID string) ([]*domain.Message, error)
	// Contacts derives who userID may message from the current student→
	// mentor mapping: a mentor gets the parents of currently-owned
	// students, a parent gets the current owner of their linked student.
	Contacts(ctx context.Context, userID string) ([]*domain.Contact, error)
}
