package ports

import (
	"context"

	"github.com/mentorlink/attendance-portal/internal/core/domain"
)

// MessageRepository defines persistence for the append-only chat log.
type MessageRepository interface {
	Insert(ctx context.Context, msg *domain.Message) error
	// FindBetween returns every message exchanged between the two
	// identities in either direction, ascending by (created_at, id).
	FindBetween(ctx context.Context, userA, userB string) ([]*domain.Message, error)
}
