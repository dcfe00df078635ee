package ports

import (
	"context"

	"github.com/mentorlink/attendance-portal/internal/core/domain"
)

// AuthRepository defines the interface for identity persistence.
type AuthRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindParentsByLinkedIDs returns the parent accounts whose linked
	// identifier is in ids. A parent links either by the student's roll
	// number or by the parent-facing id, so callers must pass both forms.
	// Used to derive a mentor's chat contacts.
	FindParentsByLinkedIDs(ctx context.Context, ids []string) ([]*domain.User, error)
}
