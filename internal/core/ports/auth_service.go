package ports

import (
	"context"

	"github.com/mentorlink/attendance-portal/internal/core/domain"
)

// RegisterInput carries all data needed to create an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	// RollNo links a parent account to its student record. Required when
	// Role is "parent", ignored otherwise.
	RollNo string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
}
