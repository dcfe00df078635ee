package domain

import (
	"errors"
	"time"
)

const (
	RoleMentor = "mentor"
	RoleParent = "parent"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrValidation = errors.New("invalid input")

// User models an authenticated actor: a mentor who owns student records, or a
// parent linked to exactly one student record by roll number.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	RollNo       string    `json:"roll_no,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsValidRole reports whether role is one of the two supported roles.
func IsValidRole(role string) bool {
	return role == RoleMentor || role == RoleParent
}
