package user

import (
	"time"

	"waste-platform/internal/rbac"
)

// User is an identity with a single immutable role. Users are created at
// registration and never deleted in scope.
type User struct {
	ID    string    `json:"id" db:"id"`
	Email string    `json:"email" db:"email"`
	Name  string    `json:"name" db:"name"`
	Role  rbac.Role `json:"role" db:"role"`
	Phone string    `json:"phone,omitempty" db:"phone"`

	// PasswordHash is a bcrypt hash; never serialized.
	PasswordHash string `json:"-" db:"password_hash"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Worker is the directory entry agents see when assigning work.
type Worker struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}
