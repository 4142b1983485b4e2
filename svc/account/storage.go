package account

import (
	"context"

	"github.com/google/uuid"
)

// Storage is the credential store. Lookups return an error matching
// ErrNotFound for missing users. CreateUser must enforce email and phone
// uniqueness itself and report violations as ErrDuplicateEmail or
// ErrDuplicatePhone.
type Storage interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByPhone(ctx context.Context, phone string) (*User, error)
	CreateUser(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	ListUsers(ctx context.Context) ([]*User, error)
}
