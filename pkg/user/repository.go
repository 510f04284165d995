package user

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when no user matches the lookup
var ErrNotFound = errors.New("user not found")

// DuplicateError reports a uniqueness violation on insert, naming the
// field that already exists.
type DuplicateError struct {
	Field string
}

func (e DuplicateError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}

// UserRepository owns all mutation of user records. Uniqueness of
// username and email is ultimately enforced by the store's unique
// indexes, not by application-level locks: Insert can fail with
// DuplicateError even after a clean existence check.
type UserRepository interface {
	// FindByUsernameOrEmail checks both identity fields in one lookup
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Insert stores a new record and returns its generated id
	Insert(ctx context.Context, u *User) (primitive.ObjectID, error)

	// MarkVerified sets isVerified and refreshes updatedAt; idempotent
	MarkVerified(ctx context.Context, id primitive.ObjectID) error
}
