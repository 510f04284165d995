package user

import (
	"context"
	"sync"
	"time"

	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InMemUserRepository implements UserRepository using an in-memory map.
// It enforces the same username/email uniqueness the store's indexes do,
// which makes it a faithful stand-in for tests.
type InMemUserRepository struct {
	users map[primitive.ObjectID]User
	mu    sync.Mutex
}

// NewInMemUserRepository creates a new in-memory user repository
func NewInMemUserRepository() *InMemUserRepository {
	return &InMemUserRepository{
		users: make(map[primitive.ObjectID]User),
	}
}

func clone(u User) *User {
	var cp User
	_ = copier.Copy(&cp, &u)
	return &cp
}

func (r *InMemUserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			return clone(u), nil
		}
	}
	return nil, ErrNotFound
}

func (r *InMemUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == username {
			return clone(u), nil
		}
	}
	return nil, ErrNotFound
}

func (r *InMemUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return nil, ErrNotFound
}

func (r *InMemUserRepository) Insert(ctx context.Context, u *User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == u.Username {
			return primitive.NilObjectID, DuplicateError{Field: "username"}
		}
		if existing.Email == u.Email {
			return primitive.NilObjectID, DuplicateError{Field: "email"}
		}
	}

	rec := *u
	if rec.ID.IsZero() {
		rec.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	r.users[rec.ID] = rec
	return rec.ID, nil
}

func (r *InMemUserRepository) MarkVerified(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	u.IsVerified = true
	u.UpdatedAt = time.Now().UTC()
	r.users[id] = u
	return nil
}
