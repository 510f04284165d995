package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newUser(username, email string) *User {
	return &User{
		Username:  username,
		Email:     email,
		Password:  "$2a$04$notarealbcrypthashvalue",
		OTPSecret: "JBSWY3DPEHPK3PXP",
	}
}

func TestInsertAndFind(t *testing.T) {
	repo := NewInMemUserRepository()
	ctx := context.Background()

	id, err := repo.Insert(ctx, newUser("alice", "alice@example.com"))
	require.NoError(t, err)
	assert.False(t, id.IsZero())

	byUsername, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, id, byUsername.ID)
	assert.False(t, byUsername.CreatedAt.IsZero())

	byEmail, err := repo.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, byEmail.ID)
}

func TestFind_NotFound(t *testing.T) {
	repo := NewInMemUserRepository()
	ctx := context.Background()

	_, err := repo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.FindByUsernameOrEmail(ctx, "nobody", "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindByUsernameOrEmail(t *testing.T) {
	repo := NewInMemUserRepository()
	ctx := context.Background()

	_, err := repo.Insert(ctx, newUser("bob", "bob@example.com"))
	require.NoError(t, err)

	// Match on username alone.
	u, err := repo.FindByUsernameOrEmail(ctx, "bob", "other@example.com")
	require.NoError(t, err)
	assert.Equal(t, "bob", u.Username)

	// Match on email alone.
	u, err = repo.FindByUsernameOrEmail(ctx, "other", "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "bob", u.Username)
}

func TestInsert_DuplicateUsername(t *testing.T) {
	repo := NewInMemUserRepository()
	ctx := context.Background()

	_, err := repo.Insert(ctx, newUser("carol", "carol@example.com"))
	require.NoError(t, err)

	_, err = repo.Insert(ctx, newUser("carol", "other@example.com"))
	require.Error(t, err)

	var dup DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "username", dup.Field)
}

func TestInsert_DuplicateEmail(t *testing.T) {
	repo := NewInMemUserRepository()
	ctx := context.Background()

	_, err := repo.Insert(ctx, newUser("dave", "dave@example.com"))
	require.NoError(t, err)

	_, err = repo.Insert(ctx, newUser("dave2", "dave@example.com"))
	require.Error(t, err)

	var dup DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "email", dup.Field)
}

func TestMarkVerified(t *testing.T) {
	repo := NewInMemUserRepository()
	ctx := context.Background()

	id, err := repo.Insert(ctx, newUser("eve", "eve@example.com"))
	require.NoError(t, err)

	require.NoError(t, repo.MarkVerified(ctx, id))

	u, err := repo.FindByUsername(ctx, "eve")
	require.NoError(t, err)
	assert.True(t, u.IsVerified)

	// Marking twice is a no-op, not an error.
	require.NoError(t, repo.MarkVerified(ctx, id))
}

func TestMarkVerified_UnknownID(t *testing.T) {
	repo := NewInMemUserRepository()

	err := repo.MarkVerified(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindReturnsCopy(t *testing.T) {
	repo := NewInMemUserRepository()
	ctx := context.Background()

	_, err := repo.Insert(ctx, newUser("frank", "frank@example.com"))
	require.NoError(t, err)

	u, err := repo.FindByUsername(ctx, "frank")
	require.NoError(t, err)
	u.Username = "mallory"

	again, err := repo.FindByUsername(ctx, "frank")
	require.NoError(t, err)
	assert.Equal(t, "frank", again.Username, "callers must not be able to mutate stored records")
}

func TestToApiUser(t *testing.T) {
	u := newUser("grace", "grace@example.com")
	u.ID = primitive.NewObjectID()

	apiUser := u.ToApiUser()
	assert.Equal(t, u.ID.Hex(), apiUser.ID)
	assert.Equal(t, "grace", apiUser.Username)
	assert.Equal(t, "grace@example.com", apiUser.Email)
}
