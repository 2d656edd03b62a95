package directory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryDirectoryRegisterAndFind(t *testing.T) {
	dir := NewInMemoryDirectory()
	ctx := context.Background()

	user, err := dir.Register(context.Background(), "Alice@Example.com", "Alice", "s3cret-pass", []string{"recruiter"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	found, err := dir.FindByEmail(ctx, "ALICE@example.COM")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	found, err = dir.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, found.Email)

	_, err = dir.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = dir.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestInMemoryDirectoryVerifyPassword(t *testing.T) {
	dir := NewInMemoryDirectory()
	ctx := context.Background()

	user, err := dir.Register(context.Background(), "bob@example.com", "Bob", "correct-horse", nil)
	require.NoError(t, err)

	ok, err := dir.VerifyPassword(ctx, user.ID, "correct-horse")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = dir.VerifyPassword(ctx, user.ID, "wrong-horse")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = dir.VerifyPassword(ctx, uuid.New(), "anything")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
