package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDraftRepository(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryDraftRepository()

	_, err := r.Load(ctx, "jane@example.com")
	require.ErrorIs(t, err, ErrNoDraft)

	require.NoError(t, r.Save(ctx, "jane@example.com", []byte(`{"v":1}`)))
	b, err := r.Load(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"v":1}`), b)

	// Drafts are keyed per email.
	_, err = r.Load(ctx, "other@example.com")
	require.ErrorIs(t, err, ErrNoDraft)

	// Mutating a loaded copy must not leak back into the store.
	b[0] = 'X'
	again, err := r.Load(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"v":1}`), again)

	require.NoError(t, r.Clear(ctx, "jane@example.com"))
	_, err = r.Load(ctx, "jane@example.com")
	require.ErrorIs(t, err, ErrNoDraft)

	// Clearing twice is a no-op, not an error.
	require.NoError(t, r.Clear(ctx, "jane@example.com"))
}
