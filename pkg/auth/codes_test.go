package auth_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/approuter/pkg/auth"
	"github.com/dmitrymomot/approuter/pkg/cache"
)

func newCodeStore(t *testing.T) *auth.CodeStore {
	t.Helper()
	c := cache.NewMemory[string]()
	t.Cleanup(func() { _ = c.Close() })
	return auth.NewCodeStore(c, time.Minute)
}

func TestCodeStore_SingleUse(t *testing.T) {
	t.Parallel()

	store := newCodeStore(t)
	ctx := context.Background()

	code, err := store.Issue(ctx, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, code)

	user, err := store.Redeem(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, "alice", user)

	_, err = store.Redeem(ctx, code)
	require.ErrorIs(t, err, auth.ErrCodeNotFound)
}

func TestCodeStore_ConcurrentRedeem(t *testing.T) {
	t.Parallel()

	store := newCodeStore(t)
	ctx := context.Background()

	code, err := store.Issue(ctx, "alice")
	require.NoError(t, err)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Redeem(ctx, code); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestCodeStore_Issue(t *testing.T) {
	t.Parallel()

	store := newCodeStore(t)
	ctx := context.Background()

	_, err := store.Issue(ctx, "")
	require.ErrorIs(t, err, auth.ErrNotAuthenticated)

	a, err := store.Issue(ctx, "bob")
	require.NoError(t, err)
	b, err := store.Issue(ctx, "bob")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestCodeStore_Expiry(t *testing.T) {
	t.Parallel()

	c := cache.NewMemory[string]()
	t.Cleanup(func() { _ = c.Close() })
	store := auth.NewCodeStore(c, 20*time.Millisecond)
	ctx := context.Background()

	code, err := store.Issue(ctx, "bob")
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	_, err = store.Redeem(ctx, code)
	require.ErrorIs(t, err, auth.ErrCodeNotFound)
}

func TestNewBasicAuthenticator_RejectsMalformedHash(t *testing.T) {
	t.Parallel()

	_, err := auth.NewBasicAuthenticator(map[string]string{"carol": "plaintext"})
	require.ErrorIs(t, err, auth.ErrInvalidPasswordHash)
}
