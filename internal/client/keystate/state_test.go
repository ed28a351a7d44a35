package keystate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_StartsUnset(t *testing.T) {
	s := New()
	k, ok := s.Get()
	assert.False(t, ok)
	assert.Empty(t, k)
	assert.False(t, s.IsSet())
}

func TestCommit_SetThenUnset(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Commit(ctx, "H", nil))
	k, ok := s.Get()
	assert.True(t, ok)
	assert.Equal(t, HashedKey("H"), k)

	require.NoError(t, s.Commit(ctx, "", nil))
	assert.False(t, s.IsSet())
}

func TestCommit_PersistFailureLeavesStateUnchanged(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Commit(ctx, "old", nil))

	boom := errors.New("disk full")
	err := s.Commit(ctx, "new", func(context.Context) error { return boom })
	require.ErrorIs(t, err, boom)

	k, _ := s.Get()
	assert.Equal(t, HashedKey("old"), k)
}

func TestCommit_ReadersBlockWhilePersisting(t *testing.T) {
	s := New()
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		_ = s.Commit(ctx, "H", func(context.Context) error {
			close(entered)
			<-release
			return nil
		})
	}()

	<-entered

	got := make(chan HashedKey, 1)
	go func() {
		k, _ := s.Get()
		got <- k
	}()

	select {
	case k := <-got:
		t.Fatalf("reader observed %q while storage write was in flight", k)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	<-done
	assert.Equal(t, HashedKey("H"), <-got)
}

func TestSubscribe_NotifiedOnChangeOnly(t *testing.T) {
	s := New()
	ctx := context.Background()

	var mu sync.Mutex
	var seen []HashedKey
	unsubscribe := s.Subscribe(func(k HashedKey) {
		// subscribers may read the state without deadlocking
		cur, _ := s.Get()
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, cur)
	})

	require.NoError(t, s.Commit(ctx, "A", nil))
	require.NoError(t, s.Commit(ctx, "A", nil))
	require.NoError(t, s.Commit(ctx, "", nil))

	unsubscribe()
	require.NoError(t, s.Commit(ctx, "B", nil))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []HashedKey{"A", ""}, seen)
}

func TestSubscribe_NotCalledWhenPersistFails(t *testing.T) {
	s := New()
	called := false
	s.Subscribe(func(HashedKey) { called = true })

	_ = s.Commit(context.Background(), "A", func(context.Context) error { return errors.New("x") })
	assert.False(t, called)
}
