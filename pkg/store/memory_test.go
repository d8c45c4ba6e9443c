package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_WindowBounds(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// One event exactly at the window's lower bound, one inside, one at now.
	require.NoError(t, st.Record(ctx, "k", base))
	require.NoError(t, st.Record(ctx, "k", base.Add(5*time.Second)))
	require.NoError(t, st.Record(ctx, "k", base.Add(10*time.Second)))

	count, err := st.CountWithin(ctx, "k", 10*time.Second, base.Add(10*time.Second))
	require.NoError(t, err)

	// Lower bound is exclusive, upper inclusive: the event at base falls out.
	assert.Equal(t, int64(2), count)
}

func TestMemoryStore_FutureEventsExcluded(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, st.Record(ctx, "k", base.Add(time.Minute)))

	count, err := st.CountWithin(ctx, "k", time.Hour, base)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMemoryStore_KeyIsolation(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, st.Record(ctx, "a", now))
	require.NoError(t, st.Record(ctx, "a", now))
	require.NoError(t, st.Record(ctx, "b", now))

	countA, err := st.CountWithin(ctx, "a", time.Minute, now)
	require.NoError(t, err)
	countB, err := st.CountWithin(ctx, "b", time.Minute, now)
	require.NoError(t, err)

	assert.Equal(t, int64(2), countA)
	assert.Equal(t, int64(1), countB)
}

func TestMemoryStore_RetentionPrunesOldEvents(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore(WithMemoryRetention(time.Minute))
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, st.Record(ctx, "k", base))
	require.NoError(t, st.Record(ctx, "k", base.Add(2*time.Minute)))

	// The first event is beyond retention by the time of the second write,
	// so even a generous window no longer sees it.
	count, err := st.CountWithin(ctx, "k", time.Hour, base.Add(2*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMemoryStore_ContextCanceled(t *testing.T) {
	st := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := st.Record(ctx, "k", time.Now())
	assert.ErrorIs(t, err, context.Canceled)

	_, err = st.CountWithin(ctx, "k", time.Minute, time.Now())
	assert.ErrorIs(t, err, context.Canceled)
}

// Race test
func TestMemoryStore_ConcurrentRecords(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	now := time.Now()

	var wg sync.WaitGroup
	wg.Add(100)
	for i := 0; i < 100; i++ {
		go func() {
			defer wg.Done()
			_ = st.Record(ctx, "k", now)
		}()
	}
	wg.Wait()

	count, err := st.CountWithin(ctx, "k", time.Minute, now)
	require.NoError(t, err)
	assert.Equal(t, int64(100), count)
}

func BenchmarkMemoryStore_Record(b *testing.B) {
	ctx := context.Background()
	st := NewMemoryStore()
	now := time.Now()

	for i := 0; i < b.N; i++ {
		_ = st.Record(ctx, "bench", now)
	}
}
