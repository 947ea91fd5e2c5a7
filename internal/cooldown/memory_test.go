package cooldown

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const window = 30 * time.Minute

func newTestLedger(t *testing.T) (*MemoryLedger, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
	return NewMemoryLedger(clock), clock
}

func TestMemoryLedgerAllowed(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown key is allowed", func(t *testing.T) {
		l, _ := newTestLedger(t)
		ok, err := l.Allowed(ctx, RainKey("Centro"), window)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("within cooldown is suppressed", func(t *testing.T) {
		l, clock := newTestLedger(t)
		require.NoError(t, l.Record(ctx, RainKey("Centro")))

		clock.Advance(29 * time.Minute)
		ok, err := l.Allowed(ctx, RainKey("Centro"), window)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("exactly at window is allowed", func(t *testing.T) {
		l, clock := newTestLedger(t)
		require.NoError(t, l.Record(ctx, RainKey("Centro")))

		clock.Advance(30 * time.Minute)
		ok, err := l.Allowed(ctx, RainKey("Centro"), window)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("keys are independent", func(t *testing.T) {
		l, _ := newTestLedger(t)
		require.NoError(t, l.Record(ctx, RainKey("Centro")))

		ok, err := l.Allowed(ctx, RainKey("Polanco"), window)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = l.Allowed(ctx, VehicleKey("unit-001"), window)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("record resets the clock", func(t *testing.T) {
		l, clock := newTestLedger(t)
		require.NoError(t, l.Record(ctx, RainKey("Centro")))

		clock.Advance(31 * time.Minute)
		require.NoError(t, l.Record(ctx, RainKey("Centro")))

		clock.Advance(10 * time.Minute)
		ok, err := l.Allowed(ctx, RainKey("Centro"), window)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestMemoryLedgerSweep(t *testing.T) {
	ctx := context.Background()
	l, clock := newTestLedger(t)

	// Seed maxWindow via a check, then record entries that will go stale.
	_, err := l.Allowed(ctx, "seed", window)
	require.NoError(t, err)
	require.NoError(t, l.Record(ctx, "stale-1"))
	require.NoError(t, l.Record(ctx, "stale-2"))
	assert.Equal(t, 2, l.Len())

	// Past the sweep interval but not yet stale: nothing is evicted.
	clock.Advance(5 * window)
	require.NoError(t, l.Record(ctx, "fresh-1"))
	assert.Equal(t, 3, l.Len())

	// Well past: the next record sweeps the stale pair.
	clock.Advance(6 * window)
	require.NoError(t, l.Record(ctx, "fresh-2"))
	assert.Equal(t, 2, l.Len())

	ok, err := l.Allowed(ctx, "stale-1", window)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLockKeySerializes(t *testing.T) {
	l, _ := newTestLedger(t)

	var inSection int32
	var maxSeen int32
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.LockKey("Centro_rain")
			defer unlock()

			mu.Lock()
			inSection++
			if inSection > maxSeen {
				maxSeen = inSection
			}
			mu.Unlock()

			mu.Lock()
			inSection--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxSeen)
}

func TestKeyDerivation(t *testing.T) {
	assert.Equal(t, "Centro_rain", RainKey("Centro"))
	assert.Equal(t, "unit-001_vehicle", VehicleKey("unit-001"))
}
