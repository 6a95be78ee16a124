package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/hapkiduki/freight-go/internal/domain/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackingReservation_Key(t *testing.T) {
	r := NewTrackingReservation(Options{Addr: "localhost:0"})
	defer r.Close()

	assert.Equal(t, "freight:tracking:WW123456782", r.key("WW123456782"))
}

// Requires a running Redis; set FREIGHT_TEST_REDIS_ADDR to enable.
func TestTrackingReservation_ReserveRelease(t *testing.T) {
	addr := os.Getenv("FREIGHT_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("FREIGHT_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	r := NewTrackingReservation(Options{Addr: addr, Namespace: "freight-test"})
	defer r.Close()
	require.NoError(t, r.Ping(ctx))

	tn, err := valueobject.NewTrackingNumber("12345678")
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Release(ctx, tn) })

	ok, err := r.Reserve(ctx, tn, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.Reserve(ctx, tn, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Release(ctx, tn))

	ok, err = r.Reserve(ctx, tn, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
