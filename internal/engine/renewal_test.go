package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/minaret/internal/alarm"
	"github.com/Nixie-Tech-LLC/minaret/internal/model"
	"github.com/Nixie-Tech-LLC/minaret/internal/store"
)

func newCoordinatorFixture() (*Coordinator, *alarm.MemoryGateway, store.KV) {
	gw := alarm.NewMemoryGateway()
	kv := store.NewMemory()
	prayers := NewPrayerScheduler(kv, gw)
	prayers.now = fixedNow
	c := NewCoordinator(kv, prayers)
	c.now = fixedNow
	return c, gw, kv
}

func writeRenewalState(t *testing.T, kv store.KV, last time.Time) {
	t.Helper()
	state := model.RenewalState{LastRenewalEpochMillis: last.UnixMilli()}
	require.NoError(t, store.SetJSON(context.Background(), kv, renewalKey, state))
}

func TestEnsureFreshWithinIntervalIsNoOp(t *testing.T) {
	c, gw, kv := newCoordinatorFixture()
	writeRenewalState(t, kv, fixedNow().Add(-13*24*time.Hour))

	ok, err := c.EnsureFresh(context.Background(), testPrayerTimes())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, gw.PermissionRequests(), "a fresh state must not touch the device")
	assert.Zero(t, gw.ListCalls())
}

func TestEnsureFreshPastIntervalRenews(t *testing.T) {
	c, gw, kv := newCoordinatorFixture()
	writeRenewalState(t, kv, fixedNow().Add(-15*24*time.Hour))

	ok, err := c.EnsureFresh(context.Background(), testPrayerTimes())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, gw.PermissionRequests())
	assert.Len(t, gw.Pending(), 149)

	status, err := c.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Due)
	assert.Equal(t, fixedNow().UnixMilli(), status.LastRenewal.UnixMilli())
}

func TestEnsureFreshUninitializedRenewsImmediately(t *testing.T) {
	c, gw, _ := newCoordinatorFixture()

	ok, err := c.EnsureFresh(context.Background(), testPrayerTimes())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEmpty(t, gw.Pending())
}

func TestEnsureFreshFailureStaysDue(t *testing.T) {
	c, gw, _ := newCoordinatorFixture()
	gw.Granted = false

	ok, err := c.EnsureFresh(context.Background(), testPrayerTimes())
	require.NoError(t, err)
	assert.False(t, ok)

	status, err := c.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Due, "a failed renewal must stay due and retry later")
}

// gatedGateway holds permission requests until the gate opens, so overlapping
// renewals can be forced to overlap deterministically.
type gatedGateway struct {
	*alarm.MemoryGateway
	gate chan struct{}
}

func (g *gatedGateway) RequestPermission(ctx context.Context, channels []alarm.ChannelDefinition) (bool, error) {
	<-g.gate
	return g.MemoryGateway.RequestPermission(ctx, channels)
}

func TestConcurrentRenewalsShareOnePass(t *testing.T) {
	gw := &gatedGateway{MemoryGateway: alarm.NewMemoryGateway(), gate: make(chan struct{})}
	kv := store.NewMemory()
	prayers := NewPrayerScheduler(kv, gw)
	prayers.now = fixedNow
	c := NewCoordinator(kv, prayers)
	c.now = fixedNow

	var wg sync.WaitGroup
	results := make([]bool, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := c.ForceRenew(context.Background(), testPrayerTimes())
			assert.NoError(t, err)
			results[i] = ok
		}(i)
	}

	// let both callers reach the single-flight group before opening the gate
	time.Sleep(50 * time.Millisecond)
	close(gw.gate)
	wg.Wait()

	assert.True(t, results[0])
	assert.True(t, results[1])
	assert.Equal(t, 1, gw.PermissionRequests(), "overlapping callers must share one scheduling pass")
	assert.Len(t, gw.Pending(), 149)
}
