package alarm

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Nixie-Tech-LLC/minaret/internal/model"
)

// MemoryGateway is an in-process device agent. It backs tests and local
// development when no MQTT broker is configured, the same way the app falls
// back to local storage when object storage is absent.
type MemoryGateway struct {
	mu sync.Mutex

	// Granted controls whether permission requests succeed.
	Granted bool
	// Capacity caps the pending queue; Schedule returns ErrCapacityExhausted
	// beyond it. Zero means unlimited.
	Capacity int

	pending            map[string]PendingAlarm
	channels           map[model.ChannelID]ChannelDefinition
	permissionRequests int
	listCalls          int
}

var _ Gateway = (*MemoryGateway)(nil)

func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{
		Granted:  true,
		pending:  make(map[string]PendingAlarm),
		channels: make(map[model.ChannelID]ChannelDefinition),
	}
}

func (g *MemoryGateway) RequestPermission(_ context.Context, channels []ChannelDefinition) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.permissionRequests++
	if !g.Granted {
		return false, nil
	}
	for _, ch := range channels {
		g.channels[ch.ID] = ch
	}
	return true, nil
}

func (g *MemoryGateway) PendingAlarms(_ context.Context) ([]PendingAlarm, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listCalls++
	out := make([]PendingAlarm, 0, len(g.pending))
	for _, p := range g.pending {
		out = append(out, p)
	}
	return out, nil
}

func (g *MemoryGateway) Schedule(_ context.Context, content Content, triggerAt time.Time, channel model.ChannelID) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Capacity > 0 && len(g.pending) >= g.Capacity {
		return "", ErrCapacityExhausted
	}
	id := uuid.NewString()
	g.pending[id] = PendingAlarm{
		ID:        id,
		Family:    content.Family,
		Type:      content.Type,
		Title:     content.Title,
		Channel:   channel,
		TriggerAt: triggerAt.UnixMilli(),
	}
	return id, nil
}

func (g *MemoryGateway) Cancel(_ context.Context, alarmID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	// already gone counts as success
	delete(g.pending, alarmID)
	return nil
}

// Preload inserts n pending alarms owned by some other notification producer,
// for exercising budget headroom.
func (g *MemoryGateway) Preload(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := 0; i < n; i++ {
		id := uuid.NewString()
		g.pending[id] = PendingAlarm{ID: id, Title: "external"}
	}
}

// Pending returns a snapshot of the pending queue.
func (g *MemoryGateway) Pending() []PendingAlarm {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]PendingAlarm, 0, len(g.pending))
	for _, p := range g.pending {
		out = append(out, p)
	}
	return out
}

// PermissionRequests reports how many permission calls the device has seen.
func (g *MemoryGateway) PermissionRequests() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.permissionRequests
}

// ListCalls reports how many pending-alarm list calls the device has seen.
func (g *MemoryGateway) ListCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.listCalls
}

// DeclaredChannels returns the channel definitions the device has accepted.
func (g *MemoryGateway) DeclaredChannels() []ChannelDefinition {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]ChannelDefinition, 0, len(g.channels))
	for _, ch := range g.channels {
		out = append(out, ch)
	}
	return out
}
