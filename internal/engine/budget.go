package engine

import (
	"context"

	"github.com/Nixie-Tech-LLC/minaret/internal/alarm"
)

const (
	// globalAlarmCap is the OS-documented per-app ceiling on pending alarms.
	globalAlarmCap = 500
	// safetyBuffer is headroom reserved for other notification producers in
	// the host app.
	safetyBuffer = 25
)

// BudgetTracker computes how many more alarms may be placed right now. It is
// consulted once per scheduling pass; the pass decrements its own copy
// in-memory as alarms go out.
type BudgetTracker struct {
	gw alarm.Gateway
}

func NewBudgetTracker(gw alarm.Gateway) *BudgetTracker {
	return &BudgetTracker{gw: gw}
}

// RemainingSlots snapshots the pending queue and returns the headroom under
// the cap, never negative.
func (b *BudgetTracker) RemainingSlots(ctx context.Context) (int, error) {
	pending, err := b.gw.PendingAlarms(ctx)
	if err != nil {
		return 0, err
	}
	remaining := globalAlarmCap - safetyBuffer - len(pending)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
