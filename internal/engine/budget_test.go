package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/minaret/internal/alarm"
)

func TestRemainingSlotsEmptyQueue(t *testing.T) {
	gw := alarm.NewMemoryGateway()
	b := NewBudgetTracker(gw)

	got, err := b.RemainingSlots(context.Background())
	require.NoError(t, err)
	assert.Equal(t, globalAlarmCap-safetyBuffer, got)
}

func TestRemainingSlotsSubtractsPending(t *testing.T) {
	gw := alarm.NewMemoryGateway()
	gw.Preload(100)
	b := NewBudgetTracker(gw)

	got, err := b.RemainingSlots(context.Background())
	require.NoError(t, err)
	assert.Equal(t, globalAlarmCap-safetyBuffer-100, got)
}

func TestRemainingSlotsNeverNegative(t *testing.T) {
	gw := alarm.NewMemoryGateway()
	gw.Preload(globalAlarmCap + 50)
	b := NewBudgetTracker(gw)

	got, err := b.RemainingSlots(context.Background())
	require.NoError(t, err)
	assert.Zero(t, got)
}
