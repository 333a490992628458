package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/minaret/internal/alarm"
	"github.com/Nixie-Tech-LLC/minaret/internal/model"
	"github.com/Nixie-Tech-LLC/minaret/internal/store"
)

// 06:00 local on an arbitrary fixed day
func fixedNow() time.Time {
	return time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)
}

func testPrayerTimes() map[string]string {
	return map[string]string{
		"Fajr":    "05:10",
		"Dhuhr":   "12:30",
		"Asr":     "15:45",
		"Maghrib": "18:20",
		"Isha":    "19:50",
	}
}

func newPrayerFixture() (*PrayerScheduler, *alarm.MemoryGateway, store.KV) {
	gw := alarm.NewMemoryGateway()
	kv := store.NewMemory()
	s := NewPrayerScheduler(kv, gw)
	s.now = fixedNow
	return s, gw, kv
}

func TestPrayerScheduleThirtyDayHorizon(t *testing.T) {
	s, gw, kv := newPrayerFixture()

	ok, err := s.Schedule(context.Background(), testPrayerTimes(), true, true)
	require.NoError(t, err)
	assert.True(t, ok)

	// Fajr's today occurrence (05:10) is already past at 06:00, so 29 days
	// of Fajr plus 30 of each other prayer.
	assert.Len(t, gw.Pending(), 149)

	var records []model.ScheduledAlarmRecord
	require.NoError(t, store.GetJSON(context.Background(), kv, alarmRecordsKey(model.FamilyPrayer), &records))
	assert.Len(t, records, 149)
	for _, rec := range records {
		assert.Equal(t, ChannelPrayerFull, rec.Channel)
		assert.Greater(t, rec.ScheduledAt, fixedNow().UnixMilli())
	}
}

func TestPrayerScheduleIdempotent(t *testing.T) {
	s, gw, _ := newPrayerFixture()

	_, err := s.Schedule(context.Background(), testPrayerTimes(), true, false)
	require.NoError(t, err)
	first := len(gw.Pending())

	ok, err := s.Schedule(context.Background(), testPrayerTimes(), true, false)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, gw.Pending(), first, "rescheduling must replace, not accumulate")
}

func TestPrayerScheduleStopsAtBudget(t *testing.T) {
	s, gw, kv := newPrayerFixture()
	gw.Preload(globalAlarmCap - safetyBuffer - 1)

	ok, err := s.Schedule(context.Background(), testPrayerTimes(), true, true)
	require.NoError(t, err)
	assert.True(t, ok, "partial success is success")

	placed := 0
	for _, p := range gw.Pending() {
		if p.Family == model.FamilyPrayer {
			placed++
		}
	}
	assert.Equal(t, 1, placed)

	var records []model.ScheduledAlarmRecord
	require.NoError(t, store.GetJSON(context.Background(), kv, alarmRecordsKey(model.FamilyPrayer), &records))
	assert.Len(t, records, 1)
}

func TestPrayerScheduleStopsOnDeviceCapacity(t *testing.T) {
	s, gw, kv := newPrayerFixture()
	gw.Capacity = 7

	ok, err := s.Schedule(context.Background(), testPrayerTimes(), true, true)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, gw.Pending(), 7)

	var records []model.ScheduledAlarmRecord
	require.NoError(t, store.GetJSON(context.Background(), kv, alarmRecordsKey(model.FamilyPrayer), &records))
	assert.Len(t, records, 7, "alarms placed before the capacity error must survive")
}

func TestPrayerSchedulePermissionDenied(t *testing.T) {
	s, gw, _ := newPrayerFixture()
	gw.Granted = false

	ok, err := s.Schedule(context.Background(), testPrayerTimes(), true, true)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, gw.Pending())
}

func TestPrayerScheduleDisabled(t *testing.T) {
	s, gw, kv := newPrayerFixture()
	settings := model.DefaultSettings()
	settings.PrayerEnabled = false
	require.NoError(t, SaveSettings(context.Background(), kv, settings))

	ok, err := s.Schedule(context.Background(), testPrayerTimes(), true, true)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, gw.Pending())
}

func TestPrayerScheduleSkipsMalformedTime(t *testing.T) {
	s, gw, _ := newPrayerFixture()
	timings := testPrayerTimes()
	timings["Fajr"] = "not-a-time"

	ok, err := s.Schedule(context.Background(), timings, true, true)
	require.NoError(t, err)
	assert.True(t, ok)
	// the other four prayers schedule their full horizon
	assert.Len(t, gw.Pending(), 120)
}

func TestPrayerScheduleDeclaresChannels(t *testing.T) {
	s, gw, _ := newPrayerFixture()

	_, err := s.Schedule(context.Background(), testPrayerTimes(), false, true)
	require.NoError(t, err)
	assert.Len(t, gw.DeclaredChannels(), 5)
}
