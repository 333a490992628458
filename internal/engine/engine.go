// Package engine is the notification scheduling and renewal engine: it
// decides which alarms exist on the device, keeps them fresh, and maintains
// the in-app notification history.
package engine

import (
	"context"
	"time"

	"github.com/Nixie-Tech-LLC/minaret/internal/alarm"
	"github.com/Nixie-Tech-LLC/minaret/internal/model"
	"github.com/Nixie-Tech-LLC/minaret/internal/store"
)

// Engine bundles the scheduling components around one KV store and one
// device gateway.
type Engine struct {
	KV            store.KV
	Gateway       alarm.Gateway
	Prayers       *PrayerScheduler
	ImportantDays *ImportantDayScheduler
	Renewal       *Coordinator
	Mirror        *Mirror
}

func New(kv store.KV, gw alarm.Gateway) *Engine {
	prayers := NewPrayerScheduler(kv, gw)
	return &Engine{
		KV:            kv,
		Gateway:       gw,
		Prayers:       prayers,
		ImportantDays: NewImportantDayScheduler(kv, gw),
		Renewal:       NewCoordinator(kv, prayers),
		Mirror:        NewMirror(kv),
	}
}

// ClearFamily cancels every pending alarm of a family and drops its persisted
// record batch. Used when the user disables a family outright.
func (e *Engine) ClearFamily(ctx context.Context, family model.Family) int {
	reaper := NewReaper(e.KV, e.Gateway)
	match := prayerAlarmMatcher
	if family == model.FamilyImportantDay {
		match = importantDayAlarmMatcher
	}
	cancelled := reaper.Reap(ctx, family, match)
	if err := e.KV.Remove(ctx, alarmRecordsKey(family)); err != nil {
		return cancelled
	}
	return cancelled
}

// SetClock replaces the wall clock of every component. Tests use it to pin
// time; production code never calls it.
func (e *Engine) SetClock(now func() time.Time) {
	e.Prayers.now = now
	e.ImportantDays.now = now
	e.Renewal.now = now
	e.Mirror.now = now
}
