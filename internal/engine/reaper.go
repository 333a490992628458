package engine

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minaret/internal/alarm"
	"github.com/Nixie-Tech-LLC/minaret/internal/model"
	"github.com/Nixie-Tech-LLC/minaret/internal/store"
)

func alarmRecordsKey(family model.Family) string {
	return "minaret:alarms:" + string(family)
}

// Reaper cancels a family's previously scheduled alarms before the family is
// rescheduled. It works from the persisted record batch first, then sweeps
// the device's pending queue with a content predicate to catch alarms whose
// ids were lost before persistence completed.
type Reaper struct {
	kv store.KV
	gw alarm.Gateway
}

func NewReaper(kv store.KV, gw alarm.Gateway) *Reaper {
	return &Reaper{kv: kv, gw: gw}
}

// Reap cancels everything belonging to family. Individual cancellation
// failures are logged and skipped; an alarm may already have fired or been
// cleared by the OS. Calling with nothing pending is a no-op.
func (r *Reaper) Reap(ctx context.Context, family model.Family, match func(alarm.PendingAlarm) bool) int {
	cancelled := 0

	var records []model.ScheduledAlarmRecord
	if err := store.GetJSON(ctx, r.kv, alarmRecordsKey(family), &records); err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Warn().Err(err).Str("family", string(family)).Msg("could not load persisted alarm records")
	}
	for _, rec := range records {
		if err := r.gw.Cancel(ctx, rec.AlarmID); err != nil {
			log.Warn().Err(err).Str("alarm_id", rec.AlarmID).Msg("cancel failed, alarm may have already fired")
			continue
		}
		cancelled++
	}

	pending, err := r.gw.PendingAlarms(ctx)
	if err != nil {
		log.Warn().Err(err).Str("family", string(family)).Msg("could not enumerate pending alarms for sweep")
		return cancelled
	}
	for _, p := range pending {
		if !match(p) {
			continue
		}
		if err := r.gw.Cancel(ctx, p.ID); err != nil {
			log.Warn().Err(err).Str("alarm_id", p.ID).Msg("sweep cancel failed")
			continue
		}
		cancelled++
	}
	return cancelled
}

// prayerAlarmMatcher matches by explicit family tag, falling back to the
// channel prefix for alarms placed before tags existed.
func prayerAlarmMatcher(p alarm.PendingAlarm) bool {
	if p.Family == model.FamilyPrayer {
		return true
	}
	return strings.HasPrefix(string(p.Channel), prayerChannelPrefix)
}

// importantDayAlarmMatcher matches by family tag, falling back to the type
// tags shared by both important-day alarm kinds.
func importantDayAlarmMatcher(p alarm.PendingAlarm) bool {
	if p.Family == model.FamilyImportantDay {
		return true
	}
	return p.Type == model.AlarmTypeReminder || p.Type == model.AlarmTypeImportantDay
}
