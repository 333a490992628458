package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minaret/internal/alarm"
	"github.com/Nixie-Tech-LLC/minaret/internal/model"
	"github.com/Nixie-Tech-LLC/minaret/internal/store"
)

// horizonDays is how far ahead each prayer is expanded into per-day alarms.
const horizonDays = 30

// PrayerScheduler owns the prayer alarm family: five daily prayers expanded
// over the horizon, bounded by the budget snapshot taken at the start of the
// pass. Not safe for concurrent invocation; the Coordinator single-flights it.
type PrayerScheduler struct {
	kv     store.KV
	gw     alarm.Gateway
	budget *BudgetTracker
	reaper *Reaper
	now    func() time.Time
}

func NewPrayerScheduler(kv store.KV, gw alarm.Gateway) *PrayerScheduler {
	return &PrayerScheduler{
		kv:     kv,
		gw:     gw,
		budget: NewBudgetTracker(gw),
		reaper: NewReaper(kv, gw),
		now:    time.Now,
	}
}

// Schedule reaps and re-places the prayer family. timesByKey maps the
// provider's keys (Fajr..Isha) to "HH:MM" local time strings for today.
//
// Returns false with a nil error for policy refusals (permission denied,
// family disabled). Running out of budget or capacity mid-loop is not a
// failure: everything already placed is kept and persisted.
func (s *PrayerScheduler) Schedule(ctx context.Context, timesByKey map[string]string, soundEnabled, vibrationEnabled bool) (bool, error) {
	granted, err := s.gw.RequestPermission(ctx, ChannelDefinitions())
	if err != nil {
		return false, err
	}
	if !granted {
		log.Info().Msg("notification permission denied, prayer scheduling skipped")
		return false, nil
	}
	if !LoadSettings(ctx, s.kv).PrayerEnabled {
		log.Info().Msg("prayer notifications disabled, scheduling skipped")
		return false, nil
	}

	channel := ResolveChannel(soundEnabled, vibrationEnabled)
	s.reaper.Reap(ctx, model.FamilyPrayer, prayerAlarmMatcher)

	budget, err := s.budget.RemainingSlots(ctx)
	if err != nil {
		return false, err
	}

	now := s.now()
	records := make([]model.ScheduledAlarmRecord, 0, horizonDays*5)

placing:
	for _, tpl := range model.PrayerTemplates() {
		raw, ok := timesByKey[tpl.TimeKey]
		if !ok {
			log.Warn().Str("prayer", tpl.Name).Msg("no time provided for prayer, skipping")
			continue
		}
		hour, minute, err := parseClock(raw)
		if err != nil {
			log.Warn().Err(err).Str("prayer", tpl.Name).Str("time", raw).Msg("unparseable prayer time, skipping")
			continue
		}

		for offset := 0; offset < horizonDays; offset++ {
			day := now.AddDate(0, 0, offset)
			trigger := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location())
			if !trigger.After(now) {
				continue
			}
			if budget == 0 {
				log.Warn().Int("placed", len(records)).Msg("alarm budget exhausted, stopping prayer scheduling")
				break placing
			}

			id, err := s.gw.Schedule(ctx, alarm.Content{
				Family:   model.FamilyPrayer,
				Type:     model.AlarmTypePrayer,
				EventKey: tpl.TimeKey,
				Title:    tpl.Name,
				Body:     fmt.Sprintf("It is time for %s (%s)", tpl.Name, raw),
				Icon:     tpl.Icon,
			}, trigger, channel)
			if err != nil {
				if errors.Is(err, alarm.ErrCapacityExhausted) {
					log.Warn().Int("placed", len(records)).Msg("device reported alarm capacity exhausted, stopping prayer scheduling")
					break placing
				}
				log.Error().Err(err).Str("prayer", tpl.Name).Time("trigger", trigger).Msg("failed to place prayer alarm")
				continue
			}
			budget--
			records = append(records, model.ScheduledAlarmRecord{
				EventKey:    tpl.TimeKey,
				AlarmID:     id,
				ScheduledAt: trigger.UnixMilli(),
				Channel:     channel,
			})
		}
	}

	if err := store.SetJSON(ctx, s.kv, alarmRecordsKey(model.FamilyPrayer), records); err != nil {
		return false, fmt.Errorf("failed to persist prayer alarm records: %w", err)
	}
	log.Info().Int("alarms", len(records)).Str("channel", string(channel)).Msg("prayer family rescheduled")
	return true, nil
}

// parseClock parses an "HH:MM" 24-hour time string.
func parseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}
