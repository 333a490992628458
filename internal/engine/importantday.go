package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minaret/internal/alarm"
	"github.com/Nixie-Tech-LLC/minaret/internal/model"
	"github.com/Nixie-Tech-LLC/minaret/internal/store"
)

const (
	reminderHour = 11 // day-before reminder, local time
	mainHour     = 8  // day-of announcement, local time
)

// ImportantDayScheduler owns the important-day alarm family: up to two alarms
// per resolved date, a day-before reminder and a day-of announcement.
type ImportantDayScheduler struct {
	kv     store.KV
	gw     alarm.Gateway
	budget *BudgetTracker
	reaper *Reaper
	now    func() time.Time
}

func NewImportantDayScheduler(kv store.KV, gw alarm.Gateway) *ImportantDayScheduler {
	return &ImportantDayScheduler{
		kv:     kv,
		gw:     gw,
		budget: NewBudgetTracker(gw),
		reaper: NewReaper(kv, gw),
		now:    time.Now,
	}
}

// Schedule reaps and re-places the important-day family for the given
// resolved dates. Dates not strictly in the future are skipped. A capacity
// error ends the loop early without failing the pass; already-placed alarms
// and their records survive.
func (s *ImportantDayScheduler) Schedule(ctx context.Context, days []model.ResolvedImportantDay) (bool, error) {
	granted, err := s.gw.RequestPermission(ctx, ChannelDefinitions())
	if err != nil {
		return false, err
	}
	if !granted {
		log.Info().Msg("notification permission denied, important-day scheduling skipped")
		return false, nil
	}
	if !LoadSettings(ctx, s.kv).ImportantDayEnabled {
		log.Info().Msg("important-day notifications disabled, scheduling skipped")
		return false, nil
	}

	s.reaper.Reap(ctx, model.FamilyImportantDay, importantDayAlarmMatcher)

	budget, err := s.budget.RemainingSlots(ctx)
	if err != nil {
		return false, err
	}

	now := s.now()
	var records []model.ScheduledAlarmRecord

placing:
	for _, day := range days {
		date := day.Date
		if !date.After(now) {
			continue
		}

		eve := date.AddDate(0, 0, -1)
		reminderAt := time.Date(eve.Year(), eve.Month(), eve.Day(), reminderHour, 0, 0, 0, date.Location())
		if reminderAt.After(now) {
			if budget == 0 {
				log.Warn().Int("placed", len(records)).Msg("alarm budget exhausted, stopping important-day scheduling")
				break placing
			}
			id, err := s.gw.Schedule(ctx, alarm.Content{
				Family:   model.FamilyImportantDay,
				Type:     model.AlarmTypeReminder,
				EventKey: day.Name,
				Title:    day.Name,
				Body:     fmt.Sprintf("Tomorrow is %s. %s", day.Name, day.Description),
				Icon:     day.Icon,
			}, reminderAt, ChannelImportantDay)
			switch {
			case errors.Is(err, alarm.ErrCapacityExhausted):
				log.Warn().Int("placed", len(records)).Msg("device reported alarm capacity exhausted, stopping important-day scheduling")
				break placing
			case err != nil:
				log.Error().Err(err).Str("day", day.Name).Msg("failed to place reminder alarm")
			default:
				budget--
				records = append(records, model.ScheduledAlarmRecord{
					EventKey:    day.Name,
					AlarmID:     id,
					ScheduledAt: reminderAt.UnixMilli(),
					Channel:     ChannelImportantDay,
				})
			}
		}

		mainAt := time.Date(date.Year(), date.Month(), date.Day(), mainHour, 0, 0, 0, date.Location())
		if mainAt.After(now) {
			if budget == 0 {
				log.Warn().Int("placed", len(records)).Msg("alarm budget exhausted, stopping important-day scheduling")
				break placing
			}
			id, err := s.gw.Schedule(ctx, alarm.Content{
				Family:   model.FamilyImportantDay,
				Type:     model.AlarmTypeImportantDay,
				EventKey: day.Name,
				Title:    day.Name,
				Body:     day.Description,
				Icon:     day.Icon,
			}, mainAt, ChannelImportantDay)
			switch {
			case errors.Is(err, alarm.ErrCapacityExhausted):
				log.Warn().Int("placed", len(records)).Msg("device reported alarm capacity exhausted, stopping important-day scheduling")
				break placing
			case err != nil:
				log.Error().Err(err).Str("day", day.Name).Msg("failed to place important-day alarm")
			default:
				budget--
				records = append(records, model.ScheduledAlarmRecord{
					EventKey:    day.Name,
					AlarmID:     id,
					ScheduledAt: mainAt.UnixMilli(),
					Channel:     ChannelImportantDay,
				})
			}
		}
	}

	if err := store.SetJSON(ctx, s.kv, alarmRecordsKey(model.FamilyImportantDay), records); err != nil {
		return false, fmt.Errorf("failed to persist important-day alarm records: %w", err)
	}
	log.Info().Int("alarms", len(records)).Msg("important-day family rescheduled")
	return true, nil
}
