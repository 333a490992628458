package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minaret/internal/alarm"
	"github.com/Nixie-Tech-LLC/minaret/internal/model"
	"github.com/Nixie-Tech-LLC/minaret/internal/store"
)

const (
	inboxKey = "minaret:inbox"
	inboxCap = 15
)

// Mirror keeps the in-app notification history. It is driven purely by
// wall-clock comparison against the known schedule, so it stays correct even
// when the OS silently drops an alarm, plus a listener path for device push
// events. Entries are deduplicated per day by (type, title) and the list is
// capped; older entries fall off silently.
type Mirror struct {
	mu  sync.Mutex
	kv  store.KV
	now func() time.Time
}

func NewMirror(kv store.KV) *Mirror {
	return &Mirror{kv: kv, now: time.Now}
}

// Sync appends an entry for every prayer whose today's time has elapsed and
// every important-day reminder/announcement falling on today that has
// elapsed. Idempotent under repeated calls on the same day.
func (m *Mirror) Sync(ctx context.Context, timesByKey map[string]string, days []model.ResolvedImportantDay) {
	now := m.now()
	var fresh []model.InAppNotificationEntry

	for _, tpl := range model.PrayerTemplates() {
		raw, ok := timesByKey[tpl.TimeKey]
		if !ok {
			continue
		}
		hour, minute, err := parseClock(raw)
		if err != nil {
			continue
		}
		at := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		if at.After(now) {
			continue
		}
		fresh = append(fresh, model.InAppNotificationEntry{
			Title:     tpl.Name,
			Body:      fmt.Sprintf("It is time for %s (%s)", tpl.Name, raw),
			Type:      model.AlarmTypePrayer,
			Timestamp: at,
		})
	}

	for _, day := range days {
		eve := day.Date.AddDate(0, 0, -1)
		reminderAt := time.Date(eve.Year(), eve.Month(), eve.Day(), reminderHour, 0, 0, 0, day.Date.Location())
		if !reminderAt.After(now) && sameDay(reminderAt, now) {
			fresh = append(fresh, model.InAppNotificationEntry{
				Title:     day.Name,
				Body:      fmt.Sprintf("Tomorrow is %s. %s", day.Name, day.Description),
				Type:      model.AlarmTypeReminder,
				Timestamp: reminderAt,
			})
		}
		mainAt := time.Date(day.Date.Year(), day.Date.Month(), day.Date.Day(), mainHour, 0, 0, 0, day.Date.Location())
		if !mainAt.After(now) && sameDay(mainAt, now) {
			fresh = append(fresh, model.InAppNotificationEntry{
				Title:     day.Name,
				Body:      day.Description,
				Type:      model.AlarmTypeImportantDay,
				Timestamp: mainAt,
			})
		}
	}

	if len(fresh) == 0 {
		return
	}
	m.append(ctx, fresh)
}

// OnPush feeds a device push event into the history through the same dedup
// and cap rules as the polling path.
func (m *Mirror) OnPush(ev alarm.PushEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	m.append(ctx, []model.InAppNotificationEntry{{
		Title:     ev.Title,
		Body:      ev.Body,
		Type:      ev.Type,
		Timestamp: m.now(),
	}})
}

// List returns the history, newest first.
func (m *Mirror) List(ctx context.Context) ([]model.InAppNotificationEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(ctx)
}

// MarkRead flips the read flag of one entry.
func (m *Mirror) MarkRead(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.load(ctx)
	if err != nil {
		return err
	}
	for i := range entries {
		if entries[i].ID == id {
			entries[i].Read = true
			return store.SetJSON(ctx, m.kv, inboxKey, entries)
		}
	}
	return fmt.Errorf("mirror: no entry with id %s", id)
}

func (m *Mirror) append(ctx context.Context, fresh []model.InAppNotificationEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("could not load notification history, starting empty")
		entries = nil
	}

	added := 0
	for _, e := range fresh {
		if hasSameDayEntry(entries, e) {
			continue
		}
		e.ID = uuid.NewString()
		entries = append([]model.InAppNotificationEntry{e}, entries...)
		added++
	}
	if added == 0 {
		return
	}
	if len(entries) > inboxCap {
		entries = entries[:inboxCap]
	}
	if err := store.SetJSON(ctx, m.kv, inboxKey, entries); err != nil {
		log.Error().Err(err).Msg("could not persist notification history")
	}
}

func (m *Mirror) load(ctx context.Context) ([]model.InAppNotificationEntry, error) {
	var entries []model.InAppNotificationEntry
	err := store.GetJSON(ctx, m.kv, inboxKey, &entries)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func hasSameDayEntry(entries []model.InAppNotificationEntry, e model.InAppNotificationEntry) bool {
	for _, existing := range entries {
		if existing.Type == e.Type && existing.Title == e.Title && sameDay(existing.Timestamp, e.Timestamp) {
			return true
		}
	}
	return false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
