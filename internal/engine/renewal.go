package engine

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/Nixie-Tech-LLC/minaret/internal/model"
	"github.com/Nixie-Tech-LLC/minaret/internal/store"
)

const (
	renewalKey      = "minaret:renewal"
	renewalInterval = 14 * 24 * time.Hour
)

// RenewalStatus is the read accessor view of the renewal state machine.
type RenewalStatus struct {
	LastRenewal time.Time
	Due         bool
}

// Coordinator decides when the prayer family needs a rescheduling pass and
// de-duplicates concurrent callers: overlapping calls while a pass is in
// flight share that pass's result instead of starting a second one.
type Coordinator struct {
	kv      store.KV
	prayers *PrayerScheduler
	group   singleflight.Group
	now     func() time.Time
}

func NewCoordinator(kv store.KV, prayers *PrayerScheduler) *Coordinator {
	return &Coordinator{kv: kv, prayers: prayers, now: time.Now}
}

// EnsureFresh runs a rescheduling pass if the last successful one is older
// than the renewal interval (or never happened); otherwise it is a no-op
// returning true without touching the device.
func (c *Coordinator) EnsureFresh(ctx context.Context, timesByKey map[string]string) (bool, error) {
	status, err := c.Status(ctx)
	if err != nil {
		return false, err
	}
	if !status.Due {
		return true, nil
	}
	return c.renew(ctx, timesByKey)
}

// ForceRenew runs a rescheduling pass regardless of cadence. It still shares
// an in-flight pass with concurrent callers.
func (c *Coordinator) ForceRenew(ctx context.Context, timesByKey map[string]string) (bool, error) {
	return c.renew(ctx, timesByKey)
}

// Status reports the last renewal time and whether a renewal is due.
func (c *Coordinator) Status(ctx context.Context) (RenewalStatus, error) {
	var state model.RenewalState
	err := store.GetJSON(ctx, c.kv, renewalKey, &state)
	if errors.Is(err, store.ErrNotFound) {
		return RenewalStatus{Due: true}, nil
	}
	if err != nil {
		return RenewalStatus{}, err
	}
	if state.LastRenewalEpochMillis == 0 {
		return RenewalStatus{Due: true}, nil
	}
	last := time.UnixMilli(state.LastRenewalEpochMillis)
	return RenewalStatus{
		LastRenewal: last,
		Due:         c.now().Sub(last) >= renewalInterval,
	}, nil
}

func (c *Coordinator) renew(ctx context.Context, timesByKey map[string]string) (bool, error) {
	v, err, shared := c.group.Do(string(model.FamilyPrayer), func() (any, error) {
		settings := LoadSettings(ctx, c.kv)
		ok, err := c.prayers.Schedule(ctx, timesByKey, settings.PrayerSound, settings.PrayerVibration)
		if err != nil || !ok {
			return ok, err
		}
		state := model.RenewalState{LastRenewalEpochMillis: c.now().UnixMilli()}
		if err := store.SetJSON(ctx, c.kv, renewalKey, state); err != nil {
			return false, err
		}
		return true, nil
	})
	if shared {
		log.Debug().Msg("renewal joined an in-flight pass")
	}
	ok, _ := v.(bool)
	return ok, err
}
