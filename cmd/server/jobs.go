package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minaret/internal/config"
	"github.com/Nixie-Tech-LLC/minaret/internal/engine"
	"github.com/Nixie-Tech-LLC/minaret/internal/model"
	"github.com/Nixie-Tech-LLC/minaret/internal/times"
)

const jobTimeout = 2 * time.Minute

// renewalJob drives the engine on a cadence: the mobile app only pokes the
// HTTP API when it is in the foreground, so the cron path keeps alarms fresh
// for devices that stay asleep.
type renewalJob struct {
	cfg      *config.Config
	eng      *engine.Engine
	provider times.Provider
	resolver times.Resolver
}

func newRenewalJob(cfg *config.Config, eng *engine.Engine, provider times.Provider, resolver times.Resolver) *renewalJob {
	return &renewalJob{cfg: cfg, eng: eng, provider: provider, resolver: resolver}
}

func (j *renewalJob) renewPrayers() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	timings, err := j.provider.Timings(ctx, j.cfg.Latitude, j.cfg.Longitude)
	if err != nil {
		log.Error().Err(err).Msg("renewal job could not fetch prayer times")
		return
	}
	ok, err := j.eng.Renewal.EnsureFresh(ctx, timings)
	if err != nil {
		log.Error().Err(err).Msg("renewal job failed")
		return
	}
	if !ok {
		log.Info().Msg("renewal job skipped (permission or settings)")
	}
}

func (j *renewalJob) scheduleImportantDays() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	days, err := j.resolver.Resolve(ctx, time.Now().Year())
	if err != nil {
		log.Error().Err(err).Msg("important-day job could not resolve dates")
		return
	}
	if _, err := j.eng.ImportantDays.Schedule(ctx, days); err != nil {
		log.Error().Err(err).Msg("important-day job failed")
	}
}

func (j *renewalJob) syncMirror() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	timings, err := j.provider.Timings(ctx, j.cfg.Latitude, j.cfg.Longitude)
	if err != nil {
		log.Error().Err(err).Msg("mirror sync could not fetch prayer times")
		timings = nil
	}
	var days []model.ResolvedImportantDay
	if resolved, err := j.resolver.Resolve(ctx, time.Now().Year()); err != nil {
		log.Warn().Err(err).Msg("mirror sync could not resolve important days")
	} else {
		days = resolved
	}
	j.eng.Mirror.Sync(ctx, timings, days)
}
