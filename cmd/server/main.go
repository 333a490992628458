package main

import (
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minaret/internal/config"
	"github.com/Nixie-Tech-LLC/minaret/internal/engine"
	"github.com/Nixie-Tech-LLC/minaret/internal/times"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	kv := initStore(cfg)
	gateway := initGateway(cfg)

	eng := engine.New(kv, gateway)
	if mg, ok := gateway.(pushSource); ok {
		if err := mg.SetPushHandler(eng.Mirror.OnPush); err != nil {
			log.Fatal().Err(err).Msg("failed to subscribe to device push events")
		}
	}

	provider := times.NewAladhanProvider(cfg.AladhanBaseURL)
	resolver := times.NewAladhanResolver(cfg.AladhanBaseURL, nil)

	jobs := startJobs(cfg, eng, provider, resolver)
	defer jobs.Stop()

	r := gin.Default()
	RegisterRoutes(r, eng, resolver)

	log.Info().Str("address", cfg.ServerAddress).Msg("listening")
	if err := r.Run(cfg.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func startJobs(cfg *config.Config, eng *engine.Engine, provider times.Provider, resolver times.Resolver) *cron.Cron {
	c := cron.New()
	renewal := newRenewalJob(cfg, eng, provider, resolver)

	if _, err := c.AddFunc(cfg.RenewalCron, renewal.renewPrayers); err != nil {
		log.Fatal().Err(err).Str("spec", cfg.RenewalCron).Msg("invalid renewal cron spec")
	}
	if _, err := c.AddFunc(cfg.MirrorSyncCron, renewal.syncMirror); err != nil {
		log.Fatal().Err(err).Str("spec", cfg.MirrorSyncCron).Msg("invalid mirror sync cron spec")
	}
	// important days roll over once a year but resolution is cheap, refresh daily
	if _, err := c.AddFunc("15 0 * * *", renewal.scheduleImportantDays); err != nil {
		log.Fatal().Err(err).Msg("invalid important-day cron spec")
	}

	c.Start()
	return c
}
