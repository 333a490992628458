package main

import (
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minaret/internal/alarm"
	"github.com/Nixie-Tech-LLC/minaret/internal/config"
	"github.com/Nixie-Tech-LLC/minaret/internal/store"
)

// pushSource is implemented by gateways that can stream device push events.
type pushSource interface {
	SetPushHandler(alarm.PushHandler) error
}

// initStore selects the configured KV backend
func initStore(cfg *config.Config) store.KV {
	if cfg.RedisAddress != "" {
		log.Info().Str("address", cfg.RedisAddress).Msg("using redis store")
		return store.NewRedis(cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)
	}
	log.Warn().Msg("REDIS_ADDRESS not set, using in-memory store (state is lost on restart)")
	return store.NewMemory()
}

// initGateway selects the configured device gateway
func initGateway(cfg *config.Config) alarm.Gateway {
	if cfg.MQTTBrokerURL != "" {
		gw, err := alarm.NewMQTTGateway(cfg.MQTTBrokerURL, cfg.DeviceID)
		if err != nil {
			log.Fatal().Err(err).Str("broker", cfg.MQTTBrokerURL).Msg("failed to connect device gateway")
		}
		log.Info().Str("broker", cfg.MQTTBrokerURL).Str("device", cfg.DeviceID).Msg("using MQTT device gateway")
		return gw
	}
	log.Warn().Msg("MQTT_BROKER_URL not set, using in-memory device gateway")
	return alarm.NewMemoryGateway()
}
