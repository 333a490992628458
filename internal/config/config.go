package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds environment-based settings
type Config struct {
	ServerAddress string

	RedisAddress  string
	RedisUsername string
	RedisPassword string

	MQTTBrokerURL string
	DeviceID      string

	Latitude  float64
	Longitude float64

	AladhanBaseURL string
	RenewalCron    string
	MirrorSyncCron string
}

// Load reads configuration from environment variables. A .env file is
// honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerAddress:  os.Getenv("SERVER_ADDRESS"),
		RedisAddress:   os.Getenv("REDIS_ADDRESS"),
		RedisUsername:  os.Getenv("REDIS_USERNAME"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		MQTTBrokerURL:  os.Getenv("MQTT_BROKER_URL"),
		DeviceID:       os.Getenv("DEVICE_ID"),
		AladhanBaseURL: os.Getenv("ALADHAN_BASE_URL"),
		RenewalCron:    os.Getenv("RENEWAL_CRON"),
		MirrorSyncCron: os.Getenv("MIRROR_SYNC_CRON"),
	}
	if cfg.ServerAddress == "" {
		cfg.ServerAddress = ":8080"
	}
	if cfg.DeviceID == "" && cfg.MQTTBrokerURL != "" {
		return nil, fmt.Errorf("DEVICE_ID is required when MQTT_BROKER_URL is set")
	}
	if cfg.RenewalCron == "" {
		cfg.RenewalCron = "0 */6 * * *"
	}
	if cfg.MirrorSyncCron == "" {
		cfg.MirrorSyncCron = "*/30 * * * *"
	}

	var err error
	// default to Istanbul
	cfg.Latitude, err = parseCoord(os.Getenv("LATITUDE"), 41.0082)
	if err != nil {
		return nil, fmt.Errorf("invalid LATITUDE: %w", err)
	}
	cfg.Longitude, err = parseCoord(os.Getenv("LONGITUDE"), 28.9784)
	if err != nil {
		return nil, fmt.Errorf("invalid LONGITUDE: %w", err)
	}

	return cfg, nil
}

func parseCoord(raw string, fallback float64) (float64, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(raw, 64)
}
