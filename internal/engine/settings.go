package engine

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minaret/internal/model"
	"github.com/Nixie-Tech-LLC/minaret/internal/store"
)

const settingsKey = "minaret:settings"

// LoadSettings reads the user's notification settings, falling back to the
// defaults when nothing has been persisted yet.
func LoadSettings(ctx context.Context, kv store.KV) model.NotificationSettings {
	settings := model.DefaultSettings()
	if err := store.GetJSON(ctx, kv, settingsKey, &settings); err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Warn().Err(err).Msg("could not load notification settings, using defaults")
	}
	return settings
}

// SaveSettings persists the user's notification settings.
func SaveSettings(ctx context.Context, kv store.KV, settings model.NotificationSettings) error {
	return store.SetJSON(ctx, kv, settingsKey, settings)
}
