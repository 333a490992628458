package endpoints

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minaret/internal/engine"
	"github.com/Nixie-Tech-LLC/minaret/internal/http/api"
	"github.com/Nixie-Tech-LLC/minaret/internal/http/api/athan/packets"
	"github.com/Nixie-Tech-LLC/minaret/internal/model"
	"github.com/Nixie-Tech-LLC/minaret/internal/times"
)

type SettingsController struct {
	eng      *engine.Engine
	resolver times.Resolver
}

func NewSettingsController(eng *engine.Engine, resolver times.Resolver) *SettingsController {
	return &SettingsController{eng: eng, resolver: resolver}
}

func SettingsModule(eng *engine.Engine, resolver times.Resolver) api.Module {
	ctl := NewSettingsController(eng, resolver)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/settings", ctl.getSettings)
		c.PATCH("/settings", ctl.updateSettings)
	})
}

func (s *SettingsController) getSettings(ctx *gin.Context) (any, *api.APIError) {
	settings := engine.LoadSettings(ctx, s.eng.KV)
	return packets.SettingsResponse{
		PrayerEnabled:       settings.PrayerEnabled,
		PrayerSound:         settings.PrayerSound,
		PrayerVibration:     settings.PrayerVibration,
		ImportantDayEnabled: settings.ImportantDayEnabled,
	}, nil
}

// updateSettings persists the changed flags, then reschedules whichever
// family the change affects.
func (s *SettingsController) updateSettings(ctx *gin.Context) (any, *api.APIError) {
	var request packets.UpdateSettingsRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	settings := engine.LoadSettings(ctx, s.eng.KV)
	prayerChanged := false
	importantChanged := false

	if request.PrayerEnabled != nil && *request.PrayerEnabled != settings.PrayerEnabled {
		settings.PrayerEnabled = *request.PrayerEnabled
		prayerChanged = true
	}
	if request.PrayerSound != nil && *request.PrayerSound != settings.PrayerSound {
		settings.PrayerSound = *request.PrayerSound
		prayerChanged = true
	}
	if request.PrayerVibration != nil && *request.PrayerVibration != settings.PrayerVibration {
		settings.PrayerVibration = *request.PrayerVibration
		prayerChanged = true
	}
	if request.ImportantDayEnabled != nil && *request.ImportantDayEnabled != settings.ImportantDayEnabled {
		settings.ImportantDayEnabled = *request.ImportantDayEnabled
		importantChanged = true
	}

	if err := engine.SaveSettings(ctx, s.eng.KV, settings); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not save settings"}
	}

	if prayerChanged && !settings.PrayerEnabled {
		s.eng.ClearFamily(ctx, model.FamilyPrayer)
	}
	if importantChanged && !settings.ImportantDayEnabled {
		s.eng.ClearFamily(ctx, model.FamilyImportantDay)
	}
	if prayerChanged && settings.PrayerEnabled {
		if len(request.PrayerTimes) == 0 {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "prayer_times required when changing prayer settings"}
		}
		if _, err := s.eng.Renewal.ForceRenew(ctx, request.PrayerTimes); err != nil {
			return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "settings saved but prayer reschedule failed"}
		}
	}
	if importantChanged && settings.ImportantDayEnabled {
		days, err := s.resolver.Resolve(ctx, time.Now().Year())
		if err != nil {
			log.Error().Err(err).Msg("failed to resolve important days after settings change")
			return nil, &api.APIError{Code: http.StatusBadGateway, Message: "settings saved but important days could not be resolved"}
		}
		if _, err := s.eng.ImportantDays.Schedule(ctx, days); err != nil {
			return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "settings saved but important-day reschedule failed"}
		}
	}

	return packets.SettingsResponse{
		PrayerEnabled:       settings.PrayerEnabled,
		PrayerSound:         settings.PrayerSound,
		PrayerVibration:     settings.PrayerVibration,
		ImportantDayEnabled: settings.ImportantDayEnabled,
	}, nil
}
