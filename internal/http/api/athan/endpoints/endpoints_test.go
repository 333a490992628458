package endpoints_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/minaret/internal/alarm"
	"github.com/Nixie-Tech-LLC/minaret/internal/engine"
	"github.com/Nixie-Tech-LLC/minaret/internal/http/api"
	"github.com/Nixie-Tech-LLC/minaret/internal/http/api/athan/endpoints"
	"github.com/Nixie-Tech-LLC/minaret/internal/model"
	"github.com/Nixie-Tech-LLC/minaret/internal/store"
)

type stubResolver struct {
	days []model.ResolvedImportantDay
}

func (s stubResolver) Resolve(_ context.Context, _ int) ([]model.ResolvedImportantDay, error) {
	return s.days, nil
}

func setupRouter(eng *engine.Engine, days []model.ResolvedImportantDay) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	resolver := stubResolver{days: days}
	api.MountGroup(r, api.GroupConfig{Prefix: "/api/athan"},
		endpoints.RenewalModule(eng.Renewal),
		endpoints.ImportantDayModule(eng.ImportantDays, resolver),
		endpoints.SettingsModule(eng, resolver),
		endpoints.InboxModule(eng.Mirror, resolver),
	)
	return r
}

func newTestEngine() (*engine.Engine, *alarm.MemoryGateway) {
	gw := alarm.NewMemoryGateway()
	eng := engine.New(store.NewMemory(), gw)
	return eng, gw
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func prayerTimesBody() map[string]any {
	return map[string]any{"prayer_times": map[string]string{
		"Fajr": "05:10", "Dhuhr": "12:30", "Asr": "15:45", "Maghrib": "18:20", "Isha": "19:50",
	}}
}

func TestForceRenewEndpoint(t *testing.T) {
	eng, gw := newTestEngine()
	router := setupRouter(eng, nil)

	w := postJSON(t, router, "/api/athan/renewal/force", prayerTimesBody())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success bool `json:"success"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, gw.Pending())

	// the renewal state is now fresh
	w = httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/athan/renewal", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var status struct {
		Due bool `json:"due"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.False(t, status.Due)
}

func TestEnsureFreshRequiresPrayerTimes(t *testing.T) {
	eng, _ := newTestEngine()
	router := setupRouter(eng, nil)

	w := postJSON(t, router, "/api/athan/renewal/ensure", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleImportantDaysEndpoint(t *testing.T) {
	eng, gw := newTestEngine()
	future := time.Now().AddDate(0, 0, 10)
	day := model.ResolvedImportantDay{
		ImportantDayTemplate: model.ImportantDayTemplate{Name: "Eid al-Fitr", Description: "festival"},
		Date:                 time.Date(future.Year(), future.Month(), future.Day(), 0, 0, 0, 0, time.Local),
	}
	router := setupRouter(eng, []model.ResolvedImportantDay{day})

	w := postJSON(t, router, "/api/athan/important_days/schedule", map[string]any{})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, gw.Pending(), 2)
}

func TestSettingsRoundTrip(t *testing.T) {
	eng, gw := newTestEngine()
	router := setupRouter(eng, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/athan/settings", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var settings struct {
		PrayerEnabled bool `json:"prayer_enabled"`
		PrayerSound   bool `json:"prayer_sound"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &settings))
	assert.True(t, settings.PrayerEnabled)

	// flipping sound off reschedules the prayer family with the new channel
	body := prayerTimesBody()
	body["prayer_sound"] = false
	w = httptest.NewRecorder()
	payload, _ := json.Marshal(body)
	req, _ = http.NewRequest(http.MethodPatch, "/api/athan/settings", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	pending := gw.Pending()
	require.NotEmpty(t, pending)
	for _, p := range pending {
		assert.Equal(t, engine.ChannelPrayerVibration, p.Channel)
	}
}

func TestDisablingPrayersClearsFamily(t *testing.T) {
	eng, gw := newTestEngine()
	router := setupRouter(eng, nil)

	w := postJSON(t, router, "/api/athan/renewal/force", prayerTimesBody())
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, gw.Pending())

	payload, _ := json.Marshal(map[string]any{"prayer_enabled": false})
	w = httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPatch, "/api/athan/settings", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Empty(t, gw.Pending())
}

func TestNotificationsListAndMarkRead(t *testing.T) {
	eng, _ := newTestEngine()
	router := setupRouter(eng, nil)

	eng.Mirror.OnPush(alarm.PushEvent{Event: "received", Type: model.AlarmTypePrayer, Title: "Fajr", Body: "time"})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/athan/notifications", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var list []struct {
		ID   string `json:"id"`
		Read bool   `json:"read"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.False(t, list[0].Read)

	w = postJSON(t, router, "/api/athan/notifications/"+list[0].ID+"/read", map[string]any{})
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, router, "/api/athan/notifications/no-such-id/read", map[string]any{})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
