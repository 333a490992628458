package packets

type ScheduleResponse struct {
	Success bool `json:"success"`
}

type RenewalStatusResponse struct {
	LastRenewal string `json:"last_renewal,omitempty"` // RFC 3339, empty when never renewed
	Due         bool   `json:"due"`
}

type SettingsResponse struct {
	PrayerEnabled       bool `json:"prayer_enabled"`
	PrayerSound         bool `json:"prayer_sound"`
	PrayerVibration     bool `json:"prayer_vibration"`
	ImportantDayEnabled bool `json:"important_day_enabled"`
}

type NotificationResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"` // RFC 3339
	Read      bool   `json:"read"`
}
