package model

// NotificationSettings are the user-togglable flags for both alarm families.
type NotificationSettings struct {
	PrayerEnabled       bool `json:"prayer_enabled"`
	PrayerSound         bool `json:"prayer_sound"`
	PrayerVibration     bool `json:"prayer_vibration"`
	ImportantDayEnabled bool `json:"important_day_enabled"`
}

// DefaultSettings is what a fresh install gets before the user touches anything.
func DefaultSettings() NotificationSettings {
	return NotificationSettings{
		PrayerEnabled:       true,
		PrayerSound:         true,
		PrayerVibration:     true,
		ImportantDayEnabled: true,
	}
}
