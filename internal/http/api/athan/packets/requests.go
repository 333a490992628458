package packets

// RenewRequest carries today's prayer times from the caller, keyed
// Fajr/Dhuhr/Asr/Maghrib/Isha as "HH:MM" strings.
type RenewRequest struct {
	PrayerTimes map[string]string `json:"prayer_times" binding:"required"`
}

// ScheduleImportantDaysRequest optionally overrides the target year; zero
// means the current year.
type ScheduleImportantDaysRequest struct {
	Year int `json:"year"`
}

// UpdateSettingsRequest mutates the notification flags. PrayerTimes must be
// supplied when a prayer flag changes, so the affected family can be
// rescheduled in the same call.
type UpdateSettingsRequest struct {
	PrayerEnabled       *bool             `json:"prayer_enabled"`
	PrayerSound         *bool             `json:"prayer_sound"`
	PrayerVibration     *bool             `json:"prayer_vibration"`
	ImportantDayEnabled *bool             `json:"important_day_enabled"`
	PrayerTimes         map[string]string `json:"prayer_times"`
}

// SyncNotificationsRequest carries the schedule the mirror compares against
// the clock. Both fields are optional.
type SyncNotificationsRequest struct {
	PrayerTimes map[string]string `json:"prayer_times"`
	Year        int               `json:"year"`
}
