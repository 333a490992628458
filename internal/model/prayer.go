package model

// PrayerEventTemplate describes one of the five daily prayers. The set is
// fixed at process start and never mutated.
type PrayerEventTemplate struct {
	Name    string // display name, e.g. "Fajr"
	TimeKey string // key into the provider's timings map
	Icon    string
}

var prayerTemplates = [5]PrayerEventTemplate{
	{Name: "Fajr", TimeKey: "Fajr", Icon: "ic_fajr"},
	{Name: "Dhuhr", TimeKey: "Dhuhr", Icon: "ic_dhuhr"},
	{Name: "Asr", TimeKey: "Asr", Icon: "ic_asr"},
	{Name: "Maghrib", TimeKey: "Maghrib", Icon: "ic_maghrib"},
	{Name: "Isha", TimeKey: "Isha", Icon: "ic_isha"},
}

// PrayerTemplates returns the five daily prayer templates in canonical order.
func PrayerTemplates() []PrayerEventTemplate {
	out := make([]PrayerEventTemplate, len(prayerTemplates))
	copy(out, prayerTemplates[:])
	return out
}
