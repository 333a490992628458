package model

import "time"

// ImportantDayTemplate is a yearly recurring religious date anchored to the
// Hijri calendar. The resolver collaborator maps a template to a concrete
// Gregorian date for a given year, or to nothing when the lunar date cannot
// be matched for that year.
type ImportantDayTemplate struct {
	Name        string
	Icon        string
	HijriMonth  int
	HijriDay    int
	Description string
}

// ResolvedImportantDay is a template bound to a Gregorian date (local midnight).
type ResolvedImportantDay struct {
	ImportantDayTemplate
	Date time.Time
}

var importantDayTemplates = [11]ImportantDayTemplate{
	{Name: "Hijri New Year", Icon: "ic_hijri_new_year", HijriMonth: 1, HijriDay: 1, Description: "First day of Muharram, the start of the Islamic year."},
	{Name: "Day of Ashura", Icon: "ic_ashura", HijriMonth: 1, HijriDay: 10, Description: "The tenth of Muharram, a day of fasting and remembrance."},
	{Name: "Mawlid al-Nabi", Icon: "ic_mawlid", HijriMonth: 3, HijriDay: 12, Description: "Birth of the Prophet Muhammad (pbuh)."},
	{Name: "Laylat al-Raghaib", Icon: "ic_raghaib", HijriMonth: 7, HijriDay: 1, Description: "First night of Rajab."},
	{Name: "Laylat al-Miraj", Icon: "ic_miraj", HijriMonth: 7, HijriDay: 27, Description: "The night journey and ascension."},
	{Name: "Laylat al-Baraat", Icon: "ic_baraat", HijriMonth: 8, HijriDay: 15, Description: "Mid-Shaban night of forgiveness."},
	{Name: "Start of Ramadan", Icon: "ic_ramadan", HijriMonth: 9, HijriDay: 1, Description: "First day of the month of fasting."},
	{Name: "Laylat al-Qadr", Icon: "ic_qadr", HijriMonth: 9, HijriDay: 27, Description: "The night of power."},
	{Name: "Eid al-Fitr", Icon: "ic_eid_fitr", HijriMonth: 10, HijriDay: 1, Description: "Festival marking the end of Ramadan."},
	{Name: "Day of Arafah", Icon: "ic_arafah", HijriMonth: 12, HijriDay: 9, Description: "The day of standing at Arafat."},
	{Name: "Eid al-Adha", Icon: "ic_eid_adha", HijriMonth: 12, HijriDay: 10, Description: "Festival of sacrifice."},
}

// ImportantDayTemplates returns the eleven fixed important-day templates.
func ImportantDayTemplates() []ImportantDayTemplate {
	out := make([]ImportantDayTemplate, len(importantDayTemplates))
	copy(out, importantDayTemplates[:])
	return out
}
