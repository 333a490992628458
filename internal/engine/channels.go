package engine

import (
	"github.com/Nixie-Tech-LLC/minaret/internal/alarm"
	"github.com/Nixie-Tech-LLC/minaret/internal/model"
)

// Channel identity, not a per-notification override, is what controls sound
// and vibration on the device, so the four prayer variants are distinct
// channels declared up front.
const (
	ChannelPrayerFull      model.ChannelID = "prayer_sound_vibration"
	ChannelPrayerSound     model.ChannelID = "prayer_sound"
	ChannelPrayerVibration model.ChannelID = "prayer_vibration"
	ChannelPrayerSilent    model.ChannelID = "prayer_silent"
	ChannelImportantDay    model.ChannelID = "important_day"
)

const prayerChannelPrefix = "prayer_"

// ResolveChannel maps the user's sound/vibration preference pair to the
// prayer channel that delivers it.
func ResolveChannel(soundEnabled, vibrationEnabled bool) model.ChannelID {
	switch {
	case soundEnabled && vibrationEnabled:
		return ChannelPrayerFull
	case soundEnabled:
		return ChannelPrayerSound
	case vibrationEnabled:
		return ChannelPrayerVibration
	default:
		return ChannelPrayerSilent
	}
}

// ChannelDefinitions lists every channel the engine uses. Declaration is
// idempotent, so the full set is sent with every permission request.
func ChannelDefinitions() []alarm.ChannelDefinition {
	return []alarm.ChannelDefinition{
		{ID: ChannelPrayerFull, Name: "Prayer times", Sound: "adhan", Vibration: true},
		{ID: ChannelPrayerSound, Name: "Prayer times (sound only)", Sound: "adhan", Vibration: false},
		{ID: ChannelPrayerVibration, Name: "Prayer times (vibration only)", Sound: "", Vibration: true},
		{ID: ChannelPrayerSilent, Name: "Prayer times (silent)", Sound: "", Vibration: false},
		{ID: ChannelImportantDay, Name: "Important days", Sound: "default", Vibration: true},
	}
}
