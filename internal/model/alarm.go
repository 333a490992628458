package model

// Family groups alarms by the scheduler that owns them. The two families use
// disjoint cancellation predicates so a reschedule of one never touches the
// other's pending alarms.
type Family string

const (
	FamilyPrayer       Family = "prayer"
	FamilyImportantDay Family = "important_day"
)

// AlarmType tags the semantic kind of a single alarm. Carried explicitly on
// every persisted and in-flight record so nothing has to be inferred from
// title or channel strings.
type AlarmType string

const (
	AlarmTypePrayer       AlarmType = "prayer"
	AlarmTypeReminder     AlarmType = "reminder"
	AlarmTypeImportantDay AlarmType = "important_day"
)

// ChannelID identifies a delivery channel pre-declared on the device with its
// own sound asset and vibration pattern.
type ChannelID string

// ScheduledAlarmRecord is one successfully placed alarm. Records are persisted
// as a batch per family and replaced wholesale on every reschedule of that
// family.
type ScheduledAlarmRecord struct {
	EventKey    string    `json:"event_key"`
	AlarmID     string    `json:"alarm_id"`
	ScheduledAt int64     `json:"scheduled_at"` // epoch millis
	Channel     ChannelID `json:"channel"`
}

// RenewalState records when the prayer family was last fully rescheduled.
type RenewalState struct {
	LastRenewalEpochMillis int64 `json:"last_renewal_epoch_millis"`
}
