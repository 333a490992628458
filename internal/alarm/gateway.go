// Package alarm fronts the device agent that owns the OS pending-alarm queue.
// The engine never talks to the OS directly; everything goes through a Gateway.
package alarm

import (
	"context"
	"errors"
	"time"

	"github.com/Nixie-Tech-LLC/minaret/internal/model"
)

// ErrCapacityExhausted is reported by the device when the OS rejects a
// schedule call because the per-app pending-alarm ceiling is hit.
var ErrCapacityExhausted = errors.New("alarm: pending alarm capacity exhausted")

// Content is the user-visible payload of a scheduled alarm. Family and Type
// are carried explicitly so cancellation never has to guess from strings.
type Content struct {
	Family   model.Family    `json:"family"`
	Type     model.AlarmType `json:"type"`
	EventKey string          `json:"event_key"`
	Title    string          `json:"title"`
	Body     string          `json:"body"`
	Icon     string          `json:"icon"`
}

// PendingAlarm is one entry of the device's pending-alarm queue as reported
// by a list call.
type PendingAlarm struct {
	ID        string          `json:"id"`
	Family    model.Family    `json:"family"`
	Type      model.AlarmType `json:"type"`
	Title     string          `json:"title"`
	Channel   model.ChannelID `json:"channel"`
	TriggerAt int64           `json:"trigger_at"` // epoch millis
}

// ChannelDefinition declares one delivery channel on the device. Declaration
// is idempotent; the device keeps whatever it already has for a known id.
type ChannelDefinition struct {
	ID        model.ChannelID `json:"id"`
	Name      string          `json:"name"`
	Sound     string          `json:"sound"` // sound asset name, empty for a silent channel
	Vibration bool            `json:"vibration"`
}

// PushEvent is emitted by the device when a system notification is received
// in the foreground or tapped by the user.
type PushEvent struct {
	Event string          `json:"event"` // "received" or "tapped"
	Type  model.AlarmType `json:"type"`
	Title string          `json:"title"`
	Body  string          `json:"body"`
}

// PushHandler consumes device push events.
type PushHandler func(PushEvent)

// Gateway is the asynchronous contract with the device agent.
//
// RequestPermission also declares the given channels before returning, so the
// mapping exists before any alarm references a channel id. Cancel treats an
// already-gone alarm as success.
type Gateway interface {
	RequestPermission(ctx context.Context, channels []ChannelDefinition) (bool, error)
	PendingAlarms(ctx context.Context) ([]PendingAlarm, error)
	Schedule(ctx context.Context, content Content, triggerAt time.Time, channel model.ChannelID) (string, error)
	Cancel(ctx context.Context, alarmID string) error
}
