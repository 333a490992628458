package model

import "time"

// InAppNotificationEntry is one row of the in-app notification history. The
// list is newest-first, capped, and deduplicated per day; it is a convenience
// log, not an audit trail.
type InAppNotificationEntry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Type      AlarmType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}
