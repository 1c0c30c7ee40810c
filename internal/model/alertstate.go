package model

import "time"

// AlertState tracks when each (symbol, alert kind) pair was last notified.
type AlertState struct {
	LastNotified map[string]time.Time `json:"last_notified"`
	Notified     int                  `json:"notified_total"`
	Suppressed   int                  `json:"suppressed_total"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// AlertKey returns the state key for an alert event.
func AlertKey(evt AlertEvent) string {
	return evt.Symbol + "|" + string(evt.Kind)
}
