package models

import "time"

// Severity classifies a notification for presentation.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is a behavioral nudge surfaced to the user. The rule engine
// only ever appends notifications; existing ones are never mutated.
type Notification struct {
	ID        string
	Title     string
	Message   string
	Severity  Severity
	Read      bool
	CreatedAt time.Time
}
