// Notification log lifecycle:
//
//	pending ──► processing ──► sent
//	                │    ├────► skipped
//	                │    └────► failed
//
// sent, failed and skipped are terminal. At most one log per alert may be
// in a non-terminal state at any time.
package domain

import (
	"fmt"
	"time"
)

// LogStatus is the delivery state of one notification attempt.
type LogStatus string

const (
	StatusPending    LogStatus = "pending"
	StatusProcessing LogStatus = "processing"
	StatusSent       LogStatus = "sent"
	StatusFailed     LogStatus = "failed"
	StatusSkipped    LogStatus = "skipped"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[LogStatus][]LogStatus{
	StatusPending:    {StatusProcessing},
	StatusProcessing: {StatusSent, StatusFailed, StatusSkipped},
	// sent, failed and skipped are terminal — no outgoing transitions
}

// ParseLogStatus converts a raw string to a LogStatus, returning an error
// for unknown values.
func ParseLogStatus(s string) (LogStatus, error) {
	st := LogStatus(s)
	switch st {
	case StatusPending, StatusProcessing, StatusSent, StatusFailed, StatusSkipped:
		return st, nil
	}
	return "", fmt.Errorf("unknown notification status %q", s)
}

// CanTransition returns true when moving from → to is permitted by the
// state machine.
func CanTransition(from, to LogStatus) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal returns true for states that never change again.
func (s LogStatus) IsTerminal() bool {
	switch s {
	case StatusSent, StatusFailed, StatusSkipped:
		return true
	}
	return false
}

// NotificationLog is one tracked attempt to deliver a digest to a user for
// a given alert. AlertID is nil only on legacy rows created before logs
// were scoped to alerts.
type NotificationLog struct {
	ID           uint
	UserID       uint
	AlertID      *uint
	Status       LogStatus
	ScheduledFor time.Time
	SentAt       *time.Time
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
