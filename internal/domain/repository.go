package domain

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

type UserRepository interface {
	GetByID(ctx context.Context, userID uint) (*User, error)
	Create(ctx context.Context, user *User) error
}

type AlertRepository interface {
	GetByID(ctx context.Context, alertID uint) (*Alert, error)
	Create(ctx context.Context, alert *Alert) error
	ListActive(ctx context.Context) ([]Alert, error)
	ListActiveByFrequency(ctx context.Context, frequency Frequency) ([]Alert, error)
	// SetLastNotificationSent is the single write the notification pipeline
	// performs on an alert, and only as the final step of a confirmed sent
	// or skipped transition.
	SetLastNotificationSent(ctx context.Context, alertID uint, sentAt time.Time) error
}

type ListingRepository interface {
	Search(ctx context.Context, filter ListingFilter) ([]Listing, error)
}

type NotificationLogRepository interface {
	GetByID(ctx context.Context, logID uint) (*NotificationLog, error)
	Create(ctx context.Context, log *NotificationLog) error
	// HasInFlight reports whether a pending or processing log exists for
	// the alert.
	HasInFlight(ctx context.Context, alertID uint) (bool, error)
	ListDue(ctx context.Context, now time.Time) ([]NotificationLog, error)
	// ClaimPending atomically moves a log from pending to processing.
	// It returns false, without error, when the log is no longer pending.
	ClaimPending(ctx context.Context, logID uint) (bool, error)
	MarkSent(ctx context.Context, logID uint, sentAt time.Time) error
	MarkSkipped(ctx context.Context, logID uint) error
	MarkFailed(ctx context.Context, logID uint, errorMessage string) error
	// ListStaleProcessing returns logs stuck in processing since before the
	// cutoff, so a later sweep can fail them.
	ListStaleProcessing(ctx context.Context, cutoff time.Time) ([]NotificationLog, error)
}
