package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/dealsight/dealsight/internal/domain"
	"github.com/dealsight/dealsight/internal/matching"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uint]domain.User
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uint]domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetByID(ctx context.Context, userID uint) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = *user
	return nil
}

type fakeAlertRepo struct {
	mu     sync.Mutex
	alerts map[uint]domain.Alert
}

func newFakeAlertRepo(alerts ...domain.Alert) *fakeAlertRepo {
	r := &fakeAlertRepo{alerts: make(map[uint]domain.Alert)}
	for _, a := range alerts {
		r.alerts[a.ID] = a
	}
	return r
}

func (r *fakeAlertRepo) GetByID(ctx context.Context, alertID uint) (*domain.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	alert, ok := r.alerts[alertID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &alert, nil
}

func (r *fakeAlertRepo) Create(ctx context.Context, alert *domain.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts[alert.ID] = *alert
	return nil
}

func (r *fakeAlertRepo) ListActive(ctx context.Context) ([]domain.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Alert
	for _, a := range r.alerts {
		if a.Active {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAlertRepo) ListActiveByFrequency(ctx context.Context, frequency domain.Frequency) ([]domain.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Alert
	for _, a := range r.alerts {
		if a.Active && a.Frequency == frequency {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAlertRepo) SetLastNotificationSent(ctx context.Context, alertID uint, sentAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	alert, ok := r.alerts[alertID]
	if !ok {
		return domain.ErrNotFound
	}
	alert.LastNotificationSent = &sentAt
	r.alerts[alertID] = alert
	return nil
}

func (r *fakeAlertRepo) lastSent(alertID uint) *time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.alerts[alertID].LastNotificationSent
}

type fakeListingRepo struct {
	mu       sync.Mutex
	listings []domain.Listing
	err      error
}

func (r *fakeListingRepo) Search(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []domain.Listing
	for _, l := range r.listings {
		if filter.Matches(l) {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeLogRepo struct {
	mu     sync.Mutex
	nextID uint
	logs   map[uint]*domain.NotificationLog

	// listBarrier, when set, holds every ListDue caller after it has
	// snapshotted the due set until all expected callers have theirs, so
	// concurrent sweeps contend for the same pending logs.
	listBarrier *sync.WaitGroup
}

func newFakeLogRepo() *fakeLogRepo {
	return &fakeLogRepo{logs: make(map[uint]*domain.NotificationLog)}
}

func (r *fakeLogRepo) GetByID(ctx context.Context, logID uint) (*domain.NotificationLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	log, ok := r.logs[logID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *log
	return &copied, nil
}

func (r *fakeLogRepo) Create(ctx context.Context, log *domain.NotificationLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	log.ID = r.nextID
	copied := *log
	r.logs[log.ID] = &copied
	return nil
}

func (r *fakeLogRepo) HasInFlight(ctx context.Context, alertID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, log := range r.logs {
		if log.AlertID != nil && *log.AlertID == alertID && !log.Status.IsTerminal() {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeLogRepo) ListDue(ctx context.Context, now time.Time) ([]domain.NotificationLog, error) {
	r.mu.Lock()
	var out []domain.NotificationLog
	for _, log := range r.logs {
		if log.Status == domain.StatusPending && !log.ScheduledFor.After(now) {
			out = append(out, *log)
		}
	}
	r.mu.Unlock()

	// The snapshot above happens before the barrier: no caller may claim
	// until every caller holds the same due set.
	if r.listBarrier != nil {
		r.listBarrier.Done()
		r.listBarrier.Wait()
	}
	return out, nil
}

func (r *fakeLogRepo) ClaimPending(ctx context.Context, logID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	log, ok := r.logs[logID]
	if !ok || log.Status != domain.StatusPending {
		return false, nil
	}
	log.Status = domain.StatusProcessing
	log.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakeLogRepo) MarkSent(ctx context.Context, logID uint, sentAt time.Time) error {
	return r.finalize(logID, domain.StatusSent, func(log *domain.NotificationLog) {
		log.SentAt = &sentAt
	})
}

func (r *fakeLogRepo) MarkSkipped(ctx context.Context, logID uint) error {
	return r.finalize(logID, domain.StatusSkipped, nil)
}

func (r *fakeLogRepo) MarkFailed(ctx context.Context, logID uint, errorMessage string) error {
	return r.finalize(logID, domain.StatusFailed, func(log *domain.NotificationLog) {
		log.ErrorMessage = errorMessage
	})
}

func (r *fakeLogRepo) finalize(logID uint, to domain.LogStatus, apply func(*domain.NotificationLog)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	log, ok := r.logs[logID]
	if !ok || !domain.CanTransition(log.Status, to) {
		return domain.ErrNotFound
	}
	log.Status = to
	if apply != nil {
		apply(log)
	}
	return nil
}

func (r *fakeLogRepo) ListStaleProcessing(ctx context.Context, cutoff time.Time) ([]domain.NotificationLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.NotificationLog
	for _, log := range r.logs {
		if log.Status == domain.StatusProcessing && log.UpdatedAt.Before(cutoff) {
			out = append(out, *log)
		}
	}
	return out, nil
}

func (r *fakeLogRepo) get(logID uint) domain.NotificationLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.logs[logID]
}

func (r *fakeLogRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.logs)
}

type stubRenderer struct{}

func (stubRenderer) Render(alert domain.Alert, user domain.User, exact, other []matching.Match) domain.RenderedContent {
	return domain.RenderedContent{Subject: "digest for " + alert.Name, Text: "digest"}
}

type fakeDeliverer struct {
	mu    sync.Mutex
	sends []string
	err   error
	// failFor makes delivery fail only for one recipient.
	failFor string
}

func (d *fakeDeliverer) Send(ctx context.Context, user domain.User, content domain.RenderedContent) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return "", d.err
	}
	if d.failFor != "" && user.Email == d.failFor {
		return "", context.DeadlineExceeded
	}
	d.sends = append(d.sends, user.Email)
	return "delivery-1", nil
}

func (d *fakeDeliverer) sent() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.sends...)
}
