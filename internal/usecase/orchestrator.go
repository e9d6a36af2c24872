package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dealsight/dealsight/internal/domain"
	"github.com/dealsight/dealsight/internal/matching"
	"github.com/dealsight/dealsight/internal/schedule"
)

// Renderer turns an alert's matches into deliverable digest content.
// Stateless, no I/O.
type Renderer interface {
	Render(alert domain.Alert, user domain.User, exact, other []matching.Match) domain.RenderedContent
}

// Deliverer sends rendered content to a user over one channel and returns
// the transport's delivery id. The orchestrator bounds each call with its
// own timeout and never retries within a sweep.
type Deliverer interface {
	Send(ctx context.Context, user domain.User, content domain.RenderedContent) (string, error)
}

var errAlreadyInFlight = errors.New("notification already in flight")

// Orchestrator drives the digest pipeline: deciding which alerts are due,
// creating notification logs, and working pending logs through to a
// terminal state.
type Orchestrator struct {
	users     domain.UserRepository
	alerts    domain.AlertRepository
	listings  domain.ListingRepository
	logs      domain.NotificationLogRepository
	renderer  Renderer
	deliverer Deliverer
	logger    *zap.Logger

	deliveryTimeout time.Duration
	staleAfter      time.Duration

	evalGuard    SweepGuard
	processGuard SweepGuard
}

func NewOrchestrator(
	users domain.UserRepository,
	alerts domain.AlertRepository,
	listings domain.ListingRepository,
	logs domain.NotificationLogRepository,
	renderer Renderer,
	deliverer Deliverer,
	deliveryTimeout time.Duration,
	staleAfter time.Duration,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		users:           users,
		alerts:          alerts,
		listings:        listings,
		logs:            logs,
		renderer:        renderer,
		deliverer:       deliverer,
		deliveryTimeout: deliveryTimeout,
		staleAfter:      staleAfter,
		logger:          logger,
	}
}

// SweepActive reports whether any sweep is currently running in this
// process.
func (o *Orchestrator) SweepActive() bool {
	return o.evalGuard.Held() || o.processGuard.Held()
}

// EvaluateAndSchedule checks every active periodic alert and creates a
// pending notification log for each one that is due and has nothing in
// flight.
func (o *Orchestrator) EvaluateAndSchedule(ctx context.Context, now time.Time) (ScheduleReport, error) {
	var report ScheduleReport
	if !o.evalGuard.TryAcquire() {
		o.logger.Info("evaluate sweep already running, skipping tick")
		report.Busy = true
		return report, nil
	}
	defer o.evalGuard.Release()

	alerts, err := o.alerts.ListActive(ctx)
	if err != nil {
		return report, fmt.Errorf("list active alerts: %w", err)
	}

	for _, alert := range alerts {
		if alert.Frequency == domain.FrequencyInstantly {
			continue
		}
		report.Evaluated++
		if !schedule.IsDue(alert.Frequency, alert.LastNotificationSent, now) {
			continue
		}
		report.Due++

		switch err := o.scheduleLog(ctx, alert, now); {
		case err == nil:
			report.Scheduled++
		case errors.Is(err, errAlreadyInFlight):
			report.AlreadyInFlight++
		default:
			report.Failed++
			o.logger.Warn("failed to schedule notification", zap.Uint("alert_id", alert.ID), zap.Error(err))
		}
	}

	o.logger.Info(
		"evaluate sweep complete",
		zap.Int("evaluated", report.Evaluated),
		zap.Int("due", report.Due),
		zap.Int("scheduled", report.Scheduled),
		zap.Int("in_flight", report.AlreadyInFlight),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

// TriggerInstant schedules a near-immediate digest for every active instant
// alert. Called once per confirmed ingestion batch; the is-due check does
// not apply, but the one-in-flight invariant still does.
func (o *Orchestrator) TriggerInstant(ctx context.Context, now time.Time) (InstantReport, error) {
	var report InstantReport

	alerts, err := o.alerts.ListActiveByFrequency(ctx, domain.FrequencyInstantly)
	if err != nil {
		return report, fmt.Errorf("list instant alerts: %w", err)
	}
	report.Alerts = len(alerts)

	for _, alert := range alerts {
		switch err := o.scheduleLog(ctx, alert, now); {
		case err == nil:
			report.Scheduled++
		case errors.Is(err, errAlreadyInFlight):
			report.AlreadyInFlight++
		default:
			report.Failed++
			o.logger.Warn("failed to schedule instant notification", zap.Uint("alert_id", alert.ID), zap.Error(err))
		}
	}

	if report.Alerts > 0 {
		o.logger.Info(
			"instant trigger complete",
			zap.Int("alerts", report.Alerts),
			zap.Int("scheduled", report.Scheduled),
			zap.Int("in_flight", report.AlreadyInFlight),
		)
	}
	return report, nil
}

// scheduleLog creates a pending log for the alert unless one is already in
// flight. An in-flight log is a no-op, not an error.
func (o *Orchestrator) scheduleLog(ctx context.Context, alert domain.Alert, now time.Time) error {
	inFlight, err := o.logs.HasInFlight(ctx, alert.ID)
	if err != nil {
		return fmt.Errorf("check in-flight logs: %w", err)
	}
	if inFlight {
		return errAlreadyInFlight
	}

	alertID := alert.ID
	log := &domain.NotificationLog{
		UserID:       alert.UserID,
		AlertID:      &alertID,
		Status:       domain.StatusPending,
		ScheduledFor: schedule.NextRun(alert.Frequency, now),
	}
	if err := o.logs.Create(ctx, log); err != nil {
		return fmt.Errorf("create notification log: %w", err)
	}

	o.logger.Debug(
		"notification scheduled",
		zap.Uint("alert_id", alert.ID),
		zap.Time("scheduled_for", log.ScheduledFor),
	)
	return nil
}

type processOutcome int

const (
	outcomeRaceLost processOutcome = iota
	outcomeSent
	outcomeSkipped
	outcomeFailed
)

// ProcessDue claims every pending log whose scheduled time has passed and
// works it to a terminal state. Each log is processed in isolation.
func (o *Orchestrator) ProcessDue(ctx context.Context, now time.Time) (ProcessReport, error) {
	var report ProcessReport
	if !o.processGuard.TryAcquire() {
		o.logger.Info("process sweep already running, skipping tick")
		report.Busy = true
		return report, nil
	}
	defer o.processGuard.Release()

	due, err := o.logs.ListDue(ctx, now)
	if err != nil {
		return report, fmt.Errorf("list due logs: %w", err)
	}
	report.Due = len(due)

	for _, log := range due {
		switch o.processLog(ctx, log, now) {
		case outcomeRaceLost:
			report.RacesLost++
		case outcomeSent:
			report.Sent++
		case outcomeSkipped:
			report.Skipped++
		case outcomeFailed:
			report.Failed++
		}
	}

	if report.Due > 0 {
		o.logger.Info(
			"process sweep complete",
			zap.Int("due", report.Due),
			zap.Int("sent", report.Sent),
			zap.Int("skipped", report.Skipped),
			zap.Int("failed", report.Failed),
			zap.Int("races_lost", report.RacesLost),
		)
	}
	return report, nil
}

func (o *Orchestrator) processLog(ctx context.Context, log domain.NotificationLog, now time.Time) processOutcome {
	claimed, err := o.logs.ClaimPending(ctx, log.ID)
	if err != nil {
		o.logger.Warn("failed to claim notification log", zap.Uint("log_id", log.ID), zap.Error(err))
		return outcomeFailed
	}
	if !claimed {
		// Another sweep got there first. No state change, no side effects.
		o.logger.Debug("lost claim race", zap.Uint("log_id", log.ID))
		return outcomeRaceLost
	}

	if log.AlertID == nil {
		return o.finalizeFailed(ctx, log.ID, "log has no alert reference")
	}

	alert, err := o.alerts.GetByID(ctx, *log.AlertID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return o.finalizeFailed(ctx, log.ID, fmt.Sprintf("alert %d not found", *log.AlertID))
		}
		return o.finalizeFailed(ctx, log.ID, fmt.Sprintf("load alert: %v", err))
	}

	user, err := o.users.GetByID(ctx, log.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return o.finalizeFailed(ctx, log.ID, fmt.Sprintf("user %d not found", log.UserID))
		}
		return o.finalizeFailed(ctx, log.ID, fmt.Sprintf("load user: %v", err))
	}

	filter := matching.BuildFilter(*alert, now)
	candidates, err := o.listings.Search(ctx, filter)
	if err != nil {
		return o.finalizeFailed(ctx, log.ID, fmt.Sprintf("search listings: %v", err))
	}

	exact, other := matching.Partition(candidates, *alert)
	if len(exact) == 0 && len(other) == 0 {
		return o.finalizeSkipped(ctx, log.ID, alert.ID, now)
	}

	content := o.renderer.Render(*alert, *user, exact, other)

	sendCtx, cancel := context.WithTimeout(ctx, o.deliveryTimeout)
	deliveryID, err := o.deliverer.Send(sendCtx, *user, content)
	cancel()
	if err != nil {
		// Delivery failures leave last_notification_sent untouched so the
		// alert is retried on its next due cycle.
		return o.finalizeFailed(ctx, log.ID, fmt.Sprintf("deliver digest: %v", err))
	}

	if err := o.logs.MarkSent(ctx, log.ID, now); err != nil {
		o.logger.Warn("failed to mark log sent", zap.Uint("log_id", log.ID), zap.Error(err))
		return outcomeFailed
	}
	if err := o.alerts.SetLastNotificationSent(ctx, alert.ID, now); err != nil {
		o.logger.Warn("failed to advance last notification time", zap.Uint("alert_id", alert.ID), zap.Error(err))
	}

	o.logger.Info(
		"digest delivered",
		zap.Uint("log_id", log.ID),
		zap.Uint("alert_id", alert.ID),
		zap.String("delivery_id", deliveryID),
		zap.Int("exact_matches", len(exact)),
		zap.Int("other_matches", len(other)),
	)
	return outcomeSent
}

// finalizeSkipped records a zero-match cycle. The skip still advances
// last_notification_sent so the same empty window is not re-evaluated on
// every sweep.
func (o *Orchestrator) finalizeSkipped(ctx context.Context, logID, alertID uint, now time.Time) processOutcome {
	if err := o.logs.MarkSkipped(ctx, logID); err != nil {
		o.logger.Warn("failed to mark log skipped", zap.Uint("log_id", logID), zap.Error(err))
		return outcomeFailed
	}
	if err := o.alerts.SetLastNotificationSent(ctx, alertID, now); err != nil {
		o.logger.Warn("failed to advance last notification time", zap.Uint("alert_id", alertID), zap.Error(err))
	}
	o.logger.Info("digest skipped, no matching listings", zap.Uint("log_id", logID), zap.Uint("alert_id", alertID))
	return outcomeSkipped
}

func (o *Orchestrator) finalizeFailed(ctx context.Context, logID uint, message string) processOutcome {
	if err := o.logs.MarkFailed(ctx, logID, message); err != nil {
		o.logger.Error("failed to mark log failed", zap.Uint("log_id", logID), zap.Error(err))
	}
	o.logger.Warn("digest failed", zap.Uint("log_id", logID), zap.String("reason", message))
	return outcomeFailed
}

// RecoverStale fails logs stuck in processing longer than the staleness
// threshold, typically after a crashed or timed-out sweep, so their alerts
// become eligible again.
func (o *Orchestrator) RecoverStale(ctx context.Context, now time.Time) (RecoverReport, error) {
	var report RecoverReport

	stale, err := o.logs.ListStaleProcessing(ctx, now.Add(-o.staleAfter))
	if err != nil {
		return report, fmt.Errorf("list stale logs: %w", err)
	}
	report.Stale = len(stale)

	for _, log := range stale {
		if err := o.logs.MarkFailed(ctx, log.ID, "processing timed out"); err != nil {
			report.Failed++
			o.logger.Warn("failed to recover stale log", zap.Uint("log_id", log.ID), zap.Error(err))
			continue
		}
		report.TimedOut++
		o.logger.Info("stale processing log failed", zap.Uint("log_id", log.ID))
	}
	return report, nil
}
