package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/dealsight/dealsight/internal/domain"
)

type NotificationLogRepository struct {
	db *gorm.DB
}

func NewNotificationLogRepository(db *gorm.DB) *NotificationLogRepository {
	return &NotificationLogRepository{db: db}
}

func (r *NotificationLogRepository) GetByID(ctx context.Context, logID uint) (*domain.NotificationLog, error) {
	var model notificationLogModel
	if err := r.db.WithContext(ctx).First(&model, logID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	log := mapLogToDomain(model)
	return &log, nil
}

func (r *NotificationLogRepository) Create(ctx context.Context, log *domain.NotificationLog) error {
	model := notificationLogModel{
		UserID:       log.UserID,
		AlertID:      log.AlertID,
		Status:       string(log.Status),
		ScheduledFor: log.ScheduledFor,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	log.ID = model.ID
	log.CreatedAt = model.CreatedAt
	log.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *NotificationLogRepository) HasInFlight(ctx context.Context, alertID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&notificationLogModel{}).
		Where("alert_id = ? AND status IN ?", alertID, []string{string(domain.StatusPending), string(domain.StatusProcessing)}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *NotificationLogRepository) ListDue(ctx context.Context, now time.Time) ([]domain.NotificationLog, error) {
	var models []notificationLogModel
	err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_for <= ?", string(domain.StatusPending), now).
		Order("scheduled_for").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return mapLogsToDomain(models), nil
}

// ClaimPending is the conditional check-then-set the whole pipeline's
// concurrency safety rests on: the row only moves to processing when it is
// still pending, so exactly one of any number of racing sweeps wins.
func (r *NotificationLogRepository) ClaimPending(ctx context.Context, logID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&notificationLogModel{}).
		Where("id = ? AND status = ?", logID, string(domain.StatusPending)).
		Update("status", string(domain.StatusProcessing))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *NotificationLogRepository) MarkSent(ctx context.Context, logID uint, sentAt time.Time) error {
	return r.finalize(ctx, logID, domain.StatusSent, map[string]any{
		"status":  string(domain.StatusSent),
		"sent_at": sentAt,
	})
}

func (r *NotificationLogRepository) MarkSkipped(ctx context.Context, logID uint) error {
	return r.finalize(ctx, logID, domain.StatusSkipped, map[string]any{
		"status": string(domain.StatusSkipped),
	})
}

func (r *NotificationLogRepository) MarkFailed(ctx context.Context, logID uint, errorMessage string) error {
	return r.finalize(ctx, logID, domain.StatusFailed, map[string]any{
		"status":        string(domain.StatusFailed),
		"error_message": errorMessage,
	})
}

// finalize applies a terminal transition, guarded so a row that already
// left processing is never overwritten. Status monotonicity lives here.
func (r *NotificationLogRepository) finalize(ctx context.Context, logID uint, to domain.LogStatus, updates map[string]any) error {
	if !domain.CanTransition(domain.StatusProcessing, to) {
		return errors.New("invalid terminal transition")
	}
	result := r.db.WithContext(ctx).
		Model(&notificationLogModel{}).
		Where("id = ? AND status = ?", logID, string(domain.StatusProcessing)).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *NotificationLogRepository) ListStaleProcessing(ctx context.Context, cutoff time.Time) ([]domain.NotificationLog, error) {
	var models []notificationLogModel
	err := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", string(domain.StatusProcessing), cutoff).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return mapLogsToDomain(models), nil
}
