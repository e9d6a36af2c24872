package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/dealsight/dealsight/internal/domain"
)

type AlertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) GetByID(ctx context.Context, alertID uint) (*domain.Alert, error) {
	var model alertModel
	if err := r.db.WithContext(ctx).First(&model, alertID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	alert := mapAlertToDomain(model)
	return &alert, nil
}

func (r *AlertRepository) Create(ctx context.Context, alert *domain.Alert) error {
	model := mapAlertToModel(*alert)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	alert.ID = model.ID
	alert.CreatedAt = model.CreatedAt
	alert.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *AlertRepository) ListActive(ctx context.Context) ([]domain.Alert, error) {
	var models []alertModel
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	return mapAlertsToDomain(models), nil
}

func (r *AlertRepository) ListActiveByFrequency(ctx context.Context, frequency domain.Frequency) ([]domain.Alert, error) {
	var models []alertModel
	if err := r.db.WithContext(ctx).
		Where("active = ? AND frequency = ?", true, string(frequency)).
		Order("id").
		Find(&models).Error; err != nil {
		return nil, err
	}
	return mapAlertsToDomain(models), nil
}

func (r *AlertRepository) SetLastNotificationSent(ctx context.Context, alertID uint, sentAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&alertModel{}).
		Where("id = ?", alertID).
		Update("last_notification_sent", sentAt)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
