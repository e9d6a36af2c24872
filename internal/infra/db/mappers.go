package db

import (
	"strings"
	"time"

	"github.com/dealsight/dealsight/internal/domain"
)

func joinList(values []string) string {
	return strings.Join(values, ",")
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func mapUserToDomain(model userModel) *domain.User {
	var deleted *time.Time
	if model.DeletedAt.Valid {
		t := model.DeletedAt.Time
		deleted = &t
	}
	return &domain.User{
		ID:             model.ID,
		Email:          model.Email,
		FullName:       model.FullName,
		TelegramChatID: model.TelegramChatID,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
		DeletedAt:      deleted,
	}
}

func mapUserToModel(user domain.User) userModel {
	return userModel{
		ID:             user.ID,
		Email:          user.Email,
		FullName:       user.FullName,
		TelegramChatID: user.TelegramChatID,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}

func mapListingToDomain(model listingModel) domain.Listing {
	return domain.Listing{
		ID:                model.ID,
		Title:             model.Title,
		URL:               model.ListingURL,
		SourcePlatform:    model.SourcePlatform,
		AskingPrice:       model.AskingPrice,
		Revenue:           model.Revenue,
		EBITDA:            model.EBITDA,
		Industry:          domain.Industry(model.Industry),
		Location:          model.Location,
		Description:       model.Description,
		FullDescription:   model.FullDescription,
		BusinessAge:       model.BusinessAge,
		NumberOfEmployees: model.NumberOfEmployees,
		BusinessModel:     model.BusinessModel,
		ProfitMargin:      model.ProfitMargin,
		SellingMultiple:   model.SellingMultiple,
		Status:            model.Status,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}

func mapListingsToDomain(models []listingModel) []domain.Listing {
	listings := make([]domain.Listing, 0, len(models))
	for _, model := range models {
		listings = append(listings, mapListingToDomain(model))
	}
	return listings
}

func searchFields(raw string) []domain.SearchField {
	var fields []domain.SearchField
	for _, v := range splitList(raw) {
		fields = append(fields, domain.SearchField(v))
	}
	return fields
}

func searchFieldsToList(fields []domain.SearchField) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, string(f))
	}
	return joinList(parts)
}

func mapAlertToDomain(model alertModel) domain.Alert {
	return domain.Alert{
		ID:     model.ID,
		UserID: model.UserID,
		Name:   model.Name,

		MinPrice:           model.MinPrice,
		MaxPrice:           model.MaxPrice,
		MinRevenue:         model.MinRevenue,
		MaxRevenue:         model.MaxRevenue,
		MinEBITDA:          model.MinEBITDA,
		MaxEBITDA:          model.MaxEBITDA,
		MinBusinessAge:     model.MinBusinessAge,
		MaxBusinessAge:     model.MaxBusinessAge,
		MinEmployees:       model.MinEmployees,
		MaxEmployees:       model.MaxEmployees,
		MinProfitMargin:    model.MinProfitMargin,
		MaxProfitMargin:    model.MaxProfitMargin,
		MinSellingMultiple: model.MinSellingMultiple,
		MaxSellingMultiple: model.MaxSellingMultiple,

		Industries:              splitList(model.Industries),
		PreferredBusinessModels: splitList(model.PreferredBusinessModels),
		SearchKeywords:          splitList(model.SearchKeywords),
		ExcludeKeywords:         splitList(model.ExcludeKeywords),
		SearchMatchType:         domain.MatchType(model.SearchMatchType),
		SearchIn:                searchFields(model.SearchIn),

		Frequency:            domain.Frequency(model.Frequency),
		LastNotificationSent: model.LastNotificationSent,
		Active:               model.Active,

		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func mapAlertsToDomain(models []alertModel) []domain.Alert {
	alerts := make([]domain.Alert, 0, len(models))
	for _, model := range models {
		alerts = append(alerts, mapAlertToDomain(model))
	}
	return alerts
}

func mapAlertToModel(alert domain.Alert) alertModel {
	return alertModel{
		ID:     alert.ID,
		UserID: alert.UserID,
		Name:   alert.Name,

		MinPrice:           alert.MinPrice,
		MaxPrice:           alert.MaxPrice,
		MinRevenue:         alert.MinRevenue,
		MaxRevenue:         alert.MaxRevenue,
		MinEBITDA:          alert.MinEBITDA,
		MaxEBITDA:          alert.MaxEBITDA,
		MinBusinessAge:     alert.MinBusinessAge,
		MaxBusinessAge:     alert.MaxBusinessAge,
		MinEmployees:       alert.MinEmployees,
		MaxEmployees:       alert.MaxEmployees,
		MinProfitMargin:    alert.MinProfitMargin,
		MaxProfitMargin:    alert.MaxProfitMargin,
		MinSellingMultiple: alert.MinSellingMultiple,
		MaxSellingMultiple: alert.MaxSellingMultiple,

		Industries:              joinList(alert.Industries),
		PreferredBusinessModels: joinList(alert.PreferredBusinessModels),
		SearchKeywords:          joinList(alert.SearchKeywords),
		ExcludeKeywords:         joinList(alert.ExcludeKeywords),
		SearchMatchType:         string(alert.SearchMatchType),
		SearchIn:                searchFieldsToList(alert.SearchIn),

		Frequency:            string(alert.Frequency),
		LastNotificationSent: alert.LastNotificationSent,
		Active:               alert.Active,

		CreatedAt: alert.CreatedAt,
		UpdatedAt: alert.UpdatedAt,
	}
}

func mapLogToDomain(model notificationLogModel) domain.NotificationLog {
	return domain.NotificationLog{
		ID:           model.ID,
		UserID:       model.UserID,
		AlertID:      model.AlertID,
		Status:       domain.LogStatus(model.Status),
		ScheduledFor: model.ScheduledFor,
		SentAt:       model.SentAt,
		ErrorMessage: model.ErrorMessage,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

func mapLogsToDomain(models []notificationLogModel) []domain.NotificationLog {
	logs := make([]domain.NotificationLog, 0, len(models))
	for _, model := range models {
		logs = append(logs, mapLogToDomain(model))
	}
	return logs
}
