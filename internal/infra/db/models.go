package db

import (
	"time"

	"gorm.io/gorm"
)

type userModel struct {
	ID             uint   `gorm:"primaryKey"`
	Email          string `gorm:"uniqueIndex;not null"`
	FullName       string `gorm:""`
	TelegramChatID int64  `gorm:""`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

type listingModel struct {
	ID                uint   `gorm:"primaryKey"`
	Title             string `gorm:"not null"`
	ListingURL        string `gorm:"uniqueIndex;not null"`
	SourcePlatform    string `gorm:""`
	AskingPrice       int64  `gorm:"index"`
	Revenue           int64  `gorm:""`
	EBITDA            int64  `gorm:"column:ebitda"`
	Industry          string `gorm:"index"`
	Location          string `gorm:""`
	Description       string `gorm:"type:text"`
	FullDescription   string `gorm:"type:text"`
	BusinessAge       int    `gorm:""`
	NumberOfEmployees int    `gorm:""`
	BusinessModel     string `gorm:""`
	ProfitMargin      float64
	SellingMultiple   float64
	Status            string    `gorm:"index"`
	CreatedAt         time.Time `gorm:"index"`
	UpdatedAt         time.Time
}

// alertModel stores string-set criteria as comma-joined text, the same
// shape the original user_preferences rows carried industries in.
type alertModel struct {
	ID     uint   `gorm:"primaryKey"`
	UserID uint   `gorm:"index:idx_alerts_user_active,priority:1;not null"`
	Name   string `gorm:""`

	MinPrice           string `gorm:""`
	MaxPrice           string `gorm:""`
	MinRevenue         string `gorm:""`
	MaxRevenue         string `gorm:""`
	MinEBITDA          string `gorm:"column:min_ebitda"`
	MaxEBITDA          string `gorm:"column:max_ebitda"`
	MinBusinessAge     string `gorm:""`
	MaxBusinessAge     string `gorm:""`
	MinEmployees       string `gorm:""`
	MaxEmployees       string `gorm:""`
	MinProfitMargin    string `gorm:""`
	MaxProfitMargin    string `gorm:""`
	MinSellingMultiple string `gorm:""`
	MaxSellingMultiple string `gorm:""`

	Industries              string `gorm:"type:text"`
	PreferredBusinessModels string `gorm:"type:text"`
	SearchKeywords          string `gorm:"type:text"`
	ExcludeKeywords         string `gorm:"type:text"`
	SearchMatchType         string `gorm:""`
	SearchIn                string `gorm:""`

	Frequency            string `gorm:"index;not null"`
	LastNotificationSent *time.Time
	Active               bool `gorm:"index:idx_alerts_user_active,priority:2"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type notificationLogModel struct {
	ID           uint      `gorm:"primaryKey"`
	UserID       uint      `gorm:"index;not null"`
	AlertID      *uint     `gorm:"index:idx_logs_alert_status,priority:1"`
	Status       string    `gorm:"index:idx_logs_alert_status,priority:2;not null"`
	ScheduledFor time.Time `gorm:"index"`
	SentAt       *time.Time
	ErrorMessage string `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (notificationLogModel) TableName() string { return "notification_logs" }
