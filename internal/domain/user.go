package domain

import "time"

type User struct {
	ID             uint
	Email          string
	FullName       string
	TelegramChatID int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}
