package models

import "time"

// Session is a server-side OAuth session row, keyed by the session_id cookie.
type Session struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Token        string    `gorm:"size:100" json:"-"`
	RefreshToken string    `gorm:"size:100" json:"-"`
	DiscordID    *int64    `json:"discordId"`
	Name         string    `json:"name"`
	Avatar       string    `json:"avatar"`
	ExpiresAt    time.Time `json:"expiresAt"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
