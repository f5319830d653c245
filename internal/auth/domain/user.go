package domain

import "time"

type User struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	GoogleSub string    `json:"-" gorm:"index"` // Identity-provider subject id, stable across email changes
	Email     string    `json:"email" gorm:"index"`
	Password  string    `json:"-"` // Never return password in JSON
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Provider  string    `json:"provider"` // "email" or "google"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RefreshToken struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
