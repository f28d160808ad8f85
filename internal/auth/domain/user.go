package domain

import "time"

type User struct {
	ID       string `json:"id" gorm:"primaryKey"`
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Password string `json:"-"` // Never return password in JSON
	Name     string `json:"name"`

	// Connected Instagram account. The access token is stored AES-GCM
	// encrypted; an empty InstagramUserID means "not connected".
	InstagramUserID   string     `json:"instagram_user_id,omitempty"`
	InstagramUsername string     `json:"instagram_username,omitempty"`
	InstagramToken    string     `json:"-"`
	TokenExpiry       *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Connected reports whether an Instagram account is linked.
func (u *User) Connected() bool {
	return u.InstagramUserID != ""
}

type RefreshToken struct {
	Token     string    `json:"token" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index"`
	ExpiresAt time.Time `json:"expires_at"`
}
