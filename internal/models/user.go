// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents an account created from a verified external identity.
// Users are never deleted; name and avatar are refreshed on re-login.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Name      string    `gorm:"not null" json:"name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PublicProfile is the denormalized owner info attached to item responses.
type PublicProfile struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Public returns the denormalized view of the user for embedding in responses.
func (u *User) Public() PublicProfile {
	return PublicProfile{Name: u.Name, AvatarURL: u.AvatarURL}
}
