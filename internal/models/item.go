package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Lost item statuses. The lifecycle is owner-driven: active -> found|closed.
const (
	ItemStatusActive = "active"
	ItemStatusFound  = "found"
	ItemStatusClosed = "closed"
)

// MaxItemImages caps how many images a report may carry.
const MaxItemImages = 3

// ValidItemStatus reports whether s is one of the known item statuses.
func ValidItemStatus(s string) bool {
	switch s {
	case ItemStatusActive, ItemStatusFound, ItemStatusClosed:
		return true
	}
	return false
}

// ImageList stores normalized image data strings as a JSON column.
type ImageList []string

// Value implements driver.Valuer.
func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		l = ImageList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *ImageList) Scan(value interface{}) error {
	if value == nil {
		*l = ImageList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported image list column type %T", value)
	}
}

// LostItem represents a lost-item report.
type LostItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"not null" json:"description"`
	CategoryID  string    `gorm:"not null;index" json:"category_id"`
	Location    string    `gorm:"not null" json:"location"`
	DateLost    time.Time `gorm:"not null" json:"date_lost"`
	Images      ImageList `gorm:"type:text" json:"images"`
	Status      string    `gorm:"not null;default:active;index" json:"status"`
	ContactInfo string    `json:"contact_info,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

// ItemFilter narrows the public item listing.
type ItemFilter struct {
	Category string // exact category ID match
	Location string // case-insensitive substring on location
	Search   string // case-insensitive substring on title OR description
}

// ItemWithOwner is an item response decorated with the owner's public profile.
type ItemWithOwner struct {
	LostItem
	Owner *PublicProfile `json:"user"`
}
