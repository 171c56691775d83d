package models

import "time"

// Message is a direct message about an item. Messages are immutable; the
// Read flag is stored for future use but never updated by the service.
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"not null;index" json:"sender_id"`
	ReceiverID uint      `gorm:"not null;index" json:"receiver_id"`
	ItemID     uint      `gorm:"not null;index" json:"item_id"`
	Content    string    `gorm:"not null" json:"content"`
	Read       bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}

// Conversation groups a user's messages about one item with one counterparty.
// Messages keep the order they were collected in (newest first when fed from
// a descending listing); LastMessage is the timestamp of the first message
// seen for the group.
type Conversation struct {
	ItemID      uint       `json:"item_id"`
	OtherUserID uint       `json:"other_user_id"`
	Messages    []*Message `json:"messages"`
	LastMessage time.Time  `json:"last_message"`
}
