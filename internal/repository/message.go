package repository

import (
	"context"

	"foundling/internal/models"

	"gorm.io/gorm"
)

// maxConversationMessages bounds how much history a single fetch returns.
const maxConversationMessages = 100

// MessageRepository defines the interface for direct message data operations
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	ListForUser(ctx context.Context, userID uint) ([]*models.Message, error)
}

// messageRepository implements MessageRepository
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *models.Message) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ListForUser returns messages the user sent or received, newest first.
func (r *messageRepository) ListForUser(ctx context.Context, userID uint) ([]*models.Message, error) {
	var messages []*models.Message
	if err := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Limit(maxConversationMessages).
		Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}
