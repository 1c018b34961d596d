package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"badminton-community-system/logging"
	"badminton-community-system/models"
)

const maxMessageBody = 2000

// ChatService persists direct messages and pushes them to the recipient if
// they are online. The row is the durable copy; the push is best effort.
type ChatService struct {
	DB     *gorm.DB
	events Emitter
}

func NewChatService(db *gorm.DB, events Emitter) *ChatService {
	return &ChatService{DB: db, events: events}
}

func (s *ChatService) Send(ctx context.Context, fromID, toID, body string) (*models.DirectMessage, error) {
	if fromID == toID {
		return nil, validationf("cannot message yourself")
	}
	if body == "" {
		return nil, validationf("message body is required")
	}
	if len(body) > maxMessageBody {
		return nil, validationf("message body must be at most %d characters", maxMessageBody)
	}

	var recipient models.PlayerProfile
	err := s.DB.WithContext(ctx).First(&recipient, "id = ?", toID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	msg := &models.DirectMessage{
		ID:          uuid.NewString(),
		SenderID:    fromID,
		RecipientID: toID,
		Body:        body,
	}
	if err := s.DB.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, err
	}

	s.events.Emit(Event{
		Name:       EventChatMessage,
		Recipients: []string{toID},
		Payload:    msg,
	})

	logging.L().Debug("direct message sent",
		zap.String("message_id", msg.ID),
		zap.String("from", fromID),
		zap.String("to", toID))
	return msg, nil
}

// Conversation returns the two-way message page between a and b, newest
// first.
func (s *ChatService) Conversation(ctx context.Context, a, b string, page, limit int) ([]models.DirectMessage, error) {
	var msgs []models.DirectMessage
	err := s.DB.WithContext(ctx).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)", a, b, b, a).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&msgs).Error
	return msgs, err
}
