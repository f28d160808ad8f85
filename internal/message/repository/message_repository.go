package repository

import (
	"errors"
	"time"

	"github.com/gustavorubino/Insta-Replyer-sub002/internal/message/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MessageRepository persists inbound messages and their workflow state.
type MessageRepository interface {
	// Insert records a message unless its external id was already seen.
	// Returns false when the row already existed.
	Insert(message *domain.InboundMessage) (bool, error)
	FindByID(userID, id string) (*domain.InboundMessage, error)
	FindByExternalID(externalID string) (*domain.InboundMessage, error)
	ListByStatus(userID string, status domain.MessageStatus, limit, offset int) ([]*domain.InboundMessage, error)
	List(userID string, limit, offset int) ([]*domain.InboundMessage, error)
	// UpdateStatusIfPending flips a pending message to a terminal status.
	// Returns false when the message was not pending anymore.
	UpdateStatusIfPending(id string, status domain.MessageStatus) (bool, error)
	// DeleteProcessedBefore bulk-deletes terminal-state messages older than
	// the cutoff, cascading their drafts. Returns the number removed.
	DeleteProcessedBefore(userID string, cutoff time.Time) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Insert(message *domain.InboundMessage) (bool, error) {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	if message.Status == "" {
		message.Status = domain.StatusPending
	}

	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoNothing: true,
	}).Create(message)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *messageRepository) FindByID(userID, id string) (*domain.InboundMessage, error) {
	var message domain.InboundMessage
	err := r.db.Preload("Draft").Where("id = ? AND user_id = ?", id, userID).First(&message).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) FindByExternalID(externalID string) (*domain.InboundMessage, error) {
	var message domain.InboundMessage
	err := r.db.Preload("Draft").Where("external_id = ?", externalID).First(&message).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) ListByStatus(userID string, status domain.MessageStatus, limit, offset int) ([]*domain.InboundMessage, error) {
	var messages []*domain.InboundMessage
	err := r.db.Preload("Draft").
		Where("user_id = ? AND status = ?", userID, status).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&messages).Error
	return messages, err
}

func (r *messageRepository) List(userID string, limit, offset int) ([]*domain.InboundMessage, error) {
	var messages []*domain.InboundMessage
	err := r.db.Preload("Draft").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&messages).Error
	return messages, err
}

func (r *messageRepository) UpdateStatusIfPending(id string, status domain.MessageStatus) (bool, error) {
	now := time.Now()
	res := r.db.Model(&domain.InboundMessage{}).
		Where("id = ? AND status = ?", id, domain.StatusPending).
		Updates(map[string]interface{}{"status": status, "processed_at": now})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *messageRepository) DeleteProcessedBefore(userID string, cutoff time.Time) (int64, error) {
	terminal := []domain.MessageStatus{domain.StatusApproved, domain.StatusRejected, domain.StatusAutoSent}

	var deleted int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&domain.InboundMessage{}).
			Where("user_id = ? AND status IN ? AND created_at < ?", userID, terminal, cutoff).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		// SQLite does not enforce the cascade without foreign_keys pragma, so
		// drafts are removed explicitly.
		if err := tx.Where("message_id IN ?", ids).Delete(&domain.DraftResponse{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", ids).Delete(&domain.InboundMessage{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	return deleted, err
}
