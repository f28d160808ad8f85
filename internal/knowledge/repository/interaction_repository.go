package repository

import (
	"errors"
	"time"

	"github.com/gustavorubino/Insta-Replyer-sub002/internal/knowledge/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// interactionRepository implements InteractionRepository
type interactionRepository struct {
	db *gorm.DB
}

func NewInteractionRepository(db *gorm.DB) InteractionRepository {
	return &interactionRepository{db: db}
}

// Add stores one exchange, evicting the oldest entries beyond the per-user
// cap. Synced comments are keyed by their external comment id: re-adding one
// refreshes the stored pair in place instead of creating a duplicate.
func (r *interactionRepository) Add(entry *domain.InteractionEntry) error {
	if entry.InteractedAt.IsZero() {
		entry.InteractedAt = time.Now()
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if entry.ExternalCommentID != "" {
			var existing domain.InteractionEntry
			err := tx.Where("user_id = ? AND external_comment_id = ?", entry.UserID, entry.ExternalCommentID).First(&existing).Error
			if err == nil {
				entry.ID = existing.ID
				return tx.Save(entry).Error
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		if entry.ID == "" {
			entry.ID = uuid.New().String()
		}
		if err := lockUser(tx, entry.UserID); err != nil {
			return err
		}
		if err := evictOldest(tx, &domain.InteractionEntry{}, entry.UserID, "interacted_at", domain.InteractionCap); err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
}

func (r *interactionRepository) Remove(userID, id string) error {
	return deleteOwned(r.db, &domain.InteractionEntry{}, userID, id)
}

func (r *interactionRepository) ListByUser(userID string) ([]*domain.InteractionEntry, error) {
	var entries []*domain.InteractionEntry
	err := r.db.Where("user_id = ?", userID).Order("interacted_at DESC").Find(&entries).Error
	return entries, err
}

func (r *interactionRepository) Recent(userID string, limit int) ([]*domain.InteractionEntry, error) {
	var entries []*domain.InteractionEntry
	err := r.db.Where("user_id = ?", userID).Order("interacted_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}

func (r *interactionRepository) CountByUser(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.InteractionEntry{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
