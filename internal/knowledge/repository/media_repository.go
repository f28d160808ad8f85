package repository

import (
	"errors"
	"time"

	"github.com/gustavorubino/Insta-Replyer-sub002/internal/knowledge/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// mediaRepository implements MediaRepository
type mediaRepository struct {
	db *gorm.DB
}

func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

// Upsert refreshes an already-synced post in place; only a genuinely new
// external id goes through the evict-then-insert path.
func (r *mediaRepository) Upsert(entry *domain.MediaEntry) error {
	if entry.SyncedAt.IsZero() {
		entry.SyncedAt = time.Now()
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing domain.MediaEntry
		err := tx.Where("user_id = ? AND external_media_id = ?", entry.UserID, entry.ExternalMediaID).First(&existing).Error
		if err == nil {
			entry.ID = existing.ID
			return tx.Save(entry).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if entry.ID == "" {
			entry.ID = uuid.New().String()
		}
		if err := lockUser(tx, entry.UserID); err != nil {
			return err
		}
		if err := evictOldest(tx, &domain.MediaEntry{}, entry.UserID, "synced_at", domain.MediaEntryCap); err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
}

func (r *mediaRepository) Remove(userID, id string) error {
	return deleteOwned(r.db, &domain.MediaEntry{}, userID, id)
}

func (r *mediaRepository) ListByUser(userID string) ([]*domain.MediaEntry, error) {
	var entries []*domain.MediaEntry
	err := r.db.Where("user_id = ?", userID).Order("posted_at DESC").Find(&entries).Error
	return entries, err
}

func (r *mediaRepository) Recent(userID string, limit int) ([]*domain.MediaEntry, error) {
	var entries []*domain.MediaEntry
	err := r.db.Where("user_id = ?", userID).Order("posted_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}

func (r *mediaRepository) CountByUser(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.MediaEntry{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
