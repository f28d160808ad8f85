package repository

import (
	"github.com/gustavorubino/Insta-Replyer-sub002/internal/knowledge/domain"
)

// CorrectionRepository stores golden corrections, capped per user.
type CorrectionRepository interface {
	// Add inserts a correction, evicting the user's oldest rows first when the
	// cap is reached. The evict-then-insert sequence is one transaction.
	Add(correction *domain.ManualCorrection) error
	Remove(userID, id string) error
	ListByUser(userID string) ([]*domain.ManualCorrection, error)
	Recent(userID string, limit int) ([]*domain.ManualCorrection, error)
	FindByIDs(userID string, ids []string) ([]*domain.ManualCorrection, error)
	CountByUser(userID string) (int64, error)
}

// MediaRepository stores synced media posts, capped per user.
type MediaRepository interface {
	// Upsert inserts or refreshes an entry keyed by (user, external media id),
	// evicting the oldest-synced rows beyond the cap.
	Upsert(entry *domain.MediaEntry) error
	Remove(userID, id string) error
	ListByUser(userID string) ([]*domain.MediaEntry, error)
	Recent(userID string, limit int) ([]*domain.MediaEntry, error)
	CountByUser(userID string) (int64, error)
}

// InteractionRepository stores past exchanges, capped per user.
type InteractionRepository interface {
	Add(entry *domain.InteractionEntry) error
	Remove(userID, id string) error
	ListByUser(userID string) ([]*domain.InteractionEntry, error)
	Recent(userID string, limit int) ([]*domain.InteractionEntry, error)
	CountByUser(userID string) (int64, error)
}

// GuidelineRepository stores prompt directives; unbounded.
type GuidelineRepository interface {
	Create(g *domain.Guideline) error
	Update(g *domain.Guideline) error
	Remove(userID, id string) error
	FindByID(userID, id string) (*domain.Guideline, error)
	ListByUser(userID string) ([]*domain.Guideline, error)
	// ActiveByUser returns active guidelines highest-priority first,
	// insertion order breaking ties.
	ActiveByUser(userID string) ([]*domain.Guideline, error)
}
