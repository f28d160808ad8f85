package repository

import (
	"errors"

	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/apperr"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a row is missing or owned by another user.
var ErrNotFound = apperr.New(apperr.CodeNotFound, "entry not found")

// lockUser serializes knowledge writes per user so two concurrent adds cannot
// both pass the cap check. Postgres takes a row lock on the owning user;
// SQLite's single-writer transactions already serialize.
func lockUser(tx *gorm.DB, userID string) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	return tx.Exec("SELECT id FROM users WHERE id = ? FOR UPDATE", userID).Error
}

// evictOldest deletes the oldest rows of model for userID until one slot is
// free under cap. orderColumn is the per-collection recency column.
func evictOldest(tx *gorm.DB, model interface{}, userID, orderColumn string, cap int) error {
	var count int64
	if err := tx.Model(model).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return err
	}

	excess := int(count) - cap + 1
	if excess <= 0 {
		return nil
	}

	var oldest []string
	if err := tx.Model(model).
		Where("user_id = ?", userID).
		Order(orderColumn + " ASC").
		Limit(excess).
		Pluck("id", &oldest).Error; err != nil {
		return err
	}

	return tx.Where("id IN ?", oldest).Delete(model).Error
}

// deleteOwned deletes one row scoped to its owner, reporting NOT_FOUND when
// the id is missing or belongs to someone else.
func deleteOwned(db *gorm.DB, model interface{}, userID, id string) error {
	res := db.Where("id = ? AND user_id = ?", id, userID).Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func notFoundToNil(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
