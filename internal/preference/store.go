package preference

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kbukum/lyrebird/database"
	apperrors "github.com/kbukum/lyrebird/errors"
)

// Store appends and lists preferences. There is no update or delete.
type Store struct {
	db *database.DB
}

// NewStore creates a Store on db.
func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

// Append stores rules as a new preference of userID learned from the edit
// editID. The edit must belong to userID.
func (s *Store) Append(ctx context.Context, userID, editID uuid.UUID, rules string) (*Preference, error) {
	pref := &Preference{UserID: userID, UserEditsID: editID, Rules: rules}

	err := s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		var edit Edit
		if err := tx.Select("id", "user_id").Where("id = ?", editID).First(&edit).Error; err != nil {
			return err
		}
		if edit.UserID != userID {
			return apperrors.Validation(fmt.Sprintf("user edit %s does not belong to user %s", editID, userID))
		}
		return tx.Create(pref).Error
	})
	if err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok {
			return nil, appErr
		}
		return nil, database.FromDatabase(err, "user edit")
	}
	return pref, nil
}

// ListByUser returns userID's preferences oldest first.
func (s *Store) ListByUser(ctx context.Context, userID uuid.UUID) ([]Preference, error) {
	var prefs []Preference
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&prefs).Error
	if err != nil {
		return nil, database.FromDatabase(err, "user preference")
	}
	return prefs, nil
}
