package preference

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kbukum/lyrebird/database"
)

// Recorder persists edits. Each Record commits on its own so the edit
// survives whatever the extraction that follows does.
type Recorder struct {
	db *database.DB
}

// NewRecorder creates a Recorder on db.
func NewRecorder(db *database.DB) *Recorder {
	return &Recorder{db: db}
}

// Record stores an edit for userID and returns it with its id set.
func (r *Recorder) Record(ctx context.Context, userID uuid.UUID, original, edited string) (*Edit, error) {
	edit := &Edit{UserID: userID, OriginalText: original, EditedText: edited}
	err := r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		return tx.Create(edit).Error
	})
	if err != nil {
		return nil, database.FromDatabase(err, "user edit")
	}
	return edit, nil
}

// Count returns how many edits userID has recorded.
func (r *Recorder) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Edit{}).Where("user_id = ?", userID).Count(&n).Error
	if err != nil {
		return 0, database.FromDatabase(err, "user edit")
	}
	return n, nil
}
