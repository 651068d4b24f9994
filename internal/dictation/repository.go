package dictation

import (
	"context"

	"github.com/google/uuid"

	"github.com/kbukum/lyrebird/database"
	"github.com/kbukum/lyrebird/database/query"
)

// Repository reads and writes dictations.
type Repository struct {
	db *database.DB
}

// NewRepository creates a Repository on db.
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts d, assigning its id.
func (r *Repository) Create(ctx context.Context, d *Dictation) error {
	return r.db.WithContext(ctx).Create(d).Error
}

// ListByUser returns one page of userID's dictations.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, page query.Params) ([]Dictation, error) {
	var out []Dictation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Scopes(page.Paginate()).
		Find(&out).Error
	return out, err
}

// GetForUser returns gorm.ErrRecordNotFound when id is unknown or owned by
// someone else.
func (r *Repository) GetForUser(ctx context.Context, userID, id uuid.UUID) (*Dictation, error) {
	var d Dictation
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}
