package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/kbukum/lyrebird/database"
)

// Repository reads and writes users.
type Repository struct {
	db *database.DB
}

// NewRepository creates a Repository on db.
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts u, assigning its id.
func (r *Repository) Create(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

// GetByEmail returns gorm.ErrRecordNotFound when no user has email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID returns gorm.ErrRecordNotFound when id is unknown.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
