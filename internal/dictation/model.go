// Package dictation turns uploaded audio into formatted transcripts.
package dictation

import (
	"github.com/google/uuid"

	"github.com/kbukum/lyrebird/database"
)

// Dictation is a row in dictations. Rows are immutable after create.
type Dictation struct {
	database.BaseModel
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Text          string    `gorm:"not null" json:"text"`
	FormattedText string    `gorm:"not null" json:"formatted_text"`
	// AudioKey is the archived audio's storage key, empty when archiving is off.
	AudioKey string `gorm:"not null;default:''" json:"-"`
}

func (Dictation) TableName() string { return "dictations" }

// Response is the API view of a dictation.
type Response struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	Text          string `json:"text"`
	FormattedText string `json:"formatted_text"`
}

// ToResponse converts d to its API view.
func (d *Dictation) ToResponse() Response {
	return Response{
		ID:            d.ID.String(),
		UserID:        d.UserID.String(),
		Text:          d.Text,
		FormattedText: d.FormattedText,
	}
}
