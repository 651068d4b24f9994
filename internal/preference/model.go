// Package preference learns per-user formatting rules from transcript edits.
//
// An extract request first records the edit in its own transaction, then
// asks the model for one new rule given the existing ones, and appends the
// rule if there is one. Extraction failures are logged and treated as "no
// new rule"; the edit is kept either way.
package preference

import (
	"github.com/google/uuid"

	"github.com/kbukum/lyrebird/database"
)

// Edit is a row in user_edits: the formatted text and the user's revision of it.
type Edit struct {
	database.BaseModel
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	OriginalText string    `gorm:"not null" json:"original_text"`
	EditedText   string    `gorm:"not null" json:"edited_text"`
}

func (Edit) TableName() string { return "user_edits" }

// Preference is a row in user_preferences. Rows are never updated or deleted.
type Preference struct {
	database.BaseModel
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	UserEditsID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_edits_id"`
	Rules       string    `gorm:"not null" json:"rules"`
}

func (Preference) TableName() string { return "user_preferences" }

// ExtractRequest is the input of an extract call. Both texts are required.
type ExtractRequest struct {
	OriginalText string `json:"original_text" form:"original_text" validate:"required"`
	EditedText   string `json:"edited_text" form:"edited_text" validate:"required"`
}

// Result is the API view of a preference. ID is null and Rules empty when
// the edit taught nothing new.
type Result struct {
	ID          *string `json:"id"`
	UserID      string  `json:"user_id"`
	Rules       string  `json:"rules"`
	UserEditsID string  `json:"user_edits_id"`
}

// ToResult converts a stored preference.
func (p *Preference) ToResult() Result {
	id := p.ID.String()
	return Result{
		ID:          &id,
		UserID:      p.UserID.String(),
		Rules:       p.Rules,
		UserEditsID: p.UserEditsID.String(),
	}
}

// emptyResult is returned when no rule was extracted from edit.
func emptyResult(edit *Edit) Result {
	return Result{
		UserID:      edit.UserID.String(),
		UserEditsID: edit.ID.String(),
	}
}

// Rules returns the rule text of each preference, in order.
func Rules(prefs []Preference) []string {
	out := make([]string, 0, len(prefs))
	for _, p := range prefs {
		out = append(out, p.Rules)
	}
	return out
}
