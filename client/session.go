package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Pages of the dashboard.
const (
	PageAuth     = "auth"
	PageFunction = "function"
)

// Auth modes on the auth page.
const (
	ModeLogin  = "login"
	ModeSignup = "signup"
)

// Session is the dashboard state. It is passed to views explicitly and
// saved to disk between CLI invocations.
type Session struct {
	Token               string   `json:"jwt_token,omitempty"`
	Page                string   `json:"page"`
	AuthMode            string   `json:"auth_mode"`
	Transcript          string   `json:"transcript,omitempty"`
	EditedTranscript    string   `json:"edited_transcript,omitempty"`
	FormattedTranscript string   `json:"formatted_transcript,omitempty"`
	DictationID         string   `json:"dictation_id,omitempty"`
	Preferences         []string `json:"user_preferences,omitempty"`
	ErrorMessage        string   `json:"error_message,omitempty"`

	path string
}

// NewSession returns a logged-out session on the login page.
func NewSession() *Session {
	return &Session{Page: PageAuth, AuthMode: ModeLogin}
}

// DefaultSessionPath returns the per-user session file location.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "lyrebird", "session.json"), nil
}

// LoadSession reads the session at path. A missing file gives a new session.
func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		s := NewSession()
		s.path = path
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("client: read session: %w", err)
	}

	s := NewSession()
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("client: decode session %s: %w", path, err)
	}
	s.path = path
	return s, nil
}

// Save writes the session back to the file it was loaded from. The file is
// private to the user since it holds the token.
func (s *Session) Save() error {
	if s.path == "" {
		return errors.New("client: session has no file")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("client: create session dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("client: write session: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// Authenticated reports whether a token is held.
func (s *Session) Authenticated() bool {
	return s.Token != ""
}

// SetAuthMode switches between login and signup.
func (s *Session) SetAuthMode(mode string) {
	s.AuthMode = mode
}

// LoggedIn stores token and moves to the function page.
func (s *Session) LoggedIn(token string) {
	s.Token = token
	s.Page = PageFunction
	s.ErrorMessage = ""
}

// Logout clears everything and returns to the login page.
func (s *Session) Logout() {
	path := s.path
	*s = *NewSession()
	s.path = path
}

// SetTranscription records a dictation result. The edited transcript
// starts as the raw text.
func (s *Session) SetTranscription(d *Dictation) {
	s.Transcript = d.Text
	s.EditedTranscript = d.Text
	s.FormattedTranscript = d.FormattedText
	s.DictationID = d.ID
	s.ErrorMessage = ""
}

// SetEdited records the user's revision.
func (s *Session) SetEdited(text string) {
	s.EditedTranscript = text
}

// SetPreferences replaces the cached preference list.
func (s *Session) SetPreferences(rules []string) {
	s.Preferences = append([]string(nil), rules...)
}

// SetError records a message for the next view.
func (s *Session) SetError(msg string) {
	s.ErrorMessage = msg
}

// ClearError drops the pending error message.
func (s *Session) ClearError() {
	s.ErrorMessage = ""
}

// ResetDictation forgets the current dictation but keeps the login.
func (s *Session) ResetDictation() {
	s.Transcript = ""
	s.EditedTranscript = ""
	s.FormattedTranscript = ""
	s.DictationID = ""
	s.ErrorMessage = ""
}
