package prompt

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_EmbeddedDefaults(t *testing.T) {
	c, err := NewCatalog(Config{})
	require.NoError(t, err)

	format, err := c.Format()
	require.NoError(t, err)
	assert.Contains(t, format, "transcript")

	extract, err := c.Extract()
	require.NoError(t, err)
	assert.Contains(t, extract, "memory_to_write")
}

func TestCatalog_DirOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "format-transcript.md"), []byte("  custom format  \n"), 0o600))

	c, err := NewCatalog(Config{Dir: dir})
	require.NoError(t, err)

	format, err := c.Format()
	require.NoError(t, err)
	assert.Equal(t, "custom format", format)

	// Missing override falls back to the embedded default.
	extract, err := c.Extract()
	require.NoError(t, err)
	assert.Contains(t, extract, "memory_to_write")
}

func TestCatalog_CustomNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "house-style.md"), []byte("house"), 0o600))

	c, err := NewCatalog(Config{Dir: dir, FormatName: "house-style", ExtractName: "missing"})
	require.NoError(t, err)

	format, err := c.Format()
	require.NoError(t, err)
	assert.Equal(t, "house", format)

	_, err = c.Extract()
	assert.True(t, errors.Is(err, ErrUnknownPrompt))
}

func TestConfig_RejectsPathNames(t *testing.T) {
	_, err := NewCatalog(Config{FormatName: "../etc/passwd"})
	assert.Error(t, err)
}

func TestFormatMessage_ContainsEveryPreference(t *testing.T) {
	prefs := []string{"Use British spelling.", "Write numbers as digits.", "Sign off with {{name}}."}
	msg, err := FormatMessage(prefs, "hello there")
	require.NoError(t, err)

	for _, p := range prefs {
		assert.Contains(t, msg, p)
	}
	assert.Equal(t,
		"### USER FORMATTING PREFERENCES\nUse British spelling.\nWrite numbers as digits.\nSign off with {{name}}.\n\n### TRANSCRIPT TO PROCESS\nhello there",
		msg)
}

func TestExtractMessage(t *testing.T) {
	msg, err := ExtractMessage("colour", "color", nil)
	require.NoError(t, err)
	assert.Equal(t,
		"### ORIGINAL AI VERSION\ncolour\n\n### USER-EDITED VERSION\ncolor\n\n### EXISTING USER PREFERENCES\n",
		msg)
}
