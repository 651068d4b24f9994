package local

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStorage_RejectsEscapingKeys(t *testing.T) {
	s, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}
	for _, key := range []string{"../outside", "a/../../b", "", "."} {
		if err := s.Upload(context.Background(), key, strings.NewReader("x"), ""); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Upload(%q) = %v, want ErrInvalidKey", key, err)
		}
	}
}

func TestStorage_UploadOverwrites(t *testing.T) {
	ctx := context.Background()
	s, _ := NewStorage(t.TempDir())
	_ = s.Upload(ctx, "k.bin", strings.NewReader("one"), "")
	if err := s.Upload(ctx, "k.bin", strings.NewReader("two"), ""); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	data, _ := os.ReadFile(filepath.Join(s.BasePath(), "k.bin"))
	if string(data) != "two" {
		t.Errorf("got %q", data)
	}
	entries, _ := os.ReadDir(s.BasePath())
	if len(entries) != 1 {
		t.Errorf("expected no temp files left, got %d entries", len(entries))
	}
}
