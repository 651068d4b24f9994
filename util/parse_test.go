package util

import "testing"

func TestParseSize(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"10MB", 10 * 1024 * 1024},
		{"512KB", 512 * 1024},
		{"2GB", 2 * 1024 * 1024 * 1024},
		{"1024", 1024},
		{"1024B", 1024},
		{"  10MB  ", 10 * 1024 * 1024},
		{"10mb", 10 * 1024 * 1024},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := ParseSize(tc.input, 0); got != tc.want {
				t.Errorf("ParseSize(%q) = %d, want %d", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseSize_Default(t *testing.T) {
	def := int64(5 * 1024 * 1024)
	for _, in := range []string{"", "lots", "-3MB"} {
		if got := ParseSize(in, def); got != def {
			t.Errorf("ParseSize(%q) = %d, want default %d", in, got, def)
		}
	}
}

func TestFormatSize(t *testing.T) {
	tests := map[int64]string{
		10 * 1024 * 1024:       "10MB",
		512 * 1024:             "512KB",
		1536 * 1024:            "1536KB",
		2 * 1024 * 1024 * 1024: "2GB",
		100:                    "100B",
	}
	for in, want := range tests {
		if got := FormatSize(in); got != want {
			t.Errorf("FormatSize(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestMaskSecret(t *testing.T) {
	if got := MaskSecret("sk-abcdef", 3); got != "sk-***" {
		t.Errorf("unexpected mask %q", got)
	}
	if got := MaskSecret("ab", 3); got != "***" {
		t.Errorf("short secrets should be fully masked, got %q", got)
	}
}
