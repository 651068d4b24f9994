package dictation

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	apperrors "github.com/kbukum/lyrebird/errors"
	"github.com/kbukum/lyrebird/util"
)

// Upload is an audio file as received from a client.
type Upload struct {
	FileName string
	// ContentType is the type the client declared. It may be empty.
	ContentType string
	Data        []byte
}

// ReadUpload reads at most limit+1 bytes from r so an oversized body is
// detected without buffering all of it.
func ReadUpload(r io.Reader, fileName, contentType string, limit int64) (Upload, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return Upload{}, tooLarge(limit)
		}
		return Upload{}, apperrors.InvalidInput("audio", "could not read the uploaded file").WithCause(err)
	}
	return Upload{FileName: fileName, ContentType: contentType, Data: data}, nil
}

// Validator checks uploads against the configured limits.
type Validator struct {
	maxBytes int64
	allowed  []string
}

// NewValidator creates a Validator from cfg.
func NewValidator(cfg Config) *Validator {
	cfg.ApplyDefaults()
	return &Validator{maxBytes: cfg.MaxBytes(), allowed: cfg.AllowedTypes}
}

// Validate returns the normalized content type of u, or an AppError.
// An empty or generic declared type is replaced by a sniffed one.
func (v *Validator) Validate(u Upload) (string, error) {
	if len(u.Data) == 0 {
		return "", apperrors.InvalidInput("audio", "the uploaded file is empty")
	}

	ct := normalizeType(u.ContentType)
	if ct == "" || ct == "application/octet-stream" {
		ct = v.sniff(u.Data)
	}
	if !v.isAllowed(ct) {
		return "", apperrors.UnsupportedMediaType(
			"Unsupported file type. Allowed types: " + strings.Join(v.shortNames(), ", "),
		).WithDetail("content_type", ct)
	}

	if int64(len(u.Data)) > v.maxBytes {
		return "", tooLarge(v.maxBytes)
	}
	return ct, nil
}

// sniff maps detected content onto an allowed type where an alias matches.
func (v *Validator) sniff(data []byte) string {
	detected := mimetype.Detect(data)
	for _, a := range v.allowed {
		if detected.Is(a) {
			return a
		}
	}
	return normalizeType(detected.String())
}

func (v *Validator) isAllowed(ct string) bool {
	for _, a := range v.allowed {
		if strings.EqualFold(a, ct) {
			return true
		}
	}
	return false
}

// shortNames returns "mpeg, wav, ..." for the error message.
func (v *Validator) shortNames() []string {
	out := make([]string, 0, len(v.allowed))
	for _, a := range v.allowed {
		_, sub, _ := strings.Cut(a, "/")
		out = append(out, sub)
	}
	return out
}

func tooLarge(limit int64) *apperrors.AppError {
	return apperrors.PayloadTooLarge(fmt.Sprintf("File too large. Maximum size is %s", util.FormatSize(limit))).
		WithDetail("max_bytes", limit)
}

func normalizeType(ct string) string {
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(ct))
	}
	return mt
}

// extension returns the file extension for key naming, preferring the
// client's file name and falling back to the content type.
func extension(fileName, contentType string) string {
	if ext := strings.ToLower(filepath.Ext(fileName)); ext != "" && len(ext) <= 6 {
		return ext
	}
	if m := mimetype.Lookup(contentType); m != nil {
		return m.Extension()
	}
	return ""
}
