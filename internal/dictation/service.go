package dictation

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/lyrebird/database"
	"github.com/kbukum/lyrebird/database/query"
	apperrors "github.com/kbukum/lyrebird/errors"
	"github.com/kbukum/lyrebird/logger"
	"github.com/kbukum/lyrebird/observability"
	"github.com/kbukum/lyrebird/storage"
	"github.com/kbukum/lyrebird/transcription"
)

const processingFailedMessage = "Failed to process the audio file"

// Formatter rewrites a transcript according to preferences.
type Formatter interface {
	Format(ctx context.Context, transcript string, preferences []string) (string, error)
}

// RuleSource returns a user's preference rules oldest first.
type RuleSource interface {
	Rules(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// Service runs the dictation pipeline.
type Service struct {
	cfg         Config
	validator   *Validator
	repo        *Repository
	transcriber transcription.Provider
	formatter   Formatter
	rules       RuleSource
	archive     storage.Storage
	metrics     *observability.Metrics
	log         *logger.Logger
}

// Option configures optional Service dependencies.
type Option func(*Service)

// WithArchive stores raw uploads in s. A nil s disables archiving.
func WithArchive(s storage.Storage) Option {
	return func(svc *Service) { svc.archive = s }
}

// WithMetrics records pipeline counters on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(svc *Service) { svc.metrics = m }
}

// NewService wires the pipeline.
func NewService(cfg Config, repo *Repository, transcriber transcription.Provider, formatter Formatter, rules RuleSource, log *logger.Logger, opts ...Option) *Service {
	cfg.ApplyDefaults()
	s := &Service{
		cfg:         cfg,
		validator:   NewValidator(cfg),
		repo:        repo,
		transcriber: transcriber,
		formatter:   formatter,
		rules:       rules,
		log:         log.WithComponent("dictation"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxUploadBytes returns the configured upload limit.
func (s *Service) MaxUploadBytes() int64 {
	return s.validator.maxBytes
}

// Create validates the upload, transcribes and formats it, and stores the
// result. Transcription, formatting and persistence failures are reported
// as a single processing error; archive failures are only logged.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, u Upload) (_ *Dictation, err error) {
	contentType, err := s.validator.Validate(u)
	if err != nil {
		return nil, err
	}

	ctx, op := observability.StartOperation(ctx, s.metrics, "dictation.create",
		attribute.String(observability.AttrUserID, userID.String()),
		attribute.Int("audio.bytes", len(u.Data)),
		attribute.String("audio.content_type", contentType),
	)
	defer func() { op.End(ctx, err) }()
	log := s.log.WithContext(ctx)

	audioKey := s.archiveAudio(ctx, userID, u, contentType)

	transcript, err := s.transcribe(ctx, u, contentType)
	if err != nil {
		return nil, s.processingFailed(log, "transcribe", err)
	}

	prefs, err := s.rules.Rules(ctx, userID)
	if err != nil {
		return nil, s.processingFailed(log, "load preferences", err)
	}

	formatted, err := s.formatter.Format(ctx, transcript, prefs)
	if err != nil {
		return nil, s.processingFailed(log, "format", err)
	}

	d := &Dictation{
		UserID:        userID,
		Text:          transcript,
		FormattedText: formatted,
		AudioKey:      audioKey,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, s.processingFailed(log, "persist", err)
	}

	s.metrics.DictationCreated(ctx)
	log.Info("Dictation created", logger.Fields(
		logger.FieldDictationID, d.ID.String(),
		"bytes", len(u.Data),
		"preferences", len(prefs),
	))
	return d, nil
}

func (s *Service) transcribe(ctx context.Context, u Upload, contentType string) (string, error) {
	resp, err := s.transcriber.Transcribe(ctx, transcription.Request{
		Audio:       u.Data,
		FileName:    fileName(u, contentType),
		ContentType: contentType,
		Language:    s.cfg.Language,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// archiveAudio returns the stored key, or "" when archiving is off or failed.
func (s *Service) archiveAudio(ctx context.Context, userID uuid.UUID, u Upload, contentType string) string {
	if s.archive == nil {
		return ""
	}
	key := fmt.Sprintf("%s/%s%s", userID, uuid.NewString(), extension(u.FileName, contentType))
	if err := s.archive.Upload(ctx, key, bytes.NewReader(u.Data), contentType); err != nil {
		s.log.WithContext(ctx).Warn("Audio archive failed, continuing without it", logger.Fields(
			"audio_key", key,
			logger.FieldError, err.Error(),
		))
		return ""
	}
	return key
}

func (s *Service) processingFailed(log *logger.Logger, step string, err error) error {
	log.Error("Dictation processing failed", logger.Fields(
		logger.FieldOperation, step,
		logger.FieldError, err.Error(),
	))
	return apperrors.ProcessingFailed(processingFailedMessage, err).WithDetail("step", step)
}

// List returns one page of userID's dictations, newest first by default.
func (s *Service) List(ctx context.Context, userID uuid.UUID, page query.Params) ([]Dictation, error) {
	if page.PageSize == 0 {
		page = query.Params{Page: 1, PageSize: query.DefaultPageSize, SortOrder: "desc"}
	}
	out, err := s.repo.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, database.FromDatabase(err, "dictation")
	}
	return out, nil
}

// Get returns userID's dictation id. Another user's dictation is reported
// as not found.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Dictation, error) {
	d, err := s.repo.GetForUser(ctx, userID, id)
	if err != nil {
		if database.IsNotFoundError(err) {
			return nil, apperrors.NotFound("dictation", id.String())
		}
		return nil, database.FromDatabase(err, "dictation")
	}
	return d, nil
}

func fileName(u Upload, contentType string) string {
	if u.FileName != "" {
		return u.FileName
	}
	return "audio" + extension("", contentType)
}
