package preference

import (
	"context"

	"github.com/google/uuid"

	"github.com/kbukum/lyrebird/logger"
	"github.com/kbukum/lyrebird/observability"
	"github.com/kbukum/lyrebird/validation"
)

// Service runs the preference-learning workflow.
type Service struct {
	recorder  *Recorder
	store     *Store
	extractor *Extractor
	metrics   *observability.Metrics
	log       *logger.Logger
}

// NewService wires the workflow. metrics may be nil.
func NewService(recorder *Recorder, store *Store, extractor *Extractor, metrics *observability.Metrics, log *logger.Logger) *Service {
	return &Service{
		recorder:  recorder,
		store:     store,
		extractor: extractor,
		metrics:   metrics,
		log:       log.WithComponent("preference"),
	}
}

// Extract records the edit, asks for a new rule and appends it if one
// came back. Only validation and database errors are returned; once the
// edit is recorded it stays recorded.
func (s *Service) Extract(ctx context.Context, userID uuid.UUID, req ExtractRequest) (Result, error) {
	if err := validation.Validate(req); err != nil {
		return Result{}, err
	}

	edit, err := s.recorder.Record(ctx, userID, req.OriginalText, req.EditedText)
	if err != nil {
		return Result{}, err
	}
	log := s.log.WithContext(ctx)
	log.Debug("User edit recorded", logger.Fields(logger.FieldEditID, edit.ID.String()))

	existing, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return Result{}, err
	}

	rule, ok := s.extractor.Extract(ctx, req.OriginalText, req.EditedText, Rules(existing))
	if !ok {
		return emptyResult(edit), nil
	}

	pref, err := s.store.Append(ctx, userID, edit.ID, rule)
	if err != nil {
		return Result{}, err
	}
	s.metrics.PreferenceExtracted(ctx)
	log.Info("Preference learned", logger.Fields(
		logger.FieldEditID, edit.ID.String(),
		"preference_id", pref.ID.String(),
	))
	return pref.ToResult(), nil
}

// List returns userID's preferences oldest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Result, error) {
	prefs, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]Result, 0, len(prefs))
	for i := range prefs {
		out = append(out, prefs[i].ToResult())
	}
	return out, nil
}

// Rules returns userID's rule texts oldest first, for the formatter.
func (s *Service) Rules(ctx context.Context, userID uuid.UUID) ([]string, error) {
	prefs, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Rules(prefs), nil
}
