package dictation_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/lyrebird/database"
	"github.com/kbukum/lyrebird/database/query"
	apperrors "github.com/kbukum/lyrebird/errors"
	"github.com/kbukum/lyrebird/internal/dictation"
	"github.com/kbukum/lyrebird/internal/preference"
	"github.com/kbukum/lyrebird/internal/prompt"
	"github.com/kbukum/lyrebird/internal/schema/schematest"
	"github.com/kbukum/lyrebird/internal/user"
	"github.com/kbukum/lyrebird/llm/llmtest"
	"github.com/kbukum/lyrebird/logger"
	"github.com/kbukum/lyrebird/storage"
	"github.com/kbukum/lyrebird/storage/local"
	"github.com/kbukum/lyrebird/transcription"
)

type fakeTranscriber struct {
	text string
	err  error
	got  []transcription.Request
}

func (f *fakeTranscriber) Name() string { return "fake" }

func (f *fakeTranscriber) Transcribe(_ context.Context, req transcription.Request) (*transcription.Response, error) {
	f.got = append(f.got, req)
	if f.err != nil {
		return nil, f.err
	}
	return &transcription.Response{Text: f.text}, nil
}

type failingStorage struct{ storage.Storage }

func (failingStorage) Upload(context.Context, string, io.Reader, string) error {
	return errors.New("bucket unavailable")
}

type fixture struct {
	db          *database.DB
	transcriber *fakeTranscriber
	llm         *llmtest.Completer
	prefs       *preference.Store
	recorder    *preference.Recorder
}

func newFixture(t *testing.T, formatReplies ...llmtest.Reply) *fixture {
	t.Helper()
	db := schematest.NewDB(t)
	return &fixture{
		db:          db,
		transcriber: &fakeTranscriber{text: "hello world"},
		llm:         llmtest.New(formatReplies...),
		prefs:       preference.NewStore(db),
		recorder:    preference.NewRecorder(db),
	}
}

func (f *fixture) service(t *testing.T, opts ...dictation.Option) *dictation.Service {
	t.Helper()
	catalog, err := prompt.NewCatalog(prompt.Config{})
	require.NoError(t, err)
	extractor := preference.NewExtractor(f.llm, catalog, nil, logger.NewNop())
	prefSvc := preference.NewService(f.recorder, f.prefs, extractor, nil, logger.NewNop())
	formatter := preference.NewFormatter(f.llm, catalog, nil)
	return dictation.NewService(dictation.Config{Language: "en"}, dictation.NewRepository(f.db),
		f.transcriber, formatter, prefSvc, logger.NewNop(), opts...)
}

func (f *fixture) newUser(t *testing.T, email string) uuid.UUID {
	t.Helper()
	u := &user.User{Email: email, HashedPassword: "x"}
	require.NoError(t, user.NewRepository(f.db).Create(context.Background(), u))
	return u.ID
}

func mp3Upload() dictation.Upload {
	return dictation.Upload{FileName: "memo.mp3", ContentType: "audio/mpeg", Data: []byte("ID3 fake mp3 audio")}
}

func requireStatus(t *testing.T, err error, status int) *apperrors.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %T: %v", err, err)
	assert.Equal(t, status, appErr.HTTPStatus)
	return appErr
}

func TestCreate(t *testing.T) {
	f := newFixture(t, llmtest.Reply{Content: "Hello, world."})
	ctx := context.Background()
	uid := f.newUser(t, "ada@example.com")

	edit, err := f.recorder.Record(ctx, uid, "a", "b")
	require.NoError(t, err)
	_, err = f.prefs.Append(ctx, uid, edit.ID, "Always end with a period")
	require.NoError(t, err)

	svc := f.service(t)
	d, err := svc.Create(ctx, uid, mp3Upload())
	require.NoError(t, err)

	resp := d.ToResponse()
	assert.Equal(t, "hello world", resp.Text)
	assert.Equal(t, "Hello, world.", resp.FormattedText)
	assert.Equal(t, uid.String(), resp.UserID)
	assert.Empty(t, d.AudioKey)

	require.Len(t, f.transcriber.got, 1)
	assert.Equal(t, "memo.mp3", f.transcriber.got[0].FileName)
	assert.Equal(t, "en", f.transcriber.got[0].Language)

	reqs := f.llm.Requests()
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].Messages[0].Content, "Always end with a period")

	got, err := svc.Get(ctx, uid, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.FormattedText, got.FormattedText)
}

func TestCreate_UploadValidation(t *testing.T) {
	big := make([]byte, 10<<20+1)
	copy(big, "ID3")

	tests := []struct {
		name    string
		upload  dictation.Upload
		status  int
		message string
	}{
		{
			name:    "unsupported type",
			upload:  dictation.Upload{FileName: "notes.txt", ContentType: "text/plain", Data: []byte("hi")},
			status:  http.StatusBadRequest,
			message: "Unsupported file type. Allowed types: mpeg, wav, mp4, ogg",
		},
		{
			name:    "too large",
			upload:  dictation.Upload{FileName: "long.mp3", ContentType: "audio/mpeg", Data: big},
			status:  http.StatusRequestEntityTooLarge,
			message: "File too large. Maximum size is 10MB",
		},
		{
			name:   "empty",
			upload: dictation.Upload{FileName: "empty.wav", ContentType: "audio/wav"},
			status: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			uid := f.newUser(t, "ada@example.com")

			_, err := f.service(t).Create(context.Background(), uid, tt.upload)
			appErr := requireStatus(t, err, tt.status)
			if tt.message != "" {
				assert.Equal(t, tt.message, appErr.Message)
			}
			assert.Empty(t, f.transcriber.got)
		})
	}
}

func TestCreate_SniffsGenericContentType(t *testing.T) {
	f := newFixture(t, llmtest.Reply{Content: "ok"})
	uid := f.newUser(t, "ada@example.com")

	wav := append([]byte("RIFF\x24\x00\x00\x00WAVEfmt "), make([]byte, 32)...)
	_, err := f.service(t).Create(context.Background(), uid, dictation.Upload{
		FileName: "clip", ContentType: "application/octet-stream", Data: wav,
	})
	require.NoError(t, err)
	require.Len(t, f.transcriber.got, 1)
	assert.Equal(t, "audio/wav", f.transcriber.got[0].ContentType)
}

func TestCreate_ProcessingFailures(t *testing.T) {
	t.Run("transcription", func(t *testing.T) {
		f := newFixture(t)
		f.transcriber.err = errors.New("whisper down")
		uid := f.newUser(t, "ada@example.com")

		_, err := f.service(t).Create(context.Background(), uid, mp3Upload())
		appErr := requireStatus(t, err, http.StatusInternalServerError)
		assert.Equal(t, "Failed to process the audio file", appErr.Message)
		assert.Empty(t, f.llm.Requests())
	})

	t.Run("formatting", func(t *testing.T) {
		f := newFixture(t, llmtest.Reply{Err: errors.New("rate limited")})
		uid := f.newUser(t, "ada@example.com")
		svc := f.service(t)

		_, err := svc.Create(context.Background(), uid, mp3Upload())
		appErr := requireStatus(t, err, http.StatusInternalServerError)
		assert.Equal(t, apperrors.ErrCodeProcessingFailed, appErr.Code)

		list, err := svc.List(context.Background(), uid, query.Params{})
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestCreate_Archive(t *testing.T) {
	t.Run("stored", func(t *testing.T) {
		f := newFixture(t, llmtest.Reply{Content: "ok"})
		uid := f.newUser(t, "ada@example.com")
		store, err := local.NewStorage(t.TempDir())
		require.NoError(t, err)

		d, err := f.service(t, dictation.WithArchive(store)).Create(context.Background(), uid, mp3Upload())
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(d.AudioKey, uid.String()+"/"))
		assert.True(t, strings.HasSuffix(d.AudioKey, ".mp3"))

		rc, err := store.Download(context.Background(), d.AudioKey)
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(mp3Upload().Data, data))
	})

	t.Run("failure is ignored", func(t *testing.T) {
		f := newFixture(t, llmtest.Reply{Content: "ok"})
		uid := f.newUser(t, "ada@example.com")

		d, err := f.service(t, dictation.WithArchive(failingStorage{})).Create(context.Background(), uid, mp3Upload())
		require.NoError(t, err)
		assert.Empty(t, d.AudioKey)
	})
}

func TestListAndGet_ScopedToUser(t *testing.T) {
	f := newFixture(t,
		llmtest.Reply{Content: "first"},
		llmtest.Reply{Content: "second"},
		llmtest.Reply{Content: "bob's"},
	)
	ctx := context.Background()
	ada := f.newUser(t, "ada@example.com")
	bob := f.newUser(t, "bob@example.com")
	svc := f.service(t)

	_, err := svc.Create(ctx, ada, mp3Upload())
	require.NoError(t, err)
	_, err = svc.Create(ctx, ada, mp3Upload())
	require.NoError(t, err)
	bobs, err := svc.Create(ctx, bob, mp3Upload())
	require.NoError(t, err)

	list, err := svc.List(ctx, ada, query.Params{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].FormattedText)
	assert.Equal(t, "first", list[1].FormattedText)

	_, err = svc.Get(ctx, ada, bobs.ID)
	requireStatus(t, err, http.StatusNotFound)

	_, err = svc.Get(ctx, ada, uuid.New())
	requireStatus(t, err, http.StatusNotFound)
}

func TestReadUpload_DetectsOversize(t *testing.T) {
	u, err := dictation.ReadUpload(strings.NewReader("12345"), "a.wav", "audio/wav", 4)
	require.NoError(t, err)
	assert.Len(t, u.Data, 5)

	v := dictation.NewValidator(dictation.Config{MaxUploadSize: "4B"})
	_, err = v.Validate(u)
	appErr := requireStatus(t, err, http.StatusRequestEntityTooLarge)
	assert.Equal(t, "File too large. Maximum size is 4B", appErr.Message)
}

func TestConfig_Validate(t *testing.T) {
	cfg := dictation.Config{}
	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, int64(10<<20), cfg.MaxBytes())

	cfg.MaxUploadSize = "lots"
	assert.Error(t, cfg.Validate())
}
