package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/lyrebird/auth"
	"github.com/kbukum/lyrebird/auth/jwt"
	"github.com/kbukum/lyrebird/auth/password"
	apperrors "github.com/kbukum/lyrebird/errors"
	"github.com/kbukum/lyrebird/internal/api"
	"github.com/kbukum/lyrebird/internal/dictation"
	"github.com/kbukum/lyrebird/internal/preference"
	"github.com/kbukum/lyrebird/internal/prompt"
	"github.com/kbukum/lyrebird/internal/schema/schematest"
	"github.com/kbukum/lyrebird/internal/user"
	"github.com/kbukum/lyrebird/llm/llmtest"
	"github.com/kbukum/lyrebird/logger"
	"github.com/kbukum/lyrebird/transcription"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubTranscriber struct{}

func (stubTranscriber) Name() string { return "stub" }

func (stubTranscriber) Transcribe(context.Context, transcription.Request) (*transcription.Response, error) {
	return &transcription.Response{Text: "hello world"}, nil
}

type testAPI struct {
	engine *gin.Engine
	llm    *llmtest.Completer
}

func newTestAPI(t *testing.T, replies ...llmtest.Reply) *testAPI {
	t.Helper()
	db := schematest.NewDB(t)
	log := logger.NewNop()

	tokens, err := jwt.NewService(&jwt.Config{Secret: "test-secret"}, func() *jwt.Claims { return &jwt.Claims{} })
	require.NoError(t, err)
	catalog, err := prompt.NewCatalog(prompt.Config{})
	require.NoError(t, err)
	completer := llmtest.New(replies...)

	prefs := preference.NewService(
		preference.NewRecorder(db),
		preference.NewStore(db),
		preference.NewExtractor(completer, catalog, nil, log),
		nil, log,
	)
	h := &api.Handlers{
		Users: user.NewService(user.NewRepository(db), password.NewBcryptHasher(password.WithCost(4)), tokens, log),
		Dictations: dictation.NewService(dictation.Config{}, dictation.NewRepository(db),
			stubTranscriber{}, preference.NewFormatter(completer, catalog, nil), prefs, log),
		Preferences: prefs,
		Tokens:      auth.TokenValidatorFunc(tokens.ValidatorFunc()),
	}

	engine := gin.New()
	h.Register(engine)
	return &testAPI{engine: engine, llm: completer}
}

func (a *testAPI) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *testAPI) signup(t *testing.T, email string) string {
	t.Helper()
	body := `{"email":"` + email + `","password":"password123"}`
	w := a.do(httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	form := url.Values{"username": {email}, "password": {"password123"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = a.do(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var tok user.Token
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tok))
	assert.Equal(t, "bearer", tok.TokenType)
	return tok.AccessToken
}

func authed(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func audioRequest(t *testing.T, token, fileName, contentType string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="audio"; filename="`+fileName+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/dictations/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return authed(req, token)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apperrors.ErrorBody {
	t.Helper()
	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp.Error
}

func TestRoot(t *testing.T) {
	a := newTestAPI(t)
	w := a.do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Welcome to Lyrebird API!"}`, w.Body.String())
}

func TestAuthFlow(t *testing.T) {
	a := newTestAPI(t)
	token := a.signup(t, "ada@example.com")

	w := a.do(authed(httptest.NewRequest(http.MethodGet, "/auth/me", nil), token))
	require.Equal(t, http.StatusOK, w.Code)
	var me user.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "ada@example.com", me.Email)

	w = a.do(httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"email":"ada@example.com","password":"password123"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email already registered", decodeError(t, w).Message)

	form := url.Values{"username": {"ada@example.com"}, "password": {"wrong-password"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = a.do(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Incorrect email or password", decodeError(t, w).Message)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	a := newTestAPI(t)
	for _, path := range []string{"/auth/me", "/dictations/", "/dictations/preferences"} {
		w := a.do(httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
	w := a.do(authed(httptest.NewRequest(http.MethodGet, "/auth/me", nil), "garbage"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperrors.ErrCodeInvalidToken, decodeError(t, w).Code)
}

func TestDictationRoutes(t *testing.T) {
	a := newTestAPI(t, llmtest.Reply{Content: "Hello, world."})
	token := a.signup(t, "ada@example.com")

	w := a.do(audioRequest(t, token, "memo.mp3", "audio/mpeg", []byte("ID3 audio")))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created dictation.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "hello world", created.Text)
	assert.Equal(t, "Hello, world.", created.FormattedText)

	w = a.do(authed(httptest.NewRequest(http.MethodGet, "/dictations/", nil), token))
	require.Equal(t, http.StatusOK, w.Code)
	var list []dictation.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	w = a.do(authed(httptest.NewRequest(http.MethodGet, "/dictations/"+created.ID, nil), token))
	require.Equal(t, http.StatusOK, w.Code)

	other := a.signup(t, "bob@example.com")
	w = a.do(authed(httptest.NewRequest(http.MethodGet, "/dictations/"+created.ID, nil), other))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(authed(httptest.NewRequest(http.MethodGet, "/dictations/not-a-uuid", nil), token))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateDictation_RejectsUploads(t *testing.T) {
	a := newTestAPI(t)
	token := a.signup(t, "ada@example.com")

	w := a.do(audioRequest(t, token, "notes.txt", "text/plain", []byte("hello")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Unsupported file type. Allowed types: mpeg, wav, mp4, ogg", decodeError(t, w).Message)

	big := make([]byte, 10<<20+1)
	copy(big, "ID3")
	w = a.do(audioRequest(t, token, "long.mp3", "audio/mpeg", big))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "File too large. Maximum size is 10MB", decodeError(t, w).Message)

	req := authed(httptest.NewRequest(http.MethodPost, "/dictations/", strings.NewReader("")), token)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	w = a.do(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPreferenceRoutes(t *testing.T) {
	a := newTestAPI(t,
		llmtest.Reply{Content: `{"memory_to_write": "Use British spelling"}`},
		llmtest.Reply{Content: `{"memory_to_write": null}`},
	)
	token := a.signup(t, "ada@example.com")

	q := url.Values{"original_text": {"color"}, "edited_text": {"colour"}}
	w := a.do(authed(httptest.NewRequest(http.MethodPost, "/dictations/preference_extract?"+q.Encode(), nil), token))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res preference.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotNil(t, res.ID)
	assert.Equal(t, "Use British spelling", res.Rules)

	body := `{"original_text":"colour","edited_text":"colour!"}`
	req := authed(httptest.NewRequest(http.MethodPost, "/dictations/preference_extract", strings.NewReader(body)), token)
	req.Header.Set("Content-Type", "application/json")
	w = a.do(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Nil(t, raw["id"])
	assert.Equal(t, "", raw["rules"])
	assert.NotEmpty(t, raw["user_edits_id"])

	w = a.do(authed(httptest.NewRequest(http.MethodPost, "/dictations/preference_extract", nil), token))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(authed(httptest.NewRequest(http.MethodGet, "/dictations/preferences", nil), token))
	require.Equal(t, http.StatusOK, w.Code)
	var prefs []preference.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &prefs))
	require.Len(t, prefs, 1)
	assert.Equal(t, "Use British spelling", prefs[0].Rules)
}
