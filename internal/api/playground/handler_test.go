package playground

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thinktars/playground/internal/config"
	"github.com/thinktars/playground/internal/entity"
	"github.com/thinktars/playground/internal/pkg/validator"
)

type fakeUsecase struct {
	session    *entity.Session
	assistants []entity.Assistant
	err        error

	stagedName string
	sentText   string
}

func (f *fakeUsecase) Assistants(context.Context) ([]entity.Assistant, error) {
	return f.assistants, f.err
}

func (f *fakeUsecase) CreateSession(context.Context) (*entity.Session, error) {
	return f.session, f.err
}

func (f *fakeUsecase) GetSession(context.Context, string) (*entity.Session, error) {
	return f.session, f.err
}

func (f *fakeUsecase) SelectAssistant(context.Context, string, string) (*entity.Session, error) {
	return f.session, f.err
}

func (f *fakeUsecase) StageAttachment(_ context.Context, _, name, _ string, _ int64, _ []byte) (*entity.Session, error) {
	f.stagedName = name
	return f.session, f.err
}

func (f *fakeUsecase) ClearAttachment(context.Context, string) (*entity.Session, error) {
	return f.session, f.err
}

func (f *fakeUsecase) StartConversation(context.Context, string) (*entity.Session, error) {
	return f.session, f.err
}

func (f *fakeUsecase) SendMessage(_ context.Context, _, text string) (*entity.Session, error) {
	f.sentText = text
	return f.session, f.err
}

func (f *fakeUsecase) ResetConversation(context.Context, string) (*entity.Session, error) {
	return f.session, f.err
}

func newTestRouter(uc PlaygroundUsecase) http.Handler {
	v := validator.NewValidator(config.FileUploadConfig{MaxFileSize: 1 << 20})
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(uc, v, 1<<20))
	return r
}

func idleSession() *entity.Session {
	return &entity.Session{ID: "s1", Status: entity.SessionStatusIdle, Turns: []entity.Turn{}}
}

func TestListAssistants(t *testing.T) {
	uc := &fakeUsecase{assistants: []entity.Assistant{{ID: "juridico", Name: "Assistente Jurídico"}}}
	router := newTestRouter(uc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/playground/assistants", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"juridico"`)
}

func TestListAssistantsUnavailable(t *testing.T) {
	uc := &fakeUsecase{err: entity.ErrCatalogUnavailable}
	router := newTestRouter(uc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/playground/assistants", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCreateSessionReturns201(t *testing.T) {
	uc := &fakeUsecase{session: idleSession()}
	router := newTestRouter(uc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/playground/sessions/", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"session_id":"s1"`)
	assert.Contains(t, rec.Body.String(), `"messages":[]`)
}

func TestGetSessionNotFound(t *testing.T) {
	uc := &fakeUsecase{err: entity.ErrSessionNotFound}
	router := newTestRouter(uc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/playground/sessions/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSelectAssistantRequiresID(t *testing.T) {
	uc := &fakeUsecase{session: idleSession()}
	router := newTestRouter(uc)

	req := httptest.NewRequest(http.MethodPut, "/playground/sessions/s1/assistant", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStageAttachmentMultipart(t *testing.T) {
	uc := &fakeUsecase{session: idleSession()}
	router := newTestRouter(uc)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "meu arquivo.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/playground/sessions/s1/attachment", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "meu_arquivo.pdf", uc.stagedName, "filename is sanitized")
}

func TestStageAttachmentMissingFile(t *testing.T) {
	uc := &fakeUsecase{session: idleSession()}
	router := newTestRouter(uc)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("other", "x"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/playground/sessions/s1/attachment", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStartWithoutAssistantConflicts(t *testing.T) {
	uc := &fakeUsecase{err: entity.ErrNoAssistantSelected}
	router := newTestRouter(uc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/playground/sessions/s1/start", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSendMessagePassesContent(t *testing.T) {
	uc := &fakeUsecase{session: idleSession()}
	router := newTestRouter(uc)

	req := httptest.NewRequest(http.MethodPost, "/playground/sessions/s1/messages", strings.NewReader(`{"content":"olá"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "olá", uc.sentText)
}

func TestSendInvalidAttachmentIs400(t *testing.T) {
	uc := &fakeUsecase{err: entity.ErrInvalidExtension}
	router := newTestRouter(uc)

	req := httptest.NewRequest(http.MethodPost, "/playground/sessions/s1/messages", strings.NewReader(`{"content":"olá"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
