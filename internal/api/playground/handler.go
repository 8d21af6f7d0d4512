package playground

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/thinktars/playground/internal/entity"
	"github.com/thinktars/playground/internal/pkg/logger"
	"github.com/thinktars/playground/internal/pkg/response"
	"github.com/thinktars/playground/internal/pkg/validator"
	"go.uber.org/zap"
)

type Handler struct {
	usecase   PlaygroundUsecase
	validator *validator.Validator
	maxUpload int64
}

func NewHandler(usecase PlaygroundUsecase, v *validator.Validator, maxUpload int64) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: v,
		maxUpload: maxUpload,
	}
}

// ListAssistants handles GET /playground/assistants - List selectable assistants
func (h *Handler) ListAssistants(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListAssistants")

	assistants, err := h.usecase.Assistants(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, map[string]any{"assistants": assistants})
}

// CreateSession handles POST /playground/sessions - Open a new chat session
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateSession")

	session, err := h.usecase.CreateSession(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Created(w, toSessionDTO(session))
}

// GetSession handles GET /playground/sessions/{id} - Current session state
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "GetSession")

	session, err := h.usecase.GetSession(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toSessionDTO(session))
}

// SelectAssistant handles PUT /playground/sessions/{id}/assistant - Pick an assistant
func (h *Handler) SelectAssistant(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "SelectAssistant")

	var req entity.SelectAssistantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AssistantID == "" {
		response.Error(w, http.StatusBadRequest, "assistant_id is required")
		return
	}

	session, err := h.usecase.SelectAssistant(ctx, sessionID, req.AssistantID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toSessionDTO(session))
}

// StageAttachment handles POST /playground/sessions/{id}/attachment - Stage a file
func (h *Handler) StageAttachment(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "StageAttachment")

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		ctxzap.Error(ctx, "failed to parse multipart form", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "failed to parse form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		ctxzap.Error(ctx, "missing file", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		ctxzap.Error(ctx, "failed to read file", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "failed to read file")
		return
	}

	name := validator.SanitizeFilename(header.Filename)
	contentType := header.Header.Get("Content-Type")

	ctxzap.Info(ctx, "staging attachment",
		zap.String("filename", name),
		zap.Int64("size_bytes", header.Size),
	)

	session, err := h.usecase.StageAttachment(ctx, sessionID, name, contentType, header.Size, data)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toSessionDTO(session))
}

// ClearAttachment handles DELETE /playground/sessions/{id}/attachment - Discard staged file
func (h *Handler) ClearAttachment(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "ClearAttachment")

	session, err := h.usecase.ClearAttachment(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toSessionDTO(session))
}

// StartConversation handles POST /playground/sessions/{id}/start - Create the conversation
func (h *Handler) StartConversation(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "StartConversation")

	session, err := h.usecase.StartConversation(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toSessionDTO(session))
}

// SendMessage handles POST /playground/sessions/{id}/messages - One message exchange
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "SendMessage")

	var req entity.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.usecase.SendMessage(ctx, sessionID, req.Content)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toSessionDTO(session))
}

// ResetConversation handles POST /playground/sessions/{id}/reset - Back to idle
func (h *Handler) ResetConversation(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "ResetConversation")

	session, err := h.usecase.ResetConversation(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toSessionDTO(session))
}

func (h *Handler) sessionContext(r *http.Request, action string) (context.Context, string) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", action),
	)
	return ctx, sessionID
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	ctxzap.Error(ctx, "playground operation failed", zap.Error(err))

	switch {
	case errors.Is(err, entity.ErrSessionNotFound), errors.Is(err, entity.ErrAssistantNotFound):
		response.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, entity.ErrInvalidExtension), errors.Is(err, entity.ErrFileTooLarge),
		errors.Is(err, entity.ErrInvalidFile), errors.Is(err, entity.ErrInvalidParameter):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, entity.ErrNoAssistantSelected), errors.Is(err, entity.ErrConversationInactive):
		response.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, entity.ErrCatalogUnavailable):
		response.Error(w, http.StatusServiceUnavailable, err.Error())
	default:
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
