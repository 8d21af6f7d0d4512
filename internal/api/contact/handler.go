package contact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/thinktars/playground/internal/entity"
	"github.com/thinktars/playground/internal/pkg/formatter"
	"github.com/thinktars/playground/internal/pkg/logger"
	"github.com/thinktars/playground/internal/pkg/response"
	"go.uber.org/zap"
)

type Handler struct {
	usecase ContactUsecase
}

func NewHandler(usecase ContactUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// flowWithHandoff is the response of every operation that produces a deep
// link alongside the updated flow state.
type flowWithHandoff struct {
	Flow    *entity.ContactFlowDTO `json:"flow"`
	Handoff *entity.HandoffDTO     `json:"handoff"`
}

// ListQuestions handles GET /contact/questions - Ordered quiz question set
func (h *Handler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]any{"questions": h.usecase.Questions()})
}

// CreateFlow handles POST /contact/flows - Open a new contact flow
func (h *Handler) CreateFlow(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateFlow")

	flow, err := h.usecase.CreateFlow(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Created(w, toFlowDTO(flow, h.usecase.Questions()))
}

// GetFlow handles GET /contact/flows/{id} - Current flow state
func (h *Handler) GetFlow(w http.ResponseWriter, r *http.Request) {
	ctx, flowID := h.flowContext(r, "GetFlow")

	flow, err := h.usecase.GetFlow(ctx, flowID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toFlowDTO(flow, h.usecase.Questions()))
}

// SubmitIdea handles POST /contact/flows/{id}/idea - Free-form idea handoff
func (h *Handler) SubmitIdea(w http.ResponseWriter, r *http.Request) {
	ctx, flowID := h.flowContext(r, "SubmitIdea")

	var req entity.SubmitIdeaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	flow, handoff, err := h.usecase.SubmitIdea(ctx, flowID, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, flowWithHandoff{
		Flow:    toFlowDTO(flow, h.usecase.Questions()),
		Handoff: handoff,
	})
}

// AnswerQuiz handles POST /contact/flows/{id}/quiz/answer - Record one option
func (h *Handler) AnswerQuiz(w http.ResponseWriter, r *http.Request) {
	ctx, flowID := h.flowContext(r, "AnswerQuiz")

	var req entity.QuizAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Option == "" {
		response.Error(w, http.StatusBadRequest, "option is required")
		return
	}

	flow, err := h.usecase.AnswerQuiz(ctx, flowID, req.Option)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toFlowDTO(flow, h.usecase.Questions()))
}

// GoBack handles POST /contact/flows/{id}/quiz/back - One step backwards
func (h *Handler) GoBack(w http.ResponseWriter, r *http.Request) {
	ctx, flowID := h.flowContext(r, "GoBack")

	flow, err := h.usecase.GoBack(ctx, flowID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toFlowDTO(flow, h.usecase.Questions()))
}

// ResetQuiz handles POST /contact/flows/{id}/quiz/reset - Restart from scratch
func (h *Handler) ResetQuiz(w http.ResponseWriter, r *http.Request) {
	ctx, flowID := h.flowContext(r, "ResetQuiz")

	flow, err := h.usecase.ResetQuiz(ctx, flowID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toFlowDTO(flow, h.usecase.Questions()))
}

// ApproveScope handles POST /contact/flows/{id}/scope/approve - Scope handoff
func (h *Handler) ApproveScope(w http.ResponseWriter, r *http.Request) {
	ctx, flowID := h.flowContext(r, "ApproveScope")

	flow, handoff, err := h.usecase.ApproveScope(ctx, flowID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, flowWithHandoff{
		Flow:    toFlowDTO(flow, h.usecase.Questions()),
		Handoff: handoff,
	})
}

// RejectScope handles POST /contact/flows/{id}/scope/reject - Generic handoff
func (h *Handler) RejectScope(w http.ResponseWriter, r *http.Request) {
	ctx, flowID := h.flowContext(r, "RejectScope")

	flow, handoff, err := h.usecase.RejectScope(ctx, flowID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, flowWithHandoff{
		Flow:    toFlowDTO(flow, h.usecase.Questions()),
		Handoff: handoff,
	})
}

// ExportScope handles GET /contact/flows/{id}/scope/export - Download the scope
func (h *Handler) ExportScope(w http.ResponseWriter, r *http.Request) {
	ctx, flowID := h.flowContext(r, "ExportScope")

	formatParam := r.URL.Query().Get("format")
	if formatParam == "" {
		formatParam = string(entity.FormatMarkdown)
	}

	format := entity.ResultFormat(formatParam)
	if err := format.Validate(); err != nil {
		ctxzap.Warn(ctx, "invalid format parameter", zap.String("format", formatParam))
		response.Error(w, http.StatusBadRequest, "format must be one of: md, pdf, docx")
		return
	}

	flow, err := h.usecase.GetFlow(ctx, flowID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}
	if flow.Scope == nil {
		h.handleUsecaseError(ctx, w, entity.ErrNoScopeGenerated)
		return
	}

	factory := formatter.NewFactory()
	fmtr, err := factory.Create(format)
	if err != nil {
		ctxzap.Error(ctx, "format not implemented", zap.Error(err))
		response.Error(w, http.StatusNotImplemented, "format not implemented")
		return
	}

	rendered, err := fmtr.Format(flow.Scope)
	if err != nil {
		ctxzap.Error(ctx, "failed to format scope", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "failed to format scope")
		return
	}

	ctxzap.Info(ctx, "scope exported", zap.String("format", string(format)))

	filename := fmt.Sprintf("escopo-%s%s", flowID, fmtr.FileExtension())
	response.Binary(w, fmtr.ContentType(), filename, rendered)
}

const (
	defaultLeadPageSize = 50
	maxLeadPageSize     = 200
)

// ListLeads handles GET /contact/leads - Recorded handoffs, newest first
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListLeads")

	limit, err := queryInt(r, "limit", defaultLeadPageSize)
	if err != nil || limit < 1 {
		response.Error(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	if limit > maxLeadPageSize {
		limit = maxLeadPageSize
	}

	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		response.Error(w, http.StatusBadRequest, "offset must be a non-negative integer")
		return
	}

	leads, err := h.usecase.ListLeads(ctx, limit, offset)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}
	if leads == nil {
		leads = []entity.Lead{}
	}

	response.Success(w, map[string]any{"leads": leads})
}

// GetLead handles GET /contact/leads/{id} - One recorded handoff
func (h *Handler) GetLead(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("lead_id", leadID),
		zap.String("action", "GetLead"),
	)

	lead, err := h.usecase.GetLead(ctx, leadID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, lead)
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func (h *Handler) flowContext(r *http.Request, action string) (context.Context, string) {
	flowID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("flow_id", flowID),
		zap.String("action", action),
	)
	return ctx, flowID
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	ctxzap.Error(ctx, "contact operation failed", zap.Error(err))

	switch {
	case errors.Is(err, entity.ErrFlowNotFound), errors.Is(err, entity.ErrLeadNotFound):
		response.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, entity.ErrMissingField), errors.Is(err, entity.ErrUnknownOption),
		errors.Is(err, entity.ErrInvalidParameter):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, entity.ErrQuizIncomplete), errors.Is(err, entity.ErrNoScopeGenerated):
		response.Error(w, http.StatusConflict, err.Error())
	default:
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
