package playground

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	gocache "github.com/patrickmn/go-cache"
	"github.com/thinktars/playground/internal/entity"
	"github.com/thinktars/playground/internal/pkg/validator"
	pkghttp "github.com/thinktars/playground/pkg/http"
	"go.uber.org/zap"
)

// Visitor-facing notices, pt-BR to match the site copy.
const (
	noticeCatalogUnavailable = "Não foi possível carregar assistentes."
	noticeSelectAssistant    = "Selecione um assistente para iniciar."
	noticeStartFailed        = "Erro ao criar conversa."
	noticeSeedFailed         = "Erro ao processar PDF."
	noticeUploadFailed       = "Erro ao enviar arquivo."
	noticeSendFailed         = "Erro ao enviar mensagem."
	noticeSeedDone           = "PDF processado com sucesso!"
	noticeNotGrounded        = "Apenas arquivos PDF viram base de conhecimento; a conversa foi iniciada sem o documento."
	noticeBadAttachment      = "Tipo de arquivo não suportado."
)

// Usecase owns every Playground conversation session. A session is mutated
// only here, under its own lock; network calls happen outside the lock and
// their results are applied only if the session epoch is unchanged, so a
// response arriving after a reset or assistant switch is discarded.
type Usecase struct {
	catalog   *Catalog
	demos     DemosConnector
	validator *validator.Validator
	sessions  *gocache.Cache
	noticeTTL time.Duration
	logger    *zap.Logger
}

type sessionHandle struct {
	mu          sync.Mutex
	session     *entity.Session
	noticeTimer *time.Timer
}

func NewUsecase(
	catalog *Catalog,
	demos DemosConnector,
	v *validator.Validator,
	sessionTTL, sessionSweep, noticeTTL time.Duration,
	logger *zap.Logger,
) *Usecase {
	return &Usecase{
		catalog:   catalog,
		demos:     demos,
		validator: v,
		sessions:  gocache.New(sessionTTL, sessionSweep),
		noticeTTL: noticeTTL,
		logger:    logger,
	}
}

// Assistants exposes the catalog to the API layer.
func (u *Usecase) Assistants(ctx context.Context) ([]entity.Assistant, error) {
	return u.catalog.Assistants(ctx)
}

// CreateSession allocates an empty Idle session for a visitor.
func (u *Usecase) CreateSession(ctx context.Context) (*entity.Session, error) {
	now := time.Now()
	h := &sessionHandle{
		session: &entity.Session{
			ID:        uuid.NewString(),
			Status:    entity.SessionStatusIdle,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	u.sessions.Set(h.session.ID, h, gocache.DefaultExpiration)

	ctxzap.Info(ctx, "playground session created", zap.String("session_id", h.session.ID))

	return snapshot(h.session), nil
}

// GetSession returns the current state and extends the session lifetime.
func (u *Usecase) GetSession(ctx context.Context, sessionID string) (*entity.Session, error) {
	h, err := u.handle(sessionID)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return snapshot(h.session), nil
}

// SelectAssistant switches the session to a catalog assistant. Switching
// away from an existing conversation discards it: conversation id, transcript
// and staged attachment are reset, and any in-flight request is orphaned via
// the epoch bump.
func (u *Usecase) SelectAssistant(ctx context.Context, sessionID, assistantID string) (*entity.Session, error) {
	assistant, err := u.catalog.Find(ctx, assistantID)
	if err != nil {
		return nil, err
	}

	h, err := u.handle(sessionID)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	s := h.session

	if s.SelectedAssistantID == assistant.ID {
		defer h.mu.Unlock()
		return snapshot(s), nil
	}

	var staleConv string
	if s.ConversationID != "" || len(s.Turns) > 0 || s.Status.Busy() {
		staleConv = s.ConversationID
		u.resetLocked(h)
	}
	s.SelectedAssistantID = assistant.ID
	s.UpdatedAt = time.Now()
	snap := snapshot(s)
	h.mu.Unlock()

	u.cleanupConversation(ctx, staleConv)

	ctxzap.Info(ctx, "assistant selected",
		zap.String("session_id", s.ID),
		zap.String("assistant_id", assistant.ID),
	)

	return snap, nil
}

// StageAttachment records a local attachment on the session. No network
// activity; a staged attachment can be replaced or cleared at any time.
func (u *Usecase) StageAttachment(ctx context.Context, sessionID, name, contentType string, size int64, data []byte) (*entity.Session, error) {
	if err := u.validator.ValidateStagedSize(name, size); err != nil {
		return nil, err
	}

	h, err := u.handle(sessionID)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	s := h.session

	s.StagedAttachment = &entity.Attachment{
		LocalName:   validator.SanitizeFilename(name),
		ContentType: contentType,
		Size:        size,
		Data:        data,
	}
	s.UpdatedAt = time.Now()

	ctxzap.Info(ctx, "attachment staged",
		zap.String("session_id", s.ID),
		zap.String("filename", s.StagedAttachment.LocalName),
		zap.Int64("size", size),
	)

	return snapshot(s), nil
}

// ClearAttachment discards the staged attachment, if any.
func (u *Usecase) ClearAttachment(ctx context.Context, sessionID string) (*entity.Session, error) {
	h, err := u.handle(sessionID)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.session.StagedAttachment = nil
	h.session.UpdatedAt = time.Now()

	return snapshot(h.session), nil
}

// StartConversation creates a conversation for the selected assistant. A
// staged PDF goes through the document-grounding seed path; any other staged
// type still allows creation, without grounding, plus a warning notice.
// Calls while the session is not Idle are silent no-ops.
func (u *Usecase) StartConversation(ctx context.Context, sessionID string) (*entity.Session, error) {
	h, err := u.handle(sessionID)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	s := h.session

	if s.Status != entity.SessionStatusIdle {
		defer h.mu.Unlock()
		return snapshot(s), nil
	}

	if s.SelectedAssistantID == "" {
		u.setNoticeLocked(h, entity.NoticeKindError, noticeSelectAssistant)
		defer h.mu.Unlock()
		return snapshot(s), entity.ErrNoAssistantSelected
	}

	assistantID := s.SelectedAssistantID
	att := s.StagedAttachment
	grounding := att != nil && validator.IsGroundingType(att.LocalName)

	s.Status = entity.SessionStatusStarting
	epoch := s.Epoch
	h.mu.Unlock()

	var convID string
	if grounding {
		convID, err = u.demos.SeedConversation(ctx, assistantID, att)
	} else {
		convID, err = u.demos.CreateConversation(ctx, assistantID)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if s.Epoch != epoch {
		ctxzap.Info(ctx, "discarding stale conversation start", zap.String("session_id", s.ID))
		return snapshot(s), nil
	}

	if err != nil {
		fallback := noticeStartFailed
		if grounding {
			fallback = noticeSeedFailed
		}
		s.Status = entity.SessionStatusIdle
		u.setNoticeLocked(h, entity.NoticeKindError, failureMessage(err, fallback))
		s.UpdatedAt = time.Now()
		ctxzap.Error(ctx, "conversation start failed", zap.String("session_id", s.ID), zap.Error(err))
		return snapshot(s), nil
	}

	s.Status = entity.SessionStatusActive
	s.ConversationID = convID
	s.Turns = []entity.Turn{}
	s.UpdatedAt = time.Now()

	switch {
	case grounding:
		s.StagedAttachment = nil
		u.setNoticeLocked(h, entity.NoticeKindInfo, noticeSeedDone)
	case att != nil:
		// Attachment stays staged; it may still accompany the first message.
		u.setNoticeLocked(h, entity.NoticeKindWarning, noticeNotGrounded)
	}

	ctxzap.Info(ctx, "conversation started",
		zap.String("session_id", s.ID),
		zap.String("conversation_id", convID),
		zap.Bool("grounded", grounding),
	)

	return snapshot(s), nil
}

// SendMessage performs one message exchange: optional attachment upload,
// user turn, backend call, assistant turn. Empty text is a no-op. At most
// one exchange is in flight per session; attempts while busy are ignored.
func (u *Usecase) SendMessage(ctx context.Context, sessionID, text string) (*entity.Session, error) {
	text = strings.TrimSpace(text)

	h, err := u.handle(sessionID)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	s := h.session

	if text == "" || s.Status.Busy() {
		defer h.mu.Unlock()
		return snapshot(s), nil
	}

	if s.Status != entity.SessionStatusActive || s.ConversationID == "" {
		defer h.mu.Unlock()
		return snapshot(s), entity.ErrConversationInactive
	}

	att := s.StagedAttachment
	if att != nil {
		if verr := u.validator.ValidateSendAttachment(att); verr != nil {
			u.setNoticeLocked(h, entity.NoticeKindError, noticeBadAttachment)
			defer h.mu.Unlock()
			return snapshot(s), verr
		}
	}

	s.Status = entity.SessionStatusSending
	epoch := s.Epoch
	convID := s.ConversationID

	if att == nil {
		// No upload step: the user turn is committed before the network call.
		s.Turns = append(s.Turns, entity.Turn{Role: entity.RoleUser, Content: text})
		s.UpdatedAt = time.Now()
	}
	h.mu.Unlock()

	var fileIDs []string
	if att != nil {
		fileID, uerr := u.demos.UploadFile(ctx, convID, att)

		h.mu.Lock()
		if s.Epoch != epoch {
			defer h.mu.Unlock()
			ctxzap.Info(ctx, "discarding stale attachment upload", zap.String("session_id", s.ID))
			return snapshot(s), nil
		}

		if uerr != nil {
			// Upload failure aborts the whole send: no user turn, the
			// attachment stays staged for retry.
			s.Status = entity.SessionStatusActive
			u.setNoticeLocked(h, entity.NoticeKindError, failureMessage(uerr, noticeUploadFailed))
			s.UpdatedAt = time.Now()
			defer h.mu.Unlock()
			ctxzap.Error(ctx, "attachment upload failed", zap.String("session_id", s.ID), zap.Error(uerr))
			return snapshot(s), nil
		}

		att.RemoteFileID = fileID
		fileIDs = append(fileIDs, fileID)
		s.Turns = append(s.Turns, entity.Turn{
			Role:           entity.RoleUser,
			Content:        text,
			AttachmentName: att.LocalName,
		})
		s.StagedAttachment = nil
		s.UpdatedAt = time.Now()
		h.mu.Unlock()
	}

	reply, serr := u.demos.SendMessage(ctx, convID, text, fileIDs)

	h.mu.Lock()
	defer h.mu.Unlock()

	if s.Epoch != epoch {
		ctxzap.Info(ctx, "discarding stale assistant reply", zap.String("session_id", s.ID))
		return snapshot(s), nil
	}

	s.Status = entity.SessionStatusActive
	s.UpdatedAt = time.Now()

	if serr != nil {
		if be, ok := entity.IsBusinessError(serr); ok {
			// The exchange completed at the transport level; the error text
			// becomes part of the transcript, no banner.
			s.Turns = append(s.Turns, entity.Turn{
				Role:    entity.RoleAssistant,
				Content: be.Message,
				IsError: true,
			})
			return snapshot(s), nil
		}

		msg := failureMessage(serr, noticeSendFailed)
		s.Turns = append(s.Turns, entity.Turn{
			Role:    entity.RoleAssistant,
			Content: msg,
			IsError: true,
		})
		u.setNoticeLocked(h, entity.NoticeKindError, msg)
		ctxzap.Error(ctx, "message send failed", zap.String("session_id", s.ID), zap.Error(serr))
		return snapshot(s), nil
	}

	s.Turns = append(s.Turns, entity.Turn{Role: entity.RoleAssistant, Content: reply})
	return snapshot(s), nil
}

// ResetConversation returns the session to Idle, discarding conversation id,
// transcript and staged attachment. The selected assistant is kept; the
// abandoned backend conversation is deleted best-effort.
func (u *Usecase) ResetConversation(ctx context.Context, sessionID string) (*entity.Session, error) {
	h, err := u.handle(sessionID)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	staleConv := h.session.ConversationID
	u.resetLocked(h)
	h.session.UpdatedAt = time.Now()
	snap := snapshot(h.session)
	h.mu.Unlock()

	u.cleanupConversation(ctx, staleConv)

	ctxzap.Info(ctx, "conversation reset", zap.String("session_id", sessionID))

	return snap, nil
}

func (u *Usecase) handle(sessionID string) (*sessionHandle, error) {
	v, ok := u.sessions.Get(sessionID)
	if !ok {
		return nil, entity.ErrSessionNotFound
	}
	// Visitor activity extends the session lifetime.
	h := v.(*sessionHandle)
	u.sessions.Set(sessionID, h, gocache.DefaultExpiration)
	return h, nil
}

// resetLocked orphans any in-flight request and clears conversation state.
// Caller holds h.mu.
func (u *Usecase) resetLocked(h *sessionHandle) {
	s := h.session
	s.Epoch++
	s.Status = entity.SessionStatusIdle
	s.ConversationID = ""
	s.Turns = nil
	s.StagedAttachment = nil
	s.Notice = nil
	if h.noticeTimer != nil {
		h.noticeTimer.Stop()
		h.noticeTimer = nil
	}
}

// cleanupConversation releases the backend resources of an abandoned
// conversation. Best-effort: the session already moved on, a failure only
// leaks a backend assistant and is logged.
func (u *Usecase) cleanupConversation(ctx context.Context, conversationID string) {
	if conversationID == "" {
		return
	}
	if err := u.demos.DeleteConversation(ctx, conversationID); err != nil {
		ctxzap.Warn(ctx, "failed to clean up abandoned conversation",
			zap.String("conversation_id", conversationID),
			zap.Error(err),
		)
	}
}

// setNoticeLocked replaces the banner and schedules its one-shot dismissal.
// A newer notice supersedes the pending timer. Caller holds h.mu.
func (u *Usecase) setNoticeLocked(h *sessionHandle, kind entity.NoticeKind, text string) {
	n := &entity.Notice{Kind: kind, Text: text}
	h.session.Notice = n

	if h.noticeTimer != nil {
		h.noticeTimer.Stop()
	}
	h.noticeTimer = time.AfterFunc(u.noticeTTL, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if h.session.Notice == n {
			h.session.Notice = nil
		}
	})
}

// failureMessage maps a backend failure to the banner text: the {error}
// payload of an HTTP error when present, otherwise the given fallback.
func failureMessage(err error, fallback string) string {
	var httpErr *pkghttp.HTTPError
	if errors.As(err, &httpErr) {
		if msg := httpErr.ErrorPayload(); msg != "" {
			return msg
		}
	}
	if be, ok := entity.IsBusinessError(err); ok {
		return be.Message
	}
	return fallback
}

func snapshot(s *entity.Session) *entity.Session {
	out := *s
	out.Turns = append([]entity.Turn(nil), s.Turns...)
	if s.StagedAttachment != nil {
		att := *s.StagedAttachment
		att.Data = nil
		out.StagedAttachment = &att
	}
	if s.Notice != nil {
		n := *s.Notice
		out.Notice = &n
	}
	return &out
}
