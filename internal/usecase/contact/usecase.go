package contact

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	gocache "github.com/patrickmn/go-cache"
	"github.com/thinktars/playground/internal/config"
	"github.com/thinktars/playground/internal/entity"
	"github.com/thinktars/playground/internal/pkg/validator"
	"go.uber.org/zap"
)

// Usecase owns the contact section state: the free-form idea path and the
// lead-qualification quiz. Each visitor flow is mutated only here, under its
// own lock. After a successful handoff the whole flow resets to its initial
// empty state after a short delay; any new visitor event before the timer
// fires cancels the pending reset.
type Usecase struct {
	questions []entity.QuizQuestion
	flows     *gocache.Cache
	links     LinkBuilder
	leads     LeadRepository
	notifier  LeadNotifier
	validator *validator.Validator
	resetTTL  time.Duration
	logger    *zap.Logger
}

type flowHandle struct {
	mu         sync.Mutex
	flow       *entity.ContactFlow
	resetTimer *time.Timer
}

func NewUsecase(
	questionsCfg []config.QuizQuestionConfig,
	links LinkBuilder,
	leads LeadRepository,
	notifier LeadNotifier,
	v *validator.Validator,
	flowTTL, flowSweep, resetTTL time.Duration,
	logger *zap.Logger,
) *Usecase {
	questions := make([]entity.QuizQuestion, 0, len(questionsCfg))
	for _, q := range questionsCfg {
		questions = append(questions, entity.QuizQuestion{
			ID:      q.ID,
			Text:    q.Text,
			Options: append([]string(nil), q.Options...),
		})
	}

	return &Usecase{
		questions: questions,
		flows:     gocache.New(flowTTL, flowSweep),
		links:     links,
		leads:     leads,
		notifier:  notifier,
		validator: v,
		resetTTL:  resetTTL,
		logger:    logger,
	}
}

// Questions exposes the ordered quiz question set.
func (u *Usecase) Questions() []entity.QuizQuestion {
	return u.questions
}

// CreateFlow allocates an empty contact flow for a visitor.
func (u *Usecase) CreateFlow(ctx context.Context) (*entity.ContactFlow, error) {
	now := time.Now()
	h := &flowHandle{
		flow: &entity.ContactFlow{
			ID:        uuid.NewString(),
			Mode:      entity.ContactModeNone,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	u.flows.Set(h.flow.ID, h, gocache.DefaultExpiration)

	ctxzap.Info(ctx, "contact flow created", zap.String("flow_id", h.flow.ID))

	return flowSnapshot(h.flow), nil
}

// GetFlow returns the current flow state.
func (u *Usecase) GetFlow(ctx context.Context, flowID string) (*entity.ContactFlow, error) {
	h, err := u.handle(flowID)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return flowSnapshot(h.flow), nil
}

// SubmitIdea hands a free-form idea off to the sales channel. Name and idea
// must be non-empty; validation failures perform no handoff and no state
// mutation.
func (u *Usecase) SubmitIdea(ctx context.Context, flowID string, req *entity.SubmitIdeaRequest) (*entity.ContactFlow, *entity.HandoffDTO, error) {
	if err := u.validator.ValidateIdea(req); err != nil {
		return nil, nil, err
	}

	h, err := u.handle(flowID)
	if err != nil {
		return nil, nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	u.cancelPendingResetLocked(h)

	f := h.flow
	f.Mode = entity.ContactModeIdea
	f.UpdatedAt = time.Now()

	lead := &entity.ContactLead{Name: req.Name, IdeaText: req.IdeaText}
	message := ComposeFromIdea(lead)
	handoff := &entity.HandoffDTO{
		Link:    u.links.Build(message),
		Message: message,
	}

	u.recordLead(ctx, &entity.Lead{
		Kind:     entity.LeadKindIdea,
		Name:     req.Name,
		IdeaText: req.IdeaText,
		Message:  message,
	})
	u.scheduleResetLocked(h)

	ctxzap.Info(ctx, "idea handed off", zap.String("flow_id", f.ID))

	return flowSnapshot(f), handoff, nil
}

// AnswerQuiz records the chosen option for the current step. Answering a
// non-final question advances one step; answering the final question derives
// the project scope. Re-answering after GoBack overwrites the old answer.
func (u *Usecase) AnswerQuiz(ctx context.Context, flowID, option string) (*entity.ContactFlow, error) {
	h, err := u.handle(flowID)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	u.cancelPendingResetLocked(h)

	f := h.flow
	if f.QuizStep >= len(u.questions) {
		// Scope already generated; the visitor must go back or reset first.
		return flowSnapshot(f), entity.ErrQuizIncomplete
	}

	question := u.questions[f.QuizStep]
	if !containsOption(question.Options, option) {
		return flowSnapshot(f), entity.ErrUnknownOption
	}

	f.Mode = entity.ContactModeQuiz
	recordAnswer(f, question.ID, option)
	f.QuizStep++
	f.UpdatedAt = time.Now()

	if f.QuizStep == len(u.questions) {
		scope := BuildScope(u.quizResult(f))
		f.Scope = &scope
		ctxzap.Info(ctx, "project scope generated",
			zap.String("flow_id", f.ID),
			zap.String("solution_type", string(scope.SolutionType)),
		)
	}

	return flowSnapshot(f), nil
}

// GoBack moves one quiz step backwards, keeping every recorded answer.
// At the first step it is a no-op.
func (u *Usecase) GoBack(ctx context.Context, flowID string) (*entity.ContactFlow, error) {
	h, err := u.handle(flowID)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	u.cancelPendingResetLocked(h)

	f := h.flow
	if f.QuizStep == 0 {
		return flowSnapshot(f), nil
	}

	f.QuizStep--
	f.Scope = nil // a retry recomputes the scope from scratch
	f.UpdatedAt = time.Now()

	return flowSnapshot(f), nil
}

// ResetQuiz clears all answers and returns to the first step.
func (u *Usecase) ResetQuiz(ctx context.Context, flowID string) (*entity.ContactFlow, error) {
	h, err := u.handle(flowID)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	u.cancelPendingResetLocked(h)

	f := h.flow
	f.QuizStep = 0
	f.Answers = nil
	f.Scope = nil
	f.UpdatedAt = time.Now()

	return flowSnapshot(f), nil
}

// ApproveScope hands the generated scope off to the sales channel.
func (u *Usecase) ApproveScope(ctx context.Context, flowID string) (*entity.ContactFlow, *entity.HandoffDTO, error) {
	h, err := u.handle(flowID)
	if err != nil {
		return nil, nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	u.cancelPendingResetLocked(h)

	f := h.flow
	if f.Scope == nil {
		return flowSnapshot(f), nil, entity.ErrNoScopeGenerated
	}

	message := ComposeFromScope(f.Scope)
	handoff := &entity.HandoffDTO{
		Link:    u.links.Build(message),
		Message: message,
	}

	scopeCopy := *f.Scope
	u.recordLead(ctx, &entity.Lead{
		Kind:    entity.LeadKindScope,
		Scope:   &scopeCopy,
		Message: message,
	})
	u.scheduleResetLocked(h)

	ctxzap.Info(ctx, "scope approved and handed off", zap.String("flow_id", f.ID))

	return flowSnapshot(f), handoff, nil
}

// RejectScope hands off a generic talk-to-a-human request, with scope
// context when one was generated.
func (u *Usecase) RejectScope(ctx context.Context, flowID string) (*entity.ContactFlow, *entity.HandoffDTO, error) {
	h, err := u.handle(flowID)
	if err != nil {
		return nil, nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	u.cancelPendingResetLocked(h)

	f := h.flow
	message := ComposeGenericRequest(f.Scope)
	handoff := &entity.HandoffDTO{
		Link:    u.links.Build(message),
		Message: message,
	}

	lead := &entity.Lead{
		Kind:    entity.LeadKindGeneric,
		Message: message,
	}
	if f.Scope != nil {
		scopeCopy := *f.Scope
		lead.Scope = &scopeCopy
	}
	u.recordLead(ctx, lead)
	u.scheduleResetLocked(h)

	ctxzap.Info(ctx, "generic handoff requested", zap.String("flow_id", f.ID))

	return flowSnapshot(f), handoff, nil
}

// ListLeads returns recorded handoffs, newest first, for the sales team.
func (u *Usecase) ListLeads(ctx context.Context, limit, offset int) ([]entity.Lead, error) {
	return u.leads.ListLeads(ctx, limit, offset)
}

// GetLead returns one recorded handoff.
func (u *Usecase) GetLead(ctx context.Context, leadID string) (*entity.Lead, error) {
	return u.leads.GetLeadByID(ctx, leadID)
}

func (u *Usecase) handle(flowID string) (*flowHandle, error) {
	v, ok := u.flows.Get(flowID)
	if !ok {
		return nil, entity.ErrFlowNotFound
	}
	h := v.(*flowHandle)
	u.flows.Set(flowID, h, gocache.DefaultExpiration)
	return h, nil
}

// recordLead persists and announces a lead. Both are best-effort: the
// handoff link already reached the visitor, so a storage or notification
// failure must not undo it.
func (u *Usecase) recordLead(ctx context.Context, lead *entity.Lead) {
	lead.ID = uuid.NewString()
	lead.CreatedAt = time.Now()

	stored, err := u.leads.CreateLead(ctx, lead)
	if err != nil {
		ctxzap.Warn(ctx, "failed to persist lead", zap.String("lead_id", lead.ID), zap.Error(err))
	} else {
		lead = stored
	}

	u.notifier.NotifyLead(ctx, lead)
}

// scheduleResetLocked arms the post-handoff flow reset. Caller holds h.mu.
func (u *Usecase) scheduleResetLocked(h *flowHandle) {
	if h.resetTimer != nil {
		h.resetTimer.Stop()
	}
	h.resetTimer = time.AfterFunc(u.resetTTL, func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		f := h.flow
		f.Mode = entity.ContactModeNone
		f.QuizStep = 0
		f.Answers = nil
		f.Scope = nil
		f.Notice = nil
		f.UpdatedAt = time.Now()
		h.resetTimer = nil

		u.logger.Debug("contact flow reset after handoff", zap.String("flow_id", f.ID))
	})
}

// cancelPendingResetLocked stops a scheduled reset when a new visitor event
// supersedes it. Caller holds h.mu.
func (u *Usecase) cancelPendingResetLocked(h *flowHandle) {
	if h.resetTimer != nil {
		h.resetTimer.Stop()
		h.resetTimer = nil
	}
}

func (u *Usecase) quizResult(f *entity.ContactFlow) QuizResult {
	answer := func(id string) string {
		option, _ := f.AnswerFor(id)
		return option
	}

	return QuizResult{
		BusinessType:   answer("business_type"),
		MainChallenge:  answer("main_challenge"),
		AutomationGoal: answer("automation_goal"),
		TimeSaved:      answer("time_saved"),
		BudgetRange:    answer("budget_range"),
	}
}

func recordAnswer(f *entity.ContactFlow, questionID, option string) {
	for i, a := range f.Answers {
		if a.QuestionID == questionID {
			f.Answers[i].Option = option
			return
		}
	}
	f.Answers = append(f.Answers, entity.QuizAnswer{QuestionID: questionID, Option: option})
}

func containsOption(options []string, option string) bool {
	for _, o := range options {
		if o == option {
			return true
		}
	}
	return false
}

func flowSnapshot(f *entity.ContactFlow) *entity.ContactFlow {
	out := *f
	out.Answers = append([]entity.QuizAnswer(nil), f.Answers...)
	if f.Scope != nil {
		scope := *f.Scope
		out.Scope = &scope
	}
	if f.Notice != nil {
		n := *f.Notice
		out.Notice = &n
	}
	return &out
}
