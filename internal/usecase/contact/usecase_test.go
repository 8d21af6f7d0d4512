package contact

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thinktars/playground/internal/config"
	"github.com/thinktars/playground/internal/entity"
	"github.com/thinktars/playground/internal/pkg/validator"
	"go.uber.org/zap"
)

type fakeLinks struct{}

func (fakeLinks) Build(message string) string {
	return "https://wa.me/5500000000000?text=" + url.QueryEscape(message)
}

type fakeLeadStore struct {
	mu    sync.Mutex
	leads []entity.Lead
}

func (s *fakeLeadStore) CreateLead(_ context.Context, lead *entity.Lead) (*entity.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads = append(s.leads, *lead)
	return lead, nil
}

func (s *fakeLeadStore) GetLeadByID(_ context.Context, id string) (*entity.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.leads {
		if s.leads[i].ID == id {
			lead := s.leads[i]
			return &lead, nil
		}
	}
	return nil, entity.ErrLeadNotFound
}

func (s *fakeLeadStore) ListLeads(_ context.Context, limit, offset int) ([]entity.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entity.Lead, 0, len(s.leads))
	for i := len(s.leads) - 1; i >= 0; i-- {
		out = append(out, s.leads[i])
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeLeadStore) all() []entity.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Lead(nil), s.leads...)
}

type fakeNotifier struct {
	mu    sync.Mutex
	count int
}

func (n *fakeNotifier) NotifyLead(_ context.Context, _ *entity.Lead) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.count++
}

func testQuestions() []config.QuizQuestionConfig {
	return []config.QuizQuestionConfig{
		{ID: "business_type", Text: "Qual o tipo do seu negócio?", Options: []string{"E-commerce", "Serviços", "Outro"}},
		{ID: "main_challenge", Text: "Qual seu principal desafio?", Options: []string{
			"Atendimento ao cliente demorado",
			"Processos manuais repetitivos",
			"Outro desafio",
		}},
		{ID: "automation_goal", Text: "O que você quer automatizar?", Options: []string{"Reduzir custos", "Ganhar escala"}},
		{ID: "time_saved", Text: "Quanto tempo quer recuperar?", Options: []string{"5 a 10 horas", "10 a 20 horas"}},
		{ID: "budget_range", Text: "Qual a faixa de investimento?", Options: []string{"Até R$ 5.000", "R$ 5.000 - R$ 15.000"}},
	}
}

func newTestContact(t *testing.T) (*Usecase, *fakeLeadStore, *fakeNotifier) {
	t.Helper()

	store := &fakeLeadStore{}
	notifier := &fakeNotifier{}
	v := validator.NewValidator(config.FileUploadConfig{MaxFileSize: 1 << 20})

	uc := NewUsecase(
		testQuestions(),
		fakeLinks{},
		store,
		notifier,
		v,
		time.Hour, time.Hour, 20*time.Millisecond,
		zap.NewNop(),
	)
	return uc, store, notifier
}

func answerAll(t *testing.T, uc *Usecase, flowID string) *entity.ContactFlow {
	t.Helper()
	ctx := context.Background()

	answers := []string{
		"E-commerce",
		"Atendimento ao cliente demorado",
		"Reduzir custos",
		"10 a 20 horas",
		"R$ 5.000 - R$ 15.000",
	}

	var flow *entity.ContactFlow
	var err error
	for _, option := range answers {
		flow, err = uc.AnswerQuiz(ctx, flowID, option)
		require.NoError(t, err)
	}
	return flow
}

func TestCreateFlowStartsEmpty(t *testing.T) {
	uc, _, _ := newTestContact(t)

	flow, err := uc.CreateFlow(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, flow.ID)
	assert.Equal(t, entity.ContactModeNone, flow.Mode)
	assert.Zero(t, flow.QuizStep)
	assert.Nil(t, flow.Scope)
}

func TestQuizCompletionGeneratesScope(t *testing.T) {
	uc, _, _ := newTestContact(t)
	flow, _ := uc.CreateFlow(context.Background())

	got := answerAll(t, uc, flow.ID)

	assert.Equal(t, entity.ContactModeQuiz, got.Mode)
	assert.Equal(t, 5, got.QuizStep)
	require.NotNil(t, got.Scope)
	assert.Equal(t, entity.SolutionVirtualAssistant, got.Scope.SolutionType)
	assert.Equal(t, "E-commerce", got.Scope.BusinessType)
}

func TestAnswerUnknownOption(t *testing.T) {
	uc, _, _ := newTestContact(t)
	flow, _ := uc.CreateFlow(context.Background())

	_, err := uc.AnswerQuiz(context.Background(), flow.ID, "Pizza")
	assert.ErrorIs(t, err, entity.ErrUnknownOption)
}

func TestAnswerAfterCompletion(t *testing.T) {
	uc, _, _ := newTestContact(t)
	flow, _ := uc.CreateFlow(context.Background())
	answerAll(t, uc, flow.ID)

	_, err := uc.AnswerQuiz(context.Background(), flow.ID, "E-commerce")
	assert.ErrorIs(t, err, entity.ErrQuizIncomplete)
}

func TestGoBackAtFirstStepIsNoOp(t *testing.T) {
	uc, _, _ := newTestContact(t)
	flow, _ := uc.CreateFlow(context.Background())

	got, err := uc.GoBack(context.Background(), flow.ID)
	require.NoError(t, err)
	assert.Zero(t, got.QuizStep)
}

func TestGoBackKeepsAnswersAndReanswerOverwrites(t *testing.T) {
	uc, _, _ := newTestContact(t)
	ctx := context.Background()
	flow, _ := uc.CreateFlow(ctx)

	_, err := uc.AnswerQuiz(ctx, flow.ID, "E-commerce")
	require.NoError(t, err)
	_, err = uc.AnswerQuiz(ctx, flow.ID, "Atendimento ao cliente demorado")
	require.NoError(t, err)

	got, err := uc.GoBack(ctx, flow.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.QuizStep)
	assert.Len(t, got.Answers, 2, "going back never discards answers")

	got, err = uc.AnswerQuiz(ctx, flow.ID, "Processos manuais repetitivos")
	require.NoError(t, err)

	answer, ok := got.AnswerFor("main_challenge")
	require.True(t, ok)
	assert.Equal(t, "Processos manuais repetitivos", answer)
	assert.Len(t, got.Answers, 2, "re-answering overwrites, not appends")
}

func TestGoBackFromCompletionDropsScope(t *testing.T) {
	uc, _, _ := newTestContact(t)
	ctx := context.Background()
	flow, _ := uc.CreateFlow(ctx)
	answerAll(t, uc, flow.ID)

	got, err := uc.GoBack(ctx, flow.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.QuizStep)
	assert.Nil(t, got.Scope, "a retry recomputes the scope")

	got, err = uc.AnswerQuiz(ctx, flow.ID, "Até R$ 5.000")
	require.NoError(t, err)
	require.NotNil(t, got.Scope)
	assert.Equal(t, "Até R$ 5.000", got.Scope.BudgetRange)
}

func TestResetQuizClearsEverything(t *testing.T) {
	uc, _, _ := newTestContact(t)
	ctx := context.Background()
	flow, _ := uc.CreateFlow(ctx)
	answerAll(t, uc, flow.ID)

	got, err := uc.ResetQuiz(ctx, flow.ID)
	require.NoError(t, err)
	assert.Zero(t, got.QuizStep)
	assert.Empty(t, got.Answers)
	assert.Nil(t, got.Scope)
}

func TestSubmitIdeaValidation(t *testing.T) {
	uc, store, _ := newTestContact(t)
	ctx := context.Background()
	flow, _ := uc.CreateFlow(ctx)

	_, _, err := uc.SubmitIdea(ctx, flow.ID, &entity.SubmitIdeaRequest{Name: "  ", IdeaText: "uma ideia"})
	assert.ErrorIs(t, err, entity.ErrMissingField)

	_, _, err = uc.SubmitIdea(ctx, flow.ID, &entity.SubmitIdeaRequest{Name: "Ana", IdeaText: ""})
	assert.ErrorIs(t, err, entity.ErrMissingField)

	assert.Empty(t, store.all(), "failed validation records nothing")
}

func TestSubmitIdeaHandsOff(t *testing.T) {
	uc, store, notifier := newTestContact(t)
	ctx := context.Background()
	flow, _ := uc.CreateFlow(ctx)

	got, handoff, err := uc.SubmitIdea(ctx, flow.ID, &entity.SubmitIdeaRequest{
		Name:     "Ana",
		IdeaText: "automatizar meu estoque",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.ContactModeIdea, got.Mode)
	require.NotNil(t, handoff)
	assert.Contains(t, handoff.Message, "Ana")
	assert.Contains(t, handoff.Message, "automatizar meu estoque")
	assert.Contains(t, handoff.Link, "https://wa.me/")
	assert.Contains(t, handoff.Link, url.QueryEscape("automatizar meu estoque"))

	leads := store.all()
	require.Len(t, leads, 1)
	assert.Equal(t, entity.LeadKindIdea, leads[0].Kind)
	assert.Equal(t, "Ana", leads[0].Name)
	assert.NotEmpty(t, leads[0].ID)
	assert.Equal(t, 1, notifier.count)
}

func TestApproveScopeRequiresScope(t *testing.T) {
	uc, _, _ := newTestContact(t)
	ctx := context.Background()
	flow, _ := uc.CreateFlow(ctx)

	_, _, err := uc.ApproveScope(ctx, flow.ID)
	assert.ErrorIs(t, err, entity.ErrNoScopeGenerated)
}

func TestApproveScopeHandsOff(t *testing.T) {
	uc, store, _ := newTestContact(t)
	ctx := context.Background()
	flow, _ := uc.CreateFlow(ctx)
	answerAll(t, uc, flow.ID)

	_, handoff, err := uc.ApproveScope(ctx, flow.ID)
	require.NoError(t, err)

	require.NotNil(t, handoff)
	assert.Contains(t, handoff.Message, "E-commerce")
	assert.Contains(t, handoff.Message, string(entity.SolutionVirtualAssistant))

	leads := store.all()
	require.Len(t, leads, 1)
	assert.Equal(t, entity.LeadKindScope, leads[0].Kind)
	require.NotNil(t, leads[0].Scope)
}

func TestRejectScopeStillHandsOff(t *testing.T) {
	uc, store, _ := newTestContact(t)
	ctx := context.Background()
	flow, _ := uc.CreateFlow(ctx)
	answerAll(t, uc, flow.ID)

	_, handoff, err := uc.RejectScope(ctx, flow.ID)
	require.NoError(t, err)

	require.NotNil(t, handoff)
	assert.Contains(t, handoff.Message, "especialista")

	leads := store.all()
	require.Len(t, leads, 1)
	assert.Equal(t, entity.LeadKindGeneric, leads[0].Kind)
	require.NotNil(t, leads[0].Scope, "rejected scope still travels as context")
}

func TestRejectWithoutScope(t *testing.T) {
	uc, store, _ := newTestContact(t)
	ctx := context.Background()
	flow, _ := uc.CreateFlow(ctx)

	_, handoff, err := uc.RejectScope(ctx, flow.ID)
	require.NoError(t, err)
	require.NotNil(t, handoff)

	leads := store.all()
	require.Len(t, leads, 1)
	assert.Nil(t, leads[0].Scope)
}

func TestFlowResetsAfterHandoff(t *testing.T) {
	uc, _, _ := newTestContact(t)
	ctx := context.Background()
	flow, _ := uc.CreateFlow(ctx)
	answerAll(t, uc, flow.ID)

	_, _, err := uc.ApproveScope(ctx, flow.ID)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		got, gerr := uc.GetFlow(ctx, flow.ID)
		return gerr == nil && got.Mode == entity.ContactModeNone && got.QuizStep == 0 && got.Scope == nil
	}, time.Second, 5*time.Millisecond, "flow returns to its initial state after the handoff delay")
}

func TestNewEventCancelsPendingReset(t *testing.T) {
	uc, _, _ := newTestContact(t)
	ctx := context.Background()
	flow, _ := uc.CreateFlow(ctx)
	answerAll(t, uc, flow.ID)

	_, _, err := uc.ApproveScope(ctx, flow.ID)
	require.NoError(t, err)

	// A new visitor event before the reset timer fires keeps the state.
	_, err = uc.GoBack(ctx, flow.ID)
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)

	got, err := uc.GetFlow(ctx, flow.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.QuizStep, "pending reset was cancelled")
	assert.Len(t, got.Answers, 5)
}

func TestListLeadsExposesRecordedHandoffs(t *testing.T) {
	uc, _, _ := newTestContact(t)
	ctx := context.Background()

	flow, _ := uc.CreateFlow(ctx)
	_, _, err := uc.SubmitIdea(ctx, flow.ID, &entity.SubmitIdeaRequest{Name: "Ana", IdeaText: "um bot"})
	require.NoError(t, err)

	flow2, _ := uc.CreateFlow(ctx)
	answerAll(t, uc, flow2.ID)
	_, _, err = uc.ApproveScope(ctx, flow2.ID)
	require.NoError(t, err)

	leads, err := uc.ListLeads(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, entity.LeadKindScope, leads[0].Kind, "newest first")
	assert.Equal(t, entity.LeadKindIdea, leads[1].Kind)

	got, err := uc.GetLead(ctx, leads[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)

	_, err = uc.GetLead(ctx, "missing")
	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
}

func TestGetFlowUnknownID(t *testing.T) {
	uc, _, _ := newTestContact(t)

	_, err := uc.GetFlow(context.Background(), "nope")
	assert.ErrorIs(t, err, entity.ErrFlowNotFound)
}
