package contact

import (
	"context"

	"github.com/thinktars/playground/internal/entity"
)

type ContactUsecase interface {
	Questions() []entity.QuizQuestion
	CreateFlow(ctx context.Context) (*entity.ContactFlow, error)
	GetFlow(ctx context.Context, flowID string) (*entity.ContactFlow, error)
	SubmitIdea(ctx context.Context, flowID string, req *entity.SubmitIdeaRequest) (*entity.ContactFlow, *entity.HandoffDTO, error)
	AnswerQuiz(ctx context.Context, flowID, option string) (*entity.ContactFlow, error)
	GoBack(ctx context.Context, flowID string) (*entity.ContactFlow, error)
	ResetQuiz(ctx context.Context, flowID string) (*entity.ContactFlow, error)
	ApproveScope(ctx context.Context, flowID string) (*entity.ContactFlow, *entity.HandoffDTO, error)
	RejectScope(ctx context.Context, flowID string) (*entity.ContactFlow, *entity.HandoffDTO, error)
	ListLeads(ctx context.Context, limit, offset int) ([]entity.Lead, error)
	GetLead(ctx context.Context, leadID string) (*entity.Lead, error)
}
