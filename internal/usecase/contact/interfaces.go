package contact

import (
	"context"

	"github.com/thinktars/playground/internal/entity"
)

// LeadRepository persists handed-off leads for the sales team.
type LeadRepository interface {
	CreateLead(ctx context.Context, lead *entity.Lead) (*entity.Lead, error)
	GetLeadByID(ctx context.Context, id string) (*entity.Lead, error)
	ListLeads(ctx context.Context, limit, offset int) ([]entity.Lead, error)
}

// LeadNotifier pushes a new lead to the sales channel, best-effort.
type LeadNotifier interface {
	NotifyLead(ctx context.Context, lead *entity.Lead)
}

// LinkBuilder builds the external messaging deep link for a pre-filled
// message.
type LinkBuilder interface {
	Build(message string) string
}
