package playground

import (
	"context"

	"github.com/thinktars/playground/internal/entity"
)

// DemosConnector is the surface of the external demos backend the engine
// orchestrates.
type DemosConnector interface {
	ListAssistants(ctx context.Context) ([]entity.Assistant, error)
	CreateConversation(ctx context.Context, agentID string) (string, error)
	SeedConversation(ctx context.Context, agentID string, att *entity.Attachment) (string, error)
	UploadFile(ctx context.Context, conversationID string, att *entity.Attachment) (string, error)
	SendMessage(ctx context.Context, conversationID, content string, fileIDs []string) (string, error)
	DeleteConversation(ctx context.Context, conversationID string) error
}
