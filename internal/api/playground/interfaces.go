package playground

import (
	"context"

	"github.com/thinktars/playground/internal/entity"
)

type PlaygroundUsecase interface {
	Assistants(ctx context.Context) ([]entity.Assistant, error)
	CreateSession(ctx context.Context) (*entity.Session, error)
	GetSession(ctx context.Context, sessionID string) (*entity.Session, error)
	SelectAssistant(ctx context.Context, sessionID, assistantID string) (*entity.Session, error)
	StageAttachment(ctx context.Context, sessionID, name, contentType string, size int64, data []byte) (*entity.Session, error)
	ClearAttachment(ctx context.Context, sessionID string) (*entity.Session, error)
	StartConversation(ctx context.Context, sessionID string) (*entity.Session, error)
	SendMessage(ctx context.Context, sessionID, text string) (*entity.Session, error)
	ResetConversation(ctx context.Context, sessionID string) (*entity.Session, error)
}
