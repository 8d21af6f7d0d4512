package demos

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/thinktars/playground/internal/entity"
	"go.uber.org/zap"
)

// MockConnector is an in-process stand-in for the demos backend, used for
// local development without the real service.
type MockConnector struct {
	logger  *zap.Logger
	counter atomic.Uint64
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) ListAssistants(ctx context.Context) ([]entity.Assistant, error) {
	ctxzap.Info(ctx, "[MOCK] listing playground assistants")

	return []entity.Assistant{
		{ID: "juridico", Name: "Assistente Jurídico"},
		{ID: "investimento", Name: "Agente de Investimento"},
		{ID: "planilha", Name: "Analista de Planilha"},
	}, nil
}

func (m *MockConnector) CreateConversation(ctx context.Context, agentID string) (string, error) {
	ctxzap.Info(ctx, "[MOCK] creating conversation", zap.String("agent_id", agentID))

	return fmt.Sprintf("mock-conv-%d", m.counter.Add(1)), nil
}

func (m *MockConnector) SeedConversation(ctx context.Context, agentID string, att *entity.Attachment) (string, error) {
	ctxzap.Info(ctx, "[MOCK] seeding conversation",
		zap.String("agent_id", agentID),
		zap.String("filename", att.LocalName),
	)

	return fmt.Sprintf("mock-conv-%d", m.counter.Add(1)), nil
}

func (m *MockConnector) UploadFile(ctx context.Context, conversationID string, att *entity.Attachment) (string, error) {
	ctxzap.Info(ctx, "[MOCK] uploading attachment",
		zap.String("conversation_id", conversationID),
		zap.String("filename", att.LocalName),
	)

	return fmt.Sprintf("mock-file-%d", m.counter.Add(1)), nil
}

func (m *MockConnector) SendMessage(ctx context.Context, conversationID, content string, fileIDs []string) (string, error) {
	ctxzap.Info(ctx, "[MOCK] sending message", zap.String("conversation_id", conversationID))

	return fmt.Sprintf("Resposta simulada para: %s", content), nil
}

func (m *MockConnector) DeleteConversation(ctx context.Context, conversationID string) error {
	ctxzap.Info(ctx, "[MOCK] deleting conversation", zap.String("conversation_id", conversationID))

	return nil
}
