package demos

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/thinktars/playground/internal/config"
	"github.com/thinktars/playground/internal/entity"
	"github.com/thinktars/playground/internal/integration/common"
	pkghttp "github.com/thinktars/playground/pkg/http"
	"go.uber.org/zap"
)

// Connector talks to the demos backend that owns assistants, conversations
// and all LLM processing. A 2xx response carrying {"error": ...} comes back
// as *entity.BusinessError; transport failures and non-2xx statuses keep
// their pkg/http error types.
type Connector struct {
	config    config.DemosConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.DemosConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// ListAssistants fetches the Playground assistant catalog.
func (c *Connector) ListAssistants(ctx context.Context) ([]entity.Assistant, error) {
	ctxzap.Info(ctx, "listing playground assistants")

	var resp entity.DemosAssistantsResponse
	err := c.connector.DoRequest(ctx, http.MethodGet, "/assistants", nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("list assistants: %w", err)
	}

	ctxzap.Info(ctx, "assistants listed", zap.Int("count", len(resp.Assistants)))

	return resp.Assistants, nil
}

// CreateConversation creates a bare conversation for the given agent.
func (c *Connector) CreateConversation(ctx context.Context, agentID string) (string, error) {
	ctxzap.Info(ctx, "creating conversation", zap.String("agent_id", agentID))

	req := entity.DemosCreateConversationRequest{AgentID: agentID}
	var resp entity.DemosConversationResponse
	if err := c.connector.DoRequest(ctx, http.MethodPost, "/conversations", req, &resp); err != nil {
		return "", err
	}

	if resp.Error != "" {
		return "", &entity.BusinessError{Message: resp.Error}
	}

	ctxzap.Info(ctx, "conversation created", zap.String("conversation_id", resp.ConversationID))

	return resp.ConversationID, nil
}

// SeedConversation uploads a document and creates a conversation grounded in
// it (the /upload-pdf path).
func (c *Connector) SeedConversation(ctx context.Context, agentID string, att *entity.Attachment) (string, error) {
	ctxzap.Info(ctx, "seeding conversation with document",
		zap.String("agent_id", agentID),
		zap.String("filename", att.LocalName),
		zap.Int64("size", att.Size),
	)

	var resp entity.DemosConversationResponse
	err := c.connector.DoMultipartRequest(ctx, http.MethodPost, "/upload-pdf", func(w *multipart.Writer) error {
		if err := w.WriteField("agent_id", agentID); err != nil {
			return err
		}
		return writeFilePart(w, att)
	}, &resp)
	if err != nil {
		return "", err
	}

	if resp.Error != "" {
		return "", &entity.BusinessError{Message: resp.Error}
	}

	ctxzap.Info(ctx, "conversation seeded", zap.String("conversation_id", resp.ConversationID))

	return resp.ConversationID, nil
}

// UploadFile uploads a mid-conversation attachment, returning the remote
// file id to reference in the next message.
func (c *Connector) UploadFile(ctx context.Context, conversationID string, att *entity.Attachment) (string, error) {
	ctxzap.Info(ctx, "uploading conversation attachment",
		zap.String("conversation_id", conversationID),
		zap.String("filename", att.LocalName),
	)

	endpoint := fmt.Sprintf("/conversations/%s/upload-file", conversationID)

	var resp entity.DemosUploadFileResponse
	err := c.connector.DoMultipartRequest(ctx, http.MethodPost, endpoint, func(w *multipart.Writer) error {
		return writeFilePart(w, att)
	}, &resp)
	if err != nil {
		return "", err
	}

	if resp.Error != "" {
		return "", &entity.BusinessError{Message: resp.Error}
	}

	ctxzap.Info(ctx, "attachment uploaded", zap.String("file_id", resp.FileID))

	return resp.FileID, nil
}

// SendMessage submits one user turn and returns the assistant reply.
func (c *Connector) SendMessage(ctx context.Context, conversationID, content string, fileIDs []string) (string, error) {
	ctxzap.Info(ctx, "sending message",
		zap.String("conversation_id", conversationID),
		zap.Int("file_count", len(fileIDs)),
	)

	endpoint := fmt.Sprintf("/conversations/%s/messages", conversationID)

	req := entity.DemosSendMessageRequest{Content: content, FileIDs: fileIDs}
	var resp entity.DemosSendMessageResponse
	if err := c.connector.DoRequest(ctx, http.MethodPost, endpoint, req, &resp); err != nil {
		return "", err
	}

	if resp.Error != "" {
		return "", &entity.BusinessError{Message: resp.Error}
	}

	ctxzap.Info(ctx, "assistant replied", zap.Int("reply_length", len(resp.Message)))

	return resp.Message, nil
}

// DeleteConversation releases the backend resources of a conversation (the
// per-conversation assistant and its vector store).
func (c *Connector) DeleteConversation(ctx context.Context, conversationID string) error {
	ctxzap.Info(ctx, "deleting conversation", zap.String("conversation_id", conversationID))

	endpoint := fmt.Sprintf("/conversations/%s", conversationID)

	var resp entity.DemosDeleteConversationResponse
	if err := c.connector.DoRequest(ctx, http.MethodDelete, endpoint, nil, &resp); err != nil {
		return err
	}

	if resp.Error != "" {
		return &entity.BusinessError{Message: resp.Error}
	}

	return nil
}

func writeFilePart(w *multipart.Writer, att *entity.Attachment) error {
	part, err := w.CreateFormFile("file", att.LocalName)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, bytes.NewReader(att.Data)); err != nil {
		return err
	}
	return nil
}
