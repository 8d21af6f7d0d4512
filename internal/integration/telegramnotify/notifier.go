package telegramnotify

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/thinktars/playground/internal/config"
	"github.com/thinktars/playground/internal/entity"
	"go.uber.org/zap"
)

// Notifier pushes new leads to the sales team's Telegram chat. Delivery is
// best-effort: a failed notification is logged, never surfaced to the
// visitor, and never blocks the handoff.
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

func NewNotifier(cfg config.TelegramConfig, logger *zap.Logger) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot api: %w", err)
	}

	return &Notifier{
		api:    api,
		chatID: cfg.ChatID,
		logger: logger,
	}, nil
}

// NotifyLead sends a summary of the lead to the configured chat.
func (n *Notifier) NotifyLead(ctx context.Context, lead *entity.Lead) {
	msg := tgbotapi.NewMessage(n.chatID, formatLead(lead))

	if _, err := n.api.Send(msg); err != nil {
		ctxzap.Warn(ctx, "failed to notify sales chat about lead",
			zap.String("lead_id", lead.ID),
			zap.Error(err),
		)
		return
	}

	ctxzap.Info(ctx, "lead notification sent",
		zap.String("lead_id", lead.ID),
		zap.String("kind", string(lead.Kind)),
	)
}

func formatLead(lead *entity.Lead) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Novo lead (%s)\n", lead.Kind)
	if lead.Name != "" {
		fmt.Fprintf(&b, "Nome: %s\n", lead.Name)
	}
	if lead.IdeaText != "" {
		fmt.Fprintf(&b, "Ideia: %s\n", lead.IdeaText)
	}
	if lead.Scope != nil {
		fmt.Fprintf(&b, "Negócio: %s\n", lead.Scope.BusinessType)
		fmt.Fprintf(&b, "Desafio: %s\n", lead.Scope.MainChallenge)
		fmt.Fprintf(&b, "Solução: %s\n", lead.Scope.SolutionType)
		fmt.Fprintf(&b, "Orçamento: %s\n", lead.Scope.BudgetRange)
	}
	fmt.Fprintf(&b, "\n%s", lead.Message)

	return b.String()
}

// NoopNotifier satisfies the notifier interface when Telegram is disabled.
type NoopNotifier struct{}

func (NoopNotifier) NotifyLead(ctx context.Context, lead *entity.Lead) {}
