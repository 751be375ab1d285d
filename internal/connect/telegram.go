package connect

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/agenthubhq/agenthub/internal/agents"
	"github.com/agenthubhq/agenthub/internal/platform"
	"github.com/agenthubhq/agenthub/internal/platform/adapters/telegram"
)

// TelegramReceiver runs long-polling bot sessions for Telegram agents.
type TelegramReceiver struct {
	logger *slog.Logger
}

// NewTelegramReceiver creates a TelegramReceiver.
func NewTelegramReceiver(log *slog.Logger) *TelegramReceiver {
	return &TelegramReceiver{
		logger: log.With(slog.String("receiver", "telegram")),
	}
}

// Platform returns the Telegram platform type.
func (r *TelegramReceiver) Platform() platform.Type {
	return telegram.Type
}

// Connect starts long-polling for updates and answers each text
// message through the responder.
func (r *TelegramReceiver) Connect(ctx context.Context, agent agents.Agent, responder Responder) (Connection, error) {
	token := strings.TrimSpace(agent.TelegramBotToken)
	if token == "" {
		return nil, errors.New("telegram bot token is required")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		r.logger.Error("create bot failed", slog.String("agent_id", agent.ID), slog.Any("error", err))
		return nil, err
	}
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := bot.GetUpdatesChan(updateConfig)
	connCtx, cancel := context.WithCancel(ctx)

	go func() {
		for {
			select {
			case <-connCtx.Done():
				return
			case update, ok := <-updates:
				if !ok {
					r.logger.Info("updates channel closed", slog.String("agent_id", agent.ID))
					return
				}
				if update.Message == nil || update.Message.Chat == nil {
					continue
				}
				text := strings.TrimSpace(update.Message.Text)
				if text == "" {
					continue
				}
				msg := Inbound{
					ChatID:     strings.TrimSpace(update.Message.Chat.UserName),
					Text:       text,
					SenderName: senderName(update.Message),
				}
				reply, err := responder.Reply(connCtx, agent, msg)
				if err != nil {
					r.logger.Error("build reply failed", slog.String("agent_id", agent.ID), slog.Any("error", err))
					continue
				}
				if reply == "" {
					continue
				}
				out := tgbotapi.NewMessage(update.Message.Chat.ID, reply)
				out.ReplyToMessageID = update.Message.MessageID
				if _, err := bot.Send(out); err != nil {
					r.logger.Error("send reply failed", slog.String("agent_id", agent.ID), slog.Any("error", err))
				}
			}
		}
	}()

	stop := func(_ context.Context) error {
		r.logger.Info("stop", slog.String("agent_id", agent.ID))
		bot.StopReceivingUpdates()
		cancel()
		// Drain remaining updates so the library's polling goroutine can
		// finish writing and exit. Without this, the in-flight long-poll
		// keeps the old getUpdates session alive and a restarting session
		// with the same token hits "Conflict: terminated by other
		// getUpdates request".
		for range updates {
		}
		return nil
	}
	return NewConnection(agent, stop), nil
}

func senderName(msg *tgbotapi.Message) string {
	if msg.From == nil {
		return ""
	}
	if name := strings.TrimSpace(msg.From.UserName); name != "" {
		return name
	}
	return strings.TrimSpace(msg.From.FirstName + " " + msg.From.LastName)
}
