package connect

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/agenthubhq/agenthub/internal/agents"
	"github.com/agenthubhq/agenthub/internal/platform"
	"github.com/agenthubhq/agenthub/internal/platform/adapters/discord"
)

// DiscordReceiver runs gateway bot sessions for Discord agents.
type DiscordReceiver struct {
	logger *slog.Logger
}

// NewDiscordReceiver creates a DiscordReceiver.
func NewDiscordReceiver(log *slog.Logger) *DiscordReceiver {
	return &DiscordReceiver{
		logger: log.With(slog.String("receiver", "discord")),
	}
}

// Platform returns the Discord platform type.
func (r *DiscordReceiver) Platform() platform.Type {
	return discord.Type
}

// Connect opens a gateway session and answers each message through the
// responder.
func (r *DiscordReceiver) Connect(ctx context.Context, agent agents.Agent, responder Responder) (Connection, error) {
	token := strings.TrimSpace(agent.DiscordBotToken)
	if token == "" {
		return nil, errors.New("discord bot token is required")
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		r.logger.Error("create session failed", slog.String("agent_id", agent.ID), slog.Any("error", err))
		return nil, err
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentMessageContent

	remove := session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.Bot {
			return
		}
		if ctx.Err() != nil {
			return
		}
		text := strings.TrimSpace(m.Content)
		if text == "" {
			return
		}
		// Only answer direct messages and channels on the agent's guild.
		if m.GuildID != "" && agent.DiscordGuildID != "" && m.GuildID != agent.DiscordGuildID {
			return
		}
		msg := Inbound{
			ChatID:     m.ChannelID,
			Text:       text,
			SenderName: m.Author.Username,
		}
		reply, err := responder.Reply(ctx, agent, msg)
		if err != nil {
			r.logger.Error("build reply failed", slog.String("agent_id", agent.ID), slog.Any("error", err))
			return
		}
		if reply == "" {
			return
		}
		if _, err := s.ChannelMessageSendReply(m.ChannelID, reply, m.Reference()); err != nil {
			r.logger.Error("send reply failed", slog.String("agent_id", agent.ID), slog.Any("error", err))
		}
	})

	if err := session.Open(); err != nil {
		remove()
		r.logger.Error("open session failed", slog.String("agent_id", agent.ID), slog.Any("error", err))
		return nil, err
	}

	stop := func(_ context.Context) error {
		r.logger.Info("stop", slog.String("agent_id", agent.ID))
		remove()
		return session.Close()
	}
	return NewConnection(agent, stop), nil
}
