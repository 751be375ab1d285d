package agents

import (
	"time"

	"github.com/agenthubhq/agenthub/internal/widget"
)

// Agent is a configured chat agent tied to one business and one
// messaging platform. Its api key doubles as the widget routing and
// interaction attribution key.
type Agent struct {
	ID             string `json:"id"`
	OwnerUserID    string `json:"owner_user_id"`
	Name           string `json:"name"`
	Platform       string `json:"platform"`
	APIKey         string `json:"api_key"`
	WidgetPosition string `json:"widget_position"`
	WidgetColor    string `json:"widget_color,omitempty"`
	WelcomeMessage string `json:"welcome_message,omitempty"`

	WhatsAppNumber      string `json:"whatsapp_number,omitempty"`
	TelegramUsername    string `json:"telegram_username,omitempty"`
	FacebookPageID      string `json:"facebook_page_id,omitempty"`
	InstagramBusinessID string `json:"instagram_business_id,omitempty"`
	DiscordGuildID      string `json:"discord_guild_id,omitempty"`
	DiscordChannelID    string `json:"discord_channel_id,omitempty"`
	DiscordInvite       string `json:"discord_invite,omitempty"`
	LineID              string `json:"line_id,omitempty"`

	TelegramBotToken string `json:"-"`
	DiscordBotToken  string `json:"-"`

	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PlatformIdentifier returns the routing target for the agent's
// platform, empty when the business has not configured one.
func (a Agent) PlatformIdentifier() string {
	switch a.Platform {
	case "whatsapp":
		return a.WhatsAppNumber
	case "telegram":
		return a.TelegramUsername
	case "messenger":
		return a.FacebookPageID
	case "instagram":
		return a.InstagramBusinessID
	case "discord":
		if a.DiscordInvite != "" {
			return a.DiscordInvite
		}
		if a.DiscordGuildID == "" {
			return ""
		}
		if a.DiscordChannelID != "" {
			return a.DiscordGuildID + "/" + a.DiscordChannelID
		}
		return a.DiscordGuildID
	case "line":
		return a.LineID
	default:
		return ""
	}
}

// WidgetConfig derives the canonical widget configuration embedded on
// host pages. The config is immutable per published snippet; updating
// the agent requires regenerating the embed code.
func (a Agent) WidgetConfig() widget.Config {
	return widget.Config{
		APIKey:         a.APIKey,
		Platform:       a.Platform,
		Position:       widget.NormalizePosition(a.WidgetPosition),
		Color:          a.WidgetColor,
		WelcomeMessage: a.WelcomeMessage,
		PlatformID:     a.PlatformIdentifier(),
	}.Normalize()
}

// CreateRequest is the input for creating an agent.
type CreateRequest struct {
	Name           string `json:"name" validate:"required,min=1,max=120"`
	Platform       string `json:"platform" validate:"required,oneof=whatsapp telegram messenger instagram discord line"`
	WidgetPosition string `json:"widget_position" validate:"omitempty,oneof=bottom-right bottom-left top-right top-left"`
	WidgetColor    string `json:"widget_color" validate:"omitempty,hexcolor"`
	WelcomeMessage string `json:"welcome_message" validate:"max=500"`

	WhatsAppNumber      string `json:"whatsapp_number" validate:"omitempty,max=32"`
	TelegramUsername    string `json:"telegram_username" validate:"omitempty,max=64"`
	FacebookPageID      string `json:"facebook_page_id" validate:"omitempty,max=64"`
	InstagramBusinessID string `json:"instagram_business_id" validate:"omitempty,max=64"`
	DiscordGuildID      string `json:"discord_guild_id" validate:"omitempty,max=32"`
	DiscordChannelID    string `json:"discord_channel_id" validate:"omitempty,max=32"`
	DiscordInvite       string `json:"discord_invite" validate:"omitempty,max=64"`
	LineID              string `json:"line_id" validate:"omitempty,max=64"`

	TelegramBotToken string `json:"telegram_bot_token" validate:"omitempty,max=128"`
	DiscordBotToken  string `json:"discord_bot_token" validate:"omitempty,max=128"`
}

// UpdateRequest is the input for updating an agent. Nil fields are left
// unchanged.
type UpdateRequest struct {
	Name           *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	WidgetPosition *string `json:"widget_position,omitempty" validate:"omitempty,oneof=bottom-right bottom-left top-right top-left"`
	WidgetColor    *string `json:"widget_color,omitempty" validate:"omitempty,hexcolor|eq="`
	WelcomeMessage *string `json:"welcome_message,omitempty" validate:"omitempty,max=500"`

	WhatsAppNumber      *string `json:"whatsapp_number,omitempty"`
	TelegramUsername    *string `json:"telegram_username,omitempty"`
	FacebookPageID      *string `json:"facebook_page_id,omitempty"`
	InstagramBusinessID *string `json:"instagram_business_id,omitempty"`
	DiscordGuildID      *string `json:"discord_guild_id,omitempty"`
	DiscordChannelID    *string `json:"discord_channel_id,omitempty"`
	DiscordInvite       *string `json:"discord_invite,omitempty"`
	LineID              *string `json:"line_id,omitempty"`

	TelegramBotToken *string `json:"telegram_bot_token,omitempty"`
	DiscordBotToken  *string `json:"discord_bot_token,omitempty"`

	IsActive *bool `json:"is_active,omitempty"`
}
