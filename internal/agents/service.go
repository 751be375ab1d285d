package agents

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agenthubhq/agenthub/internal/db"
	"github.com/agenthubhq/agenthub/internal/widget"
)

// ErrNotFound is returned when an agent does not exist or is not owned
// by the requesting user.
var ErrNotFound = errors.New("agent not found")

const agentColumns = `id, owner_user_id, name, platform, api_key, widget_position,
	widget_color, welcome_message, whatsapp_number, telegram_username,
	facebook_page_id, instagram_business_id, discord_guild_id,
	discord_channel_id, discord_invite, line_id, telegram_bot_token,
	discord_bot_token, is_active, created_at, updated_at`

// Service owns agent records: the canonical store the widget encoder,
// the public widget endpoints, and the bot connections all read from.
type Service struct {
	pool     *pgxpool.Pool
	validate *validator.Validate
	logger   *slog.Logger
}

// NewService creates an agent service.
func NewService(log *slog.Logger, pool *pgxpool.Pool) *Service {
	return &Service{
		pool:     pool,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   log.With(slog.String("service", "agents")),
	}
}

// Create validates the request, issues a fresh api key, and persists the
// agent.
func (s *Service) Create(ctx context.Context, ownerUserID string, req CreateRequest) (Agent, error) {
	if err := s.validate.Struct(req); err != nil {
		return Agent{}, fmt.Errorf("invalid agent: %w", err)
	}
	ownerID, err := db.ParseUUID(ownerUserID)
	if err != nil {
		return Agent{}, err
	}
	position := string(widget.NormalizePosition(req.WidgetPosition))
	row := s.pool.QueryRow(ctx, `INSERT INTO agents (
			owner_user_id, name, platform, api_key, widget_position,
			widget_color, welcome_message, whatsapp_number, telegram_username,
			facebook_page_id, instagram_business_id, discord_guild_id,
			discord_channel_id, discord_invite, line_id, telegram_bot_token,
			discord_bot_token
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		RETURNING `+agentColumns,
		ownerID, strings.TrimSpace(req.Name), strings.ToLower(req.Platform), NewAPIKey(), position,
		strings.TrimSpace(req.WidgetColor), strings.TrimSpace(req.WelcomeMessage),
		db.TextFrom(req.WhatsAppNumber), db.TextFrom(req.TelegramUsername),
		db.TextFrom(req.FacebookPageID), db.TextFrom(req.InstagramBusinessID),
		db.TextFrom(req.DiscordGuildID), db.TextFrom(req.DiscordChannelID),
		db.TextFrom(req.DiscordInvite), db.TextFrom(req.LineID),
		db.TextFrom(req.TelegramBotToken), db.TextFrom(req.DiscordBotToken))
	return scanAgent(row)
}

// Get returns an agent by id regardless of owner.
func (s *Service) Get(ctx context.Context, agentID string) (Agent, error) {
	id, err := db.ParseUUID(agentID)
	if err != nil {
		return Agent{}, ErrNotFound
	}
	row := s.pool.QueryRow(ctx, `SELECT `+agentColumns+` FROM agents WHERE id = $1`, id)
	return scanAgent(row)
}

// GetOwned returns an agent by id scoped to its owner.
func (s *Service) GetOwned(ctx context.Context, ownerUserID, agentID string) (Agent, error) {
	ownerID, err := db.ParseUUID(ownerUserID)
	if err != nil {
		return Agent{}, ErrNotFound
	}
	id, err := db.ParseUUID(agentID)
	if err != nil {
		return Agent{}, ErrNotFound
	}
	row := s.pool.QueryRow(ctx,
		`SELECT `+agentColumns+` FROM agents WHERE id = $1 AND owner_user_id = $2`, id, ownerID)
	return scanAgent(row)
}

// GetByAPIKey resolves an agent from its widget api key. Used by the
// public widget endpoints and the interaction tracker.
func (s *Service) GetByAPIKey(ctx context.Context, apiKey string) (Agent, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return Agent{}, ErrNotFound
	}
	row := s.pool.QueryRow(ctx, `SELECT `+agentColumns+` FROM agents WHERE api_key = $1`, apiKey)
	return scanAgent(row)
}

// ListByOwner returns all agents for one owner, newest first.
func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Agent, error) {
	ownerID, err := db.ParseUUID(ownerUserID)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx,
		`SELECT `+agentColumns+` FROM agents WHERE owner_user_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Agent{}
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, agent)
	}
	return items, rows.Err()
}

// ListConnectable returns active agents carrying bot credentials, the
// set the connection manager maintains live platform sessions for.
func (s *Service) ListConnectable(ctx context.Context) ([]Agent, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+agentColumns+` FROM agents
		WHERE is_active AND (telegram_bot_token IS NOT NULL OR discord_bot_token IS NOT NULL)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Agent{}
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, agent)
	}
	return items, rows.Err()
}

// Update applies the non-nil request fields and returns the new record.
func (s *Service) Update(ctx context.Context, ownerUserID, agentID string, req UpdateRequest) (Agent, error) {
	if err := s.validate.Struct(req); err != nil {
		return Agent{}, fmt.Errorf("invalid agent: %w", err)
	}
	current, err := s.GetOwned(ctx, ownerUserID, agentID)
	if err != nil {
		return Agent{}, err
	}
	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	applyString(&current.Name, req.Name)
	if req.WidgetPosition != nil {
		current.WidgetPosition = string(widget.NormalizePosition(*req.WidgetPosition))
	}
	applyString(&current.WidgetColor, req.WidgetColor)
	applyString(&current.WelcomeMessage, req.WelcomeMessage)
	applyString(&current.WhatsAppNumber, req.WhatsAppNumber)
	applyString(&current.TelegramUsername, req.TelegramUsername)
	applyString(&current.FacebookPageID, req.FacebookPageID)
	applyString(&current.InstagramBusinessID, req.InstagramBusinessID)
	applyString(&current.DiscordGuildID, req.DiscordGuildID)
	applyString(&current.DiscordChannelID, req.DiscordChannelID)
	applyString(&current.DiscordInvite, req.DiscordInvite)
	applyString(&current.LineID, req.LineID)
	applyString(&current.TelegramBotToken, req.TelegramBotToken)
	applyString(&current.DiscordBotToken, req.DiscordBotToken)
	if req.IsActive != nil {
		current.IsActive = *req.IsActive
	}

	id, err := db.ParseUUID(current.ID)
	if err != nil {
		return Agent{}, err
	}
	row := s.pool.QueryRow(ctx, `UPDATE agents SET
			name = $2, widget_position = $3, widget_color = $4, welcome_message = $5,
			whatsapp_number = $6, telegram_username = $7, facebook_page_id = $8,
			instagram_business_id = $9, discord_guild_id = $10, discord_channel_id = $11,
			discord_invite = $12, line_id = $13, telegram_bot_token = $14,
			discord_bot_token = $15, is_active = $16, updated_at = now()
		WHERE id = $1
		RETURNING `+agentColumns,
		id, current.Name, current.WidgetPosition, current.WidgetColor, current.WelcomeMessage,
		db.TextFrom(current.WhatsAppNumber), db.TextFrom(current.TelegramUsername),
		db.TextFrom(current.FacebookPageID), db.TextFrom(current.InstagramBusinessID),
		db.TextFrom(current.DiscordGuildID), db.TextFrom(current.DiscordChannelID),
		db.TextFrom(current.DiscordInvite), db.TextFrom(current.LineID),
		db.TextFrom(current.TelegramBotToken), db.TextFrom(current.DiscordBotToken),
		current.IsActive)
	return scanAgent(row)
}

// RegenerateAPIKey rotates the agent's widget api key. Previously
// published embed snippets stop resolving until republished.
func (s *Service) RegenerateAPIKey(ctx context.Context, ownerUserID, agentID string) (Agent, error) {
	current, err := s.GetOwned(ctx, ownerUserID, agentID)
	if err != nil {
		return Agent{}, err
	}
	id, err := db.ParseUUID(current.ID)
	if err != nil {
		return Agent{}, err
	}
	row := s.pool.QueryRow(ctx,
		`UPDATE agents SET api_key = $2, updated_at = now() WHERE id = $1 RETURNING `+agentColumns,
		id, NewAPIKey())
	return scanAgent(row)
}

// Delete removes an agent and, through cascading constraints, its
// interaction history.
func (s *Service) Delete(ctx context.Context, ownerUserID, agentID string) error {
	current, err := s.GetOwned(ctx, ownerUserID, agentID)
	if err != nil {
		return err
	}
	id, err := db.ParseUUID(current.ID)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `DELETE FROM agents WHERE id = $1`, id)
	return err
}

// NewAPIKey issues an opaque agent api key.
func NewAPIKey() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("agents: api key entropy unavailable: %v", err))
	}
	return "agt_" + hex.EncodeToString(buf)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAgent(row rowScanner) (Agent, error) {
	var (
		agent                Agent
		id, ownerID          pgtype.UUID
		whatsappNumber       pgtype.Text
		telegramUsername     pgtype.Text
		facebookPageID       pgtype.Text
		instagramBusinessID  pgtype.Text
		discordGuildID       pgtype.Text
		discordChannelID     pgtype.Text
		discordInvite        pgtype.Text
		lineID               pgtype.Text
		telegramBotToken     pgtype.Text
		discordBotTokenValue pgtype.Text
	)
	err := row.Scan(&id, &ownerID, &agent.Name, &agent.Platform, &agent.APIKey,
		&agent.WidgetPosition, &agent.WidgetColor, &agent.WelcomeMessage,
		&whatsappNumber, &telegramUsername, &facebookPageID, &instagramBusinessID,
		&discordGuildID, &discordChannelID, &discordInvite, &lineID,
		&telegramBotToken, &discordBotTokenValue,
		&agent.IsActive, &agent.CreatedAt, &agent.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Agent{}, ErrNotFound
		}
		return Agent{}, err
	}
	agent.ID = db.UUIDString(id)
	agent.OwnerUserID = db.UUIDString(ownerID)
	agent.WhatsAppNumber = db.TextOrEmpty(whatsappNumber)
	agent.TelegramUsername = db.TextOrEmpty(telegramUsername)
	agent.FacebookPageID = db.TextOrEmpty(facebookPageID)
	agent.InstagramBusinessID = db.TextOrEmpty(instagramBusinessID)
	agent.DiscordGuildID = db.TextOrEmpty(discordGuildID)
	agent.DiscordChannelID = db.TextOrEmpty(discordChannelID)
	agent.DiscordInvite = db.TextOrEmpty(discordInvite)
	agent.LineID = db.TextOrEmpty(lineID)
	agent.TelegramBotToken = db.TextOrEmpty(telegramBotToken)
	agent.DiscordBotToken = db.TextOrEmpty(discordBotTokenValue)
	return agent, nil
}
