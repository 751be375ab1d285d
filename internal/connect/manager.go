package connect

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/agenthubhq/agenthub/internal/agents"
	"github.com/agenthubhq/agenthub/internal/platform"
)

type connectionEntry struct {
	agent      agents.Agent
	connection Connection
}

// AgentLister supplies the agents eligible for a live bot session.
type AgentLister interface {
	ListConnectable(ctx context.Context) ([]agents.Agent, error)
}

// Manager maintains one live bot session per connectable agent. It
// reconciles against the agent store on Start and whenever a single
// agent changes through EnsureAgent/RemoveAgent.
type Manager struct {
	logger    *slog.Logger
	agents    AgentLister
	responder Responder

	mu          sync.Mutex
	refreshMu   sync.Mutex
	receivers   map[platform.Type]Receiver
	connections map[string]*connectionEntry
}

// NewManager creates a connection manager backed by the given agent
// store and responder.
func NewManager(log *slog.Logger, lister AgentLister, responder Responder) *Manager {
	return &Manager{
		logger:      log.With(slog.String("service", "connect")),
		agents:      lister,
		responder:   responder,
		receivers:   map[platform.Type]Receiver{},
		connections: map[string]*connectionEntry{},
	}
}

// RegisterReceiver adds a platform receiver. Agents on platforms with
// no registered receiver are skipped during reconcile.
func (m *Manager) RegisterReceiver(receiver Receiver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receivers[receiver.Platform()] = receiver
}

// Start connects every connectable agent once.
func (m *Manager) Start(ctx context.Context) {
	m.refresh(ctx)
}

// Refresh re-reads the agent store and reconciles running sessions.
func (m *Manager) Refresh(ctx context.Context) {
	m.refresh(ctx)
}

func (m *Manager) refresh(ctx context.Context) {
	// Serialize refresh calls so concurrent callers wait instead of
	// silently skipping.
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	if m.agents == nil {
		return
	}
	items, err := m.agents.ListConnectable(ctx)
	if err != nil {
		m.logger.Error("list connectable agents failed", slog.Any("error", err))
		return
	}
	active := map[string]agents.Agent{}
	for _, agent := range items {
		if agent.ID == "" {
			continue
		}
		active[agent.ID] = agent
		if err := m.ensureConnection(ctx, agent); err != nil {
			m.logger.Error("bot session start failed",
				slog.String("agent_id", agent.ID),
				slog.String("platform", agent.Platform),
				slog.Any("error", err))
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, entry := range m.connections {
		if _, ok := active[id]; ok {
			continue
		}
		m.stopEntryLocked(ctx, id, entry)
	}
}

// EnsureAgent starts, restarts, or stops the session for one agent.
// Agents without bot credentials, or deactivated agents, are stopped.
func (m *Manager) EnsureAgent(ctx context.Context, agent agents.Agent) error {
	if agent.ID == "" {
		return errors.New("agent id is required")
	}
	if !agent.IsActive || !hasBotCredentials(agent) {
		return m.RemoveAgent(ctx, agent.ID)
	}
	return m.ensureConnection(ctx, agent)
}

// RemoveAgent stops and forgets the session for one agent.
func (m *Manager) RemoveAgent(ctx context.Context, agentID string) error {
	agentID = strings.TrimSpace(agentID)
	if agentID == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := m.connections[agentID]
	if entry == nil {
		return nil
	}
	m.stopEntryLocked(ctx, agentID, entry)
	return nil
}

// StopAll terminates every running session.
func (m *Manager) StopAll(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, entry := range m.connections {
		m.stopEntryLocked(ctx, id, entry)
	}
}

// Statuses returns a snapshot of the running sessions.
func (m *Manager) Statuses() []Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Status, 0, len(m.connections))
	for _, entry := range m.connections {
		running := entry.connection != nil && entry.connection.Running()
		out = append(out, Status{
			AgentID:  entry.agent.ID,
			Platform: entry.agent.Platform,
			Running:  running,
		})
	}
	return out
}

// Status describes one live bot session.
type Status struct {
	AgentID  string `json:"agent_id"`
	Platform string `json:"platform"`
	Running  bool   `json:"running"`
}

func (m *Manager) ensureConnection(ctx context.Context, agent agents.Agent) error {
	m.mu.Lock()
	receiver, ok := m.receivers[platform.Type(agent.Platform)]
	if !ok {
		m.mu.Unlock()
		return nil
	}
	entry := m.connections[agent.ID]

	// Agent unchanged with a live session, nothing to do.
	if entry != nil && !entry.agent.UpdatedAt.Before(agent.UpdatedAt) &&
		entry.connection != nil && entry.connection.Running() {
		m.mu.Unlock()
		return nil
	}
	if entry != nil {
		m.stopEntryLocked(ctx, agent.ID, entry)
	}
	m.mu.Unlock()

	m.logger.Info("bot session start",
		slog.String("agent_id", agent.ID),
		slog.String("platform", agent.Platform))

	// Decouple long-lived bot sessions from short-lived request contexts.
	connectCtx := context.Background()
	if ctx != nil {
		connectCtx = context.WithoutCancel(ctx)
	}
	conn, err := receiver.Connect(connectCtx, agent, m.responder)
	if err != nil {
		return err
	}

	m.mu.Lock()
	// If another goroutine raced and inserted first, keep the existing
	// session and stop ours.
	if existing, ok := m.connections[agent.ID]; ok && existing != nil {
		m.mu.Unlock()
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = conn.Stop(stopCtx)
		return nil
	}
	m.connections[agent.ID] = &connectionEntry{agent: agent, connection: conn}
	m.mu.Unlock()
	return nil
}

func (m *Manager) stopEntryLocked(ctx context.Context, agentID string, entry *connectionEntry) {
	if entry != nil && entry.connection != nil {
		m.logger.Info("bot session stop",
			slog.String("agent_id", agentID),
			slog.String("platform", entry.agent.Platform))
		if err := entry.connection.Stop(ctx); err != nil && !errors.Is(err, ErrStopNotSupported) {
			m.logger.Warn("bot session stop failed",
				slog.String("agent_id", agentID),
				slog.String("platform", entry.agent.Platform),
				slog.Any("error", err))
		}
	}
	delete(m.connections, agentID)
}

func hasBotCredentials(agent agents.Agent) bool {
	return strings.TrimSpace(agent.TelegramBotToken) != "" ||
		strings.TrimSpace(agent.DiscordBotToken) != ""
}
