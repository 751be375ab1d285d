package connect

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/agenthubhq/agenthub/internal/agents"
	"github.com/agenthubhq/agenthub/internal/platform"
)

// ErrStopNotSupported is returned when a connection does not support
// graceful shutdown.
var ErrStopNotSupported = errors.New("connection stop not supported")

// Inbound is a message received over a live bot session.
type Inbound struct {
	ChatID     string
	Text       string
	SenderName string
}

// Responder produces the reply text for an inbound message. An empty
// reply suppresses the response.
type Responder interface {
	Reply(ctx context.Context, agent agents.Agent, msg Inbound) (string, error)
}

// Receiver maintains a live bot session for one platform.
type Receiver interface {
	Platform() platform.Type
	Connect(ctx context.Context, agent agents.Agent, responder Responder) (Connection, error)
}

// Connection is a running bot session for one agent.
type Connection interface {
	AgentID() string
	Platform() platform.Type
	Stop(ctx context.Context) error
	Running() bool
}

// BaseConnection is a default Connection implementation backed by a
// stop function.
type BaseConnection struct {
	agentID      string
	platformType platform.Type
	stop         func(ctx context.Context) error
	running      atomic.Bool
}

// NewConnection creates a BaseConnection for the given agent and stop
// function.
func NewConnection(agent agents.Agent, stop func(ctx context.Context) error) *BaseConnection {
	conn := &BaseConnection{
		agentID:      agent.ID,
		platformType: platform.Type(agent.Platform),
		stop:         stop,
	}
	conn.running.Store(true)
	return conn
}

// AgentID returns the owning agent identifier.
func (c *BaseConnection) AgentID() string {
	return c.agentID
}

// Platform returns the platform this connection serves.
func (c *BaseConnection) Platform() platform.Type {
	return c.platformType
}

// Stop gracefully shuts down the connection.
func (c *BaseConnection) Stop(ctx context.Context) error {
	if c.stop == nil {
		return ErrStopNotSupported
	}
	c.running.Store(false)
	return c.stop(ctx)
}

// Running reports whether the connection is still active.
func (c *BaseConnection) Running() bool {
	return c.running.Load()
}
