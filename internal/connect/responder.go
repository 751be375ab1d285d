package connect

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthubhq/agenthub/internal/agents"
)

// WelcomeResponder answers every inbound message with the agent's
// configured welcome message. It is the default behavior for agents
// that carry bot credentials but no custom automation.
type WelcomeResponder struct{}

// NewWelcomeResponder creates a WelcomeResponder.
func NewWelcomeResponder() *WelcomeResponder {
	return &WelcomeResponder{}
}

// Reply returns the agent's welcome message, falling back to a generic
// greeting naming the agent.
func (r *WelcomeResponder) Reply(_ context.Context, agent agents.Agent, _ Inbound) (string, error) {
	if msg := strings.TrimSpace(agent.WelcomeMessage); msg != "" {
		return msg, nil
	}
	name := strings.TrimSpace(agent.Name)
	if name == "" {
		return "Hi! Thanks for reaching out. We'll get back to you shortly.", nil
	}
	return fmt.Sprintf("Hi! You've reached %s. We'll get back to you shortly.", name), nil
}
