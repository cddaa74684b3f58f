package llm

import (
	"context"

	"tech-radar/internal/prompts"
)

// Generator pairs a Client with the fixed Tech Radar system prompt.
type Generator struct {
	client Client
	system string
}

func NewGenerator(client Client) *Generator {
	return &Generator{client: client, system: prompts.System}
}

// Invoke sends the system prompt and userPrompt as a single round trip and
// returns the backend reply as-is.
func (g *Generator) Invoke(ctx context.Context, userPrompt string) (*Reply, error) {
	return g.client.Chat(ctx, g.system, userPrompt)
}
