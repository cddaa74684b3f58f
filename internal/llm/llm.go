package llm

import "context"

// Client sends one system + user conversation to a model backend.
type Client interface {
	Chat(ctx context.Context, system, user string) (*Reply, error)
}

// Reply is a model response. Raw is the provider SDK's response value, passed
// through untouched.
type Reply struct {
	Backend      Kind
	Model        string
	Content      string
	InputTokens  int
	OutputTokens int
	Raw          any
}

// Options tune generation. Zero values leave the provider defaults in place.
type Options struct {
	Temperature *float64
	MaxTokens   int
}
