package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIConfig points the OpenAI SDK at an OpenAI-compatible endpoint. Both
// Google Generative AI and local model servers expose one.
type OpenAIConfig struct {
	Kind    Kind
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAIClient calls the Chat Completions API of an OpenAI-compatible server.
type OpenAIClient struct {
	kind   Kind
	model  openai.ChatModel
	opts   Options
	client *openai.Client
}

// NewOpenAIClient builds a client. Retries are disabled: one call, one round trip.
func NewOpenAIClient(cfg OpenAIConfig, opts Options) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model required")
	}
	reqOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.BaseURL))
	}
	cli := openai.NewClient(reqOpts...)
	return &OpenAIClient{
		kind:   cfg.Kind,
		model:  openai.ChatModel(cfg.Model),
		opts:   opts,
		client: &cli,
	}, nil
}

func (c *OpenAIClient) Chat(ctx context.Context, system, user string) (*Reply, error) {
	if c == nil || c.client == nil {
		return nil, fmt.Errorf("nil openai client")
	}
	params := openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: buildMessages(system, user),
	}
	if c.opts.Temperature != nil {
		params.Temperature = openai.Float(*c.opts.Temperature)
	}
	if c.opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(c.opts.MaxTokens))
	}
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%s: chat completion: %w", c.kind, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%s: no choices returned", c.kind)
	}
	return &Reply{
		Backend:      c.kind,
		Model:        string(c.model),
		Content:      resp.Choices[0].Message.Content,
		InputTokens:  int(resp.Usage.PromptTokens),
		OutputTokens: int(resp.Usage.CompletionTokens),
		Raw:          resp,
	}, nil
}

// buildMessages omits the system message when system is empty.
func buildMessages(system, user string) []openai.ChatCompletionMessageParamUnion {
	var msgs []openai.ChatCompletionMessageParamUnion
	if system != "" {
		msgs = append(msgs, openai.ChatCompletionMessageParamUnion{
			OfSystem: &openai.ChatCompletionSystemMessageParam{
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: openai.String(system),
				},
			},
		})
	}
	return append(msgs, openai.ChatCompletionMessageParamUnion{
		OfUser: &openai.ChatCompletionUserMessageParam{
			Content: openai.ChatCompletionUserMessageParamContentUnion{
				OfString: openai.String(user),
			},
		},
	})
}
