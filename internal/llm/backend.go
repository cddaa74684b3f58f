package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tech-radar/internal/config"
)

// Kind names a model backend.
type Kind string

const (
	KindBedrock Kind = "bedrock"
	KindGoogle  Kind = "google"
	KindLocal   Kind = "local"
)

// ErrNoBackend is returned by Select when no backend has all of its settings.
var ErrNoBackend = errors.New("no model configured: set BEDROCK_REGION, BEDROCK_MODEL_ID, BEDROCK_ACCESS_KEY and BEDROCK_SECRET_KEY, or GOOGLE_API_KEY and GOOGLE_MODEL, or OLLAMA_HOST and OLLAMA_MODEL")

// Backend is the selected backend. Exactly one of the variant fields is set,
// matching Kind.
type Backend struct {
	Kind    Kind
	Bedrock *BedrockSettings
	Google  *GoogleSettings
	Local   *LocalSettings
}

type BedrockSettings struct {
	Region    string
	ModelID   string
	AccessKey string
	SecretKey string
}

type GoogleSettings struct {
	APIKey  string
	Model   string
	BaseURL string
}

type LocalSettings struct {
	BaseURL string
	Model   string
}

// Model returns the model name of the active variant.
func (b Backend) Model() string {
	switch b.Kind {
	case KindBedrock:
		return b.Bedrock.ModelID
	case KindGoogle:
		return b.Google.Model
	case KindLocal:
		return b.Local.Model
	}
	return ""
}

// Select returns the first fully configured backend in priority order:
// Bedrock, then Google, then the local model server.
func Select(cfg config.ModelConfig) (Backend, error) {
	switch {
	case allSet(cfg.BedrockRegion, cfg.BedrockModelID, cfg.BedrockAccessKey, cfg.BedrockSecretKey):
		return Backend{Kind: KindBedrock, Bedrock: &BedrockSettings{
			Region:    cfg.BedrockRegion,
			ModelID:   cfg.BedrockModelID,
			AccessKey: cfg.BedrockAccessKey,
			SecretKey: cfg.BedrockSecretKey,
		}}, nil
	case allSet(cfg.GoogleAPIKey, cfg.GoogleModel):
		return Backend{Kind: KindGoogle, Google: &GoogleSettings{
			APIKey:  cfg.GoogleAPIKey,
			Model:   cfg.GoogleModel,
			BaseURL: cfg.GoogleBaseURL,
		}}, nil
	case allSet(cfg.OllamaHost, cfg.OllamaModel):
		return Backend{Kind: KindLocal, Local: &LocalSettings{
			BaseURL: cfg.OllamaHost,
			Model:   cfg.OllamaModel,
		}}, nil
	default:
		return Backend{}, ErrNoBackend
	}
}

// New builds the provider client for a selected backend.
func New(ctx context.Context, b Backend, opts Options) (Client, error) {
	switch b.Kind {
	case KindBedrock:
		return NewBedrockClient(ctx, *b.Bedrock, opts)
	case KindGoogle:
		return NewOpenAIClient(OpenAIConfig{
			Kind:    KindGoogle,
			APIKey:  b.Google.APIKey,
			BaseURL: b.Google.BaseURL,
			Model:   b.Google.Model,
		}, opts)
	case KindLocal:
		return NewOpenAIClient(OpenAIConfig{
			Kind: KindLocal,
			// Local model servers ignore the key but the SDK always sends one.
			APIKey:  "ollama",
			BaseURL: strings.TrimRight(b.Local.BaseURL, "/") + "/v1/",
			Model:   b.Local.Model,
		}, opts)
	default:
		return nil, fmt.Errorf("unknown backend kind %q", b.Kind)
	}
}

func allSet(values ...string) bool {
	for _, v := range values {
		if v == "" {
			return false
		}
	}
	return true
}
