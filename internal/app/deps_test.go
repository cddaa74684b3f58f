package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tech-radar/internal/config"
	"tech-radar/internal/llm"
	"tech-radar/internal/logger"
	"tech-radar/internal/objectstore"
	"tech-radar/internal/store"
)

func TestBuildObjectStore(t *testing.T) {
	st, err := buildObjectStore(context.Background(), config.StorageConfig{Provider: "memory", Bucket: "b"}, logger.Discard())
	require.NoError(t, err)
	assert.IsType(t, &objectstore.MemoryStore{}, st)

	_, err = buildObjectStore(context.Background(), config.StorageConfig{Provider: "gcs"}, logger.Discard())
	assert.ErrorContains(t, err, "invalid OBJECT_STORE_PROVIDER: gcs")
}

func TestBuildLedger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LedgerConfig
		wantErr string
	}{
		{name: "default", cfg: config.LedgerConfig{}},
		{name: "none", cfg: config.LedgerConfig{Provider: "none"}},
		{name: "postgres without url", cfg: config.LedgerConfig{Provider: "postgres"}, wantErr: "DB_URL is required"},
		{name: "unknown", cfg: config.LedgerConfig{Provider: "mysql"}, wantErr: "invalid STORE_PROVIDER: mysql"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := buildLedger(tt.cfg, logger.Discard())
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, &store.NoOpLedger{}, l)
		})
	}
}

func TestBuildSubscriber(t *testing.T) {
	_, _, err := BuildSubscriber(config.NotifyConfig{Provider: "nats"}, logger.Discard())
	assert.ErrorContains(t, err, "NOTIFY_URL is required")

	_, _, err = BuildSubscriber(config.NotifyConfig{Provider: "lambda"}, logger.Discard())
	assert.ErrorContains(t, err, "valid option: nats")
}

func TestBuildGenerator(t *testing.T) {
	gen, err := BuildGenerator(context.Background(), config.ModelConfig{
		OllamaHost:  "http://localhost:11434",
		OllamaModel: "gemma3:1b",
	}, logger.Discard())
	require.NoError(t, err)
	assert.NotNil(t, gen)

	_, err = BuildGenerator(context.Background(), config.ModelConfig{}, logger.Discard())
	assert.ErrorIs(t, err, llm.ErrNoBackend)
}

func TestBuildJudge(t *testing.T) {
	_, err := BuildJudge(context.Background(), config.ModelConfig{EvaluatorModel: "gemini-2.0-flash-lite"}, logger.Discard())
	assert.ErrorContains(t, err, "GOOGLE_API_KEY")

	_, err = BuildJudge(context.Background(), config.ModelConfig{GoogleAPIKey: "k"}, logger.Discard())
	assert.ErrorContains(t, err, "EVALUATOR_MODEL")

	j, err := BuildJudge(context.Background(), config.ModelConfig{GoogleAPIKey: "k", EvaluatorModel: "gemini-2.0-flash-lite"}, logger.Discard())
	require.NoError(t, err)
	assert.NotNil(t, j)
}

func TestDepsServices(t *testing.T) {
	d := Deps{
		Config:  config.Config{MaxUploadSize: 10, Storage: config.StorageConfig{Bucket: "b"}},
		Log:     logger.Discard(),
		Objects: objectstore.NewMemoryStore(),
		Ledger:  store.NewNoOpLedger(),
	}
	assert.NotNil(t, d.Upload())
	assert.NotNil(t, d.Processor())
	assert.NoError(t, d.Close())
}
