package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"

	"tech-radar/internal/config"
	"tech-radar/internal/eval"
	"tech-radar/internal/llm"
	"tech-radar/internal/logger"
	"tech-radar/internal/metrics"
	"tech-radar/internal/notify"
	"tech-radar/internal/objectstore"
	"tech-radar/internal/process"
	"tech-radar/internal/store"
	"tech-radar/internal/upload"
)

// Deps bundles the runtime dependencies shared by the upload and process services.
type Deps struct {
	Config  config.Config
	Log     *slog.Logger
	Objects objectstore.Store
	Ledger  store.Ledger
	Metrics *metrics.Metrics
}

// Build loads config and constructs the object store, ledger and metrics for service.
func Build(ctx context.Context, service string) (Deps, error) {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, service)
	if err := config.Validate(cfg.Ledger); err != nil {
		return Deps{}, fmt.Errorf("invalid ledger config: %w", err)
	}

	objects, err := buildObjectStore(ctx, cfg.Storage, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize object store: %w", err)
	}
	ledger, err := buildLedger(cfg.Ledger, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize ledger: %w", err)
	}
	m, err := metrics.New(prometheus.DefaultRegisterer)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	return Deps{
		Config:  cfg,
		Log:     log,
		Objects: objects,
		Ledger:  ledger,
		Metrics: m,
	}, nil
}

// Upload builds the upload service.
func (d Deps) Upload() *upload.Service {
	return upload.NewService(d.Objects, upload.Config{
		Bucket:  d.Config.Storage.Bucket,
		MaxSize: d.Config.MaxUploadSize,
	}, d.Log, d.Metrics)
}

// Processor builds the process service.
func (d Deps) Processor() *process.Processor {
	return process.New(d.Objects, d.Ledger, d.Log, d.Metrics)
}

// Close releases the ledger connection.
func (d Deps) Close() error {
	if d.Ledger == nil {
		return nil
	}
	return d.Ledger.Close()
}

// BuildGenerator selects the model backend and wraps it with the system prompt.
func BuildGenerator(ctx context.Context, cfg config.ModelConfig, log *slog.Logger) (*llm.Generator, error) {
	backend, err := llm.Select(cfg)
	if err != nil {
		return nil, err
	}
	client, err := llm.New(ctx, backend, llm.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s client: %w", backend.Kind, err)
	}
	log.Info("using model backend", "backend", backend.Kind, "model", backend.Model())
	return llm.NewGenerator(client), nil
}

// BuildJudge builds the evaluator on the Google backend at temperature 0.
func BuildJudge(ctx context.Context, cfg config.ModelConfig, log *slog.Logger) (*eval.Judge, error) {
	if cfg.GoogleAPIKey == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY is required for evaluation")
	}
	if cfg.EvaluatorModel == "" {
		return nil, fmt.Errorf("EVALUATOR_MODEL is required for evaluation")
	}
	temperature := 0.0
	client, err := llm.New(ctx, llm.Backend{Kind: llm.KindGoogle, Google: &llm.GoogleSettings{
		APIKey:  cfg.GoogleAPIKey,
		Model:   cfg.EvaluatorModel,
		BaseURL: cfg.GoogleBaseURL,
	}}, llm.Options{Temperature: &temperature, MaxTokens: eval.JudgeMaxTokens})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize evaluator: %w", err)
	}
	log.Info("using evaluator", "model", cfg.EvaluatorModel)
	return eval.NewJudge(client), nil
}

// BuildSubscriber connects to the notification bus. The returned close func
// drains the connection.
func BuildSubscriber(cfg config.NotifyConfig, log *slog.Logger) (notify.Subscriber, func(), error) {
	switch cfg.Provider {
	case "nats":
		if cfg.URL == "" {
			return nil, nil, fmt.Errorf("NOTIFY_URL is required when NOTIFY_PROVIDER=nats")
		}
		nc, err := nats.Connect(cfg.URL, nats.Name("tech-radar-process"))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		log.Info("using NATS notifications", "subject", cfg.Subject)
		return notify.NewNATS(log, nc, cfg.Subject, notify.DefaultGroup), func() { _ = nc.Drain() }, nil
	default:
		return nil, nil, fmt.Errorf("invalid NOTIFY_PROVIDER for a subscriber: %s (valid option: nats)", cfg.Provider)
	}
}

func buildObjectStore(ctx context.Context, cfg config.StorageConfig, log *slog.Logger) (objectstore.Store, error) {
	switch cfg.Provider {
	case "s3":
		st, err := objectstore.NewS3Store(ctx, objectstore.S3Options{
			Region:       cfg.Region,
			Endpoint:     cfg.Endpoint,
			UsePathStyle: cfg.UsePathStyle,
		})
		if err != nil {
			return nil, err
		}
		log.Info("using S3 object store", "region", cfg.Region, "bucket", cfg.Bucket)
		return st, nil
	case "memory":
		log.Warn("using in-memory object store; objects are lost on exit")
		return objectstore.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("invalid OBJECT_STORE_PROVIDER: %s (valid options: s3, memory)", cfg.Provider)
	}
}

func buildLedger(cfg config.LedgerConfig, log *slog.Logger) (store.Ledger, error) {
	switch cfg.Provider {
	case "", "none":
		return store.NewNoOpLedger(), nil
	case "postgres":
		if cfg.DBURL == "" {
			return nil, fmt.Errorf("DB_URL is required when STORE_PROVIDER=postgres")
		}
		db, err := store.NewPostgres(cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres: %w", err)
		}
		log.Info("using Postgres ledger")
		return db, nil
	default:
		return nil, fmt.Errorf("invalid STORE_PROVIDER: %s (valid options: none, postgres)", cfg.Provider)
	}
}
