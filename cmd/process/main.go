package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"golang.org/x/sync/errgroup"

	"tech-radar/internal/app"
	"tech-radar/internal/config"
	"tech-radar/internal/httputil"
	"tech-radar/internal/metrics"
	"tech-radar/internal/notify"
	"tech-radar/internal/process"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := app.Build(ctx, "process")
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	defer deps.Close()
	p := deps.Processor()

	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		deps.Log.Info("process handler starting on Lambda")
		lambda.Start(p.HandleS3Event)
		return
	}

	if err := config.Validate(deps.Config.Notify); err != nil {
		deps.Log.Error("invalid notification config", "err", err)
		os.Exit(1)
	}
	sub, closeSub, err := app.BuildSubscriber(deps.Config.Notify, deps.Log)
	if err != nil {
		deps.Log.Error("failed to build subscriber", "err", err)
		os.Exit(1)
	}
	defer closeSub()

	if err := run(ctx, deps, sub, p); err != nil {
		deps.Log.Error("process service stopped", "err", err)
		os.Exit(1)
	}
}

// run consumes notifications and serves health and metrics until ctx ends
// or either side fails.
func run(ctx context.Context, deps app.Deps, sub notify.Subscriber, p *process.Processor) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return sub.Listen(ctx, p.HandleNotification)
	})

	g.Go(func() error {
		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", deps.Config.Port),
			Handler:           newRouter(deps),
			ReadHeaderTimeout: 10 * time.Second,
		}
		return httputil.Serve(ctx, deps.Log, srv)
	})

	return g.Wait()
}

func newRouter(deps app.Deps) http.Handler {
	r := httputil.NewRouter(deps.Log)
	r.Get("/healthz", httputil.HealthHandler(deps.Log))
	r.Handle("/metrics", metrics.Handler(nil))
	return r
}
