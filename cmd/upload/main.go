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

	"tech-radar/internal/app"
	"tech-radar/internal/httputil"
	"tech-radar/internal/metrics"
	"tech-radar/internal/upload"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := app.Build(ctx, "upload")
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	defer deps.Close()
	svc := deps.Upload()

	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		deps.Log.Info("upload handler starting on Lambda")
		lambda.Start(svc.HandleAPIGateway)
		return
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", deps.Config.Port),
		Handler:           newRouter(deps, svc),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := httputil.Serve(ctx, deps.Log, srv); err != nil {
		deps.Log.Error("server failed", "err", err)
		os.Exit(1)
	}
}

func newRouter(deps app.Deps, svc *upload.Service) http.Handler {
	r := httputil.NewRouter(deps.Log)
	// All methods reach the handler so OPTIONS and 405 replies carry CORS headers.
	r.HandleFunc("/upload", upload.HTTPHandler(svc))
	r.Get("/api/uploads/status", upload.StatusHandler(deps.Ledger, deps.Log))
	r.Get("/healthz", httputil.HealthHandler(deps.Log))
	r.Handle("/metrics", metrics.Handler(nil))
	return r
}
