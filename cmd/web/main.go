package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/DevWolk/fop-calc/internal/app/realflow"
	"github.com/DevWolk/fop-calc/internal/app/webserver"
	"github.com/DevWolk/fop-calc/internal/config"
	"github.com/DevWolk/fop-calc/internal/shared/logging"
)

func main() {
	cfg := config.MustLoad()

	log, err := logging.New(cfg.Log)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := realflow.Build(ctx, cfg, log)
	if err != nil {
		log.Fatal("build app", zap.Error(err))
	}
	defer func() { _ = app.Close() }()

	// Первое обновление курсов; при неудаче работаем на сохранённых
	go func() {
		rep := app.Rates.Refresh(ctx, app.Settings())
		if err := rep.Err(); err != nil {
			log.Warn("initial rates refresh incomplete", zap.Error(err))
		}
	}()

	srv := webserver.New(app)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		log.Error("http server stopped", zap.Error(err))
	}

	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	} else {
		log.Info("server stopped gracefully")
	}
}
