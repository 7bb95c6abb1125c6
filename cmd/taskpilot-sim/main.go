package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taskpilot/taskpilot/internal/assistant"
	"github.com/taskpilot/taskpilot/internal/config"
	"github.com/taskpilot/taskpilot/pkg/clog"
)

func main() {
	env, err := config.LoadSimEnv()
	if err != nil {
		slog.Error("failed to load env", "error", err)
		os.Exit(1)
	}

	// Setup logger
	level := env.SlogLevel()
	var handler slog.Handler
	if env.Env == "local" {
		handler = clog.NewTextHandler(os.Stderr, clog.WithLevel(level))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(clog.NewAttributesHandler(handler)))

	// Setup fixtures
	fx := assistant.DefaultFixtures()
	if env.Fixtures != "" {
		fx, err = assistant.LoadFixtures(env.Fixtures)
		if err != nil {
			slog.Error("failed to load fixtures", "error", err)
			os.Exit(1)
		}
	}

	a := assistant.New(env, fx)
	srv := assistant.NewServer(env, a)

	// Graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if err := a.Start(ctx); err != nil {
		slog.Error("failed to start assistant", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := srv.ListenAndServe(ctx); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down simulator")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	a.Wait()
}
