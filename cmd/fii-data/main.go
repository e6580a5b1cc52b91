package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"fii-data/internal/slogx"
)

func init() {
	slog.SetDefault(slogx.NewDefault("info"))
}

func main() {
	os.Exit(runMain())
}

// runMain exists so deferred teardown survives the exit-code path.
func runMain() int {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	a, err := InitializeApp()
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return 1
	}
	// Session teardown happens exactly once, whatever the run does.
	defer a.Source.Close()
	defer a.Quotes.Close()

	slog.SetDefault(slogx.NewDefault(a.Config.LogLevel))
	slog.Info("using quote provider", "provider", a.Quotes.GetName())
	slog.Info("dataset backend", "backend", a.Config.StorageBackend)
	slog.Info("publish sink", "sink", a.Config.PublishSink)

	if err := a.Pipeline.Run(context.Background()); err != nil {
		slog.Error("run aborted", "error", err)
		return 1
	}
	slog.Info("run complete")
	return 0
}
