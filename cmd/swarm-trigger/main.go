package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/vertigojc/p4d-swarm-extension/internal/config"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Bootstrap logger until configuration decides the real level.
	// Stdout is relayed to the submitting client by p4d, so logs go to
	// stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.DebugToLevel(config.BootstrapDebug),
	}))
	slog.SetDefault(logger)

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errRejected) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
