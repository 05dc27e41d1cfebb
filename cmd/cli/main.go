package main

import (
	"context"
	"io"
	"log"
	"log/slog"

	"github.com/walletscope/walletscope/internal/client/cli"
	"github.com/walletscope/walletscope/internal/client/config"
	"github.com/walletscope/walletscope/internal/logging"
)

func main() {
	cfg := config.LoadConfig()

	// the REPL owns stdout; structured logs would garble the prompt
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("error initializing app: %s", err.Error())
	}

	app.Run(context.Background())
}
