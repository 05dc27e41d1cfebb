package main

import (
	"context"
	"log"

	"github.com/walletscope/walletscope/internal/server"
	"github.com/walletscope/walletscope/internal/server/config"
)

func main() {
	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Fatalf("error initializing app: %s", err.Error())
	}

	app.Run(context.Background())
}
