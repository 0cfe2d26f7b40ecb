package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"turkgpt/internal/desktop"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := desktop.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	api := desktop.NewAPIClient(cfg.APIURL, cfg.CallerID, cfg.HTTPTimeout)
	app := desktop.NewApp(cfg, api, os.Stdout)

	if err := app.Run(ctx, os.Stdin); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}
