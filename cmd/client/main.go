package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/device-sync/internal/adapter"
	"github.com/MKhiriev/device-sync/internal/client"
	"github.com/MKhiriev/device-sync/internal/config"
	"github.com/MKhiriev/device-sync/internal/logger"
)

func main() {
	log := logger.NewClientLogger("device-sync-client")

	cfg, args, err := config.GetClientConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprint(os.Stderr, client.Usage)
		os.Exit(2)
	}
	log = log.WithLevel(cfg.LogLevel)

	api, err := adapter.NewHTTPSyncClient(cfg.ServerAddress, cfg.RequestTimeout, cfg.HashKey, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create sync client")
	}
	api.SetToken(cfg.Token)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := client.NewApp(api, os.Stdin, os.Stdout, log)
	if err = app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, client.UserMessage(err))
		if errors.Is(err, client.ErrNoCommand) || errors.Is(err, client.ErrUnknownCommand) || errors.Is(err, client.ErrUsage) {
			fmt.Fprint(os.Stderr, client.Usage)
		}
		stop()
		os.Exit(1)
	}
}
