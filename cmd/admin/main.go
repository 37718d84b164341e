package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/yigit/greenfield/internal/bootstrap"
	"github.com/yigit/greenfield/internal/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		os.Exit(1)
	}

	cl := newCommandLine(cfg, lgr)
	if err := cl.app().RunContext(ctx, os.Args); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
