package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"traincal/internal/cli"
	appLog "traincal/internal/log"
)

var version = "0.1.0-dev"

func main() {
	appLog.Debug("traincal starting", "version", version)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	cmd := cli.NewRootCommand()
	cmd.Version = version
	if err := cmd.ExecuteContext(ctx); err != nil {
		appLog.Error("traincal failed", err)
		os.Exit(1)
	}
}
