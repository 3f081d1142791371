package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

func main() {
	root, err := NewCompositionRoot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize content cache: %v\n", err)
		os.Exit(1)
	}

	exitCode := run(root)

	if err := root.Cleanup(); err != nil {
		root.Logger.Error("Failed to release resources", zap.Error(err))
		exitCode = 1
	}
	os.Exit(exitCode)
}

// run serves until a termination signal arrives or the listener fails
func run(root *CompositionRoot) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root.StartBackground()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- root.HTTPServer.Start()
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		root.Logger.Info("Received termination signal")
	case err := <-serveErr:
		if err != nil {
			root.Logger.Error("HTTP server failed", zap.Error(err))
			exitCode = 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := root.HTTPServer.Stop(shutdownCtx); err != nil {
		root.Logger.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	root.Logger.Info("Content cache stopped")
	return exitCode
}
