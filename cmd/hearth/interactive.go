package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// runInteractive launches the TUI with the request prompt. It backs the
// bare `hearth` invocation.
func runInteractive() error {
	_, factory, cleanup, err := setupPipeline(false)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Println("\nReceived interrupt, shutting down...")
		cancel()
	}()

	return runWithTUI(ctx, factory, "")
}
