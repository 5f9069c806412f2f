package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"rapydo/internal/app"
	"rapydo/internal/cli/commands"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	application := app.New()
	if err := application.RunWithContext(ctx, os.Args[1:]); err != nil {
		cancel()
		commands.ExitOnError(err)
	}
}
