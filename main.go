package main

import (
	"context"
	"os/signal"
	"syscall"

	"example.com/golfbuddy/cmd/commands"
)

func main() {
	// Setup OS signal handling for graceful shutdown (SIGINT, SIGTERM)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	commands.Execute(ctx)
}
