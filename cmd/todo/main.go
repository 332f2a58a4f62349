// Package main is the todo CLI executable
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/stolasapp/todo/internal/command"
)

func main() { os.Exit(run()) }

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := command.RootCommand().ExecuteContext(ctx)
	if err != nil {
		return 1
	}
	return 0
}
