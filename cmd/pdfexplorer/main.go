package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/kpauljoseph/pdfexplorer/cmd/pdfexplorer/commands"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := commands.NewRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
