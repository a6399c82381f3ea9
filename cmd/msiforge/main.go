package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dosanma1/msiforge/internal/cmd"
	"github.com/dosanma1/msiforge/internal/wix"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		cmd.PrintFailure(err)
		os.Exit(wix.ExitCode(err))
	}
}
