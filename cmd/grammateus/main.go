// Package main provides the grammateus CLI entry point.
// grammateus converts Gemini parts/role conversation files into role/text records
// and runs text continuations against Gemini models.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"grammateus/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.NewApp()
	rootCmd := app.CreateRootCommand()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
