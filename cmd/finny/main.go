// Package main is the entry point for the finny CLI.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/affanshahid/finny/cmd/finny/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
