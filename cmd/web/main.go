// Package main starts the browser-facing web service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	webcmd "github.com/civicspace/agora/internal/cmd/web"
)

func main() {
	cfg, err := webcmd.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := webcmd.NewRootCommand(&cfg).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "web: %v\n", err)
		stop()
		os.Exit(1)
	}
}
