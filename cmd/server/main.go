// Command server runs the study backend: it connects to PostgreSQL, wires
// the repositories into the study service, and serves until interrupted.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/kotobadev/jlpt-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		log.Fatalf("init: %v", err)
	}

	if err := a.Run(ctx); err != nil {
		log.Fatalf("run: %v", err)
	}
}
