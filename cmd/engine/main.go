// Command engine runs the verification and adaptive-scheduling service: the
// HTTP API, the nightly recompute job, and the outbox event dispatcher.
//
// Exit codes: 0 = clean shutdown, 1 = fatal error.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/lexigraph/engine/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("engine: %v", err)
	}
}
