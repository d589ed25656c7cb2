package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"babywords/internal/cli/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.SetFlags(0)
	if err := commands.New().ExecuteContext(ctx); err != nil {
		log.Fatalf("error: %v", err)
	}
}
