package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/vlatan/reels-mixer/internal/app"
	"github.com/vlatan/reels-mixer/internal/config"
)

func main() {

	// A second signal after this context is done kills the process
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()

	a, err := app.New(config.New())
	if err != nil {
		log.Fatal(err)
	}

	if err := a.Run(ctx); err != nil {
		log.Fatalf("http server error: %v", err)
	}
}
