package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"
	"github.com/vlatan/reels-mixer/internal/config"
	"github.com/vlatan/reels-mixer/internal/drivers/database"
	"github.com/vlatan/reels-mixer/internal/drivers/rdb"
	"github.com/vlatan/reels-mixer/internal/integrations/yt"
	playlistsRepo "github.com/vlatan/reels-mixer/internal/repositories/playlists"
	"github.com/vlatan/reels-mixer/internal/utils"
	"github.com/vlatan/reels-mixer/internal/worker"
)

func main() {

	// Listen for interruption signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.New()

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("couldn't create DB service; %v", err)
	}
	defer db.Close()

	rdb, err := rdb.New(cfg)
	if err != nil {
		log.Fatalf("couldn't create Redis service; %v", err)
	}
	defer rdb.Client.Close()

	yt, err := yt.New(ctx, cfg)
	if err != nil {
		log.Fatalf("couldn't create YouTube service; %v", err)
	}

	retry := &utils.RetryConfig{
		MaxRetries: 3,
		MaxJitter:  time.Second,
		Delay:      time.Second,
	}

	lock := rdb.NewLock(worker.LockKey, uuid.NewString(), cfg.WorkerLockTTL)
	w := worker.New(playlistsRepo.New(db), yt, lock, rdb, cfg, retry)

	// Create and run the worker
	if _, err := w.Run(ctx); err != nil {
		log.Println(err)
	}
}
