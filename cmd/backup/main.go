package main

import (
	"context"
	"log"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/vlatan/reels-mixer/internal/backup"
	"github.com/vlatan/reels-mixer/internal/config"
	"github.com/vlatan/reels-mixer/internal/drivers/database"
	"github.com/vlatan/reels-mixer/internal/integrations/r2"
	playlistsRepo "github.com/vlatan/reels-mixer/internal/repositories/playlists"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg := config.New()

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("couldn't create DB service; %v", err)
	}
	defer db.Close()

	r2s, err := r2.New(ctx, cfg)
	if err != nil {
		log.Fatalf("couldn't create R2 service; %v", err)
	}

	if _, err := backup.New(playlistsRepo.New(db), r2s, cfg).Run(ctx); err != nil {
		log.Println(err)
	}
}
