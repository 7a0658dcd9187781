package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/vlatan/reels-mixer/internal/config"
	"github.com/vlatan/reels-mixer/internal/drivers/database"
	"github.com/vlatan/reels-mixer/internal/drivers/rdb"
	"github.com/vlatan/reels-mixer/internal/handlers/misc"
	"github.com/vlatan/reels-mixer/internal/handlers/playlists"
	"github.com/vlatan/reels-mixer/internal/handlers/reels"
	"github.com/vlatan/reels-mixer/internal/handlers/visitor"
	"github.com/vlatan/reels-mixer/internal/middlewares"
	playlistsRepo "github.com/vlatan/reels-mixer/internal/repositories/playlists"
	"github.com/vlatan/reels-mixer/internal/sessions"
	"github.com/vlatan/reels-mixer/internal/store"
)

type App struct {
	reels     *reels.Service
	playlists *playlists.Service
	visitor   *visitor.Service
	misc      *misc.Service
	mw        *middlewares.Service
	cleanup   func() error

	domain string
	server *http.Server
}

// New wires the services of the HTTP app
func New(cfg *config.Config) (*App, error) {

	// Create database service
	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("couldn't create DB service; %w", err)
	}

	// Create Redis service
	rdb, err := rdb.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("couldn't create Redis service; %w", err)
	}

	// Signed-in users persist to Postgres,
	// anonymous visitors keep their data in Redis.
	stores := store.NewRouter(
		playlistsRepo.New(db),
		store.NewLocal(rdb, cfg.VisitorTTL),
		rdb,
		cfg.CacheTimeout,
	)

	sess := sessions.New(sessions.NewCookieStore(cfg), cfg)

	a := &App{
		reels:     reels.New(cfg),
		playlists: playlists.New(stores, cfg),
		visitor:   visitor.New(sess),
		misc:      misc.New(cfg, db, rdb),
		mw:        middlewares.New(sess, cfg),
		cleanup: func() error {
			db.Close()
			return rdb.Client.Close()
		},

		domain: cfg.Domain,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}

	return a, nil
}
