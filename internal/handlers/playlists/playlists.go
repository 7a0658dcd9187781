package playlists

import (
	"github.com/vlatan/reels-mixer/internal/config"
	"github.com/vlatan/reels-mixer/internal/models"
	"github.com/vlatan/reels-mixer/internal/store"
)

// Picks the store of the visitor
type storeRouter interface {
	For(visitor *models.Visitor) store.Store
}

type Service struct {
	stores storeRouter
	config *config.Config
}

func New(stores storeRouter, config *config.Config) *Service {
	return &Service{
		stores: stores,
		config: config,
	}
}
