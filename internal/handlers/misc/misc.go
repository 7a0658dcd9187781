package misc

import (
	"context"

	"github.com/vlatan/reels-mixer/internal/config"
)

// Anything that can report its own health
type healther interface {
	Health(ctx context.Context) map[string]any
}

type Service struct {
	config *config.Config
	db     healther
	rdb    healther
}

func New(config *config.Config, db, rdb healther) *Service {
	return &Service{
		config: config,
		db:     db,
		rdb:    rdb,
	}
}
