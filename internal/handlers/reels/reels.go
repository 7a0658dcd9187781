package reels

import "github.com/vlatan/reels-mixer/internal/config"

type Service struct {
	config *config.Config
}

func New(config *config.Config) *Service {
	return &Service{config: config}
}
