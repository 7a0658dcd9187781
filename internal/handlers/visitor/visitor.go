package visitor

import "github.com/vlatan/reels-mixer/internal/sessions"

type Service struct {
	sessions *sessions.Service
}

func New(sessions *sessions.Service) *Service {
	return &Service{sessions: sessions}
}
