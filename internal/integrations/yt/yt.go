package yt

import (
	"context"
	"errors"

	"github.com/vlatan/reels-mixer/internal/config"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

type Service struct {
	config  *config.Config
	youtube *youtube.Service
}

// Create new YouTube service.
// Extra options are appended after the API key.
func New(ctx context.Context, config *config.Config, opts ...option.ClientOption) (*Service, error) {

	if config.YouTubeAPIKey == "" {
		return nil, errors.New("no YouTube API key defined in env: YOUTUBE_API_KEY")
	}

	opts = append([]option.ClientOption{option.WithAPIKey(config.YouTubeAPIKey)}, opts...)
	youtube, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &Service{
		config:  config,
		youtube: youtube,
	}, nil
}
