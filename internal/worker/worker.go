// Package worker fills in the title and thumbnail of stored YouTube reels.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/vlatan/reels-mixer/internal/config"
	"github.com/vlatan/reels-mixer/internal/integrations/yt"
	"github.com/vlatan/reels-mixer/internal/models"
	"github.com/vlatan/reels-mixer/internal/platforms"
	"github.com/vlatan/reels-mixer/internal/store"
	"github.com/vlatan/reels-mixer/internal/utils"
)

// Redis key held by the running worker
const LockKey = "worker:thumbnails:lock"

// Reels waiting for metadata and a way to store it
type reelSource interface {
	MissingThumbnails(ctx context.Context, platform platforms.Platform, limit int) ([]models.Reel, error)
	UpdateReelMetadata(ctx context.Context, reelID, title, thumbnail string) (ownerID string, err error)
}

// Drops the owners' cached playlists
type invalidator interface {
	Invalidate(ctx context.Context, keys ...string)
}

type metadataFetcher interface {
	FetchMetadata(ctx context.Context, videoIDs ...string) (map[string]yt.Metadata, error)
}

// Only one worker runs at a time
type locker interface {
	TryLock(ctx context.Context) (bool, error)
	CheckLock(ctx context.Context) error
	Unlock(ctx context.Context) error
}

type Service struct {
	reels  reelSource
	meta   metadataFetcher
	lock   locker
	cache  invalidator
	config *config.Config
	retry  *utils.RetryConfig
}

// Stats of a single run
type Stats struct {
	Batches     int
	Updated     int
	Unavailable int
}

func New(
	reels reelSource,
	meta metadataFetcher,
	lock locker,
	cache invalidator,
	config *config.Config,
	retry *utils.RetryConfig,
) *Service {
	return &Service{
		reels:  reels,
		meta:   meta,
		lock:   lock,
		cache:  cache,
		config: config,
		retry:  retry,
	}
}

// Run the worker until no reel is missing a thumbnail.
// It does nothing if another worker holds the lock.
func (s *Service) Run(ctx context.Context) (Stats, error) {

	var stats Stats

	locked, err := s.lock.TryLock(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to acquire the worker lock; %w", err)
	}

	if !locked {
		log.Println("Another worker is running, exiting...")
		return stats, nil
	}

	defer func() {
		if err := s.lock.Unlock(context.WithoutCancel(ctx)); err != nil {
			log.Printf("Failed to release the worker lock: %v", err)
		}
	}()

	log.Println("Worker running...")
	start := time.Now()

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		// The lock could have expired during a long batch
		if err := s.lock.CheckLock(ctx); err != nil {
			return stats, err
		}

		reels, err := s.reels.MissingThumbnails(ctx, platforms.YouTube, s.config.WorkerBatchSize)
		if err != nil {
			return stats, fmt.Errorf("could not fetch the reels from DB; %w", err)
		}

		if len(reels) == 0 {
			break
		}

		if err := s.enrich(ctx, reels, &stats); err != nil {
			return stats, err
		}

		stats.Batches++
		if len(reels) < s.config.WorkerBatchSize {
			break
		}
	}

	log.Printf(
		"Worker done in %s: %d updated, %d unavailable in %d batches",
		time.Since(start).Round(time.Millisecond),
		stats.Updated, stats.Unavailable, stats.Batches,
	)

	return stats, nil
}

// enrich fetches the metadata of one batch and stores it.
// Unavailable videos get an empty thumbnail so they are not fetched again.
func (s *Service) enrich(ctx context.Context, reels []models.Reel, stats *Stats) error {

	ids := make([]string, 0, len(reels))
	seen := make(map[string]bool, len(reels))
	for _, reel := range reels {
		id := utils.PtrToString(reel.ContentID)
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	metadata, err := utils.Retry(ctx, s.retry, func() (map[string]yt.Metadata, error) {
		return s.meta.FetchMetadata(ctx, ids...)
	})

	if err != nil {
		return fmt.Errorf("could not fetch the videos from YouTube; %w", err)
	}

	var errs []error
	owners := make(map[string]bool)
	for _, reel := range reels {

		title, thumbnail := reel.Title, ""
		meta, found := metadata[utils.PtrToString(reel.ContentID)]

		if found {
			thumbnail = meta.Thumbnail
			// Keep titles the visitor or the seed data gave
			if meta.Title != "" && reel.Title == models.DefaultTitle(reel.Reference()) {
				title = meta.Title
			}
		}

		ownerID, err := s.reels.UpdateReelMetadata(ctx, reel.ID, title, thumbnail)
		if err != nil {
			errs = append(errs, fmt.Errorf("could not update reel '%s'; %w", reel.ID, err))
			continue
		}

		if ownerID != "" {
			owners[ownerID] = true
		}

		if found {
			stats.Updated++
		} else {
			stats.Unavailable++
		}
	}

	s.invalidate(ctx, owners)
	return errors.Join(errs...)
}

// invalidate drops the cached playlists of the updated reels' owners
func (s *Service) invalidate(ctx context.Context, owners map[string]bool) {

	if s.cache == nil || len(owners) == 0 {
		return
	}

	keys := make([]string, 0, 2*len(owners))
	for ownerID := range owners {
		keys = append(keys, store.OwnerCacheKeys(ownerID)...)
	}

	s.cache.Invalidate(ctx, keys...)
}
