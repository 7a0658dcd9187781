package store

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/vlatan/reels-mixer/internal/drivers/rdb"
	"github.com/vlatan/reels-mixer/internal/models"
)

// How long a write waits for a concurrent write of the same visitor
const lockWait = 3 * time.Second

// Local keeps each anonymous visitor's data as JSON blobs in Redis.
// The TTL slides on every access.
type Local struct {
	rdb *rdb.Service
	ttl time.Duration
}

func NewLocal(rdb *rdb.Service, ttl time.Duration) *Local {
	return &Local{rdb: rdb, ttl: ttl}
}

func playlistsKey(ownerID string) string {
	return fmt.Sprintf("visitor:%s:playlists", ownerID)
}

func tagsKey(ownerID string) string {
	return fmt.Sprintf("visitor:%s:tags", ownerID)
}

func lockKey(ownerID string) string {
	return fmt.Sprintf("visitor:%s:lock", ownerID)
}

// state is the whole data of one visitor
type state struct {
	playlists models.Playlists
	tags      models.Tags
}

// load reads the visitor's state, missing keys give empty slices
func (l *Local) load(ctx context.Context, ownerID string) (*state, error) {

	s := state{playlists: models.Playlists{}, tags: models.Tags{}}

	err := l.rdb.Client.Get(ctx, playlistsKey(ownerID)).Scan(&s.playlists)
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to load playlists; %w", err)
	}

	err = l.rdb.Client.Get(ctx, tagsKey(ownerID)).Scan(&s.tags)
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to load tags; %w", err)
	}

	return &s, nil
}

// save writes both blobs in one transaction
func (l *Local) save(ctx context.Context, ownerID string, s *state) error {
	return l.rdb.PipeSet(
		ctx, l.ttl,
		playlistsKey(ownerID), s.playlists,
		tagsKey(ownerID), s.tags,
	)
}

// update runs a read-modify-write of the visitor's state under a lock
func (l *Local) update(ctx context.Context, ownerID string, mutate func(*state) error) error {

	lock := l.rdb.NewLock(lockKey(ownerID), uuid.NewString(), lockWait)

	lockCtx, cancel := context.WithTimeout(ctx, lockWait)
	defer cancel()

	if err := lock.Lock(lockCtx); err != nil {
		return fmt.Errorf("failed to lock visitor '%s'; %w", ownerID, err)
	}

	defer lock.Unlock(context.WithoutCancel(ctx))

	s, err := l.load(ctx, ownerID)
	if err != nil {
		return err
	}

	if err := mutate(s); err != nil {
		return err
	}

	return l.save(ctx, ownerID, s)
}

// touch slides the TTL, failing to do so does not fail the read
func (l *Local) touch(ctx context.Context, ownerID string) {
	_ = l.rdb.Touch(ctx, l.ttl, playlistsKey(ownerID), tagsKey(ownerID))
}

func (l *Local) ListPlaylists(ctx context.Context, ownerID string) (models.Playlists, error) {

	s, err := l.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	l.touch(ctx, ownerID)
	return s.playlists, nil
}

func (l *Local) GetPlaylist(ctx context.Context, ownerID, playlistID string) (*models.Playlist, error) {

	s, err := l.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	i := s.playlists.Find(playlistID)
	if i < 0 {
		return nil, ErrNotFound
	}

	l.touch(ctx, ownerID)
	return &s.playlists[i], nil
}

func (l *Local) CreatePlaylist(ctx context.Context, ownerID string, playlist *models.Playlist) error {
	return l.update(ctx, ownerID, func(s *state) error {
		playlist.OwnerID = ownerID
		playlist.Reindex()
		// Newest first
		s.playlists = slices.Insert(s.playlists, 0, *playlist)
		return nil
	})
}

func (l *Local) UpdatePlaylist(ctx context.Context, ownerID string, playlist *models.Playlist) error {
	return l.update(ctx, ownerID, func(s *state) error {

		i := s.playlists.Find(playlist.ID)
		if i < 0 {
			return ErrNotFound
		}

		p := &s.playlists[i]
		p.Name = playlist.Name
		p.Slug = playlist.Slug
		p.Description = playlist.Description
		p.DescriptionHTML = playlist.DescriptionHTML
		p.LogoURL = playlist.LogoURL
		p.UpdatedAt = playlist.UpdatedAt

		*playlist = *p
		return nil
	})
}

func (l *Local) DeletePlaylist(ctx context.Context, ownerID, playlistID string) error {
	return l.update(ctx, ownerID, func(s *state) error {

		i := s.playlists.Find(playlistID)
		if i < 0 {
			return ErrNotFound
		}

		s.playlists = slices.Delete(s.playlists, i, i+1)
		return nil
	})
}

func (l *Local) AddReel(ctx context.Context, ownerID, playlistID string, reel *models.Reel) error {
	return l.update(ctx, ownerID, func(s *state) error {

		i := s.playlists.Find(playlistID)
		if i < 0 {
			return ErrNotFound
		}

		p := &s.playlists[i]
		p.Reels = append(p.Reels, *reel)
		p.Reindex()
		p.UpdatedAt = reel.AddedAt

		*reel = p.Reels[len(p.Reels)-1]
		return nil
	})
}

func (l *Local) RemoveReel(ctx context.Context, ownerID, playlistID, reelID string) error {
	return l.update(ctx, ownerID, func(s *state) error {

		i := s.playlists.Find(playlistID)
		if i < 0 {
			return ErrNotFound
		}

		p := &s.playlists[i]
		j := slices.IndexFunc(p.Reels, func(r models.Reel) bool { return r.ID == reelID })
		if j < 0 {
			return ErrNotFound
		}

		p.Reels = slices.Delete(p.Reels, j, j+1)
		p.Reindex()
		p.UpdatedAt = time.Now().UTC()
		return nil
	})
}

func (l *Local) ListTags(ctx context.Context, ownerID string) (models.Tags, error) {

	s, err := l.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	l.touch(ctx, ownerID)
	return s.tags, nil
}

func (l *Local) CreateTag(ctx context.Context, ownerID string, tag *models.Tag) error {
	return l.update(ctx, ownerID, func(s *state) error {

		if s.tags.HasName(tag.Name) {
			return ErrDuplicateTag
		}

		s.tags = append(s.tags, *tag)
		return nil
	})
}

func (l *Local) DeleteTag(ctx context.Context, ownerID, tagID string) error {
	return l.update(ctx, ownerID, func(s *state) error {

		i := slices.IndexFunc(s.tags, func(t models.Tag) bool { return t.ID == tagID })
		if i < 0 {
			return ErrNotFound
		}

		s.tags = slices.Delete(s.tags, i, i+1)
		for j := range s.playlists {
			s.playlists[j].Tags = slices.DeleteFunc(
				s.playlists[j].Tags,
				func(t models.Tag) bool { return t.ID == tagID },
			)
		}

		return nil
	})
}

func (l *Local) SetPlaylistTags(ctx context.Context, ownerID, playlistID string, tagIDs []string) error {
	return l.update(ctx, ownerID, func(s *state) error {

		i := s.playlists.Find(playlistID)
		if i < 0 {
			return ErrNotFound
		}

		tags := make([]models.Tag, 0, len(tagIDs))
		for _, id := range dedupe(tagIDs) {
			j := slices.IndexFunc(s.tags, func(t models.Tag) bool { return t.ID == id })
			if j < 0 {
				return fmt.Errorf("tag '%s'; %w", id, ErrNotFound)
			}
			tags = append(tags, s.tags[j])
		}

		s.playlists[i].Tags = tags
		return nil
	})
}

// dedupe removes repeated IDs keeping the first occurrence order
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
