package store

import (
	"context"
	"fmt"
	"time"

	"github.com/vlatan/reels-mixer/internal/drivers/rdb"
	"github.com/vlatan/reels-mixer/internal/models"
)

// Router picks the store from the visitor.
// Signed-in users get the persistent store with cached list reads,
// anonymous visitors get the local store.
type Router struct {
	signed       Store
	anonymous    Store
	rdb          *rdb.Service
	cacheTimeout time.Duration
}

func NewRouter(signed, anonymous Store, rdb *rdb.Service, cacheTimeout time.Duration) *Router {
	return &Router{
		signed:       signed,
		anonymous:    anonymous,
		rdb:          rdb,
		cacheTimeout: cacheTimeout,
	}
}

// For returns the store scoped to the visitor
func (r *Router) For(visitor *models.Visitor) Store {
	if visitor.IsAuthenticated() && r.signed != nil {
		return &cached{Store: r.signed, rdb: r.rdb, timeout: r.cacheTimeout}
	}
	return r.anonymous
}

// cached serves list reads from Redis and drops them on every write
type cached struct {
	Store
	rdb     *rdb.Service
	timeout time.Duration
}

func cachedPlaylistsKey(ownerID string) string {
	return fmt.Sprintf("user:%s:playlists", ownerID)
}

func cachedTagsKey(ownerID string) string {
	return fmt.Sprintf("user:%s:tags", ownerID)
}

// OwnerCacheKeys lists the cached reads of an owner.
// Anything changing the owner's playlists outside the store drops them.
func OwnerCacheKeys(ownerID string) []string {
	return []string{cachedPlaylistsKey(ownerID), cachedTagsKey(ownerID)}
}

func (c *cached) invalidate(ctx context.Context, ownerID string) {
	if c.rdb == nil {
		return
	}
	c.rdb.Invalidate(ctx, OwnerCacheKeys(ownerID)...)
}

// after invalidates the cache if the write succeeded
func (c *cached) after(ctx context.Context, ownerID string, err error) error {
	if err == nil {
		c.invalidate(ctx, ownerID)
	}
	return err
}

func (c *cached) ListPlaylists(ctx context.Context, ownerID string) (models.Playlists, error) {

	if c.rdb == nil {
		return c.Store.ListPlaylists(ctx, ownerID)
	}

	return rdb.GetCachedData(
		ctx, c.rdb,
		cachedPlaylistsKey(ownerID),
		c.timeout,
		func() (models.Playlists, error) {
			return c.Store.ListPlaylists(ctx, ownerID)
		},
	)
}

func (c *cached) ListTags(ctx context.Context, ownerID string) (models.Tags, error) {

	if c.rdb == nil {
		return c.Store.ListTags(ctx, ownerID)
	}

	return rdb.GetCachedData(
		ctx, c.rdb,
		cachedTagsKey(ownerID),
		c.timeout,
		func() (models.Tags, error) {
			return c.Store.ListTags(ctx, ownerID)
		},
	)
}

func (c *cached) CreatePlaylist(ctx context.Context, ownerID string, playlist *models.Playlist) error {
	return c.after(ctx, ownerID, c.Store.CreatePlaylist(ctx, ownerID, playlist))
}

func (c *cached) UpdatePlaylist(ctx context.Context, ownerID string, playlist *models.Playlist) error {
	return c.after(ctx, ownerID, c.Store.UpdatePlaylist(ctx, ownerID, playlist))
}

func (c *cached) DeletePlaylist(ctx context.Context, ownerID, playlistID string) error {
	return c.after(ctx, ownerID, c.Store.DeletePlaylist(ctx, ownerID, playlistID))
}

func (c *cached) AddReel(ctx context.Context, ownerID, playlistID string, reel *models.Reel) error {
	return c.after(ctx, ownerID, c.Store.AddReel(ctx, ownerID, playlistID, reel))
}

func (c *cached) RemoveReel(ctx context.Context, ownerID, playlistID, reelID string) error {
	return c.after(ctx, ownerID, c.Store.RemoveReel(ctx, ownerID, playlistID, reelID))
}

func (c *cached) CreateTag(ctx context.Context, ownerID string, tag *models.Tag) error {
	return c.after(ctx, ownerID, c.Store.CreateTag(ctx, ownerID, tag))
}

func (c *cached) DeleteTag(ctx context.Context, ownerID, tagID string) error {
	return c.after(ctx, ownerID, c.Store.DeleteTag(ctx, ownerID, tagID))
}

func (c *cached) SetPlaylistTags(ctx context.Context, ownerID, playlistID string, tagIDs []string) error {
	return c.after(ctx, ownerID, c.Store.SetPlaylistTags(ctx, ownerID, playlistID, tagIDs))
}
