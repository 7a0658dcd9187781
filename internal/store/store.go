// Package store persists playlists, reels and tags per owner.
package store

import (
	"context"
	"errors"

	"github.com/vlatan/reels-mixer/internal/models"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateTag = errors.New("a tag with this name already exists")
)

// Store is implemented by the Postgres repository for signed-in users
// and by the Redis backed local store for anonymous visitors.
// Every method is scoped to the owner, an ID of another owner's
// playlist behaves as a missing one.
type Store interface {
	// All the owner's playlists, newest first, with reels and tags
	ListPlaylists(ctx context.Context, ownerID string) (models.Playlists, error)
	// Single playlist with reels in position order
	GetPlaylist(ctx context.Context, ownerID, playlistID string) (*models.Playlist, error)
	// Insert a playlist along with its reels
	CreatePlaylist(ctx context.Context, ownerID string, playlist *models.Playlist) error
	// Update name, slug, description and logo
	UpdatePlaylist(ctx context.Context, ownerID string, playlist *models.Playlist) error
	DeletePlaylist(ctx context.Context, ownerID, playlistID string) error
	// Append a reel at the end of the playlist
	AddReel(ctx context.Context, ownerID, playlistID string, reel *models.Reel) error
	// Remove a reel and close the gap in positions
	RemoveReel(ctx context.Context, ownerID, playlistID, reelID string) error
	ListTags(ctx context.Context, ownerID string) (models.Tags, error)
	CreateTag(ctx context.Context, ownerID string, tag *models.Tag) error
	// Delete a tag and detach it from every playlist
	DeleteTag(ctx context.Context, ownerID, tagID string) error
	// Replace the playlist's tags with the given set
	SetPlaylistTags(ctx context.Context, ownerID, playlistID string, tagIDs []string) error
}
