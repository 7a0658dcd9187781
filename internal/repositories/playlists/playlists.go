package playlists

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vlatan/reels-mixer/internal/drivers/database"
	"github.com/vlatan/reels-mixer/internal/models"
	"github.com/vlatan/reels-mixer/internal/platforms"
	"github.com/vlatan/reels-mixer/internal/store"
	"github.com/vlatan/reels-mixer/internal/utils"
)

// Postgres unique_violation
const uniqueViolation = "23505"

type Repository struct {
	db database.Service
}

func New(db database.Service) *Repository {
	return &Repository{db: db}
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlaylist(row rowScanner) (models.Playlist, error) {

	var p models.Playlist
	var description, logoURL *string

	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.Slug,
		&description,
		&logoURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	p.Description = utils.PtrToString(description)
	p.LogoURL = utils.PtrToString(logoURL)
	p.Reels = []models.Reel{}
	p.Tags = []models.Tag{}

	return p, err
}

func scanReel(row rowScanner) (models.Reel, error) {

	var r models.Reel
	var platform string
	var thumbnail *string

	err := row.Scan(
		&r.ID,
		&r.PlaylistID,
		&r.Title,
		&r.URL,
		&platform,
		&r.ContentID,
		&r.Author,
		&thumbnail,
		&r.Position,
		&r.AddedAt,
	)

	if err != nil {
		return r, err
	}

	r.Thumbnail = utils.PtrToString(thumbnail)
	if r.Platform = platforms.ParsePlatform(platform); !r.Platform.Valid() {
		return r, fmt.Errorf("reel '%s' has unknown platform '%s'", r.ID, platform)
	}

	return r, nil
}

// Get all the owner's playlists
func (r *Repository) ListPlaylists(ctx context.Context, ownerID string) (models.Playlists, error) {
	return r.queryPlaylists(ctx, listPlaylistsQuery, ownerID)
}

// Get every playlist of every owner
func (r *Repository) AllPlaylists(ctx context.Context) (models.Playlists, error) {
	return r.queryPlaylists(ctx, allPlaylistsQuery)
}

func (r *Repository) queryPlaylists(ctx context.Context, query string, args ...any) (models.Playlists, error) {

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	playlists := models.Playlists{}
	for rows.Next() {
		p, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, p)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if err = r.attach(ctx, playlists); err != nil {
		return nil, err
	}

	return playlists, nil
}

// attach fills in the reels and tags of the playlists
func (r *Repository) attach(ctx context.Context, playlists models.Playlists) error {

	if len(playlists) == 0 {
		return nil
	}

	ids := make([]string, len(playlists))
	index := make(map[string]int, len(playlists))
	for i, p := range playlists {
		ids[i] = p.ID
		index[p.ID] = i
	}

	rows, err := r.db.Query(ctx, reelsQuery, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		reel, err := scanReel(rows)
		if err != nil {
			return err
		}
		p := &playlists[index[reel.PlaylistID]]
		p.Reels = append(p.Reels, reel)
	}

	if err = rows.Err(); err != nil {
		return err
	}

	tagRows, err := r.db.Query(ctx, playlistTagsQuery, ids)
	if err != nil {
		return err
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var playlistID string
		var tag models.Tag
		if err := tagRows.Scan(&playlistID, &tag.ID, &tag.Name, &tag.Color, &tag.CreatedAt); err != nil {
			return err
		}
		p := &playlists[index[playlistID]]
		p.Tags = append(p.Tags, tag)
	}

	return tagRows.Err()
}

// Get a single playlist
func (r *Repository) GetPlaylist(ctx context.Context, ownerID, playlistID string) (*models.Playlist, error) {

	p, err := scanPlaylist(r.db.QueryRow(ctx, getPlaylistQuery, ownerID, playlistID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	playlists := models.Playlists{p}
	if err := r.attach(ctx, playlists); err != nil {
		return nil, err
	}

	return &playlists[0], nil
}

// Insert the playlist and its reels in one transaction
func (r *Repository) CreatePlaylist(ctx context.Context, ownerID string, playlist *models.Playlist) error {

	playlist.OwnerID = ownerID
	playlist.Reindex()

	return r.inTx(ctx, func(tx pgx.Tx) error {

		if _, err := tx.Exec(
			ctx,
			insertPlaylistQuery,
			playlist.ID,
			ownerID,
			playlist.Name,
			playlist.Slug,
			utils.NullString(&playlist.Description),
			utils.NullString(&playlist.LogoURL),
			playlist.CreatedAt,
			playlist.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert playlist; %w", err)
		}

		for i := range playlist.Reels {
			if err := insertReel(ctx, tx, &playlist.Reels[i]); err != nil {
				return err
			}
		}

		return nil
	})
}

func insertReel(ctx context.Context, tx pgx.Tx, reel *models.Reel) error {
	_, err := tx.Exec(
		ctx,
		insertReelQuery,
		reel.ID,
		reel.PlaylistID,
		reel.Title,
		reel.URL,
		reel.Platform.String(),
		utils.NullString(reel.ContentID),
		utils.NullString(reel.Author),
		utils.NullString(&reel.Thumbnail),
		reel.Position,
		reel.AddedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert reel '%s'; %w", reel.URL, err)
	}

	return nil
}

// Update the playlist's own fields
func (r *Repository) UpdatePlaylist(ctx context.Context, ownerID string, playlist *models.Playlist) error {

	err := r.db.QueryRow(
		ctx,
		updatePlaylistQuery,
		ownerID,
		playlist.ID,
		playlist.Name,
		playlist.Slug,
		utils.NullString(&playlist.Description),
		utils.NullString(&playlist.LogoURL),
	).Scan(&playlist.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}

	if err != nil {
		return err
	}

	updated, err := r.GetPlaylist(ctx, ownerID, playlist.ID)
	if err != nil {
		return err
	}

	description := playlist.DescriptionHTML
	*playlist = *updated
	playlist.DescriptionHTML = description

	return nil
}

// Delete a playlist, reels and tag relations are cascaded
func (r *Repository) DeletePlaylist(ctx context.Context, ownerID, playlistID string) error {
	return notFoundIfNone(r.db.Exec(ctx, deletePlaylistQuery, ownerID, playlistID))
}

// Append a reel at the end of the playlist
func (r *Repository) AddReel(ctx context.Context, ownerID, playlistID string, reel *models.Reel) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {

		if err := lockPlaylist(ctx, tx, ownerID, playlistID); err != nil {
			return err
		}

		if err := tx.QueryRow(ctx, nextPositionQuery, playlistID).Scan(&reel.Position); err != nil {
			return err
		}

		reel.PlaylistID = playlistID
		if err := insertReel(ctx, tx, reel); err != nil {
			return err
		}

		_, err := tx.Exec(ctx, touchPlaylistQuery, playlistID)
		return err
	})
}

// Remove a reel and shift the following reels one position back
func (r *Repository) RemoveReel(ctx context.Context, ownerID, playlistID, reelID string) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {

		if err := lockPlaylist(ctx, tx, ownerID, playlistID); err != nil {
			return err
		}

		var position int
		err := tx.QueryRow(ctx, deleteReelQuery, reelID, playlistID).Scan(&position)
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrNotFound
		}

		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, closeGapQuery, playlistID, position); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, touchPlaylistQuery, playlistID)
		return err
	})
}

// Get the owner's tags
func (r *Repository) ListTags(ctx context.Context, ownerID string) (models.Tags, error) {

	rows, err := r.db.Query(ctx, listTagsQuery, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := models.Tags{}
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Color, &tag.CreatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return tags, nil
}

// Insert a tag, names are unique per owner regardless of case
func (r *Repository) CreateTag(ctx context.Context, ownerID string, tag *models.Tag) error {

	_, err := r.db.Exec(ctx, insertTagQuery, tag.ID, ownerID, tag.Name, tag.Color, tag.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return store.ErrDuplicateTag
	}

	return err
}

// Delete a tag, playlist relations are cascaded
func (r *Repository) DeleteTag(ctx context.Context, ownerID, tagID string) error {
	return notFoundIfNone(r.db.Exec(ctx, deleteTagQuery, ownerID, tagID))
}

// Replace the playlist's tags
func (r *Repository) SetPlaylistTags(ctx context.Context, ownerID, playlistID string, tagIDs []string) error {

	tagIDs = slices.Compact(slices.Sorted(slices.Values(tagIDs)))

	return r.inTx(ctx, func(tx pgx.Tx) error {

		if err := lockPlaylist(ctx, tx, ownerID, playlistID); err != nil {
			return err
		}

		var owned int
		if err := tx.QueryRow(ctx, countOwnedTagsQuery, ownerID, tagIDs).Scan(&owned); err != nil {
			return err
		}

		if owned != len(tagIDs) {
			return fmt.Errorf("%d of %d tags; %w", len(tagIDs)-owned, len(tagIDs), store.ErrNotFound)
		}

		if _, err := tx.Exec(ctx, clearPlaylistTagsQuery, playlistID); err != nil {
			return err
		}

		if len(tagIDs) == 0 {
			return nil
		}

		_, err := tx.Exec(ctx, insertPlaylistTagsQuery, playlistID, tagIDs)
		return err
	})
}

// Get reels of a platform with a content ID but no thumbnail
func (r *Repository) MissingThumbnails(ctx context.Context, platform platforms.Platform, limit int) ([]models.Reel, error) {

	rows, err := r.db.Query(ctx, missingThumbnailsQuery, platform.String(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reels []models.Reel
	for rows.Next() {
		reel, err := scanReel(rows)
		if err != nil {
			return nil, err
		}
		reels = append(reels, reel)
	}

	return reels, rows.Err()
}

// Update the fetched title and thumbnail of a reel.
// Returns the playlist owner, empty if the reel is gone.
func (r *Repository) UpdateReelMetadata(ctx context.Context, reelID, title, thumbnail string) (string, error) {

	var ownerID string
	err := r.db.QueryRow(ctx, updateReelMetadataQuery, reelID, title, thumbnail).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}

	return ownerID, err
}

// inTx runs fn in a transaction, committing only if fn succeeds
func (r *Repository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}

	// Rollback is a no-op after a commit
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func lockPlaylist(ctx context.Context, tx pgx.Tx, ownerID, playlistID string) error {
	var id string
	err := tx.QueryRow(ctx, lockPlaylistQuery, ownerID, playlistID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func notFoundIfNone(affected int64, err error) error {
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

var _ store.Store = (*Repository)(nil)
