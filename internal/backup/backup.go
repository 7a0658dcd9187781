// Package backup exports the stored playlists to the R2 backup bucket.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/vlatan/reels-mixer/internal/config"
	"github.com/vlatan/reels-mixer/internal/integrations/r2"
	"github.com/vlatan/reels-mixer/internal/models"
)

const contentType = "application/gzip"

type playlistSource interface {
	AllPlaylists(ctx context.Context) (models.Playlists, error)
}

type Service struct {
	source playlistSource
	r2     r2.Service
	config *config.Config
	now    func() time.Time
}

// Owner is one owner's playlists in the export
type Owner struct {
	OwnerID   string           `json:"owner_id"`
	Playlists models.Playlists `json:"playlists"`
}

// Export is the document written to the bucket
type Export struct {
	CreatedAt time.Time `json:"created_at"`
	Owners    []Owner   `json:"owners"`
}

// New creates a backup service
func New(source playlistSource, r2 r2.Service, config *config.Config) *Service {
	return &Service{
		source: source,
		r2:     r2,
		config: config,
		now:    time.Now,
	}
}

// Run exports every playlist, uploads the archive
// and prunes the old archives. It returns the uploaded key.
func (s *Service) Run(ctx context.Context) (string, error) {

	playlists, err := s.source.AllPlaylists(ctx)
	if err != nil {
		return "", fmt.Errorf("could not fetch the playlists from DB; %w", err)
	}

	now := s.now().UTC()
	data, err := compress(group(playlists, now))
	if err != nil {
		return "", err
	}

	key := s.config.BackupPrefix + fmt.Sprintf("reels-%s.json.gz", now.Format("2006-01-02T15-04-05"))
	metadata := map[string]string{"playlists": fmt.Sprint(len(playlists))}

	err = s.r2.PutObject(
		ctx,
		s.config.R2BackupBucketName,
		key,
		bytes.NewReader(data),
		contentType,
		metadata,
	)

	if err != nil {
		return "", err
	}

	log.Printf("Uploaded %d playlists to '%s' (%d bytes)", len(playlists), key, len(data))

	if err := s.prune(ctx); err != nil {
		return key, err
	}

	return key, nil
}

// group the playlists by owner, keeping the owners in order of appearance
func group(playlists models.Playlists, now time.Time) *Export {

	export := &Export{CreatedAt: now, Owners: []Owner{}}
	index := make(map[string]int)

	for _, p := range playlists {
		i, ok := index[p.OwnerID]
		if !ok {
			i = len(export.Owners)
			index[p.OwnerID] = i
			export.Owners = append(export.Owners, Owner{OwnerID: p.OwnerID})
		}
		export.Owners[i].Playlists = append(export.Owners[i].Playlists, p)
	}

	return export
}

func compress(export *Export) ([]byte, error) {

	var buf bytes.Buffer
	gzipWriter, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip writer: %w", err)
	}

	if err := json.NewEncoder(gzipWriter).Encode(export); err != nil {
		return nil, fmt.Errorf("failed to encode the export: %w", err)
	}

	if err := gzipWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to close gzip writer: %w", err)
	}

	return buf.Bytes(), nil
}

// prune deletes all but the newest archives.
// The keys carry the timestamp so lexical order is chronological.
func (s *Service) prune(ctx context.Context) error {

	keys, err := s.r2.ListKeys(ctx, s.config.R2BackupBucketName, s.config.BackupPrefix)
	if err != nil {
		return err
	}

	keep := max(s.config.BackupKeep, 1)
	if len(keys) <= keep {
		return nil
	}

	slices.Sort(keys)
	for _, key := range keys[:len(keys)-keep] {
		if err := s.r2.DeleteObject(ctx, s.config.R2BackupBucketName, key); err != nil {
			return fmt.Errorf("couldn't delete old backup '%s'; %w", key, err)
		}
		log.Printf("Deleted old backup '%s'", key)
	}

	return nil
}
