package models

import (
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrEmptyPlaylist      = errors.New("this playlist has no reels")
	ErrPositionOutOfRange = errors.New("no reel at this position")
)

type Playlist struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"-"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	Description     string    `json:"description,omitempty"`
	DescriptionHTML string    `json:"description_html,omitempty"`
	LogoURL         string    `json:"logo_url,omitempty"`
	Reels           []Reel    `json:"reels"`
	Tags            []Tag     `json:"tags"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Reindex sets the reel positions to their slice order
func (p *Playlist) Reindex() {
	for i := range p.Reels {
		p.Reels[i].Position = i
		p.Reels[i].PlaylistID = p.ID
	}
}

type Playlists []Playlist

// MarshalBinary implements the encoding.BinaryMarshaler interface
func (p Playlists) MarshalBinary() (data []byte, err error) {
	return json.Marshal(p)
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface
func (p *Playlists) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, p)
}

// Find returns the index of the playlist with the given ID or -1
func (p Playlists) Find(id string) int {
	for i := range p {
		if p[i].ID == id {
			return i
		}
	}
	return -1
}

// Playback is the state of sequentially playing a playlist
type Playback struct {
	PlaylistID string `json:"playlist_id"`
	Position   int    `json:"position"`
	Total      int    `json:"total"`
	Next       int    `json:"next"`
	Previous   int    `json:"previous"`
	Reel       *Reel  `json:"reel"`
	Embed      *Embed `json:"embed,omitempty"`
}

// NewPlayback positions the playback on a reel.
// Next and previous wrap around the ends of the playlist.
func NewPlayback(p *Playlist, position int) (*Playback, error) {

	total := len(p.Reels)
	if total == 0 {
		return nil, ErrEmptyPlaylist
	}

	if position < 0 || position >= total {
		return nil, ErrPositionOutOfRange
	}

	return &Playback{
		PlaylistID: p.ID,
		Position:   position,
		Total:      total,
		Next:       (position + 1) % total,
		Previous:   (position - 1 + total) % total,
		Reel:       &p.Reels[position],
	}, nil
}
