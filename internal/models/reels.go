package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/vlatan/reels-mixer/internal/platforms"
)

// InputError carries a message meant for the visitor
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

var (
	ErrInvalidURL     = &InputError{"Please enter a valid URL"}
	ErrURLTooLong     = &InputError{"This URL is too long"}
	ErrUnsupportedURL = &InputError{"Unsupported platform or invalid URL"}
)

type Reel struct {
	ID         string             `json:"id"`
	PlaylistID string             `json:"playlist_id,omitempty"`
	Title      string             `json:"title"`
	URL        string             `json:"url"`
	Platform   platforms.Platform `json:"platform"`
	ContentID  *string            `json:"content_id"`
	Author     *string            `json:"author"`
	Thumbnail  string             `json:"thumbnail,omitempty"`
	Position   int                `json:"position"`
	AddedAt    time.Time          `json:"added_at"`
}

// Reference returns the classified part of the reel
func (r *Reel) Reference() platforms.Reference {
	return platforms.Reference{
		Platform:  r.Platform,
		ContentID: r.ContentID,
		Author:    r.Author,
	}
}

// HasContentID reports whether an embeddable ID was extracted
func (r *Reel) HasContentID() bool {
	return r.ContentID != nil && *r.ContentID != ""
}

// DefaultTitle is the title given to a reel with no better source,
// the author if known, the platform user otherwise.
func DefaultTitle(ref platforms.Reference) string {
	if ref.Author != nil && *ref.Author != "" {
		return *ref.Author
	}
	return fmt.Sprintf("%s user", ref.Platform)
}

// NewReel classifies the URL and builds a reel ready to be stored
func NewReel(rawURL string, maxLen int) (*Reel, error) {

	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, ErrInvalidURL
	}

	if utf8.RuneCountInString(rawURL) > maxLen {
		return nil, ErrURLTooLong
	}

	ref, err := platforms.Parse(rawURL)
	if errors.Is(err, platforms.ErrUnrecognized) {
		return nil, ErrUnsupportedURL
	}

	if err != nil {
		return nil, err
	}

	return &Reel{
		ID:        uuid.NewString(),
		Title:     DefaultTitle(ref),
		URL:       rawURL,
		Platform:  ref.Platform,
		ContentID: ref.ContentID,
		Author:    ref.Author,
		AddedAt:   time.Now().UTC(),
	}, nil
}
