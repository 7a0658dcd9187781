package yt

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/vlatan/reels-mixer/internal/utils"
	"google.golang.org/api/youtube/v3"
)

// Most IDs the Videos.List endpoint accepts at once
const MaxIDs = 50

// Longest title stored for a reel
const maxTitleLength = 200

var hashtags = regexp.MustCompile(`(^|\s)#\S+`)
var extraSpace = regexp.MustCompile(`\s+`)

// Metadata is what gets stored back on a reel
type Metadata struct {
	Title     string
	Thumbnail string
}

// FetchMetadata gets the title and thumbnail of each public video.
// Missing, private or deleted videos are absent from the result.
func (s *Service) FetchMetadata(ctx context.Context, videoIDs ...string) (map[string]Metadata, error) {

	if len(videoIDs) > MaxIDs {
		return nil, fmt.Errorf("got %d video IDs, at most %d allowed", len(videoIDs), MaxIDs)
	}

	result := make(map[string]Metadata, len(videoIDs))
	if len(videoIDs) == 0 {
		return result, nil
	}

	response, err := s.youtube.Videos.
		List([]string{"snippet", "status"}).
		Id(videoIDs...).
		Context(ctx).
		Do()

	if err != nil {
		return nil, fmt.Errorf("unable to get a response from YouTube; %w", err)
	}

	for _, video := range response.Items {
		if video.Status != nil && video.Status.PrivacyStatus == "private" {
			continue
		}

		if video.Snippet == nil {
			continue
		}

		result[video.Id] = Metadata{
			Title:     cleanTitle(video.Snippet.Title),
			Thumbnail: bestThumbnail(video.Snippet.Thumbnails),
		}
	}

	return result, nil
}

// cleanTitle drops hashtags and extra whitespace and caps the length
func cleanTitle(title string) string {
	title = hashtags.ReplaceAllString(title, " ")
	title = strings.TrimSpace(extraSpace.ReplaceAllString(title, " "))
	return utils.Truncate(title, maxTitleLength)
}

// bestThumbnail picks the largest available thumbnail
func bestThumbnail(t *youtube.ThumbnailDetails) string {

	if t == nil {
		return ""
	}

	for _, thumb := range []*youtube.Thumbnail{t.Maxres, t.Standard, t.High, t.Medium, t.Default} {
		if thumb != nil && thumb.Url != "" {
			return thumb.Url
		}
	}

	return ""
}
