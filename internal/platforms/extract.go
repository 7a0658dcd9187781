package platforms

import (
	"errors"
	"net/url"
	"slices"
	"strings"
)

// ErrUnrecognized is returned for URLs that are malformed
// or whose hostname matches no supported platform.
var ErrUnrecognized = errors.New("unsupported platform or invalid URL")

// Reference is the result of classifying a reel URL.
// A nil ContentID means the platform was recognized,
// but none of the platform's rules matched.
type Reference struct {
	Platform  Platform `json:"platform"`
	ContentID *string  `json:"content_id"`
	Author    *string  `json:"author"`
}

// Hostnames with special meaning during extraction
const (
	youTubeShortHost  = "youtu.be"
	tikTokShortHost   = "vm.tiktok.com"
	facebookWatchHost = "fb.watch"
)

// Leading path segments that are not usernames
var (
	instagramMarkers = []string{"reel", "reels", "p"}
	facebookMarkers  = []string{"watch", "video"}
)

// Parse detects the platform and extracts the content ID and author.
// It returns ErrUnrecognized only when the platform is unknown.
func Parse(rawURL string) (Reference, error) {
	platform := Detect(rawURL)
	if platform == Unrecognized {
		return Reference{}, ErrUnrecognized
	}

	ref := Reference{Platform: platform}
	if id, ok := ExtractContentID(rawURL, platform); ok {
		ref.ContentID = &id
	}

	if author, ok := ExtractAuthor(rawURL, platform); ok {
		ref.Author = &author
	}

	return ref, nil
}

// ExtractContentID extracts the platform native identifier.
// The platform should come from Detect, any mismatch simply
// yields no result. Identifiers are kept as opaque strings.
func ExtractContentID(rawURL string, platform Platform) (string, bool) {
	u, ok := parseAbsolute(rawURL)
	if !ok {
		return "", false
	}

	switch platform {
	case YouTube:
		return youTubeID(u)
	case Instagram:
		return instagramID(u)
	case TikTok:
		return tikTokID(u)
	case Facebook:
		return facebookID(u)
	case Twitter:
		return twitterID(u)
	case Unrecognized:
		return "", false
	}

	return "", false
}

// ExtractAuthor scrapes a username from the URL path.
// It's a heuristic, YouTube never yields an author.
func ExtractAuthor(rawURL string, platform Platform) (string, bool) {
	u, ok := parseAbsolute(rawURL)
	if !ok {
		return "", false
	}

	parts := segments(u)

	switch platform {
	case TikTok:
		for _, part := range parts {
			if handle, found := strings.CutPrefix(part, "@"); found {
				return handle, handle != ""
			}
		}
		return "", false
	case Instagram:
		if len(parts) > 0 && !slices.Contains(instagramMarkers, parts[0]) {
			return parts[0], true
		}
		return "", false
	case Facebook:
		if len(parts) > 0 && !slices.Contains(facebookMarkers, parts[0]) {
			return parts[0], true
		}
		return "", false
	case Twitter:
		if len(parts) > 0 {
			return parts[0], true
		}
		return "", false
	case YouTube, Unrecognized:
		return "", false
	}

	return "", false
}

// youtube.com/watch?v=ID, youtu.be/ID, youtube.com/embed/ID
func youTubeID(u *url.URL) (string, bool) {
	if v := u.Query().Get("v"); v != "" {
		return v, true
	}

	parts := segments(u)
	if hostIs(u, youTubeShortHost) && len(parts) > 0 {
		return parts[0], true
	}

	return after(parts, "embed")
}

// instagram.com/reel/ID, instagram.com/reels/ID, instagram.com/p/ID
func instagramID(u *url.URL) (string, bool) {
	parts := segments(u)
	for i, part := range parts {
		if slices.Contains(instagramMarkers, part) {
			if i+1 < len(parts) {
				return parts[i+1], true
			}
			return "", false
		}
	}
	return "", false
}

// tiktok.com/@user/video/ID, tiktok.com/t/ID,
// tiktok.com/@user/photo/ID, vm.tiktok.com/ID
func tikTokID(u *url.URL) (string, bool) {
	parts := segments(u)

	if id, ok := after(parts, "video"); ok {
		return id, true
	}

	if len(parts) > 1 && parts[0] == "t" {
		return parts[1], true
	}

	if id, ok := after(parts, "photo"); ok {
		return id, true
	}

	if hostIs(u, tikTokShortHost) && len(parts) > 0 {
		return parts[0], true
	}

	return "", false
}

// facebook.com/watch/?v=ID, facebook.com/user/videos/ID, fb.watch/ID/
func facebookID(u *url.URL) (string, bool) {
	if v := u.Query().Get("v"); v != "" {
		return v, true
	}

	parts := segments(u)
	if id, ok := after(parts, "videos"); ok {
		return id, true
	}

	if hostIs(u, facebookWatchHost) && len(parts) > 0 {
		return strings.TrimSuffix(parts[0], "/"), true
	}

	return "", false
}

// twitter.com/user/status/ID, x.com/user/status/ID
func twitterID(u *url.URL) (string, bool) {
	return after(segments(u), "status")
}

// segments splits the still escaped URL path into non-empty parts,
// so an encoded slash stays inside its segment
func segments(u *url.URL) []string {
	var parts []string
	for part := range strings.SplitSeq(u.EscapedPath(), "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

// after returns the segment right after the first occurrence of marker
func after(parts []string, marker string) (string, bool) {
	i := slices.Index(parts, marker)
	if i == -1 || i+1 >= len(parts) {
		return "", false
	}
	return parts[i+1], true
}

// hostIs compares the hostname ignoring case and a www. prefix
func hostIs(u *url.URL, host string) bool {
	h := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	return h == host
}
