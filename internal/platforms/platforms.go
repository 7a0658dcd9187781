// Package platforms classifies user supplied reel URLs.
// It tells which social platform a URL belongs to and extracts
// the platform native content identifier and a best-effort author.
// Nothing here does I/O or keeps state, every function is safe
// to call concurrently and never panics.
package platforms

import (
	"database/sql/driver"
	"fmt"
	"net/url"
	"strings"
)

// Platform is the closed set of supported social platforms.
// The zero value is Unrecognized.
type Platform int

const (
	Unrecognized Platform = iota
	Instagram
	Facebook
	TikTok
	YouTube
	Twitter
)

// All recognized platforms in detection order
var All = []Platform{Instagram, Facebook, TikTok, YouTube, Twitter}

// Hostname fragments per platform.
// The order of the rows is the detection tie-break.
var hostFragments = []struct {
	platform  Platform
	fragments []string
}{
	{Instagram, []string{"instagram"}},
	{Facebook, []string{"facebook", "fb.watch"}},
	{TikTok, []string{"tiktok", "vm.tiktok"}},
	{YouTube, []string{"youtube", "youtu.be"}},
	{Twitter, []string{"twitter", "x.com"}},
}

// String returns the lowercase platform tag
func (p Platform) String() string {
	switch p {
	case Instagram:
		return "instagram"
	case Facebook:
		return "facebook"
	case TikTok:
		return "tiktok"
	case YouTube:
		return "youtube"
	case Twitter:
		return "twitter"
	case Unrecognized:
		return "unrecognized"
	}
	return "unrecognized"
}

// Name returns a human readable platform name
func (p Platform) Name() string {
	switch p {
	case Instagram:
		return "Instagram"
	case Facebook:
		return "Facebook"
	case TikTok:
		return "TikTok"
	case YouTube:
		return "YouTube"
	case Twitter:
		return "Twitter"
	case Unrecognized:
		return ""
	}
	return ""
}

// Valid reports whether p is one of the recognized platforms
func (p Platform) Valid() bool {
	return p > Unrecognized && p <= Twitter
}

// ParsePlatform converts a platform tag back to a Platform.
// Unknown tags map to Unrecognized.
func ParsePlatform(tag string) Platform {
	for _, p := range All {
		if p.String() == strings.ToLower(strings.TrimSpace(tag)) {
			return p
		}
	}
	return Unrecognized
}

// MarshalText implements the encoding.TextMarshaler interface
func (p Platform) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("cannot marshal unrecognized platform %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface
func (p *Platform) UnmarshalText(text []byte) error {
	parsed := ParsePlatform(string(text))
	if !parsed.Valid() {
		return fmt.Errorf("unknown platform %q", text)
	}
	*p = parsed
	return nil
}

// Value implements the driver.Valuer interface,
// platforms are stored as their text tag.
func (p Platform) Value() (driver.Value, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("cannot store unrecognized platform %d", int(p))
	}
	return p.String(), nil
}

// Scan implements the sql.Scanner interface
func (p *Platform) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return p.UnmarshalText([]byte(v))
	case []byte:
		return p.UnmarshalText(v)
	case nil:
		*p = Unrecognized
		return nil
	}
	return fmt.Errorf("cannot scan %T into platform", src)
}

// Detect determines the platform solely from the URL hostname.
// Malformed, relative or scheme-less input is Unrecognized.
func Detect(rawURL string) Platform {
	u, ok := parseAbsolute(rawURL)
	if !ok {
		return Unrecognized
	}

	host := strings.ToLower(u.Hostname())
	for _, row := range hostFragments {
		for _, fragment := range row.fragments {
			if strings.Contains(host, fragment) {
				return row.platform
			}
		}
	}

	return Unrecognized
}

// parseAbsolute parses the URL and requires both scheme and host.
// A bad escape in the fragment drops the fragment, a bad escape
// in the path keeps only scheme and host, so the host still decides.
func parseAbsolute(rawURL string) (*url.URL, bool) {
	rawURL = strings.TrimSpace(rawURL)

	u, err := url.Parse(rawURL)
	if err != nil {
		withoutFragment, _, _ := strings.Cut(rawURL, "#")
		u, err = url.Parse(withoutFragment)
	}

	if err != nil {
		u, err = url.Parse(authority(rawURL))
	}

	if err != nil || u.Scheme == "" || u.Hostname() == "" {
		return nil, false
	}
	return u, true
}

// authority returns the scheme://host part of a URL, empty if there's none
func authority(rawURL string) string {
	scheme, rest, found := strings.Cut(rawURL, "://")
	if !found {
		return ""
	}

	if end := strings.IndexAny(rest, "/?#"); end != -1 {
		rest = rest[:end]
	}

	return scheme + "://" + rest
}
