package platforms

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ptr(s string) *string { return &s }

func TestExtractContentID(t *testing.T) {

	tests := []struct {
		name     string
		url      string
		platform Platform
		expected string
		ok       bool
	}{
		// YouTube
		{"youtube watch", "https://www.youtube.com/watch?v=abcDEF123456", YouTube, "abcDEF123456", true},
		{"youtube watch extra params", "https://www.youtube.com/watch?t=10&v=abcDEF123456&list=x", YouTube, "abcDEF123456", true},
		{"youtu.be", "https://youtu.be/abcDEF12345", YouTube, "abcDEF12345", true},
		{"youtu.be with query", "https://youtu.be/abcDEF12345?si=share", YouTube, "abcDEF12345", true},
		{"youtu.be no path", "https://youtu.be/", YouTube, "", false},
		{"youtube embed", "https://www.youtube.com/embed/abcDEF12345", YouTube, "abcDEF12345", true},
		{"youtube embed trailing", "https://www.youtube.com/embed/abcDEF12345/extra", YouTube, "abcDEF12345", true},
		{"youtube embed no id", "https://www.youtube.com/embed/", YouTube, "", false},
		{"youtube v wins over embed", "https://www.youtube.com/embed/aaa?v=bbb", YouTube, "bbb", true},
		{"youtube empty v", "https://www.youtube.com/watch?v=", YouTube, "", false},
		{"youtube channel", "https://www.youtube.com/@channel", YouTube, "", false},

		// Instagram
		{"instagram reel", "https://www.instagram.com/reel/CpTrb1jAhKZ/", Instagram, "CpTrb1jAhKZ", true},
		{"instagram reels", "https://www.instagram.com/reels/CqW3r5tgHmN/", Instagram, "CqW3r5tgHmN", true},
		{"instagram post", "https://www.instagram.com/p/ABC123/", Instagram, "ABC123", true},
		{"instagram user reel", "https://www.instagram.com/travelbucketlist/reel/CrX4s6thInO/", Instagram, "CrX4s6thInO", true},
		{"instagram first marker wins", "https://www.instagram.com/p/first/reel/second", Instagram, "first", true},
		{"instagram marker without id", "https://www.instagram.com/reel/", Instagram, "", false},
		{"instagram profile", "https://www.instagram.com/someone/", Instagram, "", false},

		// TikTok
		{"tiktok video", "https://www.tiktok.com/@foodie_delights/video/7123456789012345678", TikTok, "7123456789012345678", true},
		{"tiktok t link", "https://www.tiktok.com/t/abcdef/", TikTok, "abcdef", true},
		{"tiktok photo", "https://www.tiktok.com/@shovel._.man/photo/7268347701522189600", TikTok, "7268347701522189600", true},
		{"tiktok vm short link", "https://vm.tiktok.com/ZMabc123/", TikTok, "ZMabc123", true},
		{"tiktok video beats t", "https://www.tiktok.com/t/video/123", TikTok, "123", true},
		{"tiktok t beats photo", "https://www.tiktok.com/t/photo/123", TikTok, "photo", true},
		{"tiktok video without id", "https://www.tiktok.com/@user/video", TikTok, "", false},
		{"tiktok t alone", "https://www.tiktok.com/t/", TikTok, "", false},
		{"tiktok profile", "https://www.tiktok.com/@user", TikTok, "", false},
		{"tiktok vm empty", "https://vm.tiktok.com/", TikTok, "", false},

		// Facebook
		{"facebook watch", "https://www.facebook.com/watch/?v=9876543210123456", Facebook, "9876543210123456", true},
		{"facebook videos", "https://www.facebook.com/comedy_central/videos/1234567890", Facebook, "1234567890", true},
		{"facebook videos without id", "https://www.facebook.com/comedy_central/videos/", Facebook, "", false},
		{"fb.watch", "https://fb.watch/abc123/", Facebook, "abc123", true},
		{"fb.watch no slash", "https://fb.watch/abc123", Facebook, "abc123", true},
		{"fb.watch empty", "https://fb.watch/", Facebook, "", false},
		{"facebook page", "https://www.facebook.com/somepage", Facebook, "", false},
		// Must not read any other platform's path rules
		{"facebook ignores tiktok video marker", "https://www.facebook.com/user/video/123", Facebook, "", false},

		// Twitter
		{"twitter status", "https://twitter.com/news_channel/status/1234567890123456789", Twitter, "1234567890123456789", true},
		{"x status", "https://x.com/news_channel/status/1234567890123456789", Twitter, "1234567890123456789", true},
		{"x status with query", "https://x.com/a/status/20?s=20", Twitter, "20", true},
		{"twitter status without id", "https://twitter.com/someone/status/", Twitter, "", false},
		{"twitter profile", "https://twitter.com/someone", Twitter, "", false},

		// Mismatch and garbage
		{"unrecognized platform", "https://www.youtube.com/watch?v=abc", Unrecognized, "", false},
		{"out of range platform", "https://www.youtube.com/watch?v=abc", Platform(42), "", false},
		{"mismatched platform", "https://www.youtube.com/watch?v=abc", Twitter, "", false},
		{"empty string", "", YouTube, "", false},
		{"garbage", "%%%", Instagram, "", false},
		{"relative", "/reel/abc", Instagram, "", false},

		// Escapes
		{"encoded slash stays in the id", "https://www.instagram.com/reel/abc%2Fdef/", Instagram, "abc%2Fdef", true},
		{"bad escape in path", "https://www.youtube.com/%zz", YouTube, "", false},
		{"bad escape in embed path", "https://www.youtube.com/embed/%zz", YouTube, "", false},
		{"bad escape in fragment", "https://www.youtube.com/watch?v=abc#100%", YouTube, "abc", true},
		{"tiktok bad escape in fragment", "https://www.tiktok.com/@user/video/1?x=1#%", TikTok, "1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractContentID(tt.url, tt.platform)
			if ok != tt.ok {
				t.Errorf("got ok = %t, want ok = %t", ok, tt.ok)
			}

			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestExtractAuthor(t *testing.T) {

	tests := []struct {
		name     string
		url      string
		platform Platform
		expected string
		ok       bool
	}{
		{"tiktok handle", "https://www.tiktok.com/@foodie_delights/video/7123456789012345678", TikTok, "foodie_delights", true},
		{"tiktok dotted handle", "https://www.tiktok.com/@shovel._.man/photo/7268347701522189600", TikTok, "shovel._.man", true},
		{"tiktok no handle", "https://www.tiktok.com/t/abcdef/", TikTok, "", false},
		{"tiktok bare at", "https://www.tiktok.com/@/video/1", TikTok, "", false},
		{"instagram user", "https://www.instagram.com/travelbucketlist/reel/CpTrb1jAhKZ/", Instagram, "travelbucketlist", true},
		{"instagram reel marker", "https://www.instagram.com/reel/CpTrb1jAhKZ/", Instagram, "", false},
		{"instagram reels marker", "https://www.instagram.com/reels/CpTrb1jAhKZ/", Instagram, "", false},
		{"instagram p marker", "https://www.instagram.com/p/CpTrb1jAhKZ/", Instagram, "", false},
		{"instagram empty path", "https://www.instagram.com/", Instagram, "", false},
		{"facebook user", "https://www.facebook.com/comedy_central/videos/1234567890", Facebook, "comedy_central", true},
		{"facebook watch marker", "https://www.facebook.com/watch/?v=9876543210123456", Facebook, "", false},
		{"facebook video marker", "https://www.facebook.com/video/123", Facebook, "", false},
		{"fb.watch id is first segment", "https://fb.watch/abc123/", Facebook, "abc123", true},
		{"twitter user", "https://twitter.com/news_channel/status/1234567890123456789", Twitter, "news_channel", true},
		{"x user", "https://x.com/someone", Twitter, "someone", true},
		{"twitter empty path", "https://twitter.com/", Twitter, "", false},
		{"youtube never", "https://www.youtube.com/@channel/shorts/abc", YouTube, "", false},
		{"unrecognized", "https://example.com/someone", Unrecognized, "", false},
		{"garbage", "::::", Twitter, "", false},
		{"bad escape in path", "https://x.com/%zz/status/1", Twitter, "", false},
		{"tiktok bad escape in fragment", "https://www.tiktok.com/@user/video/1?x=1#%", TikTok, "user", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractAuthor(tt.url, tt.platform)
			if ok != tt.ok {
				t.Errorf("got ok = %t, want ok = %t", ok, tt.ok)
			}

			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestParse(t *testing.T) {

	tests := []struct {
		name     string
		url      string
		expected Reference
		wantErr  error
	}{
		{
			"youtube watch",
			"https://www.youtube.com/watch?v=abcDEF123456",
			Reference{Platform: YouTube, ContentID: ptr("abcDEF123456")},
			nil,
		},
		{
			"instagram reel",
			"https://www.instagram.com/reel/CpTrb1jAhKZ/",
			Reference{Platform: Instagram, ContentID: ptr("CpTrb1jAhKZ")},
			nil,
		},
		{
			"tiktok video with author",
			"https://www.tiktok.com/@foodie_delights/video/7123456789012345678",
			Reference{Platform: TikTok, ContentID: ptr("7123456789012345678"), Author: ptr("foodie_delights")},
			nil,
		},
		{
			"twitter status with author",
			"https://twitter.com/news_channel/status/1234567890123456789",
			Reference{Platform: Twitter, ContentID: ptr("1234567890123456789"), Author: ptr("news_channel")},
			nil,
		},
		{
			"unrecognized",
			"https://example.com/random/path",
			Reference{},
			ErrUnrecognized,
		},
		{
			"tiktok t short link",
			"https://www.tiktok.com/t/abcdef/",
			Reference{Platform: TikTok, ContentID: ptr("abcdef")},
			nil,
		},
		{
			"recognized without id",
			"https://www.instagram.com/someone/",
			Reference{Platform: Instagram, Author: ptr("someone")},
			nil,
		},
		{
			"malformed",
			"ht!tp://",
			Reference{},
			ErrUnrecognized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.url)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got error = %v, want error = %v", err, tt.wantErr)
			}

			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("reference mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseIdempotent(t *testing.T) {

	urls := []string{
		"https://www.youtube.com/watch?v=abcDEF123456",
		"https://www.tiktok.com/@foodie_delights/video/7123456789012345678",
		"https://fb.watch/abc123/",
		"https://x.com/a/status/1",
		"https://example.com/random/path",
		"",
	}

	for _, u := range urls {
		t.Run(u, func(t *testing.T) {
			first, firstErr := Parse(u)
			second, secondErr := Parse(u)

			if !errors.Is(secondErr, firstErr) {
				t.Errorf("got error = %v, want error = %v", secondErr, firstErr)
			}

			if diff := cmp.Diff(first, second); diff != "" {
				t.Errorf("second parse differs (-first +second):\n%s", diff)
			}
		})
	}
}

func TestLargeIDsStayVerbatim(t *testing.T) {

	// Above 2^53, would lose precision as a float
	id := "7123456789012345678901"
	url := "https://www.tiktok.com/@u/video/" + id

	got, ok := ExtractContentID(url, TikTok)
	if !ok || got != id {
		t.Errorf("got (%q, %t), want (%q, true)", got, ok, id)
	}

	// Leading zeros must survive too
	got, ok = ExtractContentID("https://x.com/u/status/000123", Twitter)
	if !ok || got != "000123" {
		t.Errorf("got (%q, %t), want (\"000123\", true)", got, ok)
	}
}

func TestUnicodePaths(t *testing.T) {

	tests := []struct {
		name, url string
	}{
		{"cyrillic", "https://www.instagram.com/пользователь/reel/абв/"},
		{"emoji", "https://www.tiktok.com/@😀/video/🎬"},
		{"encoded", "https://x.com/%E2%9C%93/status/%F0%9F%98%80"},
		{"invalid utf8", "https://x.com/\xff\xfe/status/1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			platform := Detect(tt.url)
			ExtractContentID(tt.url, platform)
			ExtractAuthor(tt.url, platform)
			if _, err := Parse(tt.url); err != nil && !errors.Is(err, ErrUnrecognized) {
				t.Errorf("got unexpected error %v", err)
			}
		})
	}
}

func FuzzParse(f *testing.F) {

	seeds := []string{
		"",
		"https://www.youtube.com/watch?v=abcDEF123456",
		"https://www.instagram.com/reel/CpTrb1jAhKZ/",
		"https://www.tiktok.com/@foodie_delights/video/7123456789012345678",
		"https://twitter.com/news_channel/status/1234567890123456789",
		"https://example.com/random/path",
		"https://www.tiktok.com/t/abcdef/",
		"https://fb.watch/abc123/",
		"::::",
		"https://www.youtube.com/watch?v=abc#100%",
	}

	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		first, firstErr := Parse(raw)
		second, secondErr := Parse(raw)

		if (firstErr == nil) != (secondErr == nil) {
			t.Fatalf("errors differ between calls: %v vs %v", firstErr, secondErr)
		}

		if diff := cmp.Diff(first, second); diff != "" {
			t.Fatalf("parse is not idempotent (-first +second):\n%s", diff)
		}

		// Platform depends only on the hostname
		if firstErr == nil && first.Platform != Detect(raw) {
			t.Fatalf("got platform %v, want %v", first.Platform, Detect(raw))
		}

		for _, p := range append([]Platform{Unrecognized}, All...) {
			ExtractContentID(raw, p)
			ExtractAuthor(raw, p)
		}
	})
}
