package models

type EmbedKind string

const (
	EmbedIframe     EmbedKind = "iframe"
	EmbedBlockquote EmbedKind = "blockquote"
	EmbedFallback   EmbedKind = "fallback"
)

// Embed is a ready to insert player fragment for a reel
type Embed struct {
	Kind     EmbedKind `json:"kind"`
	Platform string    `json:"platform,omitempty"`
	Src      string    `json:"src,omitempty"`
	Script   string    `json:"script,omitempty"`
	HTML     string    `json:"html"`
	URL      string    `json:"url"`
}

// JSON error response body
type JSONErrorData struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
