// Package embed turns a reel into the player fragment of its platform.
package embed

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/url"

	"github.com/tdewolff/minify"
	"github.com/tdewolff/minify/html"
	"github.com/vlatan/reels-mixer/internal/models"
	"github.com/vlatan/reels-mixer/internal/platforms"
)

// Scripts that turn the markup into a player
const (
	instagramScript = "https://www.instagram.com/embed.js"
	tiktokScript    = "https://www.tiktok.com/embed.js"
	facebookScript  = "https://connect.facebook.net/en_US/sdk.js#xfbml=1&version=v3.2"
	twitterScript   = "https://platform.twitter.com/widgets.js"
)

const youTubeAllow = "accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture"

var fragments = template.Must(template.New("embed").Parse(`
{{define "youtube"}}
<iframe src="{{.Src}}" title="{{.Title}}" width="100%" height="100%" frameborder="0" allow="{{.Allow}}" allowfullscreen></iframe>
{{end}}

{{define "instagram"}}
<blockquote class="instagram-media" data-instgrm-permalink="{{.Src}}" data-instgrm-version="14">
	<a href="{{.Src}}" target="_blank" rel="noopener noreferrer">{{.Title}}</a>
</blockquote>
{{end}}

{{define "tiktok"}}
<blockquote class="tiktok-embed" cite="{{.URL}}" data-video-id="{{.ContentID}}">
	<section><a href="{{.URL}}" target="_blank" rel="noopener noreferrer">{{.Title}}</a></section>
</blockquote>
{{end}}

{{define "facebook"}}
<div class="fb-video" data-href="{{.URL}}" data-width="100%" data-show-text="false"></div>
{{end}}

{{define "twitter"}}
<blockquote class="twitter-tweet" data-conversation="none"><a href="{{.URL}}"></a></blockquote>
{{end}}

{{define "fallback"}}
<div class="embed-fallback">
	<p>Embedded player not available for this platform.</p>
	<a href="{{.URL}}" target="_blank" rel="noopener noreferrer">Open in new tab</a>
</div>
{{end}}
`))

var minifier = newMinifier()

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/html", html.Minify)
	return m
}

// fragmentData is what the templates see
type fragmentData struct {
	Src       string
	URL       string
	ContentID string
	Title     string
	Allow     string
}

// Render builds the embed of a reel.
// Reels without a content ID get the fallback link.
func Render(reel *models.Reel, autoplay bool) models.Embed {

	e := models.Embed{URL: reel.URL}
	if !reel.HasContentID() || !reel.Platform.Valid() {
		return fallback(e, reel)
	}

	id := *reel.ContentID
	data := fragmentData{
		URL:       reel.URL,
		ContentID: id,
		Title:     reel.Title,
	}

	e.Platform = reel.Platform.String()
	e.Kind = models.EmbedBlockquote

	switch reel.Platform {
	case platforms.YouTube:
		e.Kind = models.EmbedIframe
		e.Src = youTubeSrc(id, autoplay)
		data.Allow = youTubeAllow
	case platforms.Instagram:
		e.Src = fmt.Sprintf("https://www.instagram.com/reel/%s/", url.PathEscape(id))
		e.Script = instagramScript
	case platforms.TikTok:
		e.Script = tiktokScript
	case platforms.Facebook:
		e.Script = facebookScript
	case platforms.Twitter:
		e.Script = twitterScript
	}

	data.Src = e.Src
	fragment, err := execute(reel.Platform.String(), data)
	if err != nil {
		log.Printf("Failed to render the '%s' embed for '%s': %v", e.Platform, reel.URL, err)
		return fallback(models.Embed{URL: reel.URL}, reel)
	}

	e.HTML = fragment
	return e
}

func youTubeSrc(id string, autoplay bool) string {
	q := url.Values{}
	q.Set("autoplay", "0")
	if autoplay {
		q.Set("autoplay", "1")
	}
	q.Set("enablejsapi", "1")
	return fmt.Sprintf("https://www.youtube.com/embed/%s?%s", url.PathEscape(id), q.Encode())
}

func fallback(e models.Embed, reel *models.Reel) models.Embed {

	e.Kind = models.EmbedFallback
	if reel.Platform.Valid() {
		e.Platform = reel.Platform.String()
	}

	fragment, err := execute("fallback", fragmentData{URL: reel.URL})
	if err != nil {
		// Still usable by the client through the URL
		log.Printf("Failed to render the fallback embed for '%s': %v", reel.URL, err)
	}

	e.HTML = fragment
	return e
}

// execute runs the named template and minifies the result
func execute(name string, data fragmentData) (string, error) {

	var buf bytes.Buffer
	if err := fragments.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}

	minified, err := minifier.String("text/html", buf.String())
	if err != nil {
		return buf.String(), nil
	}

	return minified, nil
}
