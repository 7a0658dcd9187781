package playlists

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/gosimple/slug"
	"github.com/vlatan/reels-mixer/internal/models"
	"github.com/vlatan/reels-mixer/internal/store"
	"github.com/vlatan/reels-mixer/internal/utils"
)

// Limits on user supplied text
const (
	maxNameLength        = 120
	maxDescriptionLength = 5000
	maxTagNameLength     = 40
)

var (
	errNoName      = &models.InputError{Message: "Please enter a playlist name"}
	errNameTooLong = &models.InputError{Message: fmt.Sprintf("Playlist name can have at most %d characters", maxNameLength)}
	errNoReels     = &models.InputError{Message: "Please add at least one reel"}
	errDescription = &models.InputError{Message: fmt.Sprintf("Description can have at most %d characters", maxDescriptionLength)}
	errLogoURL     = &models.InputError{Message: "Please enter a valid logo URL"}
	errNoTagName   = &models.InputError{Message: "Please enter a tag name"}
	errTagTooLong  = &models.InputError{Message: fmt.Sprintf("Tag name can have at most %d characters", maxTagNameLength)}
	errTagColor    = &models.InputError{Message: "Unknown tag color"}
	errUnknownTags = &models.InputError{Message: "One or more tags do not exist"}
)

func errTooManyReels(limit int) *models.InputError {
	return &models.InputError{Message: fmt.Sprintf("A playlist can have at most %d reels", limit)}
}

// storeFor returns the visitor and the visitor's store
func (s *Service) storeFor(r *http.Request) (*models.Visitor, store.Store) {
	visitor := models.GetVisitorFromContext(r)
	return visitor, s.stores.For(visitor)
}

// fail writes the JSON error response matching the error
func fail(w http.ResponseWriter, r *http.Request, err error) {

	var inputErr *models.InputError

	switch {
	case errors.As(err, &inputErr):
		utils.JSONError(w, r, http.StatusUnprocessableEntity, inputErr.Message)
	case errors.Is(err, store.ErrNotFound):
		utils.JSONError(w, r, http.StatusNotFound, "")
	case errors.Is(err, store.ErrDuplicateTag):
		utils.JSONError(w, r, http.StatusConflict, "A tag with this name already exists")
	case errors.Is(err, context.DeadlineExceeded):
		log.Printf("Timed out on URI '%s': %v", r.RequestURI, err)
		utils.JSONError(w, r, http.StatusServiceUnavailable, "")
	default:
		log.Printf("Failed to serve URI '%s': %v", r.RequestURI, err)
		utils.JSONError(w, r, http.StatusInternalServerError, "")
	}
}

// present fills the fields computed on the way out
func present(p *models.Playlist) *models.Playlist {

	if p.Reels == nil {
		p.Reels = []models.Reel{}
	}

	if p.Tags == nil {
		p.Tags = []models.Tag{}
	}

	p.DescriptionHTML = ""
	if p.Description == "" {
		return p
	}

	html, err := utils.RenderMarkdown(p.Description)
	if err != nil {
		log.Printf("Failed to render the description of playlist '%s': %v", p.ID, err)
		return p
	}

	p.DescriptionHTML = html
	return p
}

// makeSlug creates an URL friendly name, never empty
func makeSlug(name string) string {
	if s := slug.Make(name); s != "" {
		return s
	}
	return "playlist"
}

// validateName trims and checks a playlist name
func validateName(name string) (string, error) {

	name = strings.TrimSpace(name)
	if name == "" {
		return "", errNoName
	}

	if utf8.RuneCountInString(name) > maxNameLength {
		return "", errNameTooLong
	}

	return name, nil
}

func validateDescription(description string) (string, error) {

	description = strings.TrimSpace(description)
	if utf8.RuneCountInString(description) > maxDescriptionLength {
		return "", errDescription
	}

	return description, nil
}

// validateLogoURL accepts an empty value or an absolute http(s) URL
func validateLogoURL(rawURL string, maxLen int) (string, error) {

	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", nil
	}

	if utf8.RuneCountInString(rawURL) > maxLen {
		return "", errLogoURL
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", errLogoURL
	}

	return rawURL, nil
}
