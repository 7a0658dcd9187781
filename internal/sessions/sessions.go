// Package sessions keeps the visitor identity and preferences in a cookie.
package sessions

import (
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/vlatan/reels-mixer/internal/config"
	"github.com/vlatan/reels-mixer/internal/models"
)

// Session value keys.
// UserIDKey is written by the external sign-in flow.
const (
	VisitorIDKey = "visitor_id"
	UserIDKey    = "user_id"
	VisitedKey   = "visited"
	ThemeKey     = "theme"
)

var ErrUnknownTheme = errors.New("unknown theme")

type Service struct {
	store sessions.Store
	name  string
}

// NewCookieStore creates an authenticated and encrypted cookie store
func NewCookieStore(cfg *config.Config) *sessions.CookieStore {

	store := sessions.NewCookieStore(cfg.AuthKey.Bytes, cfg.EncryptionKey.Bytes)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.VisitorTTL.Seconds()),
		HttpOnly: true,
		Secure:   !cfg.Debug,
	}

	return store
}

func New(store sessions.Store, cfg *config.Config) *Service {
	return &Service{store: store, name: cfg.VisitorSessionName}
}

// get returns the session, starting over if the cookie can't be decoded
func (s *Service) get(r *http.Request) *sessions.Session {

	session, err := s.store.Get(r, s.name)
	if err == nil {
		return session
	}

	// Keys rotated or the cookie was tampered with
	var cookieErr securecookie.Error
	if errors.As(err, &cookieErr) && cookieErr.IsDecode() {
		log.Printf("Discarding undecodable session on URI '%s': %v", r.RequestURI, err)
	} else {
		log.Printf("Failed to get the session on URI '%s': %v", r.RequestURI, err)
	}

	// Get always returns a session, even if empty
	if session == nil {
		session = sessions.NewSession(s.store, s.name)
	}

	session.IsNew = true
	session.Values = make(map[any]any)
	return session
}

// LoadVisitor gets the visitor from the session, creating one when missing.
// The first visit is reported only once.
func (s *Service) LoadVisitor(w http.ResponseWriter, r *http.Request) *models.Visitor {

	session := s.get(r)
	dirty := false

	visitorID, _ := session.Values[VisitorIDKey].(string)
	if visitorID == "" {
		visitorID = uuid.NewString()
		session.Values[VisitorIDKey] = visitorID
		dirty = true
	}

	visited, _ := session.Values[VisitedKey].(bool)
	if !visited {
		session.Values[VisitedKey] = true
		dirty = true
	}

	theme, _ := session.Values[ThemeKey].(string)
	if !models.Theme(theme).Valid() {
		theme = string(models.DefaultTheme)
	}

	userID, _ := session.Values[UserIDKey].(string)

	if dirty {
		if err := session.Save(r, w); err != nil {
			log.Printf("Failed to save the session on URI '%s': %v", r.RequestURI, err)
		}
	}

	return &models.Visitor{
		ID:         visitorID,
		UserID:     userID,
		FirstVisit: !visited,
		Theme:      models.Theme(theme),
	}
}

// SetTheme stores the visitor's theme preference
func (s *Service) SetTheme(w http.ResponseWriter, r *http.Request, theme models.Theme) error {

	if !theme.Valid() {
		return ErrUnknownTheme
	}

	session := s.get(r)
	session.Values[ThemeKey] = string(theme)
	return session.Save(r, w)
}
