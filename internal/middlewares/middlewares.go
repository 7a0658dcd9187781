package middlewares

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/klauspost/compress/gzhttp"
	"github.com/vlatan/reels-mixer/internal/config"
	"github.com/vlatan/reels-mixer/internal/models"
	"github.com/vlatan/reels-mixer/internal/sessions"
	"github.com/vlatan/reels-mixer/internal/utils"
)

// Header carrying the CSRF token to signed-in clients
const csrfHeader = "X-CSRF-Token"

type Service struct {
	sessions *sessions.Service
	config   *config.Config
}

func New(sessions *sessions.Service, config *config.Config) *Service {
	return &Service{
		sessions: sessions,
		config:   config,
	}
}

// Check if the visitor is signed in
func (s *Service) IsAuthenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if visitor := models.GetVisitorFromContext(r); visitor.IsAuthenticated() {
			next(w, r)
			return
		}

		utils.JSONError(w, r, http.StatusForbidden, "")
	}
}

// Get the visitor from the session and put it in context
func (s *Service) LoadVisitor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		// Probes don't need a session
		if !needsSession(r) {
			next.ServeHTTP(w, r)
			return
		}

		visitor := s.sessions.LoadVisitor(w, r)
		ctx := context.WithValue(r.Context(), models.VisitorContextKey, visitor)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Close the body if the request can carry one
func (s *Service) CloseBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			defer r.Body.Close()
		}
		next.ServeHTTP(w, r)
	})
}

// Do not crash the app on panic, serve 500 error to the client
func (s *Service) RecoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// If in production recover panic
		if !s.config.Debug {
			defer func() {
				if err := recover(); err != nil {
					log.Printf("Panic in %s %s: %#v", r.Method, r.URL.Path, err)
					utils.JSONError(w, r, http.StatusInternalServerError, "Something went wrong")
				}
			}()
		}

		next.ServeHTTP(w, r)
	})
}

// Log every request with its status and duration
func (s *Service) Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		start := time.Now()
		sw := newStatusWriter(w)

		next.ServeHTTP(sw, r)

		log.Printf(
			"%s %s %d %dB %s",
			r.Method, r.RequestURI, sw.status, sw.written,
			time.Since(start).Round(time.Microsecond),
		)
	})
}

// Add security headers to the response
func (s *Service) AddHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		// Prevent MIME type sniffing
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// Prevent clickjacking
		w.Header().Set("X-Frame-Options", "SAMEORIGIN")

		// Don't leak the playlist URLs
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// HSTS (HTTPS only)
		if !s.config.Debug {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		}

		// Visitor specific data
		if strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set("Cache-Control", "no-store")
		}

		next.ServeHTTP(w, r)
	})
}

// Turn the plain text errors of the mux into JSON errors
func (s *Service) HandleErrors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		recorder := NewResponseRecorder(w)

		// Either the original response or the error response is written
		defer recorder.flush()

		next.ServeHTTP(recorder, r)

		if recorder.status < 400 || isJSON(w.Header()) {
			return
		}

		recorder.body.Reset()
		w.Header().Del("Content-Length")
		utils.JSONError(recorder, r, recorder.status, "")
	})
}

// Create CSRF middlware with added plain text option for local development
func (s *Service) CSRF(next http.Handler) http.Handler {

	csrfMiddleware := csrf.Protect(
		s.config.CsrfKey.Bytes,
		csrf.CookieName(s.config.CsrfSessionName),
		csrf.Secure(!s.config.Debug),
		csrf.Path("/"),
		csrf.RequestHeader(csrfHeader),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Printf("CSRF check failed on URI '%s': %v", r.RequestURI, csrf.FailureReason(r))
			utils.JSONError(w, r, http.StatusForbidden, "Invalid CSRF token")
		})),
	)

	// Hand the token to the client on every response
	withToken := csrfMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(csrfHeader, csrf.Token(r))
		next.ServeHTTP(w, r)
	}))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		// Anonymous visitors only touch their own short lived data,
		// gorilla/csrf would also add Vary: Cookie to their responses.
		visitor := models.GetVisitorFromContext(r)
		if !visitor.IsAuthenticated() {
			next.ServeHTTP(w, r)
			return
		}

		// If debug set plain text (HTTP) schema
		if s.config.Debug {
			r = csrf.PlaintextHTTPRequest(r)
		}

		withToken.ServeHTTP(w, r)
	})
}

// Compress provides gzip compression
func (s *Service) Compress(next http.Handler) http.Handler {
	return gzhttp.GzipHandler(next)
}

// Chain middlewares that apply to all handlers
func (s *Service) ApplyToAll(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(final http.Handler) http.Handler {
		// Apply middlewares in reverse order
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}
