package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vlatan/reels-mixer/internal/config"
	"github.com/vlatan/reels-mixer/internal/handlers/misc"
	"github.com/vlatan/reels-mixer/internal/handlers/reels"
	"github.com/vlatan/reels-mixer/internal/handlers/visitor"
	"github.com/vlatan/reels-mixer/internal/middlewares"
	"github.com/vlatan/reels-mixer/internal/sessions"
)

type healthy struct{}

func (healthy) Health(ctx context.Context) map[string]any {
	return map[string]any{"status": "up"}
}

// newTestApp wires everything but the persistent stores
func newTestApp() *App {

	cfg := &config.Config{
		Debug:              true,
		AuthKey:            config.Secret{Bytes: []byte("0123456789abcdef0123456789abcdef")},
		EncryptionKey:      config.Secret{Bytes: []byte("abcdef0123456789")},
		CsrfKey:            config.Secret{Bytes: []byte("fedcba9876543210fedcba9876543210")},
		VisitorSessionName: "_reels",
		CsrfSessionName:    "_reels_csrf",
		VisitorTTL:         time.Hour,
		MaxURLLength:       2048,
	}

	sess := sessions.New(sessions.NewCookieStore(cfg), cfg)
	return &App{
		reels:   reels.New(cfg),
		visitor: visitor.New(sess),
		misc:    misc.New(cfg, healthy{}, healthy{}),
		mw:      middlewares.New(sess, cfg),
	}
}

func TestRoutes(t *testing.T) {

	handler := newTestApp().Routes()

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "parse youtube",
			method:     http.MethodPost,
			path:       "/api/reels/parse",
			body:       `{"url": "https://youtu.be/dQw4w9WgXcQ"}`,
			wantStatus: http.StatusOK,
			wantBody:   `"content_id":"dQw4w9WgXcQ"`,
		},
		{
			name:       "parse unsupported",
			method:     http.MethodPost,
			path:       "/api/reels/parse",
			body:       `{"url": "https://example.com/video"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "Unsupported platform or invalid URL",
		},
		{
			name:       "visitor",
			method:     http.MethodGet,
			path:       "/api/visitor",
			wantStatus: http.StatusOK,
			wantBody:   `"first_visit":true`,
		},
		{
			name:       "health in debug",
			method:     http.MethodGet,
			path:       "/health/",
			wantStatus: http.StatusOK,
			wantBody:   `"database_status"`,
		},
		{
			name:       "healthcheck",
			method:     http.MethodGet,
			path:       "/healthcheck",
			wantStatus: http.StatusOK,
			wantBody:   "OK",
		},
		{
			name:       "heap needs a signed-in user",
			method:     http.MethodGet,
			path:       "/debug/heap",
			wantStatus: http.StatusForbidden,
			wantBody:   `"code":403`,
		},
		{
			name:       "unknown route",
			method:     http.MethodGet,
			path:       "/api/nothing",
			wantStatus: http.StatusNotFound,
			wantBody:   `"code":404`,
		},
		{
			name:       "wrong method",
			method:     http.MethodDelete,
			path:       "/api/reels/parse",
			wantStatus: http.StatusMethodNotAllowed,
			wantBody:   `"code":405`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d; body %s", w.Code, tt.wantStatus, w.Body)
			}

			if !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("got body %s, want it to contain %s", w.Body, tt.wantBody)
			}

			if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
				t.Errorf("got X-Content-Type-Options %q, want nosniff", got)
			}
		})
	}
}

func TestRoutesErrorsAreJSON(t *testing.T) {

	handler := newTestApp().Routes()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	var body struct {
		Error string `json:"error"`
		Code  int    `json:"code"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("got a non JSON body %q; %v", w.Body, err)
	}

	if body.Code != http.StatusNotFound || body.Error == "" {
		t.Errorf("got %+v, want a 404 error body", body)
	}
}
