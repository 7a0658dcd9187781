package app

import (
	"net/http"
	"runtime"
	"runtime/pprof"

	"github.com/vlatan/reels-mixer/internal/utils"
)

// Routes registers the routes and returns
// the mux wrapped in the middleware chain
func (a *App) Routes() http.Handler {
	mux := http.NewServeMux()

	// Reels
	mux.HandleFunc("POST /api/reels/parse", a.reels.ParseHandler)
	mux.HandleFunc("GET /api/reels/embed", a.reels.EmbedHandler)
	mux.HandleFunc("POST /api/player/message", a.reels.PlayerMessageHandler)

	// Playlists
	mux.HandleFunc("GET /api/playlists", a.playlists.ListPlaylistsHandler)
	mux.HandleFunc("POST /api/playlists", a.playlists.CreatePlaylistHandler)
	mux.HandleFunc("POST /api/playlists/demo", a.playlists.DemoHandler)
	mux.HandleFunc("GET /api/playlists/{id}", a.playlists.GetPlaylistHandler)
	mux.HandleFunc("PUT /api/playlists/{id}", a.playlists.UpdatePlaylistHandler)
	mux.HandleFunc("DELETE /api/playlists/{id}", a.playlists.DeletePlaylistHandler)
	mux.HandleFunc("POST /api/playlists/{id}/reels", a.playlists.AddReelHandler)
	mux.HandleFunc("DELETE /api/playlists/{id}/reels/{reel}", a.playlists.RemoveReelHandler)
	mux.HandleFunc("GET /api/playlists/{id}/play/{position}", a.playlists.PlayHandler)
	mux.HandleFunc("PUT /api/playlists/{id}/tags", a.playlists.SetPlaylistTagsHandler)

	// Tags
	mux.HandleFunc("GET /api/tags", a.playlists.ListTagsHandler)
	mux.HandleFunc("POST /api/tags", a.playlists.CreateTagHandler)
	mux.HandleFunc("DELETE /api/tags/{id}", a.playlists.DeleteTagHandler)

	// Visitor
	mux.HandleFunc("GET /api/visitor", a.visitor.VisitorHandler)
	mux.HandleFunc("PUT /api/visitor/theme", a.visitor.ThemeHandler)

	// The rest
	mux.HandleFunc("GET /health/{$}", a.misc.HealthHandler)
	mux.HandleFunc("GET /healthcheck", a.misc.HealthCheckHandler)

	// Route for memory profiling
	mux.HandleFunc("GET /debug/heap", a.mw.IsAuthenticated(
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/octet-stream")
			runtime.GC()
			if err := pprof.WriteHeapProfile(w); err != nil {
				utils.JSONError(w, r, http.StatusInternalServerError, "")
			}
		},
	))

	// Chain middlewares that apply to all requests.
	// The order is important.
	return a.mw.ApplyToAll(
		a.mw.RecoverPanic,
		a.mw.CloseBody,
		a.mw.Logging,
		a.mw.LoadVisitor,
		a.mw.CSRF,
		a.mw.AddHeaders,
		a.mw.Compress,
		a.mw.HandleErrors,
	)(mux)
}
