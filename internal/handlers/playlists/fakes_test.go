package playlists

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/vlatan/reels-mixer/internal/config"
	"github.com/vlatan/reels-mixer/internal/models"
	"github.com/vlatan/reels-mixer/internal/store"
)

// memStore is an in-memory store.Store
type memStore struct {
	mu        sync.Mutex
	playlists map[string]models.Playlists
	tags      map[string]models.Tags
	err       error // returned by every call when set
}

func newMemStore() *memStore {
	return &memStore{
		playlists: make(map[string]models.Playlists),
		tags:      make(map[string]models.Tags),
	}
}

func (m *memStore) find(ownerID, playlistID string) (*models.Playlist, error) {
	i := m.playlists[ownerID].Find(playlistID)
	if i < 0 {
		return nil, store.ErrNotFound
	}
	return &m.playlists[ownerID][i], nil
}

func clone(p models.Playlist) models.Playlist {
	p.Reels = slices.Clone(p.Reels)
	p.Tags = slices.Clone(p.Tags)
	return p
}

func (m *memStore) ListPlaylists(ctx context.Context, ownerID string) (models.Playlists, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	result := models.Playlists{}
	for _, p := range m.playlists[ownerID] {
		result = append(result, clone(p))
	}
	return result, nil
}

func (m *memStore) GetPlaylist(ctx context.Context, ownerID, playlistID string) (*models.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	p, err := m.find(ownerID, playlistID)
	if err != nil {
		return nil, err
	}

	c := clone(*p)
	return &c, nil
}

func (m *memStore) CreatePlaylist(ctx context.Context, ownerID string, playlist *models.Playlist) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}

	playlist.OwnerID = ownerID
	playlist.Reindex()
	m.playlists[ownerID] = slices.Insert(m.playlists[ownerID], 0, clone(*playlist))
	return nil
}

func (m *memStore) UpdatePlaylist(ctx context.Context, ownerID string, playlist *models.Playlist) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}

	p, err := m.find(ownerID, playlist.ID)
	if err != nil {
		return err
	}

	p.Name, p.Slug = playlist.Name, playlist.Slug
	p.Description, p.LogoURL = playlist.Description, playlist.LogoURL
	p.UpdatedAt = playlist.UpdatedAt
	return nil
}

func (m *memStore) DeletePlaylist(ctx context.Context, ownerID, playlistID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}

	i := m.playlists[ownerID].Find(playlistID)
	if i < 0 {
		return store.ErrNotFound
	}
	m.playlists[ownerID] = slices.Delete(m.playlists[ownerID], i, i+1)
	return nil
}

func (m *memStore) AddReel(ctx context.Context, ownerID, playlistID string, reel *models.Reel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}

	p, err := m.find(ownerID, playlistID)
	if err != nil {
		return err
	}

	p.Reels = append(p.Reels, *reel)
	p.Reindex()
	*reel = p.Reels[len(p.Reels)-1]
	return nil
}

func (m *memStore) RemoveReel(ctx context.Context, ownerID, playlistID, reelID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}

	p, err := m.find(ownerID, playlistID)
	if err != nil {
		return err
	}

	j := slices.IndexFunc(p.Reels, func(r models.Reel) bool { return r.ID == reelID })
	if j < 0 {
		return store.ErrNotFound
	}

	p.Reels = slices.Delete(p.Reels, j, j+1)
	p.Reindex()
	return nil
}

func (m *memStore) ListTags(ctx context.Context, ownerID string) (models.Tags, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return slices.Clone(m.tags[ownerID]), nil
}

func (m *memStore) CreateTag(ctx context.Context, ownerID string, tag *models.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}

	if m.tags[ownerID].HasName(tag.Name) {
		return store.ErrDuplicateTag
	}
	m.tags[ownerID] = append(m.tags[ownerID], *tag)
	return nil
}

func (m *memStore) DeleteTag(ctx context.Context, ownerID, tagID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}

	byID := func(t models.Tag) bool { return t.ID == tagID }

	i := slices.IndexFunc(m.tags[ownerID], byID)
	if i < 0 {
		return store.ErrNotFound
	}
	m.tags[ownerID] = slices.Delete(m.tags[ownerID], i, i+1)

	for j := range m.playlists[ownerID] {
		p := &m.playlists[ownerID][j]
		p.Tags = slices.DeleteFunc(p.Tags, byID)
	}
	return nil
}

func (m *memStore) SetPlaylistTags(ctx context.Context, ownerID, playlistID string, tagIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}

	p, err := m.find(ownerID, playlistID)
	if err != nil {
		return err
	}

	tags := []models.Tag{}
	for _, id := range tagIDs {
		j := slices.IndexFunc(m.tags[ownerID], func(t models.Tag) bool { return t.ID == id })
		if j < 0 {
			return store.ErrNotFound
		}
		if !slices.ContainsFunc(tags, func(t models.Tag) bool { return t.ID == id }) {
			tags = append(tags, m.tags[ownerID][j])
		}
	}

	p.Tags = tags
	return nil
}

// memRouter hands the same store to every visitor
type memRouter struct {
	store *memStore
}

func (mr memRouter) For(visitor *models.Visitor) store.Store {
	return mr.store
}

var errBroken = errors.New("connection refused")

var testVisitor = &models.Visitor{ID: "visitor-1"}

func newTestServer(t *testing.T) (*httptest.Server, *memStore) {
	t.Helper()

	st := newMemStore()
	s := New(memRouter{st}, &config.Config{MaxURLLength: 256, MaxReels: 3})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/playlists", s.ListPlaylistsHandler)
	mux.HandleFunc("POST /api/playlists", s.CreatePlaylistHandler)
	mux.HandleFunc("POST /api/playlists/demo", s.DemoHandler)
	mux.HandleFunc("GET /api/playlists/{id}", s.GetPlaylistHandler)
	mux.HandleFunc("PUT /api/playlists/{id}", s.UpdatePlaylistHandler)
	mux.HandleFunc("DELETE /api/playlists/{id}", s.DeletePlaylistHandler)
	mux.HandleFunc("POST /api/playlists/{id}/reels", s.AddReelHandler)
	mux.HandleFunc("DELETE /api/playlists/{id}/reels/{reel}", s.RemoveReelHandler)
	mux.HandleFunc("GET /api/playlists/{id}/play/{position}", s.PlayHandler)
	mux.HandleFunc("PUT /api/playlists/{id}/tags", s.SetPlaylistTagsHandler)
	mux.HandleFunc("GET /api/tags", s.ListTagsHandler)
	mux.HandleFunc("POST /api/tags", s.CreateTagHandler)
	mux.HandleFunc("DELETE /api/tags/{id}", s.DeleteTagHandler)

	withVisitor := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), models.VisitorContextKey, testVisitor)
		mux.ServeHTTP(w, r.WithContext(ctx))
	})

	server := httptest.NewServer(withVisitor)
	t.Cleanup(server.Close)
	return server, st
}

// do sends a request and returns the response, the caller closes the body
func do(t *testing.T, server *httptest.Server, method, path, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, server.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := server.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s failed; %v", method, path, err)
	}

	t.Cleanup(func() { resp.Body.Close() })
	return resp
}
