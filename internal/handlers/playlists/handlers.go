package playlists

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/vlatan/reels-mixer/internal/models"
	"github.com/vlatan/reels-mixer/internal/store"
	"github.com/vlatan/reels-mixer/internal/utils"
)

type createRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	LogoURL     string   `json:"logo_url"`
	Reels       []string `json:"reels"`
	TagIDs      []string `json:"tag_ids"`
}

type updateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url"`
}

// List the visitor's playlists, newest first
func (s *Service) ListPlaylistsHandler(w http.ResponseWriter, r *http.Request) {

	visitor, st := s.storeFor(r)
	playlists, err := st.ListPlaylists(r.Context(), visitor.OwnerID())
	if err != nil {
		fail(w, r, err)
		return
	}

	if playlists == nil {
		playlists = models.Playlists{}
	}

	for i := range playlists {
		present(&playlists[i])
	}

	utils.WriteJSON(w, r, http.StatusOK, playlists)
}

// Single playlist with its reels and tags
func (s *Service) GetPlaylistHandler(w http.ResponseWriter, r *http.Request) {

	visitor, st := s.storeFor(r)
	playlist, err := st.GetPlaylist(r.Context(), visitor.OwnerID(), r.PathValue("id"))
	if err != nil {
		fail(w, r, err)
		return
	}

	utils.WriteJSON(w, r, http.StatusOK, present(playlist))
}

// Create a playlist from a name and a list of reel URLs
func (s *Service) CreatePlaylistHandler(w http.ResponseWriter, r *http.Request) {

	var req createRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.JSONError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	playlist, err := s.newPlaylist(&req)
	if err != nil {
		fail(w, r, err)
		return
	}

	visitor, st := s.storeFor(r)
	ownerID := visitor.OwnerID()

	if err := st.CreatePlaylist(r.Context(), ownerID, playlist); err != nil {
		fail(w, r, err)
		return
	}

	if len(req.TagIDs) > 0 {
		err := st.SetPlaylistTags(r.Context(), ownerID, playlist.ID, req.TagIDs)
		if errors.Is(err, store.ErrNotFound) {
			// The playlist was just created, so it's the tags that are missing
			_ = st.DeletePlaylist(r.Context(), ownerID, playlist.ID)
			fail(w, r, errUnknownTags)
			return
		}

		if err != nil {
			fail(w, r, err)
			return
		}
	}

	created, err := st.GetPlaylist(r.Context(), ownerID, playlist.ID)
	if err != nil {
		fail(w, r, err)
		return
	}

	utils.WriteJSON(w, r, http.StatusCreated, present(created))
}

// Rename or redescribe a playlist
func (s *Service) UpdatePlaylistHandler(w http.ResponseWriter, r *http.Request) {

	var req updateRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.JSONError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	playlist := models.Playlist{ID: r.PathValue("id")}
	if err := s.fillDetails(&playlist, req.Name, req.Description, req.LogoURL); err != nil {
		fail(w, r, err)
		return
	}
	playlist.UpdatedAt = time.Now().UTC()

	visitor, st := s.storeFor(r)
	if err := st.UpdatePlaylist(r.Context(), visitor.OwnerID(), &playlist); err != nil {
		fail(w, r, err)
		return
	}

	updated, err := st.GetPlaylist(r.Context(), visitor.OwnerID(), playlist.ID)
	if err != nil {
		fail(w, r, err)
		return
	}

	utils.WriteJSON(w, r, http.StatusOK, present(updated))
}

func (s *Service) DeletePlaylistHandler(w http.ResponseWriter, r *http.Request) {

	visitor, st := s.storeFor(r)
	if err := st.DeletePlaylist(r.Context(), visitor.OwnerID(), r.PathValue("id")); err != nil {
		fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// newPlaylist validates the request and classifies every reel URL
func (s *Service) newPlaylist(req *createRequest) (*models.Playlist, error) {

	now := time.Now().UTC()
	playlist := models.Playlist{
		ID:        uuid.NewString(),
		Tags:      []models.Tag{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.fillDetails(&playlist, req.Name, req.Description, req.LogoURL); err != nil {
		return nil, err
	}

	if len(req.Reels) == 0 {
		return nil, errNoReels
	}

	if len(req.Reels) > s.config.MaxReels {
		return nil, errTooManyReels(s.config.MaxReels)
	}

	playlist.Reels = make([]models.Reel, 0, len(req.Reels))
	for _, rawURL := range req.Reels {
		reel, err := models.NewReel(rawURL, s.config.MaxURLLength)
		if err != nil {
			return nil, err
		}
		reel.AddedAt = now
		playlist.Reels = append(playlist.Reels, *reel)
	}

	playlist.Reindex()
	return &playlist, nil
}

// fillDetails validates and sets the editable fields
func (s *Service) fillDetails(p *models.Playlist, name, description, logoURL string) error {

	name, err := validateName(name)
	if err != nil {
		return err
	}

	description, err = validateDescription(description)
	if err != nil {
		return err
	}

	logoURL, err = validateLogoURL(logoURL, s.config.MaxURLLength)
	if err != nil {
		return err
	}

	p.Name = name
	p.Slug = makeSlug(name)
	p.Description = description
	p.LogoURL = logoURL
	return nil
}
