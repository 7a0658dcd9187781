package playlists

import (
	"net/http"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/vlatan/reels-mixer/internal/models"
	"github.com/vlatan/reels-mixer/internal/utils"
)

type tagRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type playlistTagsRequest struct {
	TagIDs []string `json:"tag_ids"`
}

func (s *Service) ListTagsHandler(w http.ResponseWriter, r *http.Request) {

	visitor, st := s.storeFor(r)
	tags, err := st.ListTags(r.Context(), visitor.OwnerID())
	if err != nil {
		fail(w, r, err)
		return
	}

	if tags == nil {
		tags = models.Tags{}
	}

	utils.WriteJSON(w, r, http.StatusOK, tags)
}

// Create a tag, names are unique per visitor ignoring case
func (s *Service) CreateTagHandler(w http.ResponseWriter, r *http.Request) {

	var req tagRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.JSONError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	tag, err := newTag(req.Name, req.Color)
	if err != nil {
		fail(w, r, err)
		return
	}

	visitor, st := s.storeFor(r)
	if err := st.CreateTag(r.Context(), visitor.OwnerID(), tag); err != nil {
		fail(w, r, err)
		return
	}

	utils.WriteJSON(w, r, http.StatusCreated, tag)
}

// Delete a tag, detaching it from every playlist
func (s *Service) DeleteTagHandler(w http.ResponseWriter, r *http.Request) {

	visitor, st := s.storeFor(r)
	if err := st.DeleteTag(r.Context(), visitor.OwnerID(), r.PathValue("id")); err != nil {
		fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Replace the tags of a playlist
func (s *Service) SetPlaylistTagsHandler(w http.ResponseWriter, r *http.Request) {

	var req playlistTagsRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.JSONError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if req.TagIDs == nil {
		req.TagIDs = []string{}
	}

	visitor, st := s.storeFor(r)
	ownerID, playlistID := visitor.OwnerID(), r.PathValue("id")

	if err := st.SetPlaylistTags(r.Context(), ownerID, playlistID, req.TagIDs); err != nil {
		fail(w, r, err)
		return
	}

	playlist, err := st.GetPlaylist(r.Context(), ownerID, playlistID)
	if err != nil {
		fail(w, r, err)
		return
	}

	utils.WriteJSON(w, r, http.StatusOK, present(playlist))
}

// newTag validates the name and picks a color when none is given
func newTag(name, color string) (*models.Tag, error) {

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errNoTagName
	}

	if utf8.RuneCountInString(name) > maxTagNameLength {
		return nil, errTagTooLong
	}

	color = strings.ToLower(strings.TrimSpace(color))
	if color == "" {
		color = models.RandomTagColor()
	}

	if !slices.Contains(models.TagColors, color) {
		return nil, errTagColor
	}

	return &models.Tag{
		ID:        uuid.NewString(),
		Name:      name,
		Color:     color,
		CreatedAt: time.Now().UTC(),
	}, nil
}
