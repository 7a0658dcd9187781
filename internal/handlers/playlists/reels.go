package playlists

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/vlatan/reels-mixer/internal/embed"
	"github.com/vlatan/reels-mixer/internal/models"
	"github.com/vlatan/reels-mixer/internal/utils"
)

type addReelRequest struct {
	URL string `json:"url"`
}

// Append a reel to the end of a playlist
func (s *Service) AddReelHandler(w http.ResponseWriter, r *http.Request) {

	var req addReelRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.JSONError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	reel, err := models.NewReel(req.URL, s.config.MaxURLLength)
	if err != nil {
		fail(w, r, err)
		return
	}

	visitor, st := s.storeFor(r)
	ownerID, playlistID := visitor.OwnerID(), r.PathValue("id")

	playlist, err := st.GetPlaylist(r.Context(), ownerID, playlistID)
	if err != nil {
		fail(w, r, err)
		return
	}

	if len(playlist.Reels) >= s.config.MaxReels {
		fail(w, r, errTooManyReels(s.config.MaxReels))
		return
	}

	if err := st.AddReel(r.Context(), ownerID, playlistID, reel); err != nil {
		fail(w, r, err)
		return
	}

	utils.WriteJSON(w, r, http.StatusCreated, reel)
}

// Remove a reel, the following reels move up
func (s *Service) RemoveReelHandler(w http.ResponseWriter, r *http.Request) {

	visitor, st := s.storeFor(r)
	err := st.RemoveReel(r.Context(), visitor.OwnerID(), r.PathValue("id"), r.PathValue("reel"))
	if err != nil {
		fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Position the player on a reel of the playlist.
// Autoplay is on unless the query asks otherwise.
func (s *Service) PlayHandler(w http.ResponseWriter, r *http.Request) {

	position, err := strconv.Atoi(r.PathValue("position"))
	if err != nil {
		utils.JSONError(w, r, http.StatusBadRequest, "Position must be a number")
		return
	}

	visitor, st := s.storeFor(r)
	playlist, err := st.GetPlaylist(r.Context(), visitor.OwnerID(), r.PathValue("id"))
	if err != nil {
		fail(w, r, err)
		return
	}

	playback, err := models.NewPlayback(playlist, position)

	switch {
	case errors.Is(err, models.ErrEmptyPlaylist):
		utils.JSONError(w, r, http.StatusUnprocessableEntity, "This playlist has no reels")
		return
	case errors.Is(err, models.ErrPositionOutOfRange):
		utils.JSONError(w, r, http.StatusNotFound, "No reel at this position")
		return
	case err != nil:
		fail(w, r, err)
		return
	}

	autoplay := r.URL.Query().Get("autoplay") != "0"
	e := embed.Render(playback.Reel, autoplay)
	playback.Embed = &e

	utils.WriteJSON(w, r, http.StatusOK, playback)
}
