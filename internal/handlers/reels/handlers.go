package reels

import (
	"errors"
	"log"
	"net/http"

	"github.com/vlatan/reels-mixer/internal/embed"
	"github.com/vlatan/reels-mixer/internal/models"
	"github.com/vlatan/reels-mixer/internal/utils"
)

type parseRequest struct {
	URL string `json:"url"`
}

type playerMessageRequest struct {
	Origin string `json:"origin"`
	Data   string `json:"data"`
}

type playerMessageResponse struct {
	State    embed.PlayState `json:"state,omitempty"`
	Accepted bool            `json:"accepted"`
}

// Classify a reel URL without storing it
func (s *Service) ParseHandler(w http.ResponseWriter, r *http.Request) {

	var req parseRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.JSONError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	reel, ok := s.newReel(w, r, req.URL)
	if !ok {
		return
	}

	utils.WriteJSON(w, r, http.StatusOK, reel.Reference())
}

// Build the player fragment for a reel URL
func (s *Service) EmbedHandler(w http.ResponseWriter, r *http.Request) {

	reel, ok := s.newReel(w, r, r.URL.Query().Get("url"))
	if !ok {
		return
	}

	autoplay := r.URL.Query().Get("autoplay") == "1"
	utils.WriteJSON(w, r, http.StatusOK, embed.Render(reel, autoplay))
}

// Translate a message the YouTube iframe posted to the page
func (s *Service) PlayerMessageHandler(w http.ResponseWriter, r *http.Request) {

	var req playerMessageRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.JSONError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	state, ok := embed.ParsePlayerMessage(req.Origin, req.Data)
	utils.WriteJSON(w, r, http.StatusOK, playerMessageResponse{
		State:    state,
		Accepted: ok,
	})
}

// newReel writes the error response itself and reports false on failure
func (s *Service) newReel(w http.ResponseWriter, r *http.Request, rawURL string) (*models.Reel, bool) {

	reel, err := models.NewReel(rawURL, s.config.MaxURLLength)

	var inputErr *models.InputError
	if errors.As(err, &inputErr) {
		utils.JSONError(w, r, http.StatusUnprocessableEntity, inputErr.Message)
		return nil, false
	}

	if err != nil {
		log.Printf("Failed to parse reel URL on URI '%s': %v", r.RequestURI, err)
		utils.JSONError(w, r, http.StatusInternalServerError, "")
		return nil, false
	}

	return reel, true
}
