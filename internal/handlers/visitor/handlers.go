package visitor

import (
	"errors"
	"log"
	"net/http"

	"github.com/vlatan/reels-mixer/internal/models"
	"github.com/vlatan/reels-mixer/internal/sessions"
	"github.com/vlatan/reels-mixer/internal/utils"
)

type themeRequest struct {
	Theme models.Theme `json:"theme"`
}

// Current visitor's first visit flag and theme
func (s *Service) VisitorHandler(w http.ResponseWriter, r *http.Request) {

	visitor := models.GetVisitorFromContext(r)
	if visitor == nil {
		utils.JSONError(w, r, http.StatusUnauthorized, "")
		return
	}

	utils.WriteJSON(w, r, http.StatusOK, visitor)
}

// Store the visitor's theme preference
func (s *Service) ThemeHandler(w http.ResponseWriter, r *http.Request) {

	visitor := models.GetVisitorFromContext(r)
	if visitor == nil {
		utils.JSONError(w, r, http.StatusUnauthorized, "")
		return
	}

	var req themeRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.JSONError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	err := s.sessions.SetTheme(w, r, req.Theme)
	if errors.Is(err, sessions.ErrUnknownTheme) {
		utils.JSONError(w, r, http.StatusUnprocessableEntity, "Theme must be dark, light or system")
		return
	}

	if err != nil {
		log.Printf("Failed to save the theme on URI '%s': %v", r.RequestURI, err)
		utils.JSONError(w, r, http.StatusInternalServerError, "")
		return
	}

	updated := *visitor
	updated.Theme = req.Theme
	utils.WriteJSON(w, r, http.StatusOK, &updated)
}
