package handlers

import (
	"net/http"

	"github.com/Dosada05/tournament-recorder/services"
)

type PlayerHandler struct {
	playerService services.PlayerService
}

func NewPlayerHandler(ps services.PlayerService) *PlayerHandler {
	return &PlayerHandler{
		playerService: ps,
	}
}

// ListPlayers godoc
// @Summary List the roster
// @Tags players
// @Produce json
// @Success 200 {array} models.Player
// @Failure 500 {object} map[string]string
// @Router /players [get]
func (h *PlayerHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.playerService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, players, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpsertPlayer godoc
// @Summary Create or overwrite a player
// @Description Payload with an id replaces every field of that player (or creates it). Without an id a new player is created.
// @Tags players
// @Accept json
// @Produce json
// @Param player body services.PlayerInput true "Player"
// @Success 200 {object} models.Player "Updated"
// @Success 201 {object} models.Player "Created"
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /players [post]
func (h *PlayerHandler) UpsertPlayer(w http.ResponseWriter, r *http.Request) {
	var input services.PlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, created, err := h.playerService.Upsert(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	if err := writeJSON(w, status, player, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeletePlayer godoc
// @Summary Delete a player
// @Description Succeeds whether or not the player existed.
// @Tags players
// @Produce json
// @Param playerID path int true "Player ID"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /players/{playerID} [delete]
func (h *PlayerHandler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.playerService.Delete(r.Context(), playerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"success": true}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
