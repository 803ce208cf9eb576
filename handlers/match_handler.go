package handlers

import (
	"net/http"

	"github.com/Dosada05/tournament-recorder/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{
		matchService: ms,
	}
}

// RecordMatch godoc
// @Summary Record a match result
// @Description Winner is derived from the scores when omitted. Every call stores a new row.
// @Tags matches
// @Accept json
// @Produce json
// @Param match body services.MatchInput true "Match"
// @Success 201 {object} models.Match
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /matches [post]
func (h *MatchHandler) RecordMatch(w http.ResponseWriter, r *http.Request) {
	var input services.MatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.Record(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, match, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListMatches godoc
// @Summary List matches played on a date
// @Tags matches
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {array} models.Match
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /matches [get]
func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	date, err := getDateFromQuery(r, "date")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.matchService.ListByDate(r.Context(), date)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, matches, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
