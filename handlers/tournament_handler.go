package handlers

import (
	"net/http"

	"github.com/Dosada05/tournament-recorder/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(ts services.TournamentService) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: ts,
	}
}

// SaveSnapshot godoc
// @Summary Save a bracket snapshot
// @Description The data document is stored as-is; saving twice for the same date and key keeps both.
// @Tags tournaments
// @Accept json
// @Produce json
// @Param snapshot body services.SnapshotInput true "Snapshot"
// @Success 201 {object} models.Snapshot
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /tournaments [post]
func (h *TournamentHandler) SaveSnapshot(w http.ResponseWriter, r *http.Request) {
	var input services.SnapshotInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	snapshot, err := h.tournamentService.SaveSnapshot(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, snapshot, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// LoadSnapshots godoc
// @Summary Load every snapshot saved for a date
// @Tags tournaments
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {array} models.Snapshot
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /tournaments [get]
func (h *TournamentHandler) LoadSnapshots(w http.ResponseWriter, r *http.Request) {
	date, err := getDateFromQuery(r, "date")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	snapshots, err := h.tournamentService.LoadSnapshots(r.Context(), date)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, snapshots, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
