package services

import (
	"encoding/json"
	"strings"

	"github.com/Dosada05/tournament-recorder/models"
	"github.com/Dosada05/tournament-recorder/utils"
)

// PlayerInput is the tolerant shape of an incoming player payload.
type PlayerInput struct {
	ID         utils.FlexInt    `json:"id"`
	Seq        utils.FlexInt    `json:"seq"`
	Name       utils.FlexString `json:"name"`
	Phone      utils.FlexString `json:"phone"`
	NationalID utils.FlexString `json:"national_id"`
	DueDate    utils.FlexDate   `json:"due_date"`
	Gender     utils.FlexString `json:"gender"`
	Photo      utils.FlexString `json:"photo"`
}

// MatchInput is the tolerant shape of an incoming match payload.
type MatchInput struct {
	Date     utils.FlexDate   `json:"date"`
	Category utils.FlexString `json:"category"`
	Gender   utils.FlexString `json:"gender"`
	Player1  utils.FlexString `json:"player1"`
	Player2  utils.FlexString `json:"player2"`
	Score1   utils.FlexFloat  `json:"score1"`
	Score2   utils.FlexFloat  `json:"score2"`
	Winner   utils.FlexString `json:"winner"`
	Round    utils.FlexInt    `json:"round"`
}

// SnapshotInput is an incoming tournament snapshot. Data is kept raw.
type SnapshotInput struct {
	Date utils.FlexDate   `json:"date"`
	Key  utils.FlexString `json:"key"`
	Data json.RawMessage  `json:"data"`
}

// NormalizePlayer applies defaults and checks that a name is present.
// A missing, unparsable or non-positive id leaves ID at zero so the store assigns one.
func NormalizePlayer(in PlayerInput) (*models.Player, error) {
	name := in.Name.Trimmed()
	if name == "" {
		return nil, NewValidationError(MsgNameRequired)
	}

	gender := in.Gender.Trimmed()
	if gender == "" {
		gender = models.DefaultGender
	}

	p := &models.Player{
		Seq:        int(in.Seq.Or(0)),
		Name:       name,
		Phone:      in.Phone.Or(""),
		NationalID: in.NationalID.Or(""),
		DueDate:    in.DueDate.Ptr(),
		Gender:     gender,
		Photo:      in.Photo.Or(""),
	}
	if id := in.ID.Or(0); id > 0 {
		p.ID = id
	}
	return p, nil
}

// NormalizeMatch applies defaults, checks both player names and fills in the
// winner when the caller left it out. strict additionally rejects a player
// facing themself and missing scores.
func NormalizeMatch(in MatchInput, strict bool) (*models.Match, error) {
	p1 := in.Player1.Trimmed()
	p2 := in.Player2.Trimmed()
	if p1 == "" || p2 == "" {
		return nil, NewValidationError(MsgPlayersRequired)
	}

	m := &models.Match{
		Date:     in.Date.Ptr(),
		Category: in.Category.Or(""),
		Gender:   in.Gender.Or(""),
		Player1:  p1,
		Player2:  p2,
		Score1:   in.Score1.Ptr(),
		Score2:   in.Score2.Ptr(),
		Round:    int(in.Round.Or(0)),
	}

	if strict {
		if strings.EqualFold(p1, p2) {
			return nil, NewValidationError(MsgPlayersMustDiffer)
		}
		if m.Score1 == nil || m.Score2 == nil {
			return nil, NewValidationError(MsgScoresRequired)
		}
	}

	if in.Winner.Trimmed() != "" {
		m.Winner = in.Winner.Value
	} else {
		m.Winner = DeriveWinner(m.Score1, m.Score2, m.Player1, m.Player2)
	}
	return m, nil
}

// NormalizeSnapshot checks presence of date, key and data.
func NormalizeSnapshot(in SnapshotInput) (*models.Snapshot, error) {
	if !in.Date.Valid {
		return nil, NewValidationError(MsgDateRequired)
	}
	key := in.Key.Trimmed()
	if key == "" {
		return nil, NewValidationError(MsgKeyRequired)
	}
	data := json.RawMessage(strings.TrimSpace(string(in.Data)))
	if len(data) == 0 || string(data) == "null" {
		return nil, NewValidationError(MsgDataRequired)
	}
	return &models.Snapshot{
		Date: in.Date.Value,
		Key:  key,
		Data: data,
	}, nil
}
