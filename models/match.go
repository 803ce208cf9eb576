package models

import "time"

// Match is one recorded result. Player names are free text, not roster references.
type Match struct {
	ID        int64     `json:"id" db:"id"`
	Date      *Date     `json:"date" db:"date"`
	Category  string    `json:"category" db:"category"`
	Gender    string    `json:"gender" db:"gender"`
	Player1   string    `json:"player1" db:"player1"`
	Player2   string    `json:"player2" db:"player2"`
	Score1    *float64  `json:"score1" db:"score1"`
	Score2    *float64  `json:"score2" db:"score2"`
	Winner    string    `json:"winner" db:"winner"`
	Round     int       `json:"round" db:"round"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
