package models

import "time"

// DefaultGender is assigned to players submitted without a gender category.
const DefaultGender = "Boys"

// Player is a single roster entry.
type Player struct {
	ID         int64     `json:"id" db:"id"`
	Seq        int       `json:"seq" db:"seq"`
	Name       string    `json:"name" db:"name"`
	Phone      string    `json:"phone" db:"phone"`
	NationalID string    `json:"national_id" db:"national_id"`
	DueDate    *Date     `json:"due_date" db:"due_date"`
	Gender     string    `json:"gender" db:"gender"`
	Photo      string    `json:"photo" db:"photo"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
