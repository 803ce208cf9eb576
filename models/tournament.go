package models

import (
	"encoding/json"
	"time"
)

// Snapshot is a stored copy of a whole tournament bracket for a date.
// Data is opaque: it is persisted and returned byte-for-byte as JSON.
type Snapshot struct {
	ID        int64           `json:"id" db:"id"`
	Date      Date            `json:"date" db:"date"`
	Key       string          `json:"key" db:"key"`
	Data      json.RawMessage `json:"data" db:"data"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
