package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveWinner(t *testing.T) {
	tests := []struct {
		name   string
		score1 *float64
		score2 *float64
		want   string
	}{
		{name: "player1 ahead", score1: ptr(21.0), score2: ptr(15.0), want: "Alice"},
		{name: "player2 ahead", score1: ptr(10.0), score2: ptr(21.0), want: "Bob"},
		{name: "tie goes to player2", score1: ptr(15.0), score2: ptr(15.0), want: "Bob"},
		{name: "score1 missing", score1: nil, score2: ptr(3.0), want: "Bob"},
		{name: "score2 missing", score1: ptr(3.0), score2: nil, want: "Bob"},
		{name: "both missing", want: "Bob"},
		{name: "NaN compares false", score1: ptr(math.NaN()), score2: ptr(1.0), want: "Bob"},
		{name: "fractional", score1: ptr(10.5), score2: ptr(10.25), want: "Alice"},
		{name: "negative", score1: ptr(-1.0), score2: ptr(-2.0), want: "Alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveWinner(tt.score1, tt.score2, "Alice", "Bob"))
		})
	}
}
