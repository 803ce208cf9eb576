package services

// DeriveWinner picks player1 only when both scores are present and score1 is
// strictly greater. Ties, missing scores and NaN all fall back to player2.
func DeriveWinner(score1, score2 *float64, player1, player2 string) string {
	if score1 != nil && score2 != nil && *score1 > *score2 {
		return player1
	}
	return player2
}
