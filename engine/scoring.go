package engine

// Score sums the values of face-up character cards on a board.
// Bombs never persist face-up and score nothing either way.
func Score(b *Board) int16 {
	var total int16
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			cell := b[r][c]
			if cell.Occupied() && cell.FaceUp && cell.Card.IsCharacter() {
				total += int16(cell.Card.Value())
			}
		}
	}
	return total
}

// Scores recomputes every active player's score from their board. Scores are
// never kept incrementally; recomputation from board state is what rules out
// drift, and it is idempotent: calling twice without a mutation in between
// yields the same values.
func (g *GameState) Scores() [MaxPlayers]int16 {
	var scores [MaxPlayers]int16
	for p := uint8(0); p < g.Rules.numPlayers(); p++ {
		scores[p] = Score(&g.Players[p].Board)
	}
	return scores
}

// ScoreOf recomputes a single player's score.
func (g *GameState) ScoreOf(player uint8) int16 {
	return Score(&g.Players[player].Board)
}
