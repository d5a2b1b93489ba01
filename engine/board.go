package engine

// cellBit returns the explosion-mask bit for (row, col).
func cellBit(row, col uint8) uint16 {
	return 1 << (row*BoardSize + col)
}

// explode resolves a bomb revealed at (row, col) on player's board and
// returns the mask of affected cells.
//
// The affected set is the bomb's own cell plus any orthogonal neighbor that
// was face-up when the bomb flipped. Face-down neighbors do not chain the
// blast, and the set is never expanded transitively; exactly one level of
// adjacency, computed against the pre-explosion board, so a bomb never chains
// through still-hidden cards.
//
// Every affected card moves to the discard pile and its cell is refilled
// face-down from the deck. Once the deck is out, cells stay empty.
func (g *GameState) explode(player, row, col uint8) uint16 {
	board := &g.Players[player].Board

	mask := cellBit(row, col)
	type offset struct{ dr, dc int8 }
	for _, d := range [4]offset{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		nr := int8(row) + d.dr
		nc := int8(col) + d.dc
		if nr < 0 || nr >= BoardSize || nc < 0 || nc >= BoardSize {
			continue
		}
		cell := board[nr][nc]
		if cell.Occupied() && cell.FaceUp {
			mask |= cellBit(uint8(nr), uint8(nc))
		}
	}

	for r := uint8(0); r < BoardSize; r++ {
		for c := uint8(0); c < BoardSize; c++ {
			if mask&cellBit(r, c) == 0 {
				continue
			}
			if cell := board[r][c]; cell.Occupied() {
				g.discardCard(cell.Card)
			}
			replacement, _ := g.drawCard()
			board[r][c] = Cell{Card: replacement} // EmptyCard when the deck ran out
		}
	}
	return mask
}

// discardCard appends a card to the discard pile.
func (g *GameState) discardCard(card Card) {
	g.Discard[g.DiscardLen] = card
	g.DiscardLen++
}
