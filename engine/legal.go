package engine

// LegalActions enumerates every action the acting player may take right now.
// The action space is parametric over hand cards and cells, so this returns
// a slice rather than a fixed bitmask. Terminal states have no legal actions.
//
// The enumeration and Apply agree by construction: every returned action is
// accepted, and Apply rejects everything else.
func (g *GameState) LegalActions() []Action {
	if g.IsTerminal() || g.Flags&FlagGameStarted == 0 {
		return nil
	}

	player := g.CurrentPlayer
	var actions []Action

	switch g.Phase {
	case PhaseStartTurn:
		actions = append(actions, Action{Type: ActionDraw, Player: player})

	case PhaseReveal:
		for r := uint8(0); r < BoardSize; r++ {
			for c := uint8(0); c < BoardSize; c++ {
				cell := g.Players[player].Board[r][c]
				if cell.Occupied() && !cell.FaceUp {
					actions = append(actions, Action{Type: ActionReveal, Player: player, Row: r, Col: c})
				}
			}
		}

	case PhaseAction:
		for i := uint8(0); i < g.Players[player].HandLen; i++ {
			card := g.Players[player].Hand[i]
			for r := uint8(0); r < BoardSize; r++ {
				for c := uint8(0); c < BoardSize; c++ {
					own := g.Players[player].Board[r][c]
					if card.IsCharacter() {
						if !own.Occupied() || !own.FaceUp {
							actions = append(actions, Action{Type: ActionPlayOwn, Player: player, Card: card, Row: r, Col: c})
						}
						if own.Occupied() && own.FaceUp && own.Card.IsCharacter() {
							actions = append(actions, Action{Type: ActionSwap, Player: player, Card: card, Row: r, Col: c})
						}
					}
					for t := uint8(0); t < g.Rules.numPlayers(); t++ {
						if t == player {
							continue
						}
						rival := g.Players[t].Board[r][c]
						if !rival.Occupied() || !rival.FaceUp {
							actions = append(actions, Action{Type: ActionPlayRival, Player: player, Card: card, Target: t, Row: r, Col: c})
						}
					}
				}
			}
		}
		if !g.IsForcedToPlay() || !g.hasPlayableMove(player) {
			actions = append(actions, Action{Type: ActionPass, Player: player})
		}
	}

	return actions
}
