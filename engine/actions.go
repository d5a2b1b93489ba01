package engine

import "fmt"

// Apply validates and applies an action in place. Returns an error for any
// rejected action; every guard is checked before the first mutation, so a
// non-nil error always means the state is unchanged. Rejection is the normal
// answer to stale or speculative input; callers surface the message as
// advisory text and carry on.
func (g *GameState) Apply(a Action) error {
	if g.IsGameOver() {
		return fmt.Errorf("game is already over")
	}
	if g.Flags&FlagGameStarted == 0 {
		return fmt.Errorf("game has not been dealt")
	}
	if a.Player >= g.Rules.numPlayers() {
		return fmt.Errorf("no such player %d", a.Player)
	}
	if a.Player != g.CurrentPlayer {
		return fmt.Errorf("not player %d's turn (current player %d)", a.Player, g.CurrentPlayer)
	}

	switch a.Type {
	case ActionDraw:
		return g.draw()
	case ActionReveal:
		return g.reveal(a.Row, a.Col)
	case ActionPlayOwn:
		return g.playOwn(a.Card, a.Row, a.Col)
	case ActionPlayRival:
		return g.playRival(a.Target, a.Card, a.Row, a.Col)
	case ActionSwap:
		return g.swap(a.Card, a.Row, a.Col)
	case ActionPass:
		return g.pass()
	default:
		return fmt.Errorf("unknown action type %d", a.Type)
	}
}

// Step applies an action to a copy of the state and returns the result.
// On rejection the original input state is returned unchanged alongside the
// error, so callers holding the previous value can always keep it.
func Step(g GameState, a Action) (GameState, error) {
	next := g
	if err := next.Apply(a); err != nil {
		return g, err
	}
	return next, nil
}

// ---------------------------------------------------------------------------
// Transitions
// ---------------------------------------------------------------------------

// draw moves the top deck card into the acting player's hand and enters the
// reveal phase. An empty deck skips the card but still advances the phase;
// the event code tells the two apart for messaging.
func (g *GameState) draw() error {
	if g.Phase != PhaseStartTurn {
		return fmt.Errorf("cannot draw during %s phase", g.Phase)
	}

	player := g.CurrentPlayer
	g.LastAction = LastActionInfo{
		Type:         ActionDraw,
		ActingPlayer: player,
		TargetPlayer: player,
		RevealedCard: EmptyCard,
		Event:        EvDrewEmpty,
	}
	// The hand array can fill up when a player is stuck passing with
	// unplayable cards; a draw then yields nothing, like an empty deck.
	if ps := &g.Players[player]; ps.HandLen < HandCap {
		if card, ok := g.drawCard(); ok {
			ps.Hand[ps.HandLen] = card
			ps.HandLen++
			g.LastAction.Event = EvDrew
			g.LastAction.RevealedCard = card
		}
	}

	if g.Players[player].HandLen >= g.Rules.maxHandSize() {
		g.Flags |= FlagForcedPlay
	}

	// A board with nothing left to reveal skips straight to the action step.
	g.Phase = PhaseReveal
	if !g.hasFaceDownCard(player) {
		g.Phase = PhaseAction
	}
	return nil
}

// hasFaceDownCard reports whether player has at least one face-down board card.
func (g *GameState) hasFaceDownCard(player uint8) bool {
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			cell := g.Players[player].Board[r][c]
			if cell.Occupied() && !cell.FaceUp {
				return true
			}
		}
	}
	return false
}

// reveal flips a face-down card on the acting player's own board. A bomb
// triggers the explosion cascade. Either way the action phase begins.
func (g *GameState) reveal(row, col uint8) error {
	if g.Phase != PhaseReveal {
		return fmt.Errorf("cannot reveal during %s phase", g.Phase)
	}
	if !InBounds(row, col) {
		return fmt.Errorf("cell (%d,%d) is out of range", row, col)
	}
	player := g.CurrentPlayer
	cell := g.Players[player].Board[row][col]
	if !cell.Occupied() {
		return fmt.Errorf("cell (%d,%d) is empty", row, col)
	}
	if cell.FaceUp {
		return fmt.Errorf("cell (%d,%d) is already face up", row, col)
	}

	g.Players[player].Board[row][col].FaceUp = true
	g.LastAction = LastActionInfo{
		Type:         ActionReveal,
		Event:        EvRevealed,
		ActingPlayer: player,
		TargetPlayer: player,
		RevealedCard: cell.Card,
		Row:          row,
		Col:          col,
	}

	if cell.Card.IsBomb() {
		g.LastAction.Event = EvExploded
		g.LastAction.Exploded = g.explode(player, row, col)
	}

	g.Phase = PhaseAction
	return nil
}

// playOwn places a hand character face-up on the acting player's own board.
// The target cell must be empty or hold a face-down card; any occupant is
// discarded.
func (g *GameState) playOwn(card Card, row, col uint8) error {
	if g.Phase != PhaseAction {
		return fmt.Errorf("cannot play during %s phase", g.Phase)
	}
	if !InBounds(row, col) {
		return fmt.Errorf("cell (%d,%d) is out of range", row, col)
	}
	if !card.IsCharacter() {
		return fmt.Errorf("only character cards can be played face up")
	}
	player := g.CurrentPlayer
	idx := g.HandIndex(player, card)
	if idx < 0 {
		return fmt.Errorf("card %d is not in player %d's hand", card, player)
	}
	cell := g.Players[player].Board[row][col]
	if cell.Occupied() && cell.FaceUp {
		return fmt.Errorf("cell (%d,%d) already holds a face-up card", row, col)
	}

	if cell.Occupied() {
		g.discardCard(cell.Card)
	}
	g.removeFromHand(player, idx)
	g.Players[player].Board[row][col] = Cell{Card: card, FaceUp: true}

	g.LastAction = LastActionInfo{
		Type:         ActionPlayOwn,
		Event:        EvPlacedOwn,
		ActingPlayer: player,
		TargetPlayer: player,
		RevealedCard: card,
		Row:          row,
		Col:          col,
	}
	g.advanceTurn()
	return nil
}

// playRival places any hand card face-down on a rival's board. The target
// cell must be empty or hold a face-down card; any occupant is discarded.
// Playing a bomb this way is the trap move; the rival finds it on reveal.
func (g *GameState) playRival(target uint8, card Card, row, col uint8) error {
	if g.Phase != PhaseAction {
		return fmt.Errorf("cannot play during %s phase", g.Phase)
	}
	if target >= g.Rules.numPlayers() || target == g.CurrentPlayer {
		return fmt.Errorf("invalid rival %d", target)
	}
	if !InBounds(row, col) {
		return fmt.Errorf("cell (%d,%d) is out of range", row, col)
	}
	player := g.CurrentPlayer
	idx := g.HandIndex(player, card)
	if idx < 0 {
		return fmt.Errorf("card %d is not in player %d's hand", card, player)
	}
	cell := g.Players[target].Board[row][col]
	if cell.Occupied() && cell.FaceUp {
		return fmt.Errorf("cell (%d,%d) already holds a face-up card", row, col)
	}

	if cell.Occupied() {
		g.discardCard(cell.Card)
	}
	g.removeFromHand(player, idx)
	g.Players[target].Board[row][col] = Cell{Card: card}

	g.LastAction = LastActionInfo{
		Type:         ActionPlayRival,
		Event:        EvPlacedRival,
		ActingPlayer: player,
		TargetPlayer: target,
		RevealedCard: EmptyCard, // face-down placement reveals nothing
		Row:          row,
		Col:          col,
	}
	g.advanceTurn()
	return nil
}

// swap exchanges a hand character with a face-up character on the acting
// player's own board. The board card takes the hand card's slot, so hand
// order is preserved for display.
func (g *GameState) swap(card Card, row, col uint8) error {
	if g.Phase != PhaseAction {
		return fmt.Errorf("cannot swap during %s phase", g.Phase)
	}
	if !InBounds(row, col) {
		return fmt.Errorf("cell (%d,%d) is out of range", row, col)
	}
	if !card.IsCharacter() {
		return fmt.Errorf("only character cards can be swapped in")
	}
	player := g.CurrentPlayer
	idx := g.HandIndex(player, card)
	if idx < 0 {
		return fmt.Errorf("card %d is not in player %d's hand", card, player)
	}
	cell := g.Players[player].Board[row][col]
	if !cell.Occupied() || !cell.FaceUp || !cell.Card.IsCharacter() {
		return fmt.Errorf("cell (%d,%d) does not hold a face-up character", row, col)
	}

	g.Players[player].Hand[idx] = cell.Card
	g.Players[player].Board[row][col] = Cell{Card: card, FaceUp: true}

	g.LastAction = LastActionInfo{
		Type:         ActionSwap,
		Event:        EvSwapped,
		ActingPlayer: player,
		TargetPlayer: player,
		RevealedCard: card,
		Row:          row,
		Col:          col,
	}
	g.advanceTurn()
	return nil
}

// pass ends the turn without a play. Disallowed while the hand is at or
// above the forced-play threshold, unless no play or swap is possible at all.
func (g *GameState) pass() error {
	if g.Phase != PhaseAction {
		return fmt.Errorf("cannot pass during %s phase", g.Phase)
	}
	if g.IsForcedToPlay() && g.hasPlayableMove(g.CurrentPlayer) {
		return fmt.Errorf("hand is full: you must play or swap a card")
	}

	g.LastAction = LastActionInfo{
		Type:         ActionPass,
		Event:        EvPassed,
		ActingPlayer: g.CurrentPlayer,
		TargetPlayer: g.CurrentPlayer,
		RevealedCard: EmptyCard,
	}
	g.advanceTurn()
	return nil
}

// hasPlayableMove reports whether player has any legal play or swap.
// Used to relax forced play when a pass is the only remaining move.
func (g *GameState) hasPlayableMove(player uint8) bool {
	ps := &g.Players[player]
	for i := uint8(0); i < ps.HandLen; i++ {
		card := ps.Hand[i]
		for r := uint8(0); r < BoardSize; r++ {
			for c := uint8(0); c < BoardSize; c++ {
				own := ps.Board[r][c]
				if card.IsCharacter() {
					if !own.Occupied() || !own.FaceUp {
						return true
					}
					if own.FaceUp && own.Card.IsCharacter() {
						return true
					}
				}
				for t := uint8(0); t < g.Rules.numPlayers(); t++ {
					if t == player {
						continue
					}
					rival := g.Players[t].Board[r][c]
					if !rival.Occupied() || !rival.FaceUp {
						return true
					}
				}
			}
		}
	}
	return false
}

// removeFromHand deletes the card at idx, shifting later cards down.
func (g *GameState) removeFromHand(player uint8, idx int) {
	ps := &g.Players[player]
	copy(ps.Hand[idx:], ps.Hand[idx+1:ps.HandLen])
	ps.HandLen--
	ps.Hand[ps.HandLen] = EmptyCard
}

// ---------------------------------------------------------------------------
// Turn advancement and game end
// ---------------------------------------------------------------------------

// advanceTurn completes the acting player's turn.
//
// An active countdown decrements first; hitting zero ends the game. Otherwise
// an exhausted deck starts the countdown exactly once (guarded by the -1
// sentinel) at one turn per player, so everyone gets one last full turn.
func (g *GameState) advanceTurn() {
	g.TurnNumber++

	if g.FinalTurns > 0 {
		g.FinalTurns--
		if g.FinalTurns == 0 {
			g.finishGame()
			return
		}
	} else if g.DeckLen == 0 && g.FinalTurns == -1 {
		g.FinalTurns = int8(g.Rules.numPlayers())
		g.LastAction.Event = EvFinalRound
	}

	g.CurrentPlayer = g.NextPlayer(g.CurrentPlayer)
	g.Phase = PhaseStartTurn
	g.Flags &^= FlagForcedPlay
}

// finishGame freezes final scores, resolves the winner, and enters the
// terminal phase. A non-unique maximum is always a tie (Winner stays -1);
// there is no first-found tiebreak.
func (g *GameState) finishGame() {
	scores := g.Scores()
	n := g.Rules.numPlayers()

	best := scores[0]
	winner := int8(0)
	unique := true
	for p := uint8(1); p < n; p++ {
		switch {
		case scores[p] > best:
			best = scores[p]
			winner = int8(p)
			unique = true
		case scores[p] == best:
			unique = false
		}
	}

	g.FinalScores = scores
	if unique {
		g.Winner = winner
	} else {
		g.Winner = -1
	}
	g.Phase = PhaseGameOver
	g.Flags |= FlagGameOver
	g.LastAction.Event = EvGameOver
}
