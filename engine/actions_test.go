package engine

import (
	"math/rand/v2"
	"testing"
)

// TestTurnPhaseSequence walks one full turn: draw, reveal, play, and the hand
// to the next player.
func TestTurnPhaseSequence(t *testing.T) {
	g := NewGame(42, DefaultRules())
	g.Deal()

	if err := g.Apply(Action{Type: ActionDraw, Player: 0}); err != nil {
		t.Fatalf("draw: %v", err)
	}
	if g.Phase != PhaseReveal {
		t.Fatalf("Phase after draw = %v, want %v", g.Phase, PhaseReveal)
	}
	if g.Players[0].HandLen != 1 {
		t.Fatalf("HandLen after draw = %d, want 1", g.Players[0].HandLen)
	}

	if err := g.Apply(Action{Type: ActionReveal, Player: 0, Row: 0, Col: 0}); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if g.Phase != PhaseAction {
		t.Fatalf("Phase after reveal = %v, want %v", g.Phase, PhaseAction)
	}

	if err := g.Apply(Action{Type: ActionPass, Player: 0}); err != nil {
		t.Fatalf("pass: %v", err)
	}
	if g.CurrentPlayer != 1 {
		t.Errorf("CurrentPlayer = %d, want 1", g.CurrentPlayer)
	}
	if g.Phase != PhaseStartTurn {
		t.Errorf("Phase = %v, want %v", g.Phase, PhaseStartTurn)
	}
	checkConservation(t, &g)
}

// TestOutOfTurnRejected verifies actions from the wrong player are no-ops.
func TestOutOfTurnRejected(t *testing.T) {
	g := NewGame(42, DefaultRules())
	g.Deal()

	next, err := Step(g, Action{Type: ActionDraw, Player: 1})
	if err == nil {
		t.Fatal("expected out-of-turn draw to be rejected")
	}
	if next != g {
		t.Error("state changed on out-of-turn rejection")
	}
}

// TestWrongPhaseRejected verifies each action is refused outside its phase.
func TestWrongPhaseRejected(t *testing.T) {
	g := NewGame(42, DefaultRules())
	g.Deal()

	// StartTurn phase: everything but draw is premature.
	for _, a := range []Action{
		{Type: ActionReveal, Player: 0},
		{Type: ActionPlayOwn, Player: 0},
		{Type: ActionPlayRival, Player: 0, Target: 1},
		{Type: ActionSwap, Player: 0},
		{Type: ActionPass, Player: 0},
	} {
		if next, err := Step(g, a); err == nil {
			t.Errorf("%v accepted during start-turn phase", a.Type)
		} else if next != g {
			t.Errorf("%v rejection changed state", a.Type)
		}
	}

	// A second draw inside the same turn is also refused.
	if err := g.Apply(Action{Type: ActionDraw, Player: 0}); err != nil {
		t.Fatalf("draw: %v", err)
	}
	if _, err := Step(g, Action{Type: ActionDraw, Player: 0}); err == nil {
		t.Error("second draw accepted during reveal phase")
	}
}

// TestUnknownActionRejected verifies an unrecognized action tag is a no-op.
func TestUnknownActionRejected(t *testing.T) {
	g := NewGame(42, DefaultRules())
	g.Deal()

	next, err := Step(g, Action{Type: ActionType(99), Player: 0})
	if err == nil {
		t.Fatal("expected unknown action to be rejected")
	}
	if next != g {
		t.Error("state changed on unknown action")
	}
}

// TestPlayOwn verifies placing a hand character face up on an own cell,
// discarding the face-down occupant.
func TestPlayOwn(t *testing.T) {
	g := bareGame()
	g.Players[0].Hand[0] = 19 // red 5
	g.Players[0].HandLen = 1
	g.Players[0].Board[1][1] = Cell{Card: 33}
	g.Phase = PhaseAction

	if err := g.Apply(Action{Type: ActionPlayOwn, Player: 0, Card: 19, Row: 1, Col: 1}); err != nil {
		t.Fatalf("playOwn: %v", err)
	}

	placed := g.Players[0].Board[1][1]
	if placed.Card != 19 || !placed.FaceUp {
		t.Errorf("cell = %+v, want card 19 face up", placed)
	}
	if g.Players[0].HandLen != 0 {
		t.Errorf("HandLen = %d, want 0", g.Players[0].HandLen)
	}
	if g.DiscardLen != 1 || g.Discard[0] != 33 {
		t.Errorf("discard = %v (len %d), want [33]", g.Discard[0], g.DiscardLen)
	}
	if got := g.ScoreOf(0); got != 5 {
		t.Errorf("score = %d, want 5", got)
	}
	if g.CurrentPlayer != 1 {
		t.Errorf("turn did not advance, CurrentPlayer = %d", g.CurrentPlayer)
	}
}

// TestPlayOwnRejections covers the guard set: bombs, face-up targets, and
// cards not actually held.
func TestPlayOwnRejections(t *testing.T) {
	g := bareGame()
	g.Players[0].Hand[0] = 80 // bomb
	g.Players[0].Hand[1] = 10
	g.Players[0].HandLen = 2
	g.Players[0].Board[0][0] = Cell{Card: 40, FaceUp: true}
	g.Phase = PhaseAction

	cases := []struct {
		name string
		act  Action
	}{
		{"bomb face up on own board", Action{Type: ActionPlayOwn, Player: 0, Card: 80, Row: 1, Col: 1}},
		{"target already face up", Action{Type: ActionPlayOwn, Player: 0, Card: 10, Row: 0, Col: 0}},
		{"card not in hand", Action{Type: ActionPlayOwn, Player: 0, Card: 55, Row: 1, Col: 1}},
		{"out of range", Action{Type: ActionPlayOwn, Player: 0, Card: 10, Row: 0, Col: 3}},
	}
	for _, tc := range cases {
		if next, err := Step(g, tc.act); err == nil {
			t.Errorf("%s: expected rejection", tc.name)
		} else if next != g {
			t.Errorf("%s: state changed on rejection", tc.name)
		}
	}
}

// TestPlayRival verifies any card, bombs included, can be planted face down
// on a rival's open cell.
func TestPlayRival(t *testing.T) {
	g := bareGame()
	g.Players[0].Hand[0] = 80 // a bomb for the neighbor
	g.Players[0].HandLen = 1
	g.Players[1].Board[2][0] = Cell{Card: 44}
	g.Phase = PhaseAction

	if err := g.Apply(Action{Type: ActionPlayRival, Player: 0, Card: 80, Target: 1, Row: 2, Col: 0}); err != nil {
		t.Fatalf("playRival: %v", err)
	}

	cell := g.Players[1].Board[2][0]
	if cell.Card != 80 || cell.FaceUp {
		t.Errorf("rival cell = %+v, want bomb 80 face down", cell)
	}
	if g.DiscardLen != 1 || g.Discard[0] != 44 {
		t.Errorf("displaced occupant not discarded")
	}
	if g.CurrentPlayer != 1 {
		t.Errorf("turn did not advance")
	}

	// Planting on yourself is not a thing.
	g2 := bareGame()
	g2.Players[0].Hand[0] = 80
	g2.Players[0].HandLen = 1
	g2.Phase = PhaseAction
	if _, err := Step(g2, Action{Type: ActionPlayRival, Player: 0, Card: 80, Target: 0, Row: 0, Col: 0}); err == nil {
		t.Error("playRival accepted self as target")
	}
}

// TestSwap verifies the hand/board character exchange keeps hand order and
// updates the score.
func TestSwap(t *testing.T) {
	g := bareGame()
	g.Players[0].Hand[0] = 2  // red 1
	g.Players[0].Hand[1] = 19 // red 5
	g.Players[0].Hand[2] = 6  // red 2
	g.Players[0].HandLen = 3
	g.Players[0].Board[0][1] = Cell{Card: 24, FaceUp: true} // blue 2
	g.Phase = PhaseAction

	if err := g.Apply(Action{Type: ActionSwap, Player: 0, Card: 19, Row: 0, Col: 1}); err != nil {
		t.Fatalf("swap: %v", err)
	}

	if cell := g.Players[0].Board[0][1]; cell.Card != 19 || !cell.FaceUp {
		t.Errorf("board cell = %+v, want 19 face up", cell)
	}
	if g.Players[0].Hand[1] != 24 {
		t.Errorf("board card did not take the hand slot: hand[1] = %d", g.Players[0].Hand[1])
	}
	if g.Players[0].HandLen != 3 {
		t.Errorf("HandLen = %d, want 3", g.Players[0].HandLen)
	}
	if got := g.ScoreOf(0); got != 5 {
		t.Errorf("score = %d, want 5", got)
	}
}

// TestSwapRejections verifies swap requires characters on both sides of the
// exchange and a face-up board card.
func TestSwapRejections(t *testing.T) {
	g := bareGame()
	g.Players[0].Hand[0] = 10
	g.Players[0].Hand[1] = 80
	g.Players[0].HandLen = 2
	g.Players[0].Board[0][0] = Cell{Card: 30} // face down
	g.Phase = PhaseAction

	cases := []struct {
		name string
		act  Action
	}{
		{"board card face down", Action{Type: ActionSwap, Player: 0, Card: 10, Row: 0, Col: 0}},
		{"empty cell", Action{Type: ActionSwap, Player: 0, Card: 10, Row: 1, Col: 1}},
		{"bomb from hand", Action{Type: ActionSwap, Player: 0, Card: 80, Row: 0, Col: 0}},
	}
	for _, tc := range cases {
		if next, err := Step(g, tc.act); err == nil {
			t.Errorf("%s: expected rejection", tc.name)
		} else if next != g {
			t.Errorf("%s: state changed on rejection", tc.name)
		}
	}
}

// TestForcedPlay verifies a full hand blocks passing until the player plays
// or swaps.
func TestForcedPlay(t *testing.T) {
	g := bareGame()
	for i := uint8(0); i < 4; i++ {
		g.Players[0].Hand[i] = Card(i * 4) // four characters
	}
	g.Players[0].HandLen = 4
	g.Players[0].Board[0][0] = Cell{Card: 70}
	pushDeck(&g, 71)

	if err := g.Apply(Action{Type: ActionDraw, Player: 0}); err != nil {
		t.Fatalf("draw: %v", err)
	}
	if !g.IsForcedToPlay() {
		t.Fatal("hand reached the limit but forced play is not set")
	}

	if err := g.Apply(Action{Type: ActionReveal, Player: 0, Row: 0, Col: 0}); err != nil {
		t.Fatalf("reveal: %v", err)
	}

	// Pass is refused while forced.
	if next, err := Step(g, Action{Type: ActionPass, Player: 0}); err == nil {
		t.Fatal("pass accepted despite forced play")
	} else if next != g {
		t.Fatal("state changed on forced-play rejection")
	}

	// Playing a card is the way out, and the flag clears with the turn.
	if err := g.Apply(Action{Type: ActionPlayOwn, Player: 0, Card: 0, Row: 1, Col: 1}); err != nil {
		t.Fatalf("playOwn: %v", err)
	}
	if g.IsForcedToPlay() {
		t.Error("forced play flag survived the turn change")
	}
}

// TestPassAllowedBelowLimit verifies passing works with a hand under the cap.
func TestPassAllowedBelowLimit(t *testing.T) {
	g := bareGame()
	g.Players[0].Board[0][0] = Cell{Card: 70}
	pushDeck(&g, 71)

	if err := g.Apply(Action{Type: ActionDraw, Player: 0}); err != nil {
		t.Fatalf("draw: %v", err)
	}
	if g.IsForcedToPlay() {
		t.Fatal("forced play set with a one-card hand")
	}
	if err := g.Apply(Action{Type: ActionReveal, Player: 0, Row: 0, Col: 0}); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if err := g.Apply(Action{Type: ActionPass, Player: 0}); err != nil {
		t.Errorf("pass rejected below the hand limit: %v", err)
	}
}

// TestFinalRoundCountdown reproduces the end-of-deck scenario: the deck
// empties on player 0's draw, every player gets exactly one more full turn,
// and the game ends when the counter hits zero.
func TestFinalRoundCountdown(t *testing.T) {
	g := bareGame()
	g.Players[0].Board[0][0] = Cell{Card: 1}
	g.Players[0].Board[0][2] = Cell{Card: 2}
	g.Players[1].Board[0][0] = Cell{Card: 21}
	pushDeck(&g, 40) // the last deck card

	fullTurn := func(p uint8, revealRow, revealCol uint8) {
		t.Helper()
		if err := g.Apply(Action{Type: ActionDraw, Player: p}); err != nil {
			t.Fatalf("player %d draw: %v", p, err)
		}
		if g.Phase == PhaseReveal {
			if err := g.Apply(Action{Type: ActionReveal, Player: p, Row: revealRow, Col: revealCol}); err != nil {
				t.Fatalf("player %d reveal: %v", p, err)
			}
		}
		if err := g.Apply(Action{Type: ActionPass, Player: p}); err != nil {
			t.Fatalf("player %d pass: %v", p, err)
		}
	}

	// Player 0 draws the last card; completing the turn arms the countdown.
	fullTurn(0, 0, 0)
	if g.DeckLen != 0 {
		t.Fatalf("DeckLen = %d, want 0", g.DeckLen)
	}
	if g.FinalTurns != 2 {
		t.Fatalf("FinalTurns = %d, want 2", g.FinalTurns)
	}
	if g.LastAction.Event != EvFinalRound {
		t.Errorf("Event = %v, want EvFinalRound", g.LastAction.Event)
	}
	if g.IsGameOver() {
		t.Fatal("game ended before the final round played out")
	}

	// Player 1's last turn: counter 2 → 1.
	fullTurn(1, 0, 0)
	if g.FinalTurns != 1 {
		t.Fatalf("FinalTurns = %d, want 1", g.FinalTurns)
	}
	if g.IsGameOver() {
		t.Fatal("game ended one turn early")
	}

	// Player 0's last turn: counter 1 → 0, game over.
	fullTurn(0, 0, 2)
	if g.FinalTurns != 0 {
		t.Fatalf("FinalTurns = %d, want 0", g.FinalTurns)
	}
	if !g.IsGameOver() {
		t.Fatal("game did not end when the countdown reached zero")
	}
	if g.Phase != PhaseGameOver {
		t.Errorf("Phase = %v, want %v", g.Phase, PhaseGameOver)
	}

	// Scores: player 0 revealed uids 1 and 2 (value 1 each), player 1 uid 21.
	if g.FinalScores[0] != 2 || g.FinalScores[1] != 1 {
		t.Errorf("FinalScores = %v, want [2 1 0 0]", g.FinalScores)
	}
	if g.Winner != 0 {
		t.Errorf("Winner = %d, want 0", g.Winner)
	}
}

// TestFinalRoundArmsOnlyOnce verifies the -1 sentinel guards the countdown
// against re-arming.
func TestFinalRoundArmsOnlyOnce(t *testing.T) {
	g := bareGame()
	g.FinalTurns = 2 // countdown already running, deck empty
	g.Phase = PhaseAction

	if err := g.Apply(Action{Type: ActionPass, Player: 0}); err != nil {
		t.Fatalf("pass: %v", err)
	}
	if g.FinalTurns != 1 {
		t.Errorf("FinalTurns = %d, want 1 (re-armed instead of decremented?)", g.FinalTurns)
	}
}

// TestTieDetection verifies equal top scores end with no winner.
func TestTieDetection(t *testing.T) {
	g := bareGame()
	g.Players[0].Board[0][0] = Cell{Card: 19, FaceUp: true} // red 5
	g.Players[1].Board[0][0] = Cell{Card: 39, FaceUp: true} // blue 5
	g.FinalTurns = 1
	g.Phase = PhaseAction

	if err := g.Apply(Action{Type: ActionPass, Player: 0}); err != nil {
		t.Fatalf("pass: %v", err)
	}

	if !g.IsGameOver() {
		t.Fatal("game did not end")
	}
	if !g.IsTie() {
		t.Errorf("Winner = %d, want a tie", g.Winner)
	}
	if g.FinalScores[0] != 5 || g.FinalScores[1] != 5 {
		t.Errorf("FinalScores = %v, want [5 5 0 0]", g.FinalScores)
	}
}

// TestTerminalActionsRejected verifies nothing is accepted after game over.
func TestTerminalActionsRejected(t *testing.T) {
	g := bareGame()
	g.FinalTurns = 1
	g.Phase = PhaseAction
	if err := g.Apply(Action{Type: ActionPass, Player: 0}); err != nil {
		t.Fatalf("pass: %v", err)
	}
	if !g.IsGameOver() {
		t.Fatal("game did not end")
	}

	for _, a := range []Action{
		{Type: ActionDraw, Player: 0},
		{Type: ActionReveal, Player: 0},
		{Type: ActionPass, Player: 0},
	} {
		if next, err := Step(g, a); err == nil {
			t.Errorf("%v accepted after game over", a.Type)
		} else if next != g {
			t.Errorf("%v rejection changed terminal state", a.Type)
		}
	}
}

// TestStepLeavesInputUntouched verifies the pure transition never mutates the
// caller's state.
func TestStepLeavesInputUntouched(t *testing.T) {
	g := NewGame(42, DefaultRules())
	g.Deal()
	before := g

	next, err := Step(g, Action{Type: ActionDraw, Player: 0})
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if g != before {
		t.Fatal("Step mutated its input state")
	}
	if next == before {
		t.Fatal("Step returned an unchanged state for an accepted action")
	}
}

// TestRandomPlayoutConservation plays whole games with uniformly random legal
// actions and checks the 88-card conservation invariant after every step.
func TestRandomPlayoutConservation(t *testing.T) {
	for _, players := range []uint8{2, 3, 4} {
		rng := rand.New(rand.NewPCG(7, uint64(players)))
		rules := DefaultRules()
		rules.NumPlayers = players

		g := NewGame(uint64(players)*1000+1, rules)
		g.Deal()
		checkConservation(t, &g)

		steps := 0
		for !g.IsTerminal() {
			legal := g.LegalActions()
			if len(legal) == 0 {
				t.Fatalf("%d players: no legal actions in non-terminal state (phase %v)", players, g.Phase)
			}
			a := legal[rng.IntN(len(legal))]
			if err := g.Apply(a); err != nil {
				t.Fatalf("%d players: legal action %+v rejected: %v", players, a, err)
			}
			checkConservation(t, &g)

			steps++
			if steps > 5000 {
				t.Fatalf("%d players: game did not terminate within 5000 steps", players)
			}
		}

		// Terminal bookkeeping is consistent.
		if g.Winner >= 0 && g.FinalScores[g.Winner] != maxScore(g.FinalScores[:g.NumActivePlayers()]) {
			t.Errorf("%d players: winner does not hold the top score", players)
		}
	}
}

func maxScore(scores []int16) int16 {
	best := scores[0]
	for _, s := range scores[1:] {
		if s > best {
			best = s
		}
	}
	return best
}
