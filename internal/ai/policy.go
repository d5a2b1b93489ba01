// Package ai provides opponent policies. A policy consumes the same state
// snapshot a human player sees and produces ordinary actions; the engine
// cannot tell the two apart.
package ai

import (
	"math/rand/v2"

	"github.com/Dactires/boardbombers/engine"
)

// Policy picks one action for the acting player. Implementations must only
// return actions the engine will accept.
type Policy interface {
	Choose(g *engine.GameState) (engine.Action, bool)
}

// Random plays uniformly random legal actions. Useful as a baseline and for
// soak-testing the engine.
type Random struct {
	rng *rand.Rand
}

// NewRandom returns a seeded random policy.
func NewRandom(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Choose implements Policy.
func (p *Random) Choose(g *engine.GameState) (engine.Action, bool) {
	legal := g.LegalActions()
	if len(legal) == 0 {
		return engine.Action{}, false
	}
	return legal[p.rng.IntN(len(legal))], true
}

// Greedy is a tiered heuristic policy: forced moves first, then a one-step
// evaluation of each candidate, then a seeded-random tie break. It never
// peeks at hidden information; reveals are judged by blast exposure, not by
// the card underneath.
type Greedy struct {
	rng *rand.Rand
}

// NewGreedy returns a seeded greedy policy. The same seed against the same
// state sequence reproduces the same game.
func NewGreedy(seed uint64) *Greedy {
	return &Greedy{rng: rand.New(rand.NewPCG(seed, seed^0xda3e39cb94b95bdb))}
}

// Choose implements Policy.
func (p *Greedy) Choose(g *engine.GameState) (engine.Action, bool) {
	legal := g.LegalActions()
	if len(legal) == 0 {
		return engine.Action{}, false
	}
	if len(legal) == 1 {
		return legal[0], true
	}

	best := []engine.Action{legal[0]}
	bestScore := p.evaluate(g, legal[0])
	for _, a := range legal[1:] {
		s := p.evaluate(g, a)
		switch {
		case s > bestScore:
			bestScore = s
			best = best[:1]
			best[0] = a
		case s == bestScore:
			best = append(best, a)
		}
	}
	return best[p.rng.IntN(len(best))], true
}

// evaluate scores a candidate action from the acting player's perspective.
// Larger is better.
func (p *Greedy) evaluate(g *engine.GameState, a engine.Action) float64 {
	me := a.Player
	switch a.Type {
	case engine.ActionDraw:
		return 0 // only option in its phase

	case engine.ActionReveal:
		// A bomb would wipe the revealed cell's face-up orthogonal
		// neighbors, so flip where a blast costs the least.
		return -float64(exposure(&g.Players[me].Board, a.Row, a.Col))

	case engine.ActionPlayOwn:
		gain := float64(a.Card.Value())
		if g.Players[me].Board[a.Row][a.Col].Occupied() {
			gain -= 0.25 // burying an unknown card has a small cost
		}
		return gain

	case engine.ActionSwap:
		board := g.Players[me].Board[a.Row][a.Col].Card
		return float64(a.Card.Value()) - float64(board.Value())

	case engine.ActionPlayRival:
		if a.Card.IsBomb() {
			// Plant bombs where the rival has revealed the most value.
			return 1.5 + 0.5*float64(exposure(&g.Players[a.Target].Board, a.Row, a.Col))
		}
		// Handing a character to a rival: only ever worthwhile for junk.
		return 0.75 - 0.5*float64(a.Card.Value())

	case engine.ActionPass:
		// Passing hoards cards; discourage it near the forced-play limit.
		if g.Players[me].HandLen+1 >= g.Rules.MaxHandSize {
			return -1
		}
		return 0.25
	}
	return 0
}

// exposure sums the values of face-up characters orthogonally adjacent to
// (row, col): what an explosion centered there would destroy.
func exposure(b *engine.Board, row, col uint8) int {
	total := 0
	for _, d := range [4][2]int8{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		r := int8(row) + d[0]
		c := int8(col) + d[1]
		if r < 0 || r >= engine.BoardSize || c < 0 || c >= engine.BoardSize {
			continue
		}
		cell := b[r][c]
		if cell.Occupied() && cell.FaceUp && cell.Card.IsCharacter() {
			total += int(cell.Card.Value())
		}
	}
	return total
}
