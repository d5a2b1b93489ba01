// Package flavor defines the score-explanation collaborator contract. The
// real explainer is an external text-generation service; its output is purely
// advisory and a failure must never block or alter gameplay, so every caller
// goes through Describe, which degrades to a neutral placeholder.
package flavor

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Dactires/boardbombers/engine"
)

// NeutralExplanation is shown whenever the explainer is missing or fails.
const NeutralExplanation = "The board shifts, and the score with it."

// Explanation is the collaborator's answer for one player's position.
type Explanation struct {
	ScoreChange int    `json:"scoreChange"`
	Explanation string `json:"explanation"`
}

// Explainer turns a board snapshot into a short narration of the player's
// score movement. Implementations may be remote and slow; callers pass a
// context and must tolerate errors.
type Explainer interface {
	Explain(ctx context.Context, g *engine.GameState, player uint8) (Explanation, error)
}

// Describe calls e and falls back to the neutral placeholder on any failure,
// logging at warn level. A nil Explainer is a valid "no service configured"
// state.
func Describe(ctx context.Context, e Explainer, g *engine.GameState, player uint8) Explanation {
	if e == nil {
		return Explanation{Explanation: NeutralExplanation}
	}
	ex, err := e.Explain(ctx, g, player)
	if err != nil {
		logrus.WithError(err).WithField("player", player).Warn("flavor explainer failed; using placeholder")
		return Explanation{Explanation: NeutralExplanation}
	}
	return ex
}

// Local is a deterministic offline explainer used by the CLI: it narrates the
// last action from the state itself, no external service involved.
type Local struct{}

// Explain implements Explainer.
func (Local) Explain(_ context.Context, g *engine.GameState, player uint8) (Explanation, error) {
	la := g.LastAction
	score := int(g.ScoreOf(player))

	if la.ActingPlayer != player && la.TargetPlayer != player {
		return Explanation{Explanation: "Nothing changed on this board."}, nil
	}

	switch la.Event {
	case engine.EvRevealed:
		c := la.RevealedCard
		return Explanation{
			ScoreChange: int(c.Value()),
			Explanation: fmt.Sprintf("A %s %d steps into the light; the board now counts %d.",
				engine.ColorName(c.Color()), c.Value(), score),
		}, nil
	case engine.EvExploded:
		return Explanation{
			Explanation: fmt.Sprintf("A bomb tears through the grid, leaving %d points standing.", score),
		}, nil
	case engine.EvPlacedOwn:
		c := la.RevealedCard
		return Explanation{
			ScoreChange: int(c.Value()),
			Explanation: fmt.Sprintf("A %s %d takes its place, lifting the board to %d.",
				engine.ColorName(c.Color()), c.Value(), score),
		}, nil
	case engine.EvSwapped:
		return Explanation{
			Explanation: fmt.Sprintf("One champion trades places with another; the board counts %d.", score),
		}, nil
	case engine.EvPlacedRival:
		return Explanation{Explanation: "Something face-down arrives from across the table."}, nil
	}
	return Explanation{Explanation: NeutralExplanation}, nil
}
