package game

import (
	"github.com/google/uuid"

	"github.com/Dactires/boardbombers/engine"
)

// ObfCard is a card as one observer may see it. Face-down board cards and
// rival hands stay unknown; ids are stable so clients can animate moves.
type ObfCard struct {
	ID    uuid.UUID `json:"id"`
	Known bool      `json:"known"`
	Color string    `json:"color,omitempty"`
	Value int       `json:"value,omitempty"`
	Bomb  bool      `json:"bomb,omitempty"`
}

// ObfCell is one board slot in a snapshot.
type ObfCell struct {
	Card   *ObfCard `json:"card,omitempty"` // nil = empty cell
	FaceUp bool     `json:"faceUp"`
}

// ObfPlayer is one player's visible state.
type ObfPlayer struct {
	PlayerID      uuid.UUID `json:"playerId"`
	Name          string    `json:"name"`
	Score         int       `json:"score"`
	HandSize      int       `json:"handSize"`
	IsCurrentTurn bool      `json:"isCurrentTurn"`

	Board [engine.BoardSize][engine.BoardSize]ObfCell `json:"board"`

	// Hand is populated only for the requesting observer.
	Hand []ObfCard `json:"hand,omitempty"`
}

// ObfState is a full match snapshot tailored to one observer. Rendering works
// by diffing successive snapshots; the match never pushes rules decisions
// through it.
type ObfState struct {
	MatchID         uuid.UUID   `json:"matchId"`
	Phase           string      `json:"phase"`
	GameOver        bool        `json:"gameOver"`
	Tie             bool        `json:"tie"`
	WinnerID        uuid.UUID   `json:"winnerId,omitempty"`
	CurrentPlayerID uuid.UUID   `json:"currentPlayerId"`
	TurnNumber      int         `json:"turnNumber"`
	DeckSize        int         `json:"deckSize"`
	DiscardSize     int         `json:"discardSize"`
	FinalTurns      int         `json:"finalTurns"` // -1 until the countdown starts
	ForcedPlay      bool        `json:"forcedPlay"`
	FinalScores     []int       `json:"finalScores,omitempty"`
	Players         []ObfPlayer `json:"players"`
}

// StateFor builds the obfuscated snapshot for one observer. Unknown observer
// ids get the spectator view: no hand is revealed.
func (m *Match) StateFor(observerID uuid.UUID) ObfState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateForLocked(observerID)
}

func (m *Match) stateForLocked(observerID uuid.UUID) ObfState {
	g := &m.Engine
	st := ObfState{
		MatchID:         m.ID,
		Phase:           g.Phase.String(),
		GameOver:        g.IsGameOver(),
		Tie:             g.IsTie(),
		CurrentPlayerID: m.PlayerID(g.CurrentPlayer),
		TurnNumber:      int(g.TurnNumber),
		DeckSize:        int(g.DeckLen),
		DiscardSize:     int(g.DiscardLen),
		FinalTurns:      int(g.FinalTurns),
		ForcedPlay:      g.IsForcedToPlay(),
	}
	if g.IsGameOver() {
		if g.Winner >= 0 {
			st.WinnerID = m.PlayerID(uint8(g.Winner))
		}
		st.FinalScores = make([]int, len(m.Players))
		for i := range m.Players {
			st.FinalScores[i] = int(g.FinalScores[i])
		}
	}

	scores := g.Scores()
	for i := range m.Players {
		p := uint8(i)
		op := ObfPlayer{
			PlayerID:      m.Players[i].ID,
			Name:          m.Players[i].Name,
			Score:         int(scores[p]),
			HandSize:      int(g.Players[p].HandLen),
			IsCurrentTurn: !g.IsGameOver() && g.CurrentPlayer == p,
		}

		for r := 0; r < engine.BoardSize; r++ {
			for c := 0; c < engine.BoardSize; c++ {
				cell := g.Players[p].Board[r][c]
				if !cell.Occupied() {
					continue
				}
				op.Board[r][c] = ObfCell{
					Card:   m.obfCard(cell.Card, cell.FaceUp),
					FaceUp: cell.FaceUp,
				}
			}
		}

		if m.Players[i].ID == observerID {
			op.Hand = make([]ObfCard, g.Players[p].HandLen)
			for h := uint8(0); h < g.Players[p].HandLen; h++ {
				op.Hand[h] = *m.obfCard(g.Players[p].Hand[h], true)
			}
		}

		st.Players = append(st.Players, op)
	}
	return st
}

// obfCard renders a card payload, revealing details only when known.
func (m *Match) obfCard(c engine.Card, known bool) *ObfCard {
	oc := &ObfCard{ID: m.CardID(c), Known: known}
	if known {
		oc.Bomb = c.IsBomb()
		if c.IsCharacter() {
			oc.Color = engine.ColorName(c.Color())
			oc.Value = int(c.Value())
		}
	}
	return oc
}
