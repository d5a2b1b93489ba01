// Package engine implements the Board Bombers rules.
//
// The package is a pure, synchronous state machine: no goroutines, no I/O,
// no globals. GameState is a flat value type (fixed-size arrays, no pointers)
// so a whole game can be copied by assignment; callers that need the
// immutable-update pattern use Step, which never touches its input.
package engine

const (
	// Board geometry.
	BoardSize = 3

	// Deck composition: 4 colors × 5 values × 4 copies + 8 bombs.
	NumColors      = 4
	ValuesPerColor = 5
	CopiesPerValue = 4
	NumCharacters  = NumColors * ValuesPerColor * CopiesPerValue // 80
	NumBombs       = 8
	DeckSize       = NumCharacters + NumBombs // 88

	// Player limits. HandCap is the hand array capacity; the playable limit
	// is Rules.MaxHandSize (a draw can push the hand one past it, after
	// which play or swap is forced).
	MaxPlayers = 4
	HandCap    = 8
)

// PlayerState holds one player's hand and board.
type PlayerState struct {
	Hand    [HandCap]Card
	HandLen uint8
	Board   Board
}

// GameState holds the complete, self-contained state of one match.
type GameState struct {
	Players       [MaxPlayers]PlayerState
	Deck          [DeckSize]Card
	DeckLen       uint8
	Discard       [DeckSize]Card
	DiscardLen    uint8
	CurrentPlayer uint8
	Phase         Phase
	Flags         uint16
	FinalTurns    int8 // -1 until the deck first empties, then turns remaining
	Winner        int8 // -1 = no winner yet, or a tie once the game is over
	FinalScores   [MaxPlayers]int16
	TurnNumber    uint16
	LastAction    LastActionInfo
	RNG           uint64
	Rules         Rules
}

// ---------------------------------------------------------------------------
// Flags bitfield
// ---------------------------------------------------------------------------

const (
	FlagGameOver    uint16 = 1 << 0
	FlagGameStarted uint16 = 1 << 1
	FlagForcedPlay  uint16 = 1 << 2 // acting player may not pass this turn
)

func (g *GameState) IsGameOver() bool     { return g.Flags&FlagGameOver != 0 }
func (g *GameState) IsForcedToPlay() bool { return g.Flags&FlagForcedPlay != 0 }

// IsTie reports whether the game ended with no unique highest score.
func (g *GameState) IsTie() bool { return g.IsGameOver() && g.Winner < 0 }

// ---------------------------------------------------------------------------
// xorshift64 RNG, inline, no interface
// ---------------------------------------------------------------------------

func (g *GameState) nextRand() uint64 {
	x := g.RNG
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	g.RNG = x
	return x
}

// randN returns a random number in [0, n).
func (g *GameState) randN(n uint64) uint64 {
	return g.nextRand() % n
}

// ---------------------------------------------------------------------------
// NewGame and Deal
// ---------------------------------------------------------------------------

// NewGame initializes a new GameState with the given seed and rules.
// The deck is built in uid order but not yet shuffled or dealt.
func NewGame(seed uint64, rules Rules) GameState {
	var g GameState
	g.RNG = seed
	if g.RNG == 0 {
		g.RNG = 1 // xorshift can't start at 0
	}
	g.Rules = rules
	g.FinalTurns = -1
	g.Winner = -1
	g.LastAction.RevealedCard = EmptyCard

	for i := 0; i < DeckSize; i++ {
		g.Deck[i] = Card(i)
	}
	g.DeckLen = DeckSize

	// Empty every cell up front so unoccupied slots are unambiguous.
	for p := range g.Players {
		for r := 0; r < BoardSize; r++ {
			for c := 0; c < BoardSize; c++ {
				g.Players[p].Board[r][c] = Cell{Card: EmptyCard}
			}
		}
	}
	return g
}

// Deal shuffles the deck and fills every active player's board face-down.
// Player 0 always starts, in the start-turn phase.
func (g *GameState) Deal() {
	// Fisher-Yates shuffle.
	for i := int(g.DeckLen) - 1; i > 0; i-- {
		j := int(g.randN(uint64(i + 1)))
		g.Deck[i], g.Deck[j] = g.Deck[j], g.Deck[i]
	}

	n := g.Rules.numPlayers()
	for p := uint8(0); p < n; p++ {
		for r := 0; r < BoardSize; r++ {
			for c := 0; c < BoardSize; c++ {
				card, _ := g.drawCard()
				g.Players[p].Board[r][c] = Cell{Card: card}
			}
		}
	}

	g.CurrentPlayer = 0
	g.Phase = PhaseStartTurn
	g.Flags |= FlagGameStarted
}

// drawCard pops the top deck card. An empty deck yields (EmptyCard, false);
// a normal alternate path, not a failure.
func (g *GameState) drawCard() (Card, bool) {
	if g.DeckLen == 0 {
		return EmptyCard, false
	}
	g.DeckLen--
	return g.Deck[g.DeckLen], true
}

// ---------------------------------------------------------------------------
// Query methods
// ---------------------------------------------------------------------------

// IsTerminal returns true when the game is over.
func (g *GameState) IsTerminal() bool { return g.Flags&FlagGameOver != 0 }

// NumActivePlayers returns the number of active players in this game.
func (g *GameState) NumActivePlayers() uint8 { return g.Rules.numPlayers() }

// NextPlayer returns the next player after current in turn order.
func (g *GameState) NextPlayer(current uint8) uint8 {
	return (current + 1) % g.Rules.numPlayers()
}

// HandIndex returns the position of card in player's hand, or -1.
func (g *GameState) HandIndex(player uint8, card Card) int {
	for i := uint8(0); i < g.Players[player].HandLen; i++ {
		if g.Players[player].Hand[i] == card {
			return int(i)
		}
	}
	return -1
}

// CellAt returns the cell at (row, col) on player's board.
func (g *GameState) CellAt(player, row, col uint8) Cell {
	return g.Players[player].Board[row][col]
}

// ---------------------------------------------------------------------------
// Snapshot Undo (Save / Restore)
// ---------------------------------------------------------------------------

// Snapshot is a complete value-copy of GameState for undo support.
// No heap allocation, saving and restoring are plain struct copies.
type Snapshot GameState

// Save returns a snapshot of the current game state.
func (g *GameState) Save() Snapshot { return Snapshot(*g) }

// Restore replaces the game state with the given snapshot.
func (g *GameState) Restore(s Snapshot) { *g = GameState(s) }
