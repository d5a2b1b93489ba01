package engine

// Color constants for Character cards.
const (
	ColorRed    uint8 = 0
	ColorBlue   uint8 = 1
	ColorGreen  uint8 = 2
	ColorYellow uint8 = 3
)

// colorNames indexed by color constant.
var colorNames = [NumColors]string{"red", "blue", "green", "yellow"}

// ColorName returns the display name for a color constant.
func ColorName(color uint8) string {
	if color < NumColors {
		return colorNames[color]
	}
	return "?"
}

// Card is a packed uint8 uid in [0, DeckSize).
//
// Uids 0–79 are Character cards: color = uid/20, value = uid%20/4 + 1,
// so each of the 4 colors has values 1–5 in 4 copies. Uids 80–87 are Bombs.
// The uid is the card's identity for the whole match; it never changes and
// is never reused, so no id counter is needed.
type Card uint8

// EmptyCard represents the absence of a card (empty cell, failed draw).
const EmptyCard Card = 0xFF

// IsBomb reports whether the card is a Bomb.
func (c Card) IsBomb() bool { return c >= NumCharacters && c < DeckSize }

// IsCharacter reports whether the card is a Character card.
func (c Card) IsCharacter() bool { return c < NumCharacters }

// Color returns the color constant for a Character card.
// Bombs and EmptyCard have no color; the result is only meaningful for
// Character cards.
func (c Card) Color() uint8 {
	if !c.IsCharacter() {
		return 0xFF
	}
	return uint8(c) / (ValuesPerColor * CopiesPerValue)
}

// Value returns the point value of a Character card (1–5).
// Bombs and EmptyCard score 0.
func (c Card) Value() int8 {
	if !c.IsCharacter() {
		return 0
	}
	return int8(uint8(c)%(ValuesPerColor*CopiesPerValue))/CopiesPerValue + 1
}

// ---------------------------------------------------------------------------
// Cell and Board
// ---------------------------------------------------------------------------

// Cell is a single board slot: at most one card, face-up or face-down.
// An empty cell holds EmptyCard.
type Cell struct {
	Card   Card
	FaceUp bool
}

// Occupied reports whether the cell holds a card.
func (c Cell) Occupied() bool { return c.Card != EmptyCard }

// Board is one player's 3×3 grid.
type Board [BoardSize][BoardSize]Cell

// InBounds reports whether (row, col) addresses a valid cell.
func InBounds(row, col uint8) bool {
	return row < BoardSize && col < BoardSize
}

// ---------------------------------------------------------------------------
// Phase
// ---------------------------------------------------------------------------

// Phase is the turn-phase state machine position.
type Phase uint8

const (
	PhaseStartTurn Phase = iota // acting player must draw
	PhaseReveal                 // acting player must reveal a face-down board card
	PhaseAction                 // acting player must play, swap, or pass
	PhaseGameOver               // terminal
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseStartTurn:
		return "start_turn"
	case PhaseReveal:
		return "reveal"
	case PhaseAction:
		return "action"
	case PhaseGameOver:
		return "game_over"
	}
	return "unknown"
}

// ---------------------------------------------------------------------------
// Actions: closed tagged variant
// ---------------------------------------------------------------------------

// ActionType discriminates the Action variant.
type ActionType uint8

const (
	ActionDraw      ActionType = iota // StartTurn: pop one deck card into hand
	ActionReveal                      // Reveal: flip own face-down board card
	ActionPlayOwn                     // Action: place hand character face-up on own cell
	ActionPlayRival                   // Action: place any hand card face-down on rival cell
	ActionSwap                        // Action: exchange hand character with own face-up board character
	ActionPass                        // Action: end turn without playing
)

// String returns the action type name.
func (t ActionType) String() string {
	switch t {
	case ActionDraw:
		return "draw"
	case ActionReveal:
		return "reveal"
	case ActionPlayOwn:
		return "play_own"
	case ActionPlayRival:
		return "play_rival"
	case ActionSwap:
		return "swap"
	case ActionPass:
		return "pass"
	}
	return "unknown"
}

// Action is one fully self-describing player request. Fields beyond Type and
// Player are meaningful only for the variants that use them:
//
//	Draw      - no extra fields
//	Reveal    - Row, Col on the acting player's own board
//	PlayOwn   - Card (hand character uid), Row, Col on own board
//	PlayRival - Card (any hand uid), Target (rival index), Row, Col on rival board
//	Swap      - Card (hand character uid), Row, Col of own face-up board character
//	Pass      - no extra fields
type Action struct {
	Type   ActionType
	Player uint8
	Row    uint8
	Col    uint8
	Card   Card
	Target uint8
}

// ---------------------------------------------------------------------------
// LastActionInfo: presentation signals, no rules semantics
// ---------------------------------------------------------------------------

// EventCode summarizes what the last applied action did, for the
// presentation layer. It carries no authority; rendering derives everything
// else by diffing successive state snapshots.
type EventCode uint8

const (
	EvNone        EventCode = iota
	EvDrew                  // drew a card from the deck
	EvDrewEmpty             // draw step with an empty deck; no card gained
	EvRevealed              // revealed a character card
	EvExploded              // revealed a bomb; explosion resolved
	EvPlacedOwn             // placed a character on own board
	EvPlacedRival           // placed a card face-down on a rival board
	EvSwapped               // swapped a hand card with a board card
	EvPassed                // passed the action step
	EvFinalRound            // this turn started the end-of-deck countdown
	EvGameOver              // the game just ended
)

// LastActionInfo records a fully observable summary of the most recent
// accepted action. Transient UI state only; never consulted by the rules.
type LastActionInfo struct {
	Type         ActionType
	Event        EventCode
	ActingPlayer uint8
	RevealedCard Card   // card revealed or drawn, EmptyCard if none
	Row, Col     uint8  // cell the action targeted
	TargetPlayer uint8  // board owner for PlayRival, else the acting player
	Exploded     uint16 // bitmask of destroyed cells (bit row*BoardSize+col)
}
