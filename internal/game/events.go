package game

import "github.com/google/uuid"

// EventType identifies a match event broadcast to observers.
type EventType string

// Event types pushed through the broadcast callbacks. "private_" events go to
// a single player; everything else is public.
const (
	EventPlayerDraw       EventType = "player_draw"        // Public: player drew a card (ID only).
	EventPrivateDraw      EventType = "private_draw"       // Private: details of the card drawn.
	EventDeckEmptyDraw    EventType = "deck_empty_draw"    // Public: draw step with an exhausted deck.
	EventPlayerReveal     EventType = "player_reveal"      // Public: board card flipped face up, details revealed.
	EventBoardExplosion   EventType = "board_explosion"    // Public: bomb revealed; includes destroyed cells.
	EventPlayerPlaceOwn   EventType = "player_place_own"   // Public: character placed face up on own board.
	EventPlayerPlaceRival EventType = "player_place_rival" // Public: card planted face down on a rival board (ID only).
	EventPlayerSwap       EventType = "player_swap"        // Public: hand/board character exchange.
	EventPlayerPass       EventType = "player_pass"        // Public: player passed.
	EventFinalRound       EventType = "game_final_round"   // Public: deck exhausted, countdown started.
	EventGameEnd          EventType = "game_end"           // Public: game over, includes results.
	EventActionRejected   EventType = "action_rejected"    // Private: advisory message for a rejected action.
	EventSyncState        EventType = "private_sync_state" // Private: full obfuscated state for one observer.
)

// EventUser identifies a player within an event payload.
type EventUser struct {
	ID uuid.UUID `json:"id"`
}

// EventCard identifies a card within an event payload, with details only when
// the event reveals them.
type EventCard struct {
	ID    uuid.UUID `json:"id"`
	Known bool      `json:"known"`
	Color string    `json:"color,omitempty"`
	Value int       `json:"value,omitempty"`
	Bomb  bool      `json:"bomb,omitempty"`
}

// EventCell addresses a board cell within an event payload.
type EventCell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Event is the structure delivered through the broadcast callbacks. The
// presentation layer derives animations and messages from these plus the
// state snapshots; nothing here feeds back into the rules.
type Event struct {
	Type    EventType   `json:"type"`
	User    *EventUser  `json:"user,omitempty"`    // Acting player.
	Target  *EventUser  `json:"target,omitempty"`  // Board owner, when not the actor.
	Card    *EventCard  `json:"card,omitempty"`    // Primary card involved.
	Cell    *EventCell  `json:"cell,omitempty"`    // Cell the action targeted.
	Cells   []EventCell `json:"cells,omitempty"`   // Cells destroyed by an explosion.
	Message string      `json:"message,omitempty"` // Advisory text (rejections, game end).

	State *ObfState `json:"state,omitempty"` // Full obfuscated state for sync events.
}
