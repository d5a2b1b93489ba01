// Package game adapts the pure rules engine to match-level concerns: stable
// player and card identities, event broadcasting, and per-observer state
// snapshots. It owns no rules of its own; the engine state is authoritative
// and every decision is delegated to it.
package game

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Dactires/boardbombers/engine"
)

// PlayerInfo couples a stable external identity with a display name.
type PlayerInfo struct {
	ID   uuid.UUID
	Name string
}

// ClientAction is the JSON-shaped action a client (human UI or AI policy,
// the match does not care which) submits. Fields beyond Type are read only by
// the variants that need them.
type ClientAction struct {
	Type   string    `json:"type"`
	Row    int       `json:"row"`
	Col    int       `json:"col"`
	CardID uuid.UUID `json:"cardId"`
	Target uuid.UUID `json:"target"`
}

// OnGameEndFunc runs when the match finishes. Winner is uuid.Nil for a tie.
type OnGameEndFunc func(matchID uuid.UUID, winner uuid.UUID, scores map[uuid.UUID]int)

// Match is one running game: the engine state plus identity mapping and
// communication callbacks. All methods are safe for concurrent use; the
// engine itself is only ever touched under mu, one action at a time.
type Match struct {
	ID      uuid.UUID
	Players []PlayerInfo

	Engine engine.GameState

	mu        sync.Mutex
	playerIdx map[uuid.UUID]uint8
	cardIDs   [engine.DeckSize]uuid.UUID // engine uid → external id, fixed for the match
	cardByID  map[uuid.UUID]engine.Card

	log *logrus.Entry

	// Communication callbacks. Nil callbacks are skipped.
	BroadcastFn         func(ev Event)
	BroadcastToPlayerFn func(playerID uuid.UUID, ev Event)
	OnGameEnd           OnGameEndFunc
}

// NewMatch deals a fresh match for the given players. The player count must
// fit rules.NumPlayers; order is turn order.
func NewMatch(players []PlayerInfo, rules engine.Rules, seed uint64) (*Match, error) {
	if rules.NumPlayers == 0 {
		rules.NumPlayers = uint8(len(players))
	}
	if len(players) < 2 || len(players) > engine.MaxPlayers {
		return nil, fmt.Errorf("player count %d out of range [2,%d]", len(players), engine.MaxPlayers)
	}
	if int(rules.NumPlayers) != len(players) {
		return nil, fmt.Errorf("rules expect %d players, got %d", rules.NumPlayers, len(players))
	}

	m := &Match{
		ID:        uuid.New(),
		Players:   players,
		Engine:    engine.NewGame(seed, rules),
		playerIdx: make(map[uuid.UUID]uint8, len(players)),
		cardByID:  make(map[uuid.UUID]engine.Card, engine.DeckSize),
	}
	for i, p := range players {
		if _, dup := m.playerIdx[p.ID]; dup {
			return nil, fmt.Errorf("duplicate player id %s", p.ID)
		}
		m.playerIdx[p.ID] = uint8(i)
	}
	for uid := 0; uid < engine.DeckSize; uid++ {
		id := uuid.New()
		m.cardIDs[uid] = id
		m.cardByID[id] = engine.Card(uid)
	}

	m.Engine.Deal()
	m.log = logrus.WithFields(logrus.Fields{
		"match":   m.ID,
		"players": len(players),
	})
	m.log.Info("match dealt")
	return m, nil
}

// PlayerID returns the external id for an engine player index.
func (m *Match) PlayerID(idx uint8) uuid.UUID {
	if int(idx) >= len(m.Players) {
		return uuid.Nil
	}
	return m.Players[idx].ID
}

// CardID returns the stable external id for an engine card.
func (m *Match) CardID(c engine.Card) uuid.UUID {
	if c >= engine.DeckSize {
		return uuid.Nil
	}
	return m.cardIDs[c]
}

// toEngineAction translates a client action. Unknown types and unknown card
// or player references come back as errors, which ProcessAction surfaces as
// ordinary rejections.
func (m *Match) toEngineAction(player uint8, ca ClientAction) (engine.Action, error) {
	a := engine.Action{Player: player, Row: uint8(ca.Row), Col: uint8(ca.Col), Card: engine.EmptyCard}
	if ca.Row < 0 || ca.Col < 0 || ca.Row >= engine.BoardSize || ca.Col >= engine.BoardSize {
		// Clamp into the rejection path rather than truncating the cast.
		a.Row, a.Col = engine.BoardSize, engine.BoardSize
	}

	switch ca.Type {
	case "draw":
		a.Type = engine.ActionDraw
	case "reveal":
		a.Type = engine.ActionReveal
	case "play_own", "play_rival", "swap":
		card, ok := m.cardByID[ca.CardID]
		if !ok {
			return a, fmt.Errorf("unknown card id %s", ca.CardID)
		}
		a.Card = card
		switch ca.Type {
		case "play_own":
			a.Type = engine.ActionPlayOwn
		case "swap":
			a.Type = engine.ActionSwap
		default:
			a.Type = engine.ActionPlayRival
			target, ok := m.playerIdx[ca.Target]
			if !ok {
				return a, fmt.Errorf("unknown rival id %s", ca.Target)
			}
			a.Target = target
		}
	case "pass":
		a.Type = engine.ActionPass
	default:
		return a, fmt.Errorf("unknown action type %q", ca.Type)
	}
	return a, nil
}

// ToClientAction phrases an engine action the way a client would submit it.
// Used by local drivers (the CLI, AI policies) that pick actions straight
// from the engine.
func (m *Match) ToClientAction(a engine.Action) ClientAction {
	ca := ClientAction{Row: int(a.Row), Col: int(a.Col)}
	switch a.Type {
	case engine.ActionDraw:
		ca.Type = "draw"
	case engine.ActionReveal:
		ca.Type = "reveal"
	case engine.ActionPlayOwn:
		ca.Type = "play_own"
		ca.CardID = m.CardID(a.Card)
	case engine.ActionPlayRival:
		ca.Type = "play_rival"
		ca.CardID = m.CardID(a.Card)
		ca.Target = m.PlayerID(a.Target)
	case engine.ActionSwap:
		ca.Type = "swap"
		ca.CardID = m.CardID(a.Card)
	case engine.ActionPass:
		ca.Type = "pass"
	}
	return ca
}

// ProcessAction applies one client action. Rejections leave the match
// untouched and are reported back to the submitting player as advisory
// messages; stale or speculative input is expected, not exceptional.
func (m *Match) ProcessAction(playerID uuid.UUID, ca ClientAction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, ok := m.playerIdx[playerID]
	if !ok {
		err := fmt.Errorf("unknown player %s", playerID)
		m.rejectLocked(playerID, ca, err)
		return err
	}

	action, err := m.toEngineAction(idx, ca)
	if err != nil {
		m.rejectLocked(playerID, ca, err)
		return err
	}

	if err := m.Engine.Apply(action); err != nil {
		m.rejectLocked(playerID, ca, err)
		return err
	}

	m.log.WithFields(logrus.Fields{
		"player": playerID,
		"action": ca.Type,
		"turn":   m.Engine.TurnNumber,
	}).Debug("action applied")

	m.emitLocked(playerID)
	return nil
}

// rejectLocked notifies the submitting player that their action was ignored.
func (m *Match) rejectLocked(playerID uuid.UUID, ca ClientAction, err error) {
	m.log.WithFields(logrus.Fields{
		"player": playerID,
		"action": ca.Type,
	}).WithError(err).Debug("action rejected")

	m.sendTo(playerID, Event{
		Type:    EventActionRejected,
		User:    &EventUser{ID: playerID},
		Message: err.Error(),
	})
}

// emitLocked broadcasts the events for the last accepted action.
func (m *Match) emitLocked(actorID uuid.UUID) {
	la := m.Engine.LastAction
	actor := &EventUser{ID: actorID}

	switch la.Event {
	case engine.EvDrew:
		m.send(Event{Type: EventPlayerDraw, User: actor,
			Card: &EventCard{ID: m.CardID(la.RevealedCard)}})
		m.sendTo(actorID, Event{Type: EventPrivateDraw, User: actor,
			Card: m.knownCard(la.RevealedCard)})
	case engine.EvDrewEmpty:
		m.send(Event{Type: EventDeckEmptyDraw, User: actor,
			Message: "the deck is empty; no card drawn"})
	case engine.EvRevealed:
		m.send(Event{Type: EventPlayerReveal, User: actor,
			Card: m.knownCard(la.RevealedCard),
			Cell: &EventCell{Row: int(la.Row), Col: int(la.Col)}})
	case engine.EvExploded:
		m.send(Event{Type: EventBoardExplosion, User: actor,
			Card:  m.knownCard(la.RevealedCard),
			Cell:  &EventCell{Row: int(la.Row), Col: int(la.Col)},
			Cells: maskCells(la.Exploded)})
	case engine.EvPlacedOwn:
		m.send(Event{Type: EventPlayerPlaceOwn, User: actor,
			Card: m.knownCard(la.RevealedCard),
			Cell: &EventCell{Row: int(la.Row), Col: int(la.Col)}})
	case engine.EvPlacedRival:
		m.send(Event{Type: EventPlayerPlaceRival, User: actor,
			Target: &EventUser{ID: m.PlayerID(la.TargetPlayer)},
			Cell:   &EventCell{Row: int(la.Row), Col: int(la.Col)}})
	case engine.EvSwapped:
		m.send(Event{Type: EventPlayerSwap, User: actor,
			Card: m.knownCard(la.RevealedCard),
			Cell: &EventCell{Row: int(la.Row), Col: int(la.Col)}})
	case engine.EvPassed:
		m.send(Event{Type: EventPlayerPass, User: actor})
	case engine.EvFinalRound:
		m.send(Event{Type: EventFinalRound,
			Message: "the deck is exhausted: one last turn for everyone"})
	}

	if m.Engine.IsGameOver() {
		m.finishLocked()
	}
}

// finishLocked broadcasts the result and fires OnGameEnd.
func (m *Match) finishLocked() {
	winner := uuid.Nil
	msg := "the game ends in a tie"
	if m.Engine.Winner >= 0 {
		winner = m.PlayerID(uint8(m.Engine.Winner))
		msg = fmt.Sprintf("%s wins", m.Players[m.Engine.Winner].Name)
	}

	scores := make(map[uuid.UUID]int, len(m.Players))
	for i := range m.Players {
		scores[m.Players[i].ID] = int(m.Engine.FinalScores[i])
	}

	m.send(Event{Type: EventGameEnd, Message: msg})
	m.log.WithFields(logrus.Fields{"winner": winner, "tie": m.Engine.IsTie()}).Info("match finished")

	if m.OnGameEnd != nil {
		m.OnGameEnd(m.ID, winner, scores)
	}
}

// knownCard builds a fully revealed card payload.
func (m *Match) knownCard(c engine.Card) *EventCard {
	if c == engine.EmptyCard {
		return nil
	}
	ec := &EventCard{ID: m.CardID(c), Known: true, Bomb: c.IsBomb()}
	if c.IsCharacter() {
		ec.Color = engine.ColorName(c.Color())
		ec.Value = int(c.Value())
	}
	return ec
}

// maskCells expands an explosion bitmask into cell coordinates.
func maskCells(mask uint16) []EventCell {
	var cells []EventCell
	for r := 0; r < engine.BoardSize; r++ {
		for c := 0; c < engine.BoardSize; c++ {
			if mask&(1<<(r*engine.BoardSize+c)) != 0 {
				cells = append(cells, EventCell{Row: r, Col: c})
			}
		}
	}
	return cells
}

func (m *Match) send(ev Event) {
	if m.BroadcastFn != nil {
		m.BroadcastFn(ev)
	}
}

func (m *Match) sendTo(playerID uuid.UUID, ev Event) {
	if m.BroadcastToPlayerFn != nil {
		m.BroadcastToPlayerFn(playerID, ev)
	}
}
