package engine

// Rules holds configurable match settings.
type Rules struct {
	NumPlayers  uint8 // 2–4; 0 treated as 2
	MaxHandSize uint8 // hand size at or above which passing is disallowed; 0 treated as 5
}

// DefaultRules returns the standard two-player rules.
func DefaultRules() Rules {
	return Rules{
		NumPlayers:  2,
		MaxHandSize: 5,
	}
}

// numPlayers returns the effective number of players, treating 0 as 2.
func (r *Rules) numPlayers() uint8 {
	if r.NumPlayers == 0 {
		return 2
	}
	if r.NumPlayers > MaxPlayers {
		return MaxPlayers
	}
	return r.NumPlayers
}

// maxHandSize returns the effective forced-play threshold, treating 0 as 5.
func (r *Rules) maxHandSize() uint8 {
	if r.MaxHandSize == 0 {
		return 5
	}
	if r.MaxHandSize > HandCap-1 {
		return HandCap - 1
	}
	return r.MaxHandSize
}
