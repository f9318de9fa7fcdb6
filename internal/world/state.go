package world

// State tracks the PlayerState of every known player. Records are created
// empty at registration and survive offline transitions so a resumed
// session picks up where it left off.
//
// State carries no lock of its own: all access is serialized by the game
// hub, which guards the registry and the world as one consistency domain.
type State struct {
	players map[string]*PlayerState
}

func NewState() *State {
	return &State{players: make(map[string]*PlayerState)}
}

// Create registers an empty PlayerState for a newly issued player ID.
// No-op if the ID already has one (resume path).
func (s *State) Create(playerID string) {
	if _, ok := s.players[playerID]; !ok {
		s.players[playerID] = &PlayerState{}
	}
}

// Get returns the live record for a player, or nil if unknown.
func (s *State) Get(playerID string) *PlayerState {
	return s.players[playerID]
}

// ApplyUpdate merges the present fields of f into the player's stored
// state and returns copies of the state before and after. Unknown player
// IDs are a silent no-op — the dispatcher checks registry membership
// before calling.
func (s *State) ApplyUpdate(playerID string, f Fields) (prev, cur PlayerState, ok bool) {
	p := s.players[playerID]
	if p == nil {
		return PlayerState{}, PlayerState{}, false
	}
	prev = p.Clone()
	p.merge(f)
	return prev, p.Clone(), true
}

// Snapshot returns deep copies of the states for the given player IDs,
// skipping IDs with no record. The broadcast engine passes the registry's
// online set; offline players never appear in the result even though
// their records remain.
func (s *State) Snapshot(playerIDs []string) map[string]PlayerState {
	out := make(map[string]PlayerState, len(playerIDs))
	for _, id := range playerIDs {
		if p := s.players[id]; p != nil {
			out[id] = p.Clone()
		}
	}
	return out
}

// Count returns the number of known player records.
func (s *State) Count() int {
	return len(s.players)
}
