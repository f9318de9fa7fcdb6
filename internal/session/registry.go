// Package session tracks who is connected: player identity, current
// network address, liveness, and the display-name index.
package session

import (
	"fmt"
	"net/netip"
	"time"

	"github.com/google/uuid"
)

// Session is the liveness/address record for one player identifier.
// Exactly one Session exists per known identifier; it is never removed,
// only flipped offline by the reaper.
type Session struct {
	PlayerID     string
	Username     string
	Addr         netip.AddrPort // most recent sender address, kept while offline
	Online       bool
	LastActivity time.Time
}

// RegisterOutcome classifies the result of a register operation.
type RegisterOutcome int

const (
	Created RegisterOutcome = iota
	Resumed
	ResumedFromStore
	NameConflict
)

// Registry maps player identifier ↔ address ↔ display name ↔ liveness.
// It owns display-name uniqueness: byName and byID are mutated together
// and must never be observed out of step, which is why the registry has
// no internal lock — the game hub serializes all access along with the
// world state.
type Registry struct {
	byID   map[string]*Session
	byName map[string]string // display name → player ID
	stored map[string]string // persisted player ID → display name, seeded at boot
}

// NewRegistry creates a registry seeded with the identity mapping loaded
// from the persistence gateway at startup. stored may be nil.
func NewRegistry(stored map[string]string) *Registry {
	r := &Registry{
		byID:   make(map[string]*Session),
		byName: make(map[string]string),
		stored: make(map[string]string, len(stored)),
	}
	for id, name := range stored {
		r.stored[id] = name
	}
	return r
}

// Register implements the registration state machine. The boolean result
// reports whether a session was created, so the caller knows to create
// the matching world record.
func (r *Registry) Register(username, playerID string, addr netip.AddrPort, now time.Time) (RegisterOutcome, *Session, bool) {
	// Resume: the identifier is live in memory.
	if playerID != "" {
		if sess, ok := r.byID[playerID]; ok {
			sess.Addr = addr
			sess.Online = true
			sess.LastActivity = now
			return Resumed, sess, false
		}
		// Resume from the persisted seed: recreate the session with the
		// durable display name; the world record starts empty.
		if name, ok := r.stored[playerID]; ok {
			if owner, taken := r.byName[name]; taken && owner != playerID {
				return NameConflict, &Session{Username: name}, false
			}
			sess := &Session{
				PlayerID:     playerID,
				Username:     name,
				Addr:         addr,
				Online:       true,
				LastActivity: now,
			}
			r.byID[playerID] = sess
			r.byName[name] = playerID
			return ResumedFromStore, sess, true
		}
		// Token known to neither memory nor the store: fall through and
		// register fresh. A stale token should not brick the client.
	}

	if owner, taken := r.byName[username]; taken && owner != playerID {
		return NameConflict, &Session{Username: username}, false
	}

	sess := &Session{
		PlayerID:     uuid.NewString(),
		Username:     username,
		Addr:         addr,
		Online:       true,
		LastActivity: now,
	}
	r.byID[sess.PlayerID] = sess
	r.byName[username] = sess.PlayerID
	return Created, sess, true
}

// Touch refreshes liveness and address for a known identifier. Returns
// false for unknown identifiers so the caller can drop the message.
func (r *Registry) Touch(playerID string, addr netip.AddrPort, now time.Time) bool {
	sess, ok := r.byID[playerID]
	if !ok {
		return false
	}
	sess.Addr = addr
	sess.Online = true
	sess.LastActivity = now
	return true
}

// MarkOffline flips a session offline. The session and its name index
// entry are retained for a later resume. Only the reaper calls this.
func (r *Registry) MarkOffline(playerID string) {
	if sess, ok := r.byID[playerID]; ok {
		sess.Online = false
	}
}

// Get returns the session for an identifier, or nil.
func (r *Registry) Get(playerID string) *Session {
	return r.byID[playerID]
}

// AddressOf returns the last known address for an identifier.
func (r *Registry) AddressOf(playerID string) (netip.AddrPort, bool) {
	if sess, ok := r.byID[playerID]; ok {
		return sess.Addr, true
	}
	return netip.AddrPort{}, false
}

// OnlineIDs returns the identifiers of all online sessions.
func (r *Registry) OnlineIDs() []string {
	ids := make([]string, 0, len(r.byID))
	for id, sess := range r.byID {
		if sess.Online {
			ids = append(ids, id)
		}
	}
	return ids
}

// OnlineAddrs returns the addresses of all online sessions.
func (r *Registry) OnlineAddrs() []netip.AddrPort {
	addrs := make([]netip.AddrPort, 0, len(r.byID))
	for _, sess := range r.byID {
		if sess.Online {
			addrs = append(addrs, sess.Addr)
		}
	}
	return addrs
}

// Expired returns the online sessions whose last activity is older than
// timeout at the given instant.
func (r *Registry) Expired(now time.Time, timeout time.Duration) []*Session {
	var out []*Session
	for _, sess := range r.byID {
		if sess.Online && now.Sub(sess.LastActivity) > timeout {
			out = append(out, sess)
		}
	}
	return out
}

// UsernameOf returns the display name for an identifier.
func (r *Registry) UsernameOf(playerID string) string {
	if sess, ok := r.byID[playerID]; ok {
		return sess.Username
	}
	return ""
}

// SuggestName returns the base name with the smallest unused integer
// suffix appended, filling gaps in the sequence. After 9999 taken
// candidates it falls back to a fixed suffix.
func (r *Registry) SuggestName(base string) string {
	for i := 1; i < 10000; i++ {
		candidate := fmt.Sprintf("%s_%d", base, i)
		if _, taken := r.byName[candidate]; !taken {
			return candidate
		}
	}
	return base + "_fallback"
}

// Count returns the number of known sessions, online or not.
func (r *Registry) Count() int {
	return len(r.byID)
}
