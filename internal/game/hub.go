// Package game composes the session registry and the world state into a
// single consistency domain. Every cross-structure operation is a Hub
// method holding one mutex, so the name index, session map, and player
// records can never be observed out of step. No Hub method performs
// network or disk I/O: callers get value copies back and do their I/O
// after the lock is released.
package game

import (
	"net/netip"
	"sync"
	"time"

	"github.com/posrelay/server/internal/session"
	"github.com/posrelay/server/internal/world"
)

type Hub struct {
	mu        sync.Mutex
	sessions  *session.Registry
	world     *world.State
	validator *world.Validator

	now func() time.Time // injectable for tests
}

func NewHub(reg *session.Registry, ws *world.State, v *world.Validator) *Hub {
	return &Hub{
		sessions:  reg,
		world:     ws,
		validator: v,
		now:       time.Now,
	}
}

// Broadcast is everything the fan-out path needs, copied out under the
// lock: the online players' states, their display names, and the
// addresses to send to.
type Broadcast struct {
	Players map[string]world.PlayerState
	Names   map[string]string
	Addrs   []netip.AddrPort
}

// RegisterResult reports one registration attempt.
type RegisterResult struct {
	Outcome   session.RegisterOutcome
	PlayerID  string
	Username  string
	State     world.PlayerState
	Suggested string
}

// Register runs the registration state machine for one inbound register
// message.
func (h *Hub) Register(username, playerID string, addr netip.AddrPort) RegisterResult {
	h.mu.Lock()
	defer h.mu.Unlock()

	outcome, sess, created := h.sessions.Register(username, playerID, addr, h.now())
	if outcome == session.NameConflict {
		return RegisterResult{
			Outcome:   session.NameConflict,
			Username:  sess.Username,
			Suggested: h.sessions.SuggestName(sess.Username),
		}
	}
	if created {
		h.world.Create(sess.PlayerID)
	}
	res := RegisterResult{
		Outcome:  outcome,
		PlayerID: sess.PlayerID,
		Username: sess.Username,
	}
	if p := h.world.Get(sess.PlayerID); p != nil {
		res.State = p.Clone()
	}
	return res
}

// UpdateResult reports one applied (or dropped) state update.
type UpdateResult struct {
	Known     bool
	Flagged   bool
	Corrected world.PlayerState // stored state after correction, set when Flagged
	Username  string
	Broadcast Broadcast
}

// ApplyUpdate validates and applies one state report, refreshes the
// sender's liveness, and snapshots the online world for the subsequent
// broadcast — all in one critical section.
func (h *Hub) ApplyUpdate(playerID string, f world.Fields, addr netip.AddrPort) UpdateResult {
	h.mu.Lock()
	defer h.mu.Unlock()

	prev := h.world.Get(playerID)
	if prev == nil || h.sessions.Get(playerID) == nil {
		return UpdateResult{}
	}

	applied, flagged := h.validator.Check(prev, f)
	_, cur, _ := h.world.ApplyUpdate(playerID, applied)
	h.sessions.Touch(playerID, addr, h.now())

	res := UpdateResult{
		Known:     true,
		Flagged:   flagged,
		Username:  h.sessions.UsernameOf(playerID),
		Broadcast: h.snapshotLocked(),
	}
	if flagged {
		res.Corrected = cur
	}
	return res
}

// OfflineEvent describes one session the reaper took offline.
type OfflineEvent struct {
	PlayerID string
	Username string
	Addr     netip.AddrPort
}

// SweepExpired marks every over-deadline online session offline and
// returns the affected sessions plus a refreshed broadcast. The second
// return is false when nothing expired (no broadcast needed).
func (h *Hub) SweepExpired(timeout time.Duration) ([]OfflineEvent, Broadcast, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	expired := h.sessions.Expired(h.now(), timeout)
	if len(expired) == 0 {
		return nil, Broadcast{}, false
	}
	events := make([]OfflineEvent, 0, len(expired))
	for _, sess := range expired {
		h.sessions.MarkOffline(sess.PlayerID)
		events = append(events, OfflineEvent{
			PlayerID: sess.PlayerID,
			Username: sess.Username,
			Addr:     sess.Addr,
		})
	}
	return events, h.snapshotLocked(), true
}

// SnapshotOnline builds a broadcast view of the current online world.
func (h *Hub) SnapshotOnline() Broadcast {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshotLocked()
}

func (h *Hub) snapshotLocked() Broadcast {
	ids := h.sessions.OnlineIDs()
	names := make(map[string]string, len(ids))
	for _, id := range ids {
		names[id] = h.sessions.UsernameOf(id)
	}
	return Broadcast{
		Players: h.world.Snapshot(ids),
		Names:   names,
		Addrs:   h.sessions.OnlineAddrs(),
	}
}
