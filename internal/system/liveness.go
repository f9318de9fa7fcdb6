// Package system hosts the long-lived background tasks that run beside
// the dispatch path.
package system

import (
	"context"
	"fmt"
	"time"

	"github.com/posrelay/server/internal/game"
	"github.com/posrelay/server/internal/handler"
	"github.com/posrelay/server/internal/persist"
	"github.com/posrelay/server/internal/protocol"
	"go.uber.org/zap"
)

// LivenessReaper periodically flips over-deadline sessions offline. It is
// the only path that takes a session from online to offline. Each reaped
// identity is persisted best-effort, the reaped client gets an offline
// notice at its last known address, and the survivors get a refreshed
// world broadcast so the reaped player disappears from their view.
type LivenessReaper struct {
	hub      *game.Hub
	store    persist.Store
	deps     *handler.Deps
	interval time.Duration
	timeout  time.Duration
	log      *zap.Logger
}

func NewLivenessReaper(hub *game.Hub, store persist.Store, deps *handler.Deps, interval, timeout time.Duration, log *zap.Logger) *LivenessReaper {
	return &LivenessReaper{
		hub:      hub,
		store:    store,
		deps:     deps,
		interval: interval,
		timeout:  timeout,
		log:      log,
	}
}

// Run sweeps until ctx is canceled. Runs in its own goroutine.
func (r *LivenessReaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.Sweep(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Sweep performs one pass: the mutation happens inside the hub's critical
// section; persistence and all network sends happen after release.
func (r *LivenessReaper) Sweep(ctx context.Context) {
	events, bcast, changed := r.hub.SweepExpired(r.timeout)
	if !changed {
		return
	}

	for _, ev := range events {
		r.log.Info("session expired",
			zap.String("player_id", ev.PlayerID),
			zap.String("username", ev.Username))

		// Best-effort: the in-memory session survives either way, so a
		// failed save only costs the resume-after-restart path.
		saveCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := r.store.Save(saveCtx, ev.PlayerID, ev.Username); err != nil {
			r.log.Error("persist identity failed",
				zap.String("player_id", ev.PlayerID), zap.Error(err))
		}
		cancel()

		notice := protocol.OfflineNotice{
			Action:   protocol.ActionOffline,
			Reason:   protocol.ReasonInactivity,
			PlayerID: ev.PlayerID,
			Message:  fmt.Sprintf("session for %s marked offline after inactivity", ev.Username),
		}
		if data, err := protocol.Encode(notice); err == nil {
			r.deps.Net.SendTo(ev.Addr, data)
		}
	}

	handler.BroadcastWorld(r.deps, bcast)
}
