package handler

import (
	"net/netip"

	"github.com/posrelay/server/internal/protocol"
	"github.com/posrelay/server/internal/world"
	"go.uber.org/zap"
)

// HandleUpdate processes a state report: plausibility check, world merge,
// liveness refresh, then a full-world broadcast. An implausible position
// additionally earns the sender a correction.
func HandleUpdate(src netip.AddrPort, msg *protocol.Update, deps *Deps) {
	if msg.PlayerID == "" {
		return
	}

	res := deps.Hub.ApplyUpdate(msg.PlayerID, updateFields(msg), src)
	if !res.Known {
		// Stale or replayed client; not worth signaling.
		deps.Log.Debug("dropped update for unknown player",
			zap.String("player_id", msg.PlayerID), zap.Stringer("src", src))
		return
	}

	if res.Flagged {
		corrected := stateToWire(msg.PlayerID, res.Username, res.Corrected)
		deps.Log.Info("implausible movement corrected",
			zap.String("player_id", msg.PlayerID),
			zap.String("username", res.Username))
		sendTo(deps, src, protocol.Correction{
			Action:    protocol.ActionCorrection,
			Reason:    protocol.ReasonInvalidMovement,
			Corrected: corrected,
		})
	}

	BroadcastWorld(deps, res.Broadcast)
}

// updateFields converts the wire update into the world's field set.
func updateFields(msg *protocol.Update) world.Fields {
	return world.Fields{
		X: msg.X, Y: msg.Y, Z: msg.Z,
		RX: msg.RX, RY: msg.RY, RZ: msg.RZ,
		VX: msg.VX, VY: msg.VY, VZ: msg.VZ,
		TS:     msg.TS,
		Action: msg.Action,
	}
}
