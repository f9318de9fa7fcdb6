package handler

import (
	"net/netip"

	"github.com/posrelay/server/internal/game"
	"github.com/posrelay/server/internal/protocol"
	"github.com/posrelay/server/internal/world"
	"go.uber.org/zap"
)

// BuildWorld projects a hub broadcast into the wire snapshot, joining
// display names onto the kinematic records.
func BuildWorld(b game.Broadcast) protocol.World {
	players := make(map[string]protocol.PlayerState, len(b.Players))
	for id, state := range b.Players {
		players[id] = stateToWire(id, b.Names[id], state)
	}
	return protocol.World{Players: players}
}

// BroadcastWorld encodes the snapshot once and sends it to every online
// address, the sender included. Full re-send every time: no deltas, no
// batching.
func BroadcastWorld(deps *Deps, b game.Broadcast) {
	data, err := protocol.Encode(BuildWorld(b))
	if err != nil {
		deps.Log.Error("encode world snapshot failed", zap.Error(err))
		return
	}
	for _, addr := range b.Addrs {
		deps.Net.SendTo(addr, data)
	}
}

// sendTo encodes and sends one message to a single address.
func sendTo(deps *Deps, addr netip.AddrPort, msg any) {
	data, err := protocol.Encode(msg)
	if err != nil {
		deps.Log.Error("encode reply failed", zap.Error(err))
		return
	}
	deps.Net.SendTo(addr, data)
}

// stateToWire converts an internal player state to its wire shape.
func stateToWire(id, username string, s world.PlayerState) protocol.PlayerState {
	return protocol.PlayerState{
		ID:       id,
		Username: username,
		X:        s.X, Y: s.Y, Z: s.Z,
		RX: s.RX, RY: s.RY, RZ: s.RZ,
		VX: s.VX, VY: s.VY, VZ: s.VZ,
		TS:     s.TS,
		Action: s.Action,
	}
}
