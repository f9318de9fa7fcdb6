package handler

import (
	"net/netip"
	"unicode/utf8"

	"github.com/posrelay/server/internal/protocol"
	"github.com/posrelay/server/internal/session"
	"go.uber.org/zap"
)

// HandleRegister processes a register message: create, resume, resume
// from the identity store, or report a name conflict with a suggested
// alternative. The reply goes only to the sender; other clients learn of
// the newcomer from its first broadcast-triggering update.
func HandleRegister(src netip.AddrPort, msg *protocol.Register, deps *Deps) {
	// A username is required unless the client is resuming by token.
	nameLen := utf8.RuneCountInString(msg.Username)
	if msg.PlayerID == "" && (nameLen < 1 || nameLen > 64) {
		deps.Log.Debug("dropped register with invalid username",
			zap.Stringer("src", src), zap.Int("len", nameLen))
		return
	}
	if nameLen > 64 {
		deps.Log.Debug("dropped register with oversized username", zap.Stringer("src", src))
		return
	}

	res := deps.Hub.Register(msg.Username, msg.PlayerID, src)

	var reply protocol.RegisterReply
	switch res.Outcome {
	case session.NameConflict:
		reply = protocol.RegisterReply{
			Action:    protocol.ActionNameConflict,
			Username:  res.Username,
			Suggested: res.Suggested,
		}
		deps.Log.Info("register name conflict",
			zap.String("username", res.Username),
			zap.String("suggested", res.Suggested))
	default:
		state := stateToWire(res.PlayerID, res.Username, res.State)
		reply = protocol.RegisterReply{
			Action:    protocol.ActionRegistered,
			PlayerID:  res.PlayerID,
			Username:  res.Username,
			State:     &state,
			Resumed:   res.Outcome == session.Resumed || res.Outcome == session.ResumedFromStore,
			FromStore: res.Outcome == session.ResumedFromStore,
		}
		deps.Log.Info("player registered",
			zap.String("player_id", res.PlayerID),
			zap.String("username", res.Username),
			zap.Bool("resumed", reply.Resumed),
			zap.Bool("from_store", reply.FromStore))
	}

	sendTo(deps, src, reply)
}
