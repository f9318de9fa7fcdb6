package handler

import (
	"net/netip"

	"github.com/posrelay/server/internal/config"
	"github.com/posrelay/server/internal/game"
	"github.com/posrelay/server/internal/protocol"
	"go.uber.org/zap"
)

// Sender is the outbound transport primitive. Satisfied by *net.Server;
// tests substitute a recorder.
type Sender interface {
	SendTo(addr netip.AddrPort, data []byte)
}

// Deps holds shared dependencies injected into all message handlers.
type Deps struct {
	Hub    *game.Hub
	Net    Sender
	Config *config.Config
	Log    *zap.Logger
}

// RegisterAll registers all message handlers into the dispatcher.
func RegisterAll(d *Dispatcher, deps *Deps) {
	d.Register(protocol.MsgTypeRegister, func(src netip.AddrPort, msg any) {
		HandleRegister(src, msg.(*protocol.Register), deps)
	})
	d.Register(protocol.MsgTypeUpdate, func(src netip.AddrPort, msg any) {
		HandleUpdate(src, msg.(*protocol.Update), deps)
	})
}
