package handler

import (
	"net/netip"

	"github.com/posrelay/server/internal/protocol"
	"go.uber.org/zap"
)

// HandlerFunc processes one decoded inbound message.
type HandlerFunc func(src netip.AddrPort, msg any)

// Dispatcher routes decoded messages to their handler by the "type"
// discriminant. Messages that fail to decode, carry no discriminant, or
// name an unknown type are dropped without reply — the failure is
// observable to the client only as silence.
type Dispatcher struct {
	handlers map[string]HandlerFunc
	log      *zap.Logger
}

func NewDispatcher(log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		log:      log,
	}
}

// Register binds a message type to its handler.
func (d *Dispatcher) Register(msgType string, fn HandlerFunc) {
	d.handlers[msgType] = fn
}

// Handle decodes and routes one raw datagram. Safe to call from many
// goroutines at once; handlers serialize through the hub.
func (d *Dispatcher) Handle(src netip.AddrPort, data []byte) {
	msg, err := protocol.Decode(data)
	if err != nil {
		d.log.Debug("dropped undecodable datagram", zap.Stringer("src", src), zap.Error(err))
		return
	}
	var msgType string
	switch msg.(type) {
	case *protocol.Register:
		msgType = protocol.MsgTypeRegister
	case *protocol.Update:
		msgType = protocol.MsgTypeUpdate
	}
	fn, ok := d.handlers[msgType]
	if !ok {
		d.log.Debug("no handler for message type", zap.String("type", msgType))
		return
	}
	fn(src, msg)
}
