// Package net provides the UDP datagram transport. It owns no game
// state: inbound datagrams are handed to the dispatcher, outbound sends
// are fire-and-forget.
package net

import (
	"errors"
	"net"
	"net/netip"

	"go.uber.org/zap"
)

// HandlerFunc processes one inbound datagram. Called on its own
// goroutine, concurrently with all other datagrams.
type HandlerFunc func(src netip.AddrPort, data []byte)

// Server reads datagrams from a UDP socket and dispatches each on its
// own goroutine.
type Server struct {
	conn    *net.UDPConn
	bufSize int
	log     *zap.Logger
	closeCh chan struct{}
}

func NewServer(bindAddr string, maxDatagramSize int, log *zap.Logger) (*Server, error) {
	addr, err := net.ResolveUDPAddr("udp", bindAddr)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		conn:    conn,
		bufSize: maxDatagramSize,
		log:     log,
		closeCh: make(chan struct{}),
	}, nil
}

// ReadLoop runs in its own goroutine. Each datagram is copied and handed
// to handle on a fresh goroutine; datagrams are independent, so there is
// no per-sender ordering to preserve beyond socket receipt order.
func (s *Server) ReadLoop(handle HandlerFunc) {
	buf := make([]byte, s.bufSize)
	for {
		n, src, err := s.conn.ReadFromUDPAddrPort(buf)
		if err != nil {
			select {
			case <-s.closeCh:
				return // server shutting down
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.log.Error("udp read failed", zap.Error(err))
			continue
		}
		if n == s.bufSize {
			// A datagram that fills the buffer was likely truncated by
			// the kernel; the codec would reject the torn JSON anyway.
			s.log.Warn("oversized datagram dropped", zap.Stringer("src", src))
			continue
		}
		data := make([]byte, n)
		copy(data, buf[:n])
		go handle(src, data)
	}
}

// SendTo writes one datagram. Send errors are logged, not returned:
// delivery is best-effort by design and no caller has a recovery path.
func (s *Server) SendTo(addr netip.AddrPort, data []byte) {
	if _, err := s.conn.WriteToUDPAddrPort(data, addr); err != nil {
		s.log.Debug("udp send failed", zap.Stringer("dst", addr), zap.Error(err))
	}
}

// Shutdown closes the socket, unblocking ReadLoop.
func (s *Server) Shutdown() {
	close(s.closeCh)
	s.conn.Close()
}

// Addr returns the bound local address.
func (s *Server) Addr() net.Addr {
	return s.conn.LocalAddr()
}
