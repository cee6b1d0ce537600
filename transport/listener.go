// Package transport provides the UDP datagram loop used by the
// demonstration harness (cmd/nimblesteps-demo). It is not part of the
// core: the core spec treats the transport as an external collaborator
// and implements no reliability, retry, or ack timers of its own.
//
// Grounded on go-raknet's server.listen loop (net.PacketConn read loop,
// fixed receive buffer, per-datagram dispatch) and the teacher's
// event-loop shape in internal/queue/runner.go (a context-bounded
// for{select{}}).
package transport

import (
	"context"
	"net"
	"time"
)

// Datagram is one received UDP packet, with its own copy of the bytes
// (the receive buffer is reused across calls).
type Datagram struct {
	Data []byte
	From net.Addr
}

// Listener wraps a net.PacketConn and dispatches received datagrams to a
// handler until its context is canceled.
type Listener struct {
	conn net.PacketConn
}

// Listen binds a reuseport-enabled UDP socket at addr (see
// reuseport_linux.go / reuseport_stub.go for the per-OS control hook), the
// way a real lockstep server needs to for multi-queue UDP fan-out.
func Listen(addr string) (*Listener, error) {
	lc := net.ListenConfig{Control: setReusePort}
	conn, err := lc.ListenPacket(context.Background(), "udp", addr)
	if err != nil {
		return nil, err
	}
	return &Listener{conn: conn}, nil
}

// Close releases the underlying socket.
func (l *Listener) Close() error {
	return l.conn.Close()
}

// LocalAddr returns the bound local address.
func (l *Listener) LocalAddr() net.Addr {
	return l.conn.LocalAddr()
}

// WriteTo sends a reply datagram.
func (l *Listener) WriteTo(p []byte, addr net.Addr) (int, error) {
	return l.conn.WriteTo(p, addr)
}

// Run reads datagrams until ctx is canceled, copying each payload (the
// receive buffer is reused) before invoking handle.
func (l *Listener) Run(ctx context.Context, handle func(Datagram)) error {
	// Unblock a pending ReadFrom as soon as ctx is canceled.
	stop := context.AfterFunc(ctx, func() {
		l.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	buf := make([]byte, 2048)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, addr, err := l.conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}

		data := make([]byte, n)
		copy(data, buf[:n])
		handle(Datagram{Data: data, From: addr})
	}
}
