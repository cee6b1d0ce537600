//go:build linux

package transport

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// setReusePort sets SO_REUSEPORT on the listening socket so multiple
// queue workers can share one UDP port, the way the teacher's
// internal/uring code reaches for golang.org/x/sys/unix for raw
// socket-level controls rather than a higher-level wrapper.
func setReusePort(network, address string, c syscall.RawConn) error {
	var sockErr error
	err := c.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
	})
	if err != nil {
		return err
	}
	return sockErr
}
