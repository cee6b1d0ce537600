//go:build !linux

package transport

import "syscall"

// setReusePort is a no-op on platforms without SO_REUSEPORT support in
// this harness (matching the teacher's kernelopcode_stub.go pattern of a
// build-tagged stub alongside the real implementation).
func setReusePort(network, address string, c syscall.RawConn) error {
	return nil
}
