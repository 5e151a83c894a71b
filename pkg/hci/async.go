package hci

import (
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// AsyncSocket lifts an already-bound, filtered Socket into the runtime
// network poller. Reads suspend the calling goroutine, not an OS thread,
// until the kernel reports readiness. Construction takes ownership of the
// Socket's descriptor.
type AsyncSocket struct {
	f *os.File
}

// NewAsyncSocket registers the socket's descriptor with the runtime poller.
// Registration failure (for example a descriptor already registered
// elsewhere) is reported as an error and the descriptor is released.
func NewAsyncSocket(s *Socket) (*AsyncSocket, error) {
	fd := s.RawFd()
	if err := unix.SetNonblock(fd, true); err != nil {
		return nil, osError("set nonblocking", err)
	}
	f := s.File()
	if f == nil {
		return nil, osError("transfer descriptor", unix.EBADF)
	}
	// Touch the raw connection so poller registration happens here rather
	// than surprising the first reader.
	rc, err := f.SyscallConn()
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := rc.Control(func(uintptr) {}); err != nil {
		f.Close()
		return nil, err
	}
	return &AsyncSocket{f: f}, nil
}

// Read reads available bytes into p, suspending the goroutine until data
// arrives. A deadline set via SetReadDeadline surfaces as os.ErrDeadlineExceeded.
func (a *AsyncSocket) Read(p []byte) (int, error) {
	return a.f.Read(p)
}

// SetReadDeadline bounds pending and future reads. Callers impose timeouts
// with this; the transport itself never retries or times out.
func (a *AsyncSocket) SetReadDeadline(t time.Time) error {
	return a.f.SetReadDeadline(t)
}

// SyscallConn exposes the registered descriptor for external reactors.
func (a *AsyncSocket) SyscallConn() (syscall.RawConn, error) {
	return a.f.SyscallConn()
}

// Close deregisters the descriptor from the poller and releases it. Pending
// reads return with an error.
func (a *AsyncSocket) Close() error {
	return a.f.Close()
}
