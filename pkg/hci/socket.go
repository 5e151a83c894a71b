package hci

import (
	"fmt"
	"io"
	"math"
	"os"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// AdapterID identifies one local Bluetooth controller by its numeric index
// (hci0, hci1, ...). Stable for the process lifetime.
type AdapterID uint16

func (id AdapterID) String() string {
	return fmt.Sprintf("hci%d", uint16(id))
}

// Channel is the logical access mode an HCI socket binds to. The numeric
// values are fixed by the kernel's sockaddr_hci ABI.
type Channel uint16

const (
	// ChannelRaw requires CAP_NET_ADMIN and shares the device with the
	// kernel stack.
	ChannelRaw Channel = 0
	// ChannelUser gives exclusive access to the controller. The device
	// must be down at the time of binding.
	ChannelUser    Channel = 1
	ChannelMonitor Channel = 2
	ChannelControl Channel = 3
	ChannelLogging Channel = 4
)

// ChannelFromCode maps a raw channel value back to a Channel, rejecting
// unknown codes.
func ChannelFromCode(c uint16) (Channel, error) {
	if c > uint16(ChannelLogging) {
		return 0, fmt.Errorf("hci: unknown channel %d", c)
	}
	return Channel(c), nil
}

// Socket is one open HCI channel to one adapter, exposed as a
// ReadWriteCloser. A successfully constructed Socket always has its event
// filter installed.
type Socket struct {
	fd     int
	closed chan struct{}
	rmu    sync.Mutex
	wmu    sync.Mutex
}

// NewSocket opens a raw HCI socket bound to the given adapter and channel
// and installs DefaultFilter. For ChannelUser the device has to be down at
// the time of binding; see Manager.DeviceDown.
func NewSocket(id AdapterID, channel Channel) (*Socket, error) {
	fd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_RAW|unix.SOCK_CLOEXEC, unix.BTPROTO_HCI)
	if err != nil {
		return nil, osError("create socket", err)
	}

	sa := unix.SockaddrHCI{Dev: uint16(id), Channel: uint16(channel)}
	if err := unix.Bind(fd, &sa); err != nil {
		unix.Close(fd)
		return nil, osError("bind socket", err)
	}

	s := &Socket{fd: fd, closed: make(chan struct{})}
	if err := s.setFilter(DefaultFilter); err != nil {
		unix.Close(fd)
		return nil, err
	}
	return s, nil
}

// setFilter installs the kernel event filter. Called once by NewSocket;
// binding without a filter is not supported.
func (s *Socket) setFilter(f Filter) error {
	const (
		solHCI    = 0
		hciFilter = 2
	)
	err := unix.SetsockoptString(s.fd, solHCI, hciFilter, string(f.Marshal()))
	return osError("set hci filter", err)
}

func (s *Socket) Read(p []byte) (int, error) {
	select {
	case <-s.closed:
		return 0, io.EOF
	default:
	}
	s.rmu.Lock()
	defer s.rmu.Unlock()
	n, err := unix.Read(s.fd, p)
	if err != nil {
		return 0, osError("read socket", err)
	}
	return n, nil
}

func (s *Socket) Write(p []byte) (int, error) {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	n, err := unix.Write(s.fd, p)
	if err != nil {
		return 0, osError("write socket", err)
	}
	return n, nil
}

// ReadPacket reads and decodes one HCI packet.
func (s *Socket) ReadPacket() (Packet, error) {
	buf := make([]byte, math.MaxUint16)
	n, err := s.Read(buf)
	if err != nil {
		return nil, err
	}
	zap.L().Debug("bluetooth reading", zap.String("packet", fmt.Sprintf("%x", buf[:n])))
	return Unmarshal(buf[:n])
}

// WritePacket encodes and writes one HCI packet.
func (s *Socket) WritePacket(p Packet) error {
	buf, err := p.Marshal()
	if err != nil {
		return err
	}
	zap.L().Debug("bluetooth writing", zap.String("packet", fmt.Sprintf("%x", buf)))
	_, err = s.Write(buf)
	return err
}

// RawFd exposes the descriptor for integration with an external reactor.
// The caller must not close it.
func (s *Socket) RawFd() int {
	return s.fd
}

// File transfers ownership of the descriptor to an *os.File. The Socket must
// not be used afterwards.
func (s *Socket) File() *os.File {
	select {
	case <-s.closed:
		return nil
	default:
		close(s.closed)
	}
	return os.NewFile(uintptr(s.fd), "hci")
}

func (s *Socket) Close() error {
	select {
	case <-s.closed:
		return nil
	default:
		close(s.closed)
	}
	s.rmu.Lock()
	defer s.rmu.Unlock()
	return osError("close socket", unix.Close(s.fd))
}
