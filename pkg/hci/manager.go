package hci

import (
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

func ioR(t, nr, size uintptr) uintptr {
	return (2 << 30) | (t << 8) | nr | (size << 16)
}

func ioW(t, nr, size uintptr) uintptr {
	return (1 << 30) | (t << 8) | nr | (size << 16)
}

func ioctl(fd, op, arg uintptr) error {
	if _, _, ep := unix.Syscall(unix.SYS_IOCTL, fd, op, arg); ep != 0 {
		return ep
	}
	return nil
}

const (
	ioctlSize     = 4
	hciMaxDevices = 16
	typHCI        = 72 // 'H'
)

var (
	hciUpDevice      = ioW(typHCI, 201, ioctlSize) // HCIDEVUP
	hciDownDevice    = ioW(typHCI, 202, ioctlSize) // HCIDEVDOWN
	hciResetDevice   = ioW(typHCI, 203, ioctlSize) // HCIDEVRESET
	hciStatsDevice   = ioW(typHCI, 204, ioctlSize) // HCIDEVRESTAT
	hciGetDeviceList = ioR(typHCI, 210, ioctlSize) // HCIGETDEVLIST
	hciGetDeviceInfo = ioR(typHCI, 211, ioctlSize) // HCIGETDEVINFO
)

type devRequest struct {
	id  uint16
	opt uint32
}

type devListRequest struct {
	devNum     uint16
	devRequest [hciMaxDevices]devRequest
}

// DeviceStats are the adapter's traffic counters, as maintained by the
// kernel driver.
type DeviceStats struct {
	ErrRX  uint32
	ErrTX  uint32
	CmdTX  uint32
	EvtRX  uint32
	ACLTX  uint32
	ACLRX  uint32
	SCOTX  uint32
	SCORX  uint32
	ByteRX uint32
	ByteTX uint32
}

// deviceInfo mirrors the kernel's struct hci_dev_info byte-for-byte; it is
// passed to HCIGETDEVINFO by pointer.
type deviceInfo struct {
	id         uint16
	name       [8]byte
	address    [6]byte
	flags      uint32
	devType    uint8
	features   [8]byte
	pktType    uint32
	linkPolicy uint32
	linkMode   uint32
	aclMTU     uint16
	aclPkts    uint16
	scoMTU     uint16
	scoPkts    uint16
	stats      DeviceStats
}

// DeviceInfo describes one local adapter.
type DeviceInfo struct {
	ID         AdapterID
	Name       string
	Address    [6]byte
	Flags      uint32
	Type       uint8
	Features   [8]byte
	PacketType uint32
	LinkPolicy uint32
	LinkMode   uint32
	ACLMTU     uint16
	ACLPackets uint16
	SCOMTU     uint16
	SCOPackets uint16
	Stats      DeviceStats
}

// Manager issues adapter-lifecycle ioctls over one shared control socket.
// The control socket is not bound to any adapter or channel; the target
// adapter is the ioctl argument. All operations serialize on one lock so at
// most one ioctl is in flight per Manager.
type Manager struct {
	mu    sync.Mutex
	fd    int
	ioctl func(fd, op, arg uintptr) error
}

// NewManager opens the control socket. One Manager per process is enough;
// construct it explicitly and pass it around rather than sharing globals.
func NewManager() (*Manager, error) {
	fd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_RAW|unix.SOCK_CLOEXEC, unix.BTPROTO_HCI)
	if err != nil {
		return nil, osError("create control socket", err)
	}
	return &Manager{fd: fd, ioctl: ioctl}, nil
}

func (m *Manager) control(name string, op, arg uintptr) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return osError(name, m.ioctl(uintptr(m.fd), op, arg))
}

// DeviceUp brings the adapter up.
func (m *Manager) DeviceUp(id AdapterID) error {
	return m.control("bring device up", hciUpDevice, uintptr(id))
}

// DeviceDown brings the adapter down.
func (m *Manager) DeviceDown(id AdapterID) error {
	return m.control("bring device down", hciDownDevice, uintptr(id))
}

// DeviceReset resets the adapter.
func (m *Manager) DeviceReset(id AdapterID) error {
	return m.control("reset device", hciResetDevice, uintptr(id))
}

// DeviceResetStats clears the adapter's traffic counters.
func (m *Manager) DeviceResetStats(id AdapterID) error {
	return m.control("reset device stats", hciStatsDevice, uintptr(id))
}

// DeviceList returns the ids of all local adapters.
func (m *Manager) DeviceList() ([]AdapterID, error) {
	req := devListRequest{devNum: hciMaxDevices}
	if err := m.control("get device list", hciGetDeviceList, uintptr(unsafe.Pointer(&req))); err != nil {
		return nil, err
	}
	ids := make([]AdapterID, 0, req.devNum)
	for i := 0; i < int(req.devNum) && i < hciMaxDevices; i++ {
		ids = append(ids, AdapterID(req.devRequest[i].id))
	}
	return ids, nil
}

// DeviceInfo queries one adapter's name, address, capabilities and traffic
// counters.
func (m *Manager) DeviceInfo(id AdapterID) (*DeviceInfo, error) {
	raw := deviceInfo{id: uint16(id)}
	if err := m.control("get device info", hciGetDeviceInfo, uintptr(unsafe.Pointer(&raw))); err != nil {
		return nil, err
	}
	name := raw.name[:]
	for i, b := range name {
		if b == 0 {
			name = name[:i]
			break
		}
	}
	return &DeviceInfo{
		ID:         AdapterID(raw.id),
		Name:       string(name),
		Address:    raw.address,
		Flags:      raw.flags,
		Type:       raw.devType,
		Features:   raw.features,
		PacketType: raw.pktType,
		LinkPolicy: raw.linkPolicy,
		LinkMode:   raw.linkMode,
		ACLMTU:     raw.aclMTU,
		ACLPackets: raw.aclPkts,
		SCOMTU:     raw.scoMTU,
		SCOPackets: raw.scoPkts,
		Stats:      raw.stats,
	}, nil
}

// Close releases the control socket.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return osError("close control socket", unix.Close(m.fd))
}
