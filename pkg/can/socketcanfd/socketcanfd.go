// Package socketcanfd is a CAN-FD-capable Driver using a raw AF_CAN socket
// directly, bypassing brutella/can (which only speaks classic 8-byte
// frames). It supports every MTU cyphalcan.ValidMtu accepts, up to 64 data
// bytes.
package socketcanfd

import (
	"context"
	"fmt"
	"net"
	"sync"
	"unsafe"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	cyphalcan "github.com/samsamfire/gocyphal"
)

const (
	canfdMTU  = 72 // sizeof(struct canfd_frame): id(4) + len + flags + res0 + res1 + data[64]
	canEFFFlag uint32 = 0x80000000
)

type canfdFrame struct {
	id     uint32
	length uint8
	flags  uint8
	res0   uint8
	res1   uint8
	data   [64]byte
}

// Driver adapts a raw CAN_RAW socket, opened in CAN-FD mode, to
// cyphalcan.Driver.
type Driver struct {
	fd     int
	logger *logrus.Logger
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	rx         []cyphalcan.Frame
	rxCapacity int
}

// New opens channel (e.g. "can0") in CAN-FD mode. A nil logger falls back to
// logrus's standard logger.
func New(channel string, logger *logrus.Logger) (*Driver, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	iface, err := net.InterfaceByName(channel)
	if err != nil {
		return nil, err
	}
	fd, err := unix.Socket(unix.AF_CAN, unix.SOCK_RAW, unix.CAN_RAW)
	if err != nil {
		return nil, fmt.Errorf("open CAN socket: %w", err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_CAN_RAW, unix.CAN_RAW_FD_FRAMES, 1); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("enable CAN-FD frames: %w", err)
	}
	if err := unix.Bind(fd, &unix.SockaddrCAN{Ifindex: iface.Index}); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("bind %s: %w", channel, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Driver{fd: fd, logger: logger, cancel: cancel, rxCapacity: 64}
	d.wg.Add(1)
	go d.receiveLoop(ctx)
	return d, nil
}

func (d *Driver) receiveLoop(ctx context.Context) {
	defer d.wg.Done()
	buf := make([]byte, canfdMTU)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		n, err := unix.Read(d.fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
				continue
			}
			d.logger.WithError(err).Warn("socketcanfd receive loop exiting")
			return
		}
		if n < 16 {
			continue
		}
		frame := (*canfdFrame)(unsafe.Pointer(&buf[0]))
		id := frame.id &^ canEFFFlag
		data := append([]byte(nil), frame.data[:frame.length]...)

		d.mu.Lock()
		if len(d.rx) < d.rxCapacity {
			d.rx = append(d.rx, cyphalcan.Frame{ID: cyphalcan.CanID(id), Data: data})
		} else {
			d.logger.Warn("socketcanfd receive buffer full, dropping frame")
		}
		d.mu.Unlock()
	}
}

// TryReserve always succeeds: this adapter has no mailbox accounting of its
// own, only the kernel's socket send buffer.
func (d *Driver) TryReserve(frames int) error {
	return nil
}

func (d *Driver) Transmit(frame cyphalcan.Frame, now cyphalcan.Microseconds32) (*cyphalcan.Frame, error) {
	if len(frame.Data) > 64 {
		return nil, cyphalcan.ErrInvalidFrame
	}
	raw := canfdFrame{id: uint32(frame.ID) | canEFFFlag, length: uint8(len(frame.Data))}
	copy(raw.data[:], frame.Data)
	rawBytes := (*(*[canfdMTU]byte)(unsafe.Pointer(&raw)))[:]

	n, err := unix.Write(d.fd, rawBytes)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return nil, cyphalcan.ErrWouldBlock
		}
		return nil, err
	}
	if n != canfdMTU {
		return nil, fmt.Errorf("socketcanfd: short write, wrote %d of %d bytes", n, canfdMTU)
	}
	return nil, nil
}

// Flush is a no-op: Write already hands the frame to the kernel socket
// buffer.
func (d *Driver) Flush(now cyphalcan.Microseconds32) error {
	return nil
}

func (d *Driver) Receive(now cyphalcan.Microseconds32) (cyphalcan.Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.rx) == 0 {
		return cyphalcan.Frame{}, cyphalcan.ErrWouldBlock
	}
	f := d.rx[0]
	d.rx = d.rx[1:]
	return f, nil
}

// canFilter mirrors struct can_filter from linux/can.h: a 32-bit id and
// mask pair, both with the extended-frame bit set so the kernel only
// matches 29-bit ids.
type canFilter struct {
	id   uint32
	mask uint32
}

// ApplyFilters installs filters as the socket's CAN_RAW_FILTER list, so the
// kernel itself drops frames that match none of them before they ever reach
// receiveLoop. An empty filters clears the list back to accept-all. If
// installation fails, it falls back to accept-all rather than leave a
// partial or stale filter set in place.
func (d *Driver) ApplyFilters(localNode *cyphalcan.NodeID, filters []cyphalcan.Filter) error {
	// A single zero id/mask entry matches every frame; an empty
	// CAN_RAW_FILTER list would instead stop the socket receiving at all.
	acceptAll := string(make([]byte, 8))
	if len(filters) == 0 {
		return unix.SetsockoptString(d.fd, unix.SOL_CAN_RAW, unix.CAN_RAW_FILTER, acceptAll)
	}
	raw := make([]canFilter, len(filters))
	for i, f := range filters {
		raw[i] = canFilter{id: f.ID() | canEFFFlag, mask: f.Mask() | canEFFFlag}
	}
	buf := unsafe.Slice((*byte)(unsafe.Pointer(&raw[0])), len(raw)*8)
	if err := unix.SetsockoptString(d.fd, unix.SOL_CAN_RAW, unix.CAN_RAW_FILTER, string(buf)); err != nil {
		d.logger.WithError(err).Warn("installing CAN_RAW_FILTER failed, falling back to accept-all")
		return unix.SetsockoptString(d.fd, unix.SOL_CAN_RAW, unix.CAN_RAW_FILTER, acceptAll)
	}
	return nil
}

// Close stops the receive loop and closes the socket.
func (d *Driver) Close() error {
	d.cancel()
	d.wg.Wait()
	return unix.Close(d.fd)
}
