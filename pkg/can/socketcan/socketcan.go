// Package socketcan is a classic-CAN (8-byte frame) Driver backed by
// brutella/can's SocketCAN binding. It never reports an MTU larger than
// cyphalcan.MtuClassicCAN: brutella/can's wire frame is fixed at 8 data
// bytes, so a CAN-FD-capable controller reached through this path still
// only ever exchanges classic frames.
package socketcan

import (
	"sync"

	sockcan "github.com/brutella/can"
	"github.com/sirupsen/logrus"

	cyphalcan "github.com/samsamfire/gocyphal"
)

// canEFFFlag marks a SocketCAN frame id as using the 29-bit extended format,
// matching the Linux SocketCAN raw-frame convention. Cyphal/CAN ids are
// always 29 bits, so every frame this driver sends or receives carries it.
const canEFFFlag uint32 = 0x80000000

// Driver adapts a brutella/can Bus to cyphalcan.Driver.
type Driver struct {
	bus    *sockcan.Bus
	logger *logrus.Logger

	mu         sync.Mutex
	rx         []cyphalcan.Frame
	rxCapacity int
}

// New opens the named SocketCAN interface (e.g. "can0") and starts
// publishing received frames into an internal buffer. A nil logger falls
// back to logrus's standard logger.
func New(channel string, logger *logrus.Logger) (*Driver, error) {
	bus, err := sockcan.NewBusForInterfaceWithName(channel)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	d := &Driver{bus: bus, logger: logger, rxCapacity: 64}
	bus.SubscribeFunc(d.handle)
	go func() {
		if err := bus.ConnectAndPublish(); err != nil {
			d.logger.WithError(err).Warn("socketcan bus closed")
		}
	}()
	return d, nil
}

func (d *Driver) handle(frame sockcan.Frame) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.rx) >= d.rxCapacity {
		d.logger.Warn("socketcan receive buffer full, dropping frame")
		return
	}
	id := frame.ID &^ canEFFFlag
	data := append([]byte(nil), frame.Data[:frame.Length]...)
	d.rx = append(d.rx, cyphalcan.Frame{ID: cyphalcan.CanID(id), Data: data})
}

// TryReserve always succeeds: brutella/can exposes no mailbox accounting to
// reserve against.
func (d *Driver) TryReserve(frames int) error {
	return nil
}

// Transmit publishes frame synchronously. Classic CAN frames never exceed 8
// data bytes (MtuClassicCAN - 1 = 7 usable plus the tail byte).
func (d *Driver) Transmit(frame cyphalcan.Frame, now cyphalcan.Microseconds32) (*cyphalcan.Frame, error) {
	if len(frame.Data) > 8 {
		return nil, cyphalcan.ErrInvalidFrame
	}
	var data [8]byte
	copy(data[:], frame.Data)
	err := d.bus.Publish(sockcan.Frame{
		ID:     uint32(frame.ID) | canEFFFlag,
		Length: uint8(len(frame.Data)),
		Data:   data,
	})
	return nil, err
}

// Flush is a no-op: Publish already blocks until the frame reaches the
// socket.
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

// ApplyFilters is a no-op: brutella/can does not expose SocketCAN's raw
// filter socket option, so every frame on the bus reaches handle and
// subscription-level filtering in Receiver.Accept does the rest. See
// pkg/can/socketcanfd for an adapter that installs filters via
// CAN_RAW_FILTER directly.
func (d *Driver) ApplyFilters(localNode *cyphalcan.NodeID, filters []cyphalcan.Filter) error {
	return nil
}
