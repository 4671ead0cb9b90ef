// Package kvaser is a CAN-FD-capable Driver binding Kvaser's CANlib through
// cgo.
package kvaser

/*
#cgo LDFLAGS: -lcanlib

#include <canlib.h>
*/
import "C"

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/sirupsen/logrus"

	cyphalcan "github.com/samsamfire/gocyphal"
)

const (
	OpenExclusive         int = C.canOPEN_EXCLUSIVE
	OpenRequireExtended   int = C.canOPEN_REQUIRE_EXTENDED
	OpenAcceptVirtual     int = C.canOPEN_ACCEPT_VIRTUAL
	OpenOverrideExclusive int = C.canOPEN_OVERRIDE_EXCLUSIVE
	OpenRequireInitAccess int = C.canOPEN_REQUIRE_INIT_ACCESS
	OpenNoInitAccess      int = C.canOPEN_NO_INIT_ACCESS
	OpenAcceptLargeDlc    int = C.canOPEN_ACCEPT_LARGE_DLC
	OpenCanFd             int = C.canOPEN_CAN_FD
	OpenCanFdNonIso       int = C.canOPEN_CAN_FD_NONISO
)

const statusOK int = C.canOK

const defaultReadTimeoutMs = 500

// Error wraps a CANlib status code with its human-readable description.
type Error struct {
	Code        int
	Description string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v (%v)", e.Description, e.Code)
}

func newError(code int) error {
	if code >= statusOK {
		return nil
	}
	var msg [64]C.char
	status := int(C.canGetErrorText(C.canStatus(code), &msg[0], C.uint(unsafe.Sizeof(msg))))
	if status < statusOK {
		return fmt.Errorf("unable to get description for error code %v (%v)", code, status)
	}
	return &Error{Code: code, Description: C.GoString(&msg[0])}
}

var errNoMsg = newError(int(C.canERR_NOMSG))

// Driver adapts a Kvaser CANlib channel to cyphalcan.Driver, in CAN-FD mode.
type Driver struct {
	handle C.canHandle
	logger *logrus.Logger
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	rx         []cyphalcan.Frame
	rxCapacity int
}

// Open opens channel with the given CANlib open flags (OR OpenCanFd in to
// enable CAN-FD framing) and sets it to 500 kbit/s arbitration / CAN-FD
// mode. A nil logger falls back to logrus's standard logger.
func Open(channel int, flags int, logger *logrus.Logger) (*Driver, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	C.canInitializeLibrary()
	handle := C.canOpenChannel(C.int(channel), C.int(flags))
	if err := newError(int(handle)); err != nil {
		return nil, err
	}
	if status := C.canSetBusParams(handle, C.canBITRATE_500K, 0, 0, 0, 0, 0); newError(int(status)) != nil {
		return nil, newError(int(status))
	}
	if status := C.canSetBusOutputControl(handle, C.canDRIVER_NORMAL); newError(int(status)) != nil {
		return nil, newError(int(status))
	}
	if status := C.canBusOn(handle); newError(int(status)) != nil {
		return nil, newError(int(status))
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Driver{handle: handle, logger: logger, cancel: cancel, rxCapacity: 64}
	d.wg.Add(1)
	go d.receiveLoop(ctx)
	return d, nil
}

func (d *Driver) receiveLoop(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		id := C.long(0)
		var data [64]byte
		dlc := C.uint(0)
		flags := C.uint(0)
		timestamp := C.ulong(0)
		status := C.canReadWait(d.handle, &id, unsafe.Pointer(&data), &dlc, &flags, &timestamp, C.ulong(defaultReadTimeoutMs))
		err := newError(int(status))
		if err != nil {
			if errNoMsg != nil && err.Error() == errNoMsg.Error() {
				continue
			}
			d.logger.WithError(err).Warn("kvaser receive loop exiting")
			return
		}
		frame := cyphalcan.Frame{ID: cyphalcan.CanID(uint32(id)), Data: append([]byte(nil), data[:dlc]...)}
		d.mu.Lock()
		if len(d.rx) < d.rxCapacity {
			d.rx = append(d.rx, frame)
		} else {
			d.logger.Warn("kvaser receive buffer full, dropping frame")
		}
		d.mu.Unlock()
	}
}

// TryReserve always succeeds: CANlib exposes no mailbox accounting to
// reserve against ahead of canWrite.
func (d *Driver) TryReserve(frames int) error {
	return nil
}

func (d *Driver) Transmit(frame cyphalcan.Frame, now cyphalcan.Microseconds32) (*cyphalcan.Frame, error) {
	if len(frame.Data) == 0 {
		return nil, errors.New("kvaser: empty frame data")
	}
	status := C.canWrite(d.handle, C.long(frame.ID), unsafe.Pointer(&frame.Data[0]), C.uint(len(frame.Data)), C.canMSG_EXT)
	if err := newError(int(status)); err != nil {
		return nil, err
	}
	return nil, nil
}

// Flush waits for CANlib's transmit queue to drain.
func (d *Driver) Flush(now cyphalcan.Microseconds32) error {
	status := C.canWriteSync(d.handle, defaultReadTimeoutMs)
	return newError(int(status))
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

// ApplyFilters is a no-op: CANlib's hardware filter API varies by card
// generation and is out of scope for this adapter; subscription-level
// filtering in Receiver.Accept does the rest.
func (d *Driver) ApplyFilters(localNode *cyphalcan.NodeID, filters []cyphalcan.Filter) error {
	return nil
}

// Close stops the receive loop, takes the channel off the bus, and closes
// it.
func (d *Driver) Close() error {
	d.cancel()
	d.wg.Wait()
	_ = C.canBusOff(d.handle)
	return newError(int(C.canClose(d.handle)))
}
