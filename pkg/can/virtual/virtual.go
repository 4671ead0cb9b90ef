// Package virtual is a TCP-loopback Driver for tests and simulation. It
// dials a broker that relays frames to every connected peer (see
// https://github.com/windelbouwman/virtualcan for the protocol this
// mirrors), using a small length-prefixed framing capable of carrying any
// cyphalcan frame length instead of the teacher's fixed 8-byte struct.
package virtual

import (
	"encoding/binary"
	"io"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	cyphalcan "github.com/samsamfire/gocyphal"
)

// Driver adapts a TCP connection to cyphalcan.Driver. The wire format is a
// 4-byte big-endian CAN id, a 1-byte data length, then that many data bytes.
type Driver struct {
	logger *logrus.Logger
	conn   net.Conn

	mu         sync.Mutex
	rx         []cyphalcan.Frame
	rxCapacity int

	closed chan struct{}
	wg     sync.WaitGroup
}

// Dial connects to a virtual bus broker at address (e.g. "localhost:18000").
// A nil logger falls back to logrus's standard logger.
func Dial(address string, logger *logrus.Logger) (*Driver, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	conn, err := net.Dial("tcp", address)
	if err != nil {
		return nil, err
	}
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		_ = tcpConn.SetNoDelay(true)
	}
	d := &Driver{logger: logger, conn: conn, rxCapacity: 64, closed: make(chan struct{})}
	d.wg.Add(1)
	go d.receiveLoop()
	return d, nil
}

func serializeFrame(frame cyphalcan.Frame) []byte {
	out := make([]byte, 5, 5+len(frame.Data))
	binary.BigEndian.PutUint32(out[:4], uint32(frame.ID))
	out[4] = byte(len(frame.Data))
	return append(out, frame.Data...)
}

func (d *Driver) receiveLoop() {
	defer d.wg.Done()
	header := make([]byte, 5)
	for {
		select {
		case <-d.closed:
			return
		default:
		}
		_ = d.conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		if _, err := io.ReadFull(d.conn, header); err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			d.logger.WithError(err).Warn("virtual bus receive loop exiting")
			return
		}
		id := binary.BigEndian.Uint32(header[:4])
		length := int(header[4])
		data := make([]byte, length)
		if length > 0 {
			if _, err := io.ReadFull(d.conn, data); err != nil {
				d.logger.WithError(err).Warn("virtual bus receive loop exiting")
				return
			}
		}
		frame := cyphalcan.Frame{ID: cyphalcan.CanID(id), Data: data}

		d.mu.Lock()
		if len(d.rx) < d.rxCapacity {
			d.rx = append(d.rx, frame)
		} else {
			d.logger.Warn("virtual bus receive buffer full, dropping frame")
		}
		d.mu.Unlock()
	}
}

// TryReserve always succeeds: this adapter has no mailbox accounting of its
// own.
func (d *Driver) TryReserve(frames int) error {
	return nil
}

func (d *Driver) Transmit(frame cyphalcan.Frame, now cyphalcan.Microseconds32) (*cyphalcan.Frame, error) {
	if len(frame.Data) > 255 {
		return nil, cyphalcan.ErrInvalidFrame
	}
	_ = d.conn.SetWriteDeadline(time.Now().Add(10 * time.Millisecond))
	_, err := d.conn.Write(serializeFrame(frame))
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil, cyphalcan.ErrWouldBlock
		}
		return nil, err
	}
	return nil, nil
}

// Flush is a no-op: Write already hands the frame to the TCP connection.
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

// ApplyFilters is a no-op: the loopback broker has no hardware filter bank
// to program; every frame it relays reaches Receive and subscription-level
// filtering in Receiver.Accept does the rest.
func (d *Driver) ApplyFilters(localNode *cyphalcan.NodeID, filters []cyphalcan.Filter) error {
	return nil
}

// Close stops the receive loop and closes the connection.
func (d *Driver) Close() error {
	close(d.closed)
	d.wg.Wait()
	return d.conn.Close()
}
