package cyphalcan

import "github.com/sirupsen/logrus"

// Transmitter breaks outgoing transfers into frames, stages them in the
// outgoing priority queue as one atomic transaction per transfer, and drains
// that queue against a Driver. It also tracks which subjects and services
// this node has registered to publish or request on, bounded by
// maxPublishers/maxRequesters, mirroring the capacity-checked registration
// step a caller performs before it ever calls Push.
type Transmitter struct {
	mtu    Mtu
	queue  *OutgoingQueue
	logger *logrus.Logger

	maxPublishers int
	maxRequesters int
	publishers    map[SubjectID]struct{}
	requesters    map[ServiceID]struct{}

	transferCount uint64
	errorCount    uint64
}

// NewTransmitter creates a Transmitter for the given MTU with an outgoing
// queue of the given capacity (at least as large as the largest
// single-transfer frame count). A nil logger falls back to logrus's
// standard logger. The publisher/requester registries are left unbounded;
// use NewTransmitterFromConfig to apply Config.MaxPublishers/MaxRequesters.
func NewTransmitter(mtu Mtu, queueCapacity int, logger *logrus.Logger) *Transmitter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Transmitter{
		mtu:        mtu,
		queue:      NewOutgoingQueue(queueCapacity),
		logger:     logger,
		publishers: make(map[SubjectID]struct{}),
		requesters: make(map[ServiceID]struct{}),
	}
}

// NewTransmitterFromConfig creates a Transmitter from cfg, applying
// MaxPublishers/MaxRequesters as the registration capacities enforced by
// RegisterPublisher/RegisterRequester.
func NewTransmitterFromConfig(cfg Config) *Transmitter {
	t := NewTransmitter(cfg.Mtu, cfg.OutgoingQueueCapacity, cfg.Logger)
	t.maxPublishers = cfg.MaxPublishers
	t.maxRequesters = cfg.MaxRequesters
	return t
}

// Mtu returns the usable payload bytes per frame (configured MTU minus the
// tail byte).
func (t *Transmitter) Mtu() int {
	return int(t.mtu) - 1
}

func (t *Transmitter) TransferCount() uint64 { return t.transferCount }
func (t *Transmitter) ErrorCount() uint64    { return t.errorCount }

// RegisterPublisher records that this node publishes on subject, enforcing
// the configured publisher capacity. It returns ErrDuplicate if subject is
// already registered, or ErrCapacityExceeded if maxPublishers is reached. A
// zero maxPublishers (the NewTransmitter default) means unbounded.
func (t *Transmitter) RegisterPublisher(subject SubjectID) error {
	if _, ok := t.publishers[subject]; ok {
		return ErrDuplicate
	}
	if t.maxPublishers > 0 && len(t.publishers) >= t.maxPublishers {
		return ErrCapacityExceeded
	}
	t.publishers[subject] = struct{}{}
	return nil
}

// UnregisterPublisher frees subject's publisher slot.
func (t *Transmitter) UnregisterPublisher(subject SubjectID) {
	delete(t.publishers, subject)
}

// RegisterRequester records that this node sends requests for service,
// enforcing the configured requester capacity. It returns ErrDuplicate if
// service is already registered, or ErrCapacityExceeded if maxRequesters is
// reached. A zero maxRequesters (the NewTransmitter default) means
// unbounded.
func (t *Transmitter) RegisterRequester(service ServiceID) error {
	if _, ok := t.requesters[service]; ok {
		return ErrDuplicate
	}
	if t.maxRequesters > 0 && len(t.requesters) >= t.maxRequesters {
		return ErrCapacityExceeded
	}
	t.requesters[service] = struct{}{}
	return nil
}

// UnregisterRequester frees service's requester slot.
func (t *Transmitter) UnregisterRequester(service ServiceID) {
	delete(t.requesters, service)
}

// Push breaks transfer into frames and enqueues them as a single
// transaction: either every frame of the transfer is queued, or none are.
// An anonymous message's Header.Source is overwritten with the derived
// pseudo source id before encoding.
func (t *Transmitter) Push(transfer Transfer, now Microseconds32, driver Driver) error {
	t.transferCount++

	header := transfer.Header
	if header.Kind == KindMessage && header.Anonymous {
		header.Source = derivePseudoSourceID(transfer.Payload)
	}

	canID, err := EncodeCanID(header)
	if err != nil {
		t.errorCount++
		return err
	}

	frameCount, totalWithPadding := frameLayout(t.mtu, len(transfer.Payload))
	if err := driver.TryReserve(frameCount); err != nil {
		t.errorCount++
		return err
	}

	txn := t.queue.Transaction()
	multiFrame := frameCount > 1
	breakdown := NewBreakdown(t.mtu, header.TransferID)
	crc := newCRCDigest()

	emit := func(data []byte) error {
		if data == nil {
			return nil
		}
		return txn.Push(Frame{Timestamp: now, ID: canID, Data: data})
	}

	fail := func(err error) error {
		txn.Rollback()
		t.errorCount++
		return err
	}

	for _, b := range transfer.Payload {
		if multiFrame {
			crc = crc.addByte(b)
		}
		if out := breakdown.Add(b); out != nil {
			if err := emit(out); err != nil {
				return fail(err)
			}
		}
	}

	if multiFrame {
		padding := totalWithPadding - len(transfer.Payload) - 2
		for i := 0; i < padding; i++ {
			crc = crc.addByte(0)
			if out := breakdown.Add(0); out != nil {
				if err := emit(out); err != nil {
					return fail(err)
				}
			}
		}
		sum := crc.value()
		for _, b := range [2]byte{byte(sum >> 8), byte(sum)} {
			if out := breakdown.Add(b); out != nil {
				if err := emit(out); err != nil {
					return fail(err)
				}
			}
		}
	}

	if err := emit(breakdown.Finish()); err != nil {
		return fail(err)
	}

	txn.Commit()
	return nil
}

// Flush drains the outgoing queue through driver, stopping when the driver
// signals ErrWouldBlock. A frame the driver displaces while transmitting
// is re-queued ahead of same-priority peers so bus-priority order is
// preserved.
func (t *Transmitter) Flush(now Microseconds32, driver Driver) error {
	for {
		frame, ok := t.queue.Peek()
		if !ok {
			return nil
		}
		displaced, err := driver.Transmit(frame, now)
		if err != nil {
			if err == ErrWouldBlock {
				return nil
			}
			t.errorCount++
			return &DriverError{Err: err}
		}
		t.queue.Pop()
		if displaced != nil {
			if err := t.queue.ReturnToFront(*displaced); err != nil {
				t.logger.WithError(err).Warn("dropping displaced frame, outgoing queue full")
			}
		}
	}
}
