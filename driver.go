package cyphalcan

// Clock supplies the core's notion of time. Now returns a wraparound-safe
// microsecond timestamp; the core never calls any other time source.
type Clock interface {
	Now() Microseconds32
}

// FilterSubscription is one (kind, port) pair the Receiver wants hardware
// filters installed for.
type FilterSubscription struct {
	Kind Kind
	Port uint16 // SubjectID for KindMessage, ServiceID for Request/Response
}

// Driver is the capability surface a caller supplies to let Transmitter and
// Receiver talk to an actual CAN or CAN-FD controller. The core borrows the
// driver for the duration of each call; it never stores it.
type Driver interface {
	// TryReserve asks the driver to pre-allocate room for frames more
	// frames, returning ErrOutOfMemory if it cannot.
	TryReserve(frames int) error
	// Transmit pushes frame onto the controller's transmit mailboxes. It
	// returns ErrWouldBlock if no mailbox is available. If the controller
	// had to evict a lower-priority queued frame to make room, that frame
	// is returned so the caller can re-queue it.
	Transmit(frame Frame, now Microseconds32) (displaced *Frame, err error)
	// Flush asks the driver to push out anything buffered internally.
	Flush(now Microseconds32) error
	// Receive pops at most one received frame, returning ErrWouldBlock if
	// none is available.
	Receive(now Microseconds32) (Frame, error)
	// ApplyFilters installs hardware acceptance filters. filters is already
	// optimized (see Optimize and Receiver.ApplyFilters) and must accept
	// every frame matching at least one subscription it was derived from;
	// it may admit more. Implementations should fall back to accept-all if
	// filter installation fails.
	ApplyFilters(localNode *NodeID, filters []Filter) error
}
