package cyphalcan

// Breakdown streams application payload bytes into a sequence of CAN frame
// data bytes, each ending in a tail byte. One Breakdown is used per emitted
// transfer and discarded afterward.
type Breakdown struct {
	usable     int // data bytes available per frame, excluding the tail byte
	transferID TransferID
	start      bool
	toggle     bool
	frame      []byte
}

// NewBreakdown creates a Breakdown for a transfer with the given MTU and
// transfer id. The toggle bit starts set, as required for the first frame.
func NewBreakdown(mtu Mtu, transferID TransferID) *Breakdown {
	return &Breakdown{
		usable:     int(mtu) - 1,
		transferID: transferID,
		start:      true,
		toggle:     true,
		frame:      make([]byte, 0, int(mtu)-1),
	}
}

// Add appends one payload byte. Emission is deferred by one byte: a frame is
// only flushed once a byte arrives that does not fit in it, so a payload
// whose length is an exact multiple of usable is never split into a
// trailing empty frame. If that deferred flush happened, the finished frame
// data (including tail byte) is returned; otherwise nil.
func (b *Breakdown) Add(payload byte) []byte {
	var out []byte
	if len(b.frame) == b.usable {
		out = b.emit(false)
	}
	b.frame = append(b.frame, payload)
	return out
}

// Finish completes the transfer, returning the final frame (which may carry
// fewer than usable data bytes).
func (b *Breakdown) Finish() []byte {
	return b.emit(true)
}

func (b *Breakdown) emit(end bool) []byte {
	tail := encodeTailByte(b.start, end, b.toggle, b.transferID)
	out := make([]byte, len(b.frame)+1)
	copy(out, b.frame)
	out[len(b.frame)] = tail
	b.frame = b.frame[:0]
	b.start = false
	b.toggle = !b.toggle
	return out
}
