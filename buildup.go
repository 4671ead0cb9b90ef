package cyphalcan

// Buildup reassembles the CAN frame data of one in-progress transfer back
// into a payload. One Buildup exists per session while a transfer is being
// received; the caller (Receiver) is responsible for resetting or replacing
// it on a transfer id mismatch before calling Add.
type Buildup struct {
	transferID   TransferID
	expectStart  bool
	expectToggle bool
	payload      []byte
	frames       int
}

// NewBuildup creates a Buildup for the given transfer id, with room for up
// to maxPayloadLength bytes (the subscription's payload_size_max plus the
// 2-byte transfer CRC).
func NewBuildup(transferID TransferID, maxPayloadLength int) *Buildup {
	return &Buildup{
		transferID:   transferID,
		expectStart:  true,
		expectToggle: true,
		payload:      make([]byte, 0, maxPayloadLength),
	}
}

// TransferID reports the transfer id this Buildup is reassembling.
func (b *Buildup) TransferID() TransferID {
	return b.transferID
}

// Frames reports how many frames have been folded into this Buildup so far.
func (b *Buildup) Frames() int {
	return b.frames
}

// PayloadLength reports the number of payload bytes accumulated so far.
func (b *Buildup) PayloadLength() int {
	return len(b.payload)
}

// Add folds one frame's data (tail byte included, len(frameData) >= 1) into
// the accumulated payload. It returns the complete payload (including any
// trailing CRC and padding) once a frame with end=1 arrives, or nil if more
// frames are expected. The caller must ensure frameData's tail byte carries
// this Buildup's transfer id; that check happens at the session level, not
// here.
func (b *Buildup) Add(frameData []byte) ([]byte, error) {
	if len(frameData) == 0 {
		return nil, ErrInvalidFrame
	}
	tail := decodeTailByte(frameData[len(frameData)-1])
	if tail.Start != b.expectStart {
		return nil, ErrInvalidStart
	}
	if tail.Toggle != b.expectToggle {
		return nil, ErrInvalidToggle
	}
	data := frameData[:len(frameData)-1]
	if len(b.payload)+len(data) > cap(b.payload) {
		return nil, ErrOutOfMemory
	}
	b.payload = append(b.payload, data...)
	b.frames++
	b.expectStart = false
	b.expectToggle = !b.expectToggle
	if tail.End {
		return b.payload, nil
	}
	return nil, nil
}
