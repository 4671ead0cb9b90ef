package cyphalcan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildupSingleFrame(t *testing.T) {
	b := NewBuildup(0, 7)
	complete, err := b.Add([]byte{0x00, 0x00, 0x00, 0x00, 0x04, 0x78, 0x68, 0xe0})
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x00, 0x04, 0x78, 0x68}, complete)
	assert.Equal(t, 1, b.Frames())
}

func TestBuildupEmptyPayload(t *testing.T) {
	b := NewBuildup(1, 0)
	complete, err := b.Add([]byte{0xe1})
	assert.NoError(t, err)
	assert.Empty(t, complete)
}

func TestBuildupRejectsUnexpectedStart(t *testing.T) {
	b := NewBuildup(0, 7)
	// a continuation frame (start=0) can never be the first one a session
	// sees for a fresh transfer id.
	_, err := b.Add([]byte{0x00, 0x60})
	assert.ErrorIs(t, err, ErrInvalidStart)
}

func TestBuildupRejectsToggleMismatch(t *testing.T) {
	b := NewBuildup(0, 14)
	_, err := b.Add([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0xa0})
	assert.NoError(t, err)
	// the next frame must toggle; sending the same toggle bit again is an
	// out-of-sequence frame and must be rejected rather than silently
	// folded in.
	_, err = b.Add([]byte{0x08, 0x09, 0x0a, 0x60})
	assert.ErrorIs(t, err, ErrInvalidToggle)
}

func TestBuildupRejectsOverCapacity(t *testing.T) {
	b := NewBuildup(0, 2)
	_, err := b.Add([]byte{0x01, 0x02, 0x03, 0xa0})
	assert.ErrorIs(t, err, ErrOutOfMemory)
}

// TestBreakdownBuildupRoundTrip71Bytes exercises the 11-frame multiframe
// worked example: a 71-byte payload over classic CAN (MTU 8) produces 11
// frames totaling 73 logical bytes (71 payload + 2 CRC, no padding), and
// feeding those frames back through a Buildup reassembles the exact
// original payload.
func TestBreakdownBuildupRoundTrip71Bytes(t *testing.T) {
	payload := make([]byte, 71)
	for i := range payload {
		payload[i] = byte(i)
	}
	frameCount, totalWithPadding := frameLayout(MtuClassicCAN, len(payload))
	assert.Equal(t, 11, frameCount)
	assert.Equal(t, 73, totalWithPadding)

	breakdown := NewBreakdown(MtuClassicCAN, 3)
	crc := newCRCDigest()
	var frames [][]byte
	for _, b := range payload {
		crc = crc.addByte(b)
		if out := breakdown.Add(b); out != nil {
			frames = append(frames, out)
		}
	}
	sum := crc.value()
	for _, b := range [2]byte{byte(sum >> 8), byte(sum)} {
		if out := breakdown.Add(b); out != nil {
			frames = append(frames, out)
		}
	}
	frames = append(frames, breakdown.Finish())
	assert.Len(t, frames, frameCount)

	// the trailing CRC bytes: CRC-16/CCITT-FALSE of the bytes 0x00..0x46 is
	// 0x7c38.
	last := frames[len(frames)-1]
	assert.Equal(t, byte(0x7c), last[len(last)-3])
	assert.Equal(t, byte(0x38), last[len(last)-2])

	buildup := NewBuildup(3, 71+2)
	var complete []byte
	for _, f := range frames {
		out, err := buildup.Add(f)
		assert.NoError(t, err)
		if out != nil {
			complete = out
		}
	}
	assert.Len(t, complete, 73)
	body := complete[:71]
	want := uint16(complete[71])<<8 | uint16(complete[72])
	assert.Equal(t, payload, body)
	assert.Equal(t, computeTransferCRC(body), want)
	assert.Equal(t, 11, buildup.Frames())
}
