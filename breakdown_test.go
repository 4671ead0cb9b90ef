package cyphalcan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBreakdownHeartbeatSingleFrame(t *testing.T) {
	payload := []byte{0x00, 0x00, 0x00, 0x00, 0x04, 0x78, 0x68}
	b := NewBreakdown(MtuClassicCAN, 0)
	var frames [][]byte
	for _, byte := range payload {
		if out := b.Add(byte); out != nil {
			frames = append(frames, out)
		}
	}
	frames = append(frames, b.Finish())

	assert.Len(t, frames, 1)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x00, 0x04, 0x78, 0x68, 0xe0}, frames[0])
}

func TestBreakdownServiceRequestEmptyPayload(t *testing.T) {
	b := NewBreakdown(MtuClassicCAN, 1)
	frame := b.Finish()
	assert.Equal(t, []byte{0xe1}, frame)
}

func TestBreakdownReusedBufferDoesNotAliasPreviousFrame(t *testing.T) {
	b := NewBreakdown(MtuClassicCAN, 0)
	payload := make([]byte, 0, 20)
	for i := 0; i < 20; i++ {
		payload = append(payload, byte(i))
	}
	var frames [][]byte
	for _, by := range payload {
		if out := b.Add(by); out != nil {
			frames = append(frames, out)
		}
	}
	frames = append(frames, b.Finish())

	assert.Len(t, frames, 3)
	assert.Equal(t, []byte{0, 1, 2, 3, 4, 5, 6}, frames[0][:7])
	assert.Equal(t, []byte{7, 8, 9, 10, 11, 12, 13}, frames[1][:7])
	assert.Equal(t, []byte{14, 15, 16, 17, 18, 19}, frames[2][:6])
	// first frame must still read back its original payload bytes, proving
	// the reused internal buffer did not alias into it after later Adds.
	assert.Equal(t, byte(0), frames[0][0])
	assert.Equal(t, byte(6), frames[0][6])
}
