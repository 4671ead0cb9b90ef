package virtual

import (
	"testing"

	"github.com/stretchr/testify/assert"

	cyphalcan "github.com/samsamfire/gocyphal"
)

func TestSerializeFrame(t *testing.T) {
	frame := cyphalcan.Frame{ID: 0x107d552a, Data: []byte{0x00, 0x00, 0x00, 0x00, 0x04, 0x78, 0x68, 0xe0}}
	out := serializeFrame(frame)
	assert.Equal(t, []byte{0x10, 0x7d, 0x55, 0x2a, 0x08}, out[:5])
	assert.Equal(t, frame.Data, out[5:])
}

func TestSerializeFrameEmptyPayload(t *testing.T) {
	frame := cyphalcan.Frame{ID: 1, Data: nil}
	out := serializeFrame(frame)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x01, 0x00}, out)
}
