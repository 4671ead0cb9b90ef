package cyphalcan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTailByteRoundTrip(t *testing.T) {
	cases := []TailByte{
		{Start: true, End: true, Toggle: true, TransferID: 0},
		{Start: true, End: true, Toggle: true, TransferID: 1},
		{Start: false, End: false, Toggle: false, TransferID: 31},
		{Start: true, End: false, Toggle: true, TransferID: 5},
	}
	for _, c := range cases {
		b := encodeTailByte(c.Start, c.End, c.Toggle, c.TransferID)
		assert.Equal(t, c, decodeTailByte(b))
	}
}

func TestTailByteHeartbeatExample(t *testing.T) {
	// start=1, end=1, toggle=1, transfer_id=0 -> 0xe0
	assert.EqualValues(t, 0xe0, encodeTailByte(true, true, true, 0))
	// start=1, end=1, toggle=1, transfer_id=1 -> 0xe1
	assert.EqualValues(t, 0xe1, encodeTailByte(true, true, true, 1))
}
