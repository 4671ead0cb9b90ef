package cyphalcan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRCCheckValue(t *testing.T) {
	// Standard CRC-16/CCITT-FALSE check value for the ASCII string
	// "123456789".
	got := computeTransferCRC([]byte("123456789"))
	assert.EqualValues(t, 0x29B1, got)
}

func TestCRCEmpty(t *testing.T) {
	assert.EqualValues(t, 0xFFFF, computeTransferCRC(nil))
}
