package cyphalcan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameLayoutSingleFrameClassicCAN(t *testing.T) {
	frames, total := frameLayout(MtuClassicCAN, 7)
	assert.Equal(t, 1, frames)
	assert.Equal(t, 7, total)
}

func TestFrameLayoutExactMultipleClassicCAN(t *testing.T) {
	// 71-byte payload at MTU 8 worked example: 11 frames, 73 logical bytes.
	frames, total := frameLayout(MtuClassicCAN, 71)
	assert.Equal(t, 11, frames)
	assert.Equal(t, 73, total)
}

func TestFrameLayoutEmptyPayload(t *testing.T) {
	frames, total := frameLayout(MtuClassicCAN, 0)
	assert.Equal(t, 1, frames)
	assert.Equal(t, 0, total)
}

func TestFrameLayoutCanFDSingleFrameUnderUsable(t *testing.T) {
	// 10-byte payload at MTU 64 (usable = 63) fits in one frame with no
	// transfer CRC and no padding.
	frames, total := frameLayout(Mtu64, 10)
	assert.Equal(t, 1, frames)
	assert.Equal(t, 10, total)
}

func TestFrameLayoutCanFDMultiFramePadsTrailingFrame(t *testing.T) {
	// 64-byte payload at MTU 64 (usable = 63) overflows into a second frame:
	// total = 64 + 2 = 66; full = 66/63 = 1, remainder = 3, which rounds up
	// to the smallest allowed trailing size (12), so lastFrameDataLen = 11
	// and padding = 8.
	frames, total := frameLayout(Mtu64, 64)
	assert.Equal(t, 2, frames)
	assert.Equal(t, 66+8, total)
}

func TestValidMtuAcceptsKnownValues(t *testing.T) {
	for _, m := range []Mtu{MtuClassicCAN, Mtu12, Mtu16, Mtu20, Mtu24, Mtu32, Mtu48, Mtu64} {
		assert.True(t, ValidMtu(m))
	}
}

func TestValidMtuRejectsUnknownValue(t *testing.T) {
	assert.False(t, ValidMtu(Mtu(13)))
}

func TestNewSessionStoreLinear(t *testing.T) {
	cfg := Config{SessionStoreKind: SessionStoreLinear, SessionStoreCapacity: 2}
	store := NewSessionStore(cfg)
	_, ok := store.(*LinearSessionStore)
	assert.True(t, ok)
}

func TestNewSessionStoreArray(t *testing.T) {
	cfg := Config{SessionStoreKind: SessionStoreArray}
	store := NewSessionStore(cfg)
	_, ok := store.(*ArraySessionStore)
	assert.True(t, ok)
}

func TestNewSessionStoreDynamic(t *testing.T) {
	cfg := Config{SessionStoreKind: SessionStoreDynamic}
	store := NewSessionStore(cfg)
	_, ok := store.(*DynamicSessionStore)
	assert.True(t, ok)
}

func TestConfigLoggerDefaultsToStandardLogger(t *testing.T) {
	cfg := Config{}
	assert.NotNil(t, cfg.logger())
}
