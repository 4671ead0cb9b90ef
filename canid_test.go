package cyphalcan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeCanIDHeartbeat(t *testing.T) {
	h := Header{
		Kind:     KindMessage,
		Priority: PriorityNominal,
		Subject:  7509,
		Source:   42,
	}
	id, err := EncodeCanID(h)
	assert.NoError(t, err)
	assert.EqualValues(t, 0x107d552a, id)

	decoded, err := DecodeCanID(id)
	assert.NoError(t, err)
	assert.Equal(t, KindMessage, decoded.Kind)
	assert.Equal(t, PriorityNominal, decoded.Priority)
	assert.EqualValues(t, 7509, decoded.Subject)
	assert.EqualValues(t, 42, decoded.Source)
	assert.False(t, decoded.Anonymous)
}

func TestEncodeCanIDServiceRequest(t *testing.T) {
	h := Header{
		Kind:        KindRequest,
		Priority:    PriorityNominal,
		Service:     430,
		Source:      123,
		Destination: 42,
	}
	id, err := EncodeCanID(h)
	assert.NoError(t, err)
	assert.EqualValues(t, 0x136b957b, id)

	decoded, err := DecodeCanID(id)
	assert.NoError(t, err)
	assert.Equal(t, KindRequest, decoded.Kind)
	assert.EqualValues(t, 430, decoded.Service)
	assert.EqualValues(t, 123, decoded.Source)
	assert.EqualValues(t, 42, decoded.Destination)
}

func TestEncodeCanIDServiceResponseClearsRequestFlag(t *testing.T) {
	h := Header{
		Kind:        KindResponse,
		Priority:    PriorityNominal,
		Service:     430,
		Source:      42,
		Destination: 123,
	}
	id, err := EncodeCanID(h)
	assert.NoError(t, err)
	decoded, err := DecodeCanID(id)
	assert.NoError(t, err)
	assert.Equal(t, KindResponse, decoded.Kind)
}

func TestEncodeCanIDAnonymousMessage(t *testing.T) {
	payload := []byte{0x00, 0x18, 0x48, 0x65, 0x6c, 0x6c, 0x6f, 0x20, 0x77, 0x6f, 0x72, 0x6c, 0x64, 0x21}
	h := Header{
		Kind:      KindMessage,
		Priority:  PriorityNominal,
		Subject:   4919,
		Anonymous: true,
		Source:    derivePseudoSourceID(payload),
	}
	id, err := EncodeCanID(h)
	assert.NoError(t, err)
	assert.NotZero(t, uint32(id)&bitsAnonymous, "anonymous flag (bit 24) must be set")

	decoded, err := DecodeCanID(id)
	assert.NoError(t, err)
	assert.True(t, decoded.Anonymous)
	assert.Equal(t, h.Source, decoded.Source)
}

func TestEncodeCanIDAnonymousRequestRejected(t *testing.T) {
	h := Header{Kind: KindRequest, Anonymous: true, Service: 1, Destination: 1}
	_, err := EncodeCanID(h)
	assert.ErrorIs(t, err, ErrAnonymousRequest)
}

func TestDecodeCanIDRejectsReservedEncoding(t *testing.T) {
	// bit 25 clear (not a service) but the message marker bits not both set.
	_, err := DecodeCanID(CanID(0x00000000))
	assert.ErrorIs(t, err, ErrInvalidFrame)
}

func TestDecodeCanIDRejectsOutOfRange(t *testing.T) {
	_, err := DecodeCanID(CanID(0xFFFFFFFF))
	assert.ErrorIs(t, err, ErrInvalidFrame)
}
