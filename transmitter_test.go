package cyphalcan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransmitterHeartbeatSingleFrame(t *testing.T) {
	tx := NewTransmitter(MtuClassicCAN, 4, nil)
	driver := &fakeDriver{}

	transfer := Transfer{
		Header: Header{
			Kind:     KindMessage,
			Priority: PriorityNominal,
			Subject:  7509,
			Source:   42,
		},
		Payload: []byte{0x00, 0x00, 0x00, 0x00, 0x04, 0x78, 0x68},
	}
	assert.NoError(t, tx.Push(transfer, 0, driver))
	assert.NoError(t, tx.Flush(0, driver))

	assert.Len(t, driver.sent, 1)
	assert.EqualValues(t, 0x107d552a, driver.sent[0].ID)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x00, 0x04, 0x78, 0x68, 0xe0}, driver.sent[0].Data)
	assert.EqualValues(t, 1, tx.TransferCount())
}

func TestTransmitterServiceRequestEmptyPayload(t *testing.T) {
	tx := NewTransmitter(MtuClassicCAN, 4, nil)
	driver := &fakeDriver{}

	transfer := Transfer{
		Header: Header{
			Kind:        KindRequest,
			Priority:    PriorityNominal,
			Service:     430,
			Source:      123,
			Destination: 42,
			TransferID:  1,
		},
	}
	assert.NoError(t, tx.Push(transfer, 0, driver))
	assert.NoError(t, tx.Flush(0, driver))

	assert.Len(t, driver.sent, 1)
	assert.EqualValues(t, 0x136b957b, driver.sent[0].ID)
	assert.Equal(t, []byte{0xe1}, driver.sent[0].Data)
}

func TestTransmitterMultiFrame71Bytes(t *testing.T) {
	tx := NewTransmitter(MtuClassicCAN, 16, nil)
	driver := &fakeDriver{}

	payload := make([]byte, 71)
	for i := range payload {
		payload[i] = byte(i)
	}
	transfer := Transfer{
		Header: Header{
			Kind:        KindResponse,
			Priority:    PriorityNominal,
			Service:     430,
			Source:      42,
			Destination: 123,
			TransferID:  2,
		},
		Payload: payload,
	}
	assert.NoError(t, tx.Push(transfer, 0, driver))
	assert.NoError(t, tx.Flush(0, driver))

	assert.Len(t, driver.sent, 11)
	for _, f := range driver.sent {
		assert.EqualValues(t, 0x126bbdaa, f.ID)
	}
	last := driver.sent[len(driver.sent)-1]
	assert.Equal(t, byte(0x7c), last.Data[len(last.Data)-3])
	assert.Equal(t, byte(0x38), last.Data[len(last.Data)-2])
}

func TestTransmitterAnonymousMessageDerivesSource(t *testing.T) {
	tx := NewTransmitter(MtuClassicCAN, 4, nil)
	driver := &fakeDriver{}

	payload := []byte{0x01, 0x02, 0x03}
	transfer := Transfer{
		Header: Header{
			Kind:      KindMessage,
			Priority:  PriorityNominal,
			Subject:   4919,
			Anonymous: true,
		},
		Payload: payload,
	}
	assert.NoError(t, tx.Push(transfer, 0, driver))
	assert.NoError(t, tx.Flush(0, driver))

	assert.Len(t, driver.sent, 1)
	header, err := DecodeCanID(driver.sent[0].ID)
	assert.NoError(t, err)
	assert.True(t, header.Anonymous)
	assert.Equal(t, derivePseudoSourceID(payload), header.Source)
}

func TestTransmitterPushRollsBackOnReserveFailure(t *testing.T) {
	tx := NewTransmitter(MtuClassicCAN, 4, nil)
	driver := &fakeDriver{reserveErr: ErrOutOfMemory}

	transfer := Transfer{
		Header:  Header{Kind: KindMessage, Subject: 1, Source: 1},
		Payload: []byte{1, 2, 3},
	}
	err := tx.Push(transfer, 0, driver)
	assert.ErrorIs(t, err, ErrOutOfMemory)
	assert.EqualValues(t, 1, tx.ErrorCount())

	assert.NoError(t, tx.Flush(0, driver))
	assert.Empty(t, driver.sent, "a rolled-back transfer must never reach the driver")
}

func TestTransmitterFlushRequeuesDisplacedFrame(t *testing.T) {
	tx := NewTransmitter(MtuClassicCAN, 4, nil)
	displaced := Frame{ID: 5, Data: []byte{0xaa}}
	driver := &fakeDriver{displace: &displaced}

	transfer := Transfer{
		Header:  Header{Kind: KindMessage, Subject: 1, Source: 1},
		Payload: []byte{1},
	}
	assert.NoError(t, tx.Push(transfer, 0, driver))
	assert.NoError(t, tx.Flush(0, driver))

	// the pushed frame and the displaced one must both have been handed to
	// the driver: the pushed frame first, then the re-queued displaced one
	// on the next Flush loop iteration.
	assert.Len(t, driver.sent, 2)
	assert.EqualValues(t, 5, driver.sent[1].ID)
}

func TestTransmitterRegisterPublisherRejectsDuplicate(t *testing.T) {
	tx := NewTransmitter(MtuClassicCAN, 4, nil)
	assert.NoError(t, tx.RegisterPublisher(7509))
	assert.ErrorIs(t, tx.RegisterPublisher(7509), ErrDuplicate)
}

func TestTransmitterRegisterPublisherUnboundedByDefault(t *testing.T) {
	tx := NewTransmitter(MtuClassicCAN, 4, nil)
	for subject := SubjectID(0); subject < 100; subject++ {
		assert.NoError(t, tx.RegisterPublisher(subject))
	}
}

func TestTransmitterRegisterPublisherEnforcesConfiguredCapacity(t *testing.T) {
	tx := NewTransmitterFromConfig(Config{Mtu: MtuClassicCAN, OutgoingQueueCapacity: 4, MaxPublishers: 2})
	assert.NoError(t, tx.RegisterPublisher(1))
	assert.NoError(t, tx.RegisterPublisher(2))
	assert.ErrorIs(t, tx.RegisterPublisher(3), ErrCapacityExceeded)

	tx.UnregisterPublisher(1)
	assert.NoError(t, tx.RegisterPublisher(3))
}

func TestTransmitterRegisterRequesterRejectsDuplicateAndEnforcesCapacity(t *testing.T) {
	tx := NewTransmitterFromConfig(Config{Mtu: MtuClassicCAN, OutgoingQueueCapacity: 4, MaxRequesters: 1})
	assert.NoError(t, tx.RegisterRequester(100))
	assert.ErrorIs(t, tx.RegisterRequester(100), ErrDuplicate)
	assert.ErrorIs(t, tx.RegisterRequester(200), ErrCapacityExceeded)

	tx.UnregisterRequester(100)
	assert.NoError(t, tx.RegisterRequester(200))
}
