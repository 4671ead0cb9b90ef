package cyphalcan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func nodeID(n NodeID) *NodeID { return &n }

func mustEncode(t *testing.T, h Header) CanID {
	t.Helper()
	id, err := EncodeCanID(h)
	assert.NoError(t, err)
	return id
}

func TestReceiverAcceptsHeartbeatRoundTrip(t *testing.T) {
	r := NewReceiver(nil, nil)
	r.SubscribeMessage(7509, SubscriptionSpec{PayloadSizeMax: 7, TransferTimeout: 2_000_000}, NewLinearSessionStore(4))

	frame := Frame{ID: 0x107d552a, Data: []byte{0x00, 0x00, 0x00, 0x00, 0x04, 0x78, 0x68, 0xe0}}
	transfer := r.Accept(frame, 0)
	assert.NotNil(t, transfer)
	assert.Equal(t, KindMessage, transfer.Header.Kind)
	assert.EqualValues(t, 42, transfer.Header.Source)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x00, 0x04, 0x78, 0x68}, transfer.Payload)
}

func TestReceiverDropsFrameWithNoSubscription(t *testing.T) {
	r := NewReceiver(nil, nil)
	frame := Frame{ID: 0x107d552a, Data: []byte{0xe0}}
	assert.Nil(t, r.Accept(frame, 0))
}

func TestReceiverDropsServiceNotAddressedToLocalNode(t *testing.T) {
	local := nodeID(99)
	r := NewReceiver(local, nil)
	r.SubscribeRequest(430, SubscriptionSpec{PayloadSizeMax: 0, TransferTimeout: 1_000_000}, NewLinearSessionStore(4))

	// destination is 42, not the local node 99.
	frame := Frame{ID: 0x136b957b, Data: []byte{0xe1}}
	assert.Nil(t, r.Accept(frame, 0))
}

func TestReceiverAnonymousNeverAcceptsServices(t *testing.T) {
	r := NewReceiver(nil, nil)
	r.SubscribeResponse(430, SubscriptionSpec{PayloadSizeMax: 64, TransferTimeout: 1_000_000}, NewLinearSessionStore(4))

	id := mustEncode(t, Header{Kind: KindResponse, Service: 430, Source: 42, Destination: 123})
	frame := Frame{ID: id, Data: []byte{0xe1}}
	// the receiver is anonymous (localNode == nil), so any service frame,
	// no matter its destination, must be dropped.
	assert.Nil(t, r.Accept(frame, 0))
}

func TestReceiverDropsDuplicateTransferIDWithinTimeout(t *testing.T) {
	r := NewReceiver(nil, nil)
	r.SubscribeMessage(7509, SubscriptionSpec{PayloadSizeMax: 7, TransferTimeout: 1000}, NewLinearSessionStore(4))

	frame := Frame{ID: 0x107d552a, Data: []byte{0x00, 0x00, 0x00, 0x00, 0x04, 0x78, 0x68, 0xe0}}
	first := r.Accept(frame, 0)
	assert.NotNil(t, first)

	// same transfer id, well within the 1000us timeout.
	second := r.Accept(frame, 500)
	assert.Nil(t, second, "repeated transfer id before timeout must be dropped as a duplicate")

	// same transfer id, but now past the timeout since the last completed
	// transfer: a legitimate repeat (e.g. node reset) must be accepted.
	third := r.Accept(frame, 2000)
	assert.NotNil(t, third)
}

func TestReceiverResetsBuildupOnNewStartWithDifferentTransferID(t *testing.T) {
	r := NewReceiver(nil, nil)
	r.SubscribeMessage(1, SubscriptionSpec{PayloadSizeMax: 20, TransferTimeout: 1_000_000}, NewLinearSessionStore(4))

	id := mustEncode(t, Header{Kind: KindMessage, Subject: 1, Source: 1})

	// start a transfer with id 0, never finish it: seven payload bytes plus
	// tail, start=1 end=0 toggle=1 transfer_id=0 -> 0xa0.
	first := Frame{ID: id, Data: []byte{1, 2, 3, 4, 5, 6, 7, 0xa0}}
	assert.Nil(t, r.Accept(first, 0))

	// a continuation frame (start=0) carrying a different transfer id
	// (tail 0x41: start=0 end=1 toggle=0 transfer_id=1) must be dropped
	// rather than folded into the stale buildup.
	staleContinuation := Frame{ID: id, Data: []byte{8, 9, 0x41}}
	assert.Nil(t, r.Accept(staleContinuation, 10))

	// a fresh start with a new transfer id (tail 0xe1: start=1 end=1
	// toggle=1 transfer_id=1) replaces the stale buildup.
	second := Frame{ID: id, Data: []byte{9, 0xe1}}
	complete := r.Accept(second, 20)
	assert.NotNil(t, complete)
	assert.Equal(t, []byte{9}, complete.Payload)
}

func TestReceiverDropsCRCMismatch(t *testing.T) {
	r := NewReceiver(nil, nil)
	r.SubscribeMessage(1, SubscriptionSpec{PayloadSizeMax: 20, TransferTimeout: 1_000_000}, NewLinearSessionStore(4))
	id := mustEncode(t, Header{Kind: KindMessage, Subject: 1, Source: 1})

	payload := make([]byte, 10)
	for i := range payload {
		payload[i] = byte(i + 1)
	}
	breakdown := NewBreakdown(MtuClassicCAN, 0)
	crc := newCRCDigest()
	var frames []Frame
	for _, b := range payload {
		crc = crc.addByte(b)
		if out := breakdown.Add(b); out != nil {
			frames = append(frames, Frame{ID: id, Data: out})
		}
	}
	sum := crc.value() ^ 0xFFFF // corrupt the CRC
	for _, b := range [2]byte{byte(sum >> 8), byte(sum)} {
		if out := breakdown.Add(b); out != nil {
			frames = append(frames, Frame{ID: id, Data: out})
		}
	}
	frames = append(frames, Frame{ID: id, Data: breakdown.Finish()})

	var last *Transfer
	for i, f := range frames {
		last = r.Accept(f, Microseconds32(i))
	}
	assert.Nil(t, last)
	assert.EqualValues(t, 1, r.CrcMismatchCount())
}

func TestReceiverDropsPayloadSizeExceeded(t *testing.T) {
	r := NewReceiver(nil, nil)
	// payload_size_max smaller than the single frame's data: the buildup's
	// capacity (payload_size_max plus the 2-byte CRC allowance) is exceeded
	// and the frame is dropped as an allocation failure, same as any other
	// over-capacity reassembly.
	r.SubscribeMessage(1, SubscriptionSpec{PayloadSizeMax: 2, TransferTimeout: 1_000_000}, NewLinearSessionStore(4))
	id := mustEncode(t, Header{Kind: KindMessage, Subject: 1, Source: 1})

	frame := Frame{ID: id, Data: []byte{1, 2, 3, 4, 5, 0xe0}}
	assert.Nil(t, r.Accept(frame, 0))
	assert.EqualValues(t, 1, r.OutOfMemoryCount())
}

func TestReceiverSweepReapsExpiredSessions(t *testing.T) {
	r := NewReceiver(nil, nil)
	r.SubscribeMessage(1, SubscriptionSpec{PayloadSizeMax: 7, TransferTimeout: 100}, NewLinearSessionStore(4))
	id := mustEncode(t, Header{Kind: KindMessage, Subject: 1, Source: 1})

	frame := Frame{ID: id, Data: []byte{0xe0}}
	assert.NotNil(t, r.Accept(frame, 0))

	r.Sweep(1000)

	// after the sweep reaps the session, the same transfer id is treated
	// as fresh rather than a duplicate.
	assert.NotNil(t, r.Accept(frame, 1000))
}

func TestReceiverFilterSubscriptionsCoversAllThreeKinds(t *testing.T) {
	local := nodeID(32)
	r := NewReceiver(local, nil)
	r.SubscribeMessage(7509, SubscriptionSpec{PayloadSizeMax: 7, TransferTimeout: 1}, NewLinearSessionStore(1))
	r.SubscribeRequest(100, SubscriptionSpec{PayloadSizeMax: 7, TransferTimeout: 1}, NewLinearSessionStore(1))
	r.SubscribeResponse(200, SubscriptionSpec{PayloadSizeMax: 7, TransferTimeout: 1}, NewLinearSessionStore(1))

	subs := r.FilterSubscriptions()
	assert.Len(t, subs, 3)

	var kinds []Kind
	for _, s := range subs {
		kinds = append(kinds, s.Kind)
	}
	assert.Contains(t, kinds, KindMessage)
	assert.Contains(t, kinds, KindRequest)
	assert.Contains(t, kinds, KindResponse)
}

func TestReceiverApplyFiltersInstallsOptimizedSetOnDriver(t *testing.T) {
	local := nodeID(32)
	r := NewReceiver(local, nil)
	r.SubscribeMessage(7509, SubscriptionSpec{PayloadSizeMax: 7, TransferTimeout: 1}, NewLinearSessionStore(1))
	r.SubscribeRequest(100, SubscriptionSpec{PayloadSizeMax: 7, TransferTimeout: 1}, NewLinearSessionStore(1))

	driver := &fakeDriver{}
	err := r.ApplyFilters(driver, 1)
	assert.NoError(t, err)
	assert.Len(t, driver.appliedFilters, 1)
	assert.Same(t, local, driver.appliedLocalNode)

	heartbeat := mustEncode(t, Header{Kind: KindMessage, Subject: 7509, Source: 1})
	request := mustEncode(t, Header{Kind: KindRequest, Service: 100, Destination: 32, Source: 1})
	assert.True(t, driver.appliedFilters[0].Accepts(uint32(heartbeat)))
	assert.True(t, driver.appliedFilters[0].Accepts(uint32(request)))
}

func TestReceiverApplyFiltersAnonymousSkipsServiceSubscriptions(t *testing.T) {
	r := NewReceiver(nil, nil)
	r.SubscribeRequest(100, SubscriptionSpec{PayloadSizeMax: 7, TransferTimeout: 1}, NewLinearSessionStore(1))

	driver := &fakeDriver{}
	err := r.ApplyFilters(driver, 8)
	assert.NoError(t, err)
	assert.Empty(t, driver.appliedFilters)
}
