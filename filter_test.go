package cyphalcan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterAcceptsExactMatch(t *testing.T) {
	f := ExactMatchFilter(0x107d552a)
	assert.True(t, f.Accepts(0x107d552a))
	assert.False(t, f.Accepts(0x107d552b))
}

// TestFilterMergeWorkedExample reproduces the worked merge example: two
// adjacent heartbeat-and-neighbor ids, differing only in their low bit,
// merge into a single filter that accepts both (and nothing else new).
func TestFilterMergeWorkedExample(t *testing.T) {
	a := NewFilter(0x1fffffff, 0x107d552a)
	b := NewFilter(0x1fffffff, 0x107d552b)

	merged := mergeFilters(a, b)
	assert.EqualValues(t, 0x1ffffffe, merged.Mask())
	assert.EqualValues(t, 0x107d552a, merged.ID())
	assert.True(t, merged.Accepts(0x107d552a))
	assert.True(t, merged.Accepts(0x107d552b))
	assert.False(t, merged.Accepts(0x107d552c))
}

func TestOptimizeNoopWhenAlreadyFits(t *testing.T) {
	filters := []Filter{ExactMatchFilter(1), ExactMatchFilter(2)}
	out := Optimize(filters, 5)
	assert.Len(t, out, 2)
}

func TestOptimizeZeroMaxFiltersReturnsNil(t *testing.T) {
	filters := []Filter{ExactMatchFilter(1)}
	assert.Nil(t, Optimize(filters, 0))
}

func TestOptimizeMergesDownToLimit(t *testing.T) {
	filters := []Filter{
		ExactMatchFilter(0x107d552a),
		ExactMatchFilter(0x107d552b),
		ExactMatchFilter(0x107d552c),
		ExactMatchFilter(0x107d552d),
	}
	out := Optimize(filters, 2)
	assert.Len(t, out, 2)
	for _, id := range []uint32{0x107d552a, 0x107d552b, 0x107d552c, 0x107d552d} {
		accepted := false
		for _, f := range out {
			if f.Accepts(id) {
				accepted = true
			}
		}
		assert.True(t, accepted, "id %x must still be accepted by some merged filter", id)
	}
}

func TestFilterForSubscriptionMessageAcceptsAnySourceAndAnonymity(t *testing.T) {
	sub := FilterSubscription{Kind: KindMessage, Port: 7509}
	f, ok := filterForSubscription(sub, nil)
	assert.True(t, ok)

	named, err := EncodeCanID(Header{Kind: KindMessage, Priority: PriorityNominal, Subject: 7509, Source: 32})
	assert.NoError(t, err)
	assert.True(t, f.Accepts(uint32(named)))

	anon, err := EncodeCanID(Header{Kind: KindMessage, Priority: PriorityLow, Subject: 7509, Anonymous: true, Source: 5})
	assert.NoError(t, err)
	assert.True(t, f.Accepts(uint32(anon)))

	other, err := EncodeCanID(Header{Kind: KindMessage, Priority: PriorityNominal, Subject: 7510, Source: 32})
	assert.NoError(t, err)
	assert.False(t, f.Accepts(uint32(other)))
}

func TestFilterForSubscriptionRequestPinsDestination(t *testing.T) {
	local := NodeID(32)
	sub := FilterSubscription{Kind: KindRequest, Port: 100}
	f, ok := filterForSubscription(sub, &local)
	assert.True(t, ok)

	addressed, err := EncodeCanID(Header{Kind: KindRequest, Priority: PriorityHigh, Service: 100, Destination: 32, Source: 7})
	assert.NoError(t, err)
	assert.True(t, f.Accepts(uint32(addressed)))

	elsewhere, err := EncodeCanID(Header{Kind: KindRequest, Priority: PriorityHigh, Service: 100, Destination: 33, Source: 7})
	assert.NoError(t, err)
	assert.False(t, f.Accepts(uint32(elsewhere)))

	response, err := EncodeCanID(Header{Kind: KindResponse, Priority: PriorityHigh, Service: 100, Destination: 32, Source: 33})
	assert.NoError(t, err)
	assert.False(t, f.Accepts(uint32(response)))
}

func TestFilterForSubscriptionServiceRequiresLocalNode(t *testing.T) {
	_, ok := filterForSubscription(FilterSubscription{Kind: KindRequest, Port: 1}, nil)
	assert.False(t, ok)
}

func TestFiltersForSubscriptionsSkipsUnderivable(t *testing.T) {
	subs := []FilterSubscription{
		{Kind: KindMessage, Port: 1},
		{Kind: KindRequest, Port: 2},
	}
	out := FiltersForSubscriptions(subs, nil)
	assert.Len(t, out, 1)
}

func TestCompactMovesValidFiltersToFront(t *testing.T) {
	filters := []Filter{ExactMatchFilter(1), ExactMatchFilter(2), ExactMatchFilter(3)}
	filters[1].invalidate()
	compact(filters)
	assert.True(t, filters[0].Valid())
	assert.True(t, filters[1].Valid())
	assert.False(t, filters[2].Valid())
	assert.EqualValues(t, 1, filters[0].ID())
	assert.EqualValues(t, 3, filters[1].ID())
}
