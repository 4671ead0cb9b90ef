package cyphalcan

import "math/bits"

const extendedIDMask uint32 = 0x1FFFFFFF

// Filter is a mask/match acceptance filter for 29-bit CAN ids: it accepts id
// x iff (x & Mask()) == (ID() & Mask()). Invalid filters (produced by
// Optimize's merge step) carry zero mask and id and are never returned from
// Optimize.
type Filter struct {
	mask  uint32
	id    uint32
	valid bool
}

// NewFilter creates a filter, truncating mask and id to 29 bits.
func NewFilter(mask, id uint32) Filter {
	return Filter{mask: mask & extendedIDMask, id: id & extendedIDMask, valid: true}
}

// ExactMatchFilter creates a filter that accepts exactly one CAN id.
func ExactMatchFilter(id uint32) Filter {
	return NewFilter(extendedIDMask, id)
}

func (f Filter) Mask() uint32   { return f.mask }
func (f Filter) ID() uint32     { return f.id }
func (f Filter) Valid() bool    { return f.valid }
func (f Filter) rank() int      { return bits.OnesCount32(f.mask) }

// Accepts reports whether this filter accepts CAN id x.
func (f Filter) Accepts(x uint32) bool {
	return f.mask&x == f.mask&f.id
}

func (f *Filter) invalidate() {
	f.mask = 0
	f.id = 0
	f.valid = false
}

func mergeMasks(a, b Filter) uint32 {
	return a.mask & b.mask &^ (a.id ^ b.id)
}

// mergeFilters merges two filters into one that accepts the union of the
// ids they accept (and possibly more).
func mergeFilters(a, b Filter) Filter {
	mask := mergeMasks(a, b)
	return NewFilter(mask, a.id&mask)
}

// Optimize reduces filters (modified in place) to at most maxFilters valid
// entries that together accept every id any input filter accepted. The
// returned slice is a sub-slice of filters. If maxFilters is 0, it returns
// nil; if maxFilters is at least len(filters), it returns filters unchanged
// (still compacted).
func Optimize(filters []Filter, maxFilters int) []Filter {
	if maxFilters == 0 {
		return nil
	}
	mergeToFit(filters, maxFilters)
	compact(filters)
	cut := len(filters)
	for i, f := range filters {
		if !f.valid {
			cut = i
			break
		}
	}
	return filters[:cut]
}

// mergeToFit repeatedly merges the pair of valid filters whose merge has the
// highest rank (ties go to the last pair found), until at most maxFilters
// remain valid.
func mergeToFit(filters []Filter, maxFilters int) {
	valid := len(filters)
	for valid > maxFilters {
		maxRank := -1
		bi, bj := 0, 0
		for i := 0; i < len(filters); i++ {
			for j := i + 1; j < len(filters); j++ {
				if filters[i].valid && filters[j].valid {
					r := mergeFilters(filters[i], filters[j]).rank()
					if r >= maxRank {
						bi, bj = i, j
						maxRank = r
					}
				}
			}
		}
		filters[bi] = mergeFilters(filters[bi], filters[bj])
		filters[bj].invalidate()
		valid--
	}
}

// compact moves every valid filter to the front of the slice, preserving
// their relative order, via insertion sort. This is O(n^2) but filter sets
// are small (bounded by hardware filter bank counts).
func compact(filters []Filter) {
	for i := 1; i < len(filters); i++ {
		j := i
		for j != 0 && !filters[j-1].valid && filters[j].valid {
			filters[j-1], filters[j] = filters[j], filters[j-1]
			j--
		}
	}
}

// filterForSubscription builds the ideal acceptance filter for one
// FilterSubscription: it matches any source, any priority, and (for
// messages) any anonymous flag, so it accepts every CAN id a frame on that
// port could carry. Request/Response filters additionally pin the
// destination bits to localNode, since only frames addressed to this node
// are ever accepted by Receiver.Accept; with a nil localNode (anonymous),
// no Request/Response filter can be derived.
func filterForSubscription(sub FilterSubscription, localNode *NodeID) (Filter, bool) {
	switch sub.Kind {
	case KindMessage:
		mask := uint32(bitsMessageMark) | (uint32(0x1FFF) << 8)
		id := uint32(bitsMessageMark) | (uint32(sub.Port) << 8)
		return NewFilter(mask, id), true
	case KindRequest, KindResponse:
		if localNode == nil {
			return Filter{}, false
		}
		mask := uint32(bitsServiceFlag) | uint32(bitsRequestFlag) | (uint32(0x1FF) << 14) | (uint32(0x7F) << 7)
		id := uint32(bitsServiceFlag) | (uint32(sub.Port) << 14) | (uint32(*localNode) << 7)
		if sub.Kind == KindRequest {
			id |= bitsRequestFlag
		}
		return NewFilter(mask, id), true
	default:
		return Filter{}, false
	}
}

// FiltersForSubscriptions converts subs into their ideal filters, silently
// dropping any that filterForSubscription cannot derive (an anonymous
// node's Request/Response subscriptions). The result is suitable input to
// Optimize.
func FiltersForSubscriptions(subs []FilterSubscription, localNode *NodeID) []Filter {
	filters := make([]Filter, 0, len(subs))
	for _, sub := range subs {
		if f, ok := filterForSubscription(sub, localNode); ok {
			filters = append(filters, f)
		}
	}
	return filters
}
