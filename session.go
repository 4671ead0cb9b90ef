package cyphalcan

// Session is the per-source reassembly state for one subscription: when the
// source was last heard from, how long it may go silent before expiring,
// the last transfer id it completed (for duplicate detection), and any
// Buildup currently in progress.
type Session struct {
	LastActivity   Microseconds32
	Timeout        Microseconds32
	LastTransferID *TransferID
	Buildup        *Buildup
}

// IsExpired reports whether this session should be reaped by a sweep at
// time now. Equality is not expiry: only strictly-after deadlines expire.
func (s *Session) IsExpired(now Microseconds32) bool {
	return int32(now-(s.LastActivity+s.Timeout)) > 0
}

// SessionStore maps a source NodeID to its Session for one subscription.
// Linear, Array, and Dynamic provide the same observable behavior with
// different capacity/performance tradeoffs; callers pick one per
// subscription at configuration time.
type SessionStore interface {
	Get(node NodeID) (*Session, bool)
	// GetOrInsertWith returns the existing session for node, or creates one
	// with create() and inserts it. It fails with ErrOutOfMemory only if
	// the store is at capacity and node is not already present.
	GetOrInsertWith(node NodeID, create func() Session) (*Session, error)
	Remove(node NodeID)
	// Sweep drops every session expired as of now.
	Sweep(now Microseconds32)
}
