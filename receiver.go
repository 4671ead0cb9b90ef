package cyphalcan

import "github.com/sirupsen/logrus"

// Receiver owns the subscription manager and every session store, and turns
// incoming frames into complete Transfers. It never blocks: Receive pulls at
// most one frame per call and returns immediately if none is available.
type Receiver struct {
	localNode     *NodeID
	subscriptions *SubscriptionManager
	logger        *logrus.Logger

	messageSessions  map[SubjectID]SessionStore
	requestSessions  map[ServiceID]SessionStore
	responseSessions map[ServiceID]SessionStore

	invalidFrameCount int64
	crcMismatchCount  int64
	outOfMemoryCount  int64
}

// NewReceiver creates a Receiver for the given local node id (nil for an
// anonymous node, which may still receive messages but never services
// addressed to it). A nil logger falls back to logrus's standard logger.
func NewReceiver(localNode *NodeID, logger *logrus.Logger) *Receiver {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Receiver{
		localNode:        localNode,
		subscriptions:    NewSubscriptionManager(),
		logger:           logger,
		messageSessions:  make(map[SubjectID]SessionStore),
		requestSessions:  make(map[ServiceID]SessionStore),
		responseSessions: make(map[ServiceID]SessionStore),
	}
}

func (r *Receiver) InvalidFrameCount() int64 { return r.invalidFrameCount }
func (r *Receiver) CrcMismatchCount() int64  { return r.crcMismatchCount }
func (r *Receiver) OutOfMemoryCount() int64  { return r.outOfMemoryCount }

// SubscribeMessage registers interest in a subject, backed by store. A
// previous subscription to the same subject is overwritten.
func (r *Receiver) SubscribeMessage(subject SubjectID, spec SubscriptionSpec, store SessionStore) {
	r.subscriptions.SubscribeMessage(subject, spec)
	r.messageSessions[subject] = store
}

// UnsubscribeMessage removes the subscription and drops every session it
// admitted.
func (r *Receiver) UnsubscribeMessage(subject SubjectID) {
	r.subscriptions.UnsubscribeMessage(subject)
	delete(r.messageSessions, subject)
}

func (r *Receiver) SubscribeRequest(service ServiceID, spec SubscriptionSpec, store SessionStore) {
	r.subscriptions.SubscribeRequest(service, spec)
	r.requestSessions[service] = store
}

func (r *Receiver) UnsubscribeRequest(service ServiceID) {
	r.subscriptions.UnsubscribeRequest(service)
	delete(r.requestSessions, service)
}

func (r *Receiver) SubscribeResponse(service ServiceID, spec SubscriptionSpec, store SessionStore) {
	r.subscriptions.SubscribeResponse(service, spec)
	r.responseSessions[service] = store
}

func (r *Receiver) UnsubscribeResponse(service ServiceID) {
	r.subscriptions.UnsubscribeResponse(service)
	delete(r.responseSessions, service)
}

// FilterSubscriptions returns one FilterSubscription per currently
// registered subscription, across all three kinds. Order is unspecified
// (it walks Go maps); callers that need the live set for hardware filter
// configuration should call this right before Optimize/ApplyFilters.
func (r *Receiver) FilterSubscriptions() []FilterSubscription {
	subs := make([]FilterSubscription, 0, len(r.messageSessions)+len(r.requestSessions)+len(r.responseSessions))
	for subject := range r.messageSessions {
		subs = append(subs, FilterSubscription{Kind: KindMessage, Port: uint16(subject)})
	}
	for service := range r.requestSessions {
		subs = append(subs, FilterSubscription{Kind: KindRequest, Port: uint16(service)})
	}
	for service := range r.responseSessions {
		subs = append(subs, FilterSubscription{Kind: KindResponse, Port: uint16(service)})
	}
	return subs
}

// ApplyFilters derives the ideal filter for every current subscription,
// reduces them to at most maxFilters via Optimize, and installs the result
// on driver. Per spec, hardware filtering is advisory: a driver unable to
// install the optimized set should fall back to accept-all rather than
// drop frames outright, which is the driver's responsibility, not this
// method's.
func (r *Receiver) ApplyFilters(driver Driver, maxFilters int) error {
	filters := FiltersForSubscriptions(r.FilterSubscriptions(), r.localNode)
	return driver.ApplyFilters(r.localNode, Optimize(filters, maxFilters))
}

// Receive pulls at most one frame from driver and feeds it through Accept.
func (r *Receiver) Receive(now Microseconds32, driver Driver) (*Transfer, error) {
	frame, err := driver.Receive(now)
	if err != nil {
		if err == ErrWouldBlock {
			return nil, nil
		}
		return nil, &DriverError{Err: err}
	}
	return r.Accept(frame, now), nil
}

// Sweep reaps expired sessions across every subscription. Callers invoke it
// periodically; the core has no timers of its own.
func (r *Receiver) Sweep(now Microseconds32) {
	for _, s := range r.messageSessions {
		s.Sweep(now)
	}
	for _, s := range r.requestSessions {
		s.Sweep(now)
	}
	for _, s := range r.responseSessions {
		s.Sweep(now)
	}
}

// Accept feeds one frame through subscription lookup, session tracking, and
// reassembly. It returns a complete Transfer if one finished, or nil
// otherwise. Every failure on this path (no matching subscription, invalid
// framing, CRC mismatch, duplicate transfer id) silently drops the frame
// and, where applicable, increments a counter; nothing here is ever
// surfaced as an error, per the core's data-path drop policy.
func (r *Receiver) Accept(frame Frame, now Microseconds32) *Transfer {
	if len(frame.Data) == 0 {
		r.invalidFrameCount++
		return nil
	}
	header, err := DecodeCanID(frame.ID)
	if err != nil {
		r.invalidFrameCount++
		return nil
	}

	var store SessionStore
	var spec SubscriptionSpec
	var ok bool
	switch header.Kind {
	case KindMessage:
		spec, ok = r.subscriptions.FindMessage(header.Subject)
		if ok {
			store = r.messageSessions[header.Subject]
		}
	case KindRequest:
		if r.localNode == nil || header.Destination != *r.localNode {
			return nil
		}
		spec, ok = r.subscriptions.FindRequest(header.Service)
		if ok {
			store = r.requestSessions[header.Service]
		}
	case KindResponse:
		if r.localNode == nil || header.Destination != *r.localNode {
			return nil
		}
		spec, ok = r.subscriptions.FindResponse(header.Service)
		if ok {
			store = r.responseSessions[header.Service]
		}
	default:
		r.invalidFrameCount++
		return nil
	}
	if !ok || store == nil {
		return nil
	}

	tail := decodeTailByte(frame.Data[len(frame.Data)-1])
	header.TransferID = tail.TransferID
	header.Timestamp = now

	session, err := store.GetOrInsertWith(header.Source, func() Session {
		return Session{LastActivity: now, Timeout: spec.TransferTimeout}
	})
	if err != nil {
		r.outOfMemoryCount++
		return nil
	}

	if session.Buildup != nil && session.Buildup.TransferID() != tail.TransferID {
		if !tail.Start {
			return nil
		}
		session.Buildup = nil
	}
	if session.Buildup == nil {
		if !tail.Start {
			return nil
		}
		session.Buildup = NewBuildup(tail.TransferID, spec.PayloadSizeMax+2)
	}

	complete, err := session.Buildup.Add(frame.Data)
	if err != nil {
		if err == ErrOutOfMemory {
			r.outOfMemoryCount++
		} else {
			r.invalidFrameCount++
		}
		session.Buildup = nil
		return nil
	}

	// previousActivity is the activity snapshot from before this frame, used
	// to decide whether a repeated transfer id is a genuine duplicate or a
	// legitimate reuse after the session's timeout elapsed.
	previousActivity := session.LastActivity
	previousTimeout := session.Timeout
	session.LastActivity = now

	if complete == nil {
		return nil
	}

	if len(complete) > spec.PayloadSizeMax+2 {
		session.Buildup = nil
		r.invalidFrameCount++
		return nil
	}

	payload := complete
	if session.Buildup.Frames() > 1 {
		if len(payload) < 2 {
			session.Buildup = nil
			r.invalidFrameCount++
			return nil
		}
		body := payload[:len(payload)-2]
		want := uint16(payload[len(payload)-2])<<8 | uint16(payload[len(payload)-1])
		if computeTransferCRC(body) != want {
			session.Buildup = nil
			r.crcMismatchCount++
			return nil
		}
		payload = body
	}

	expired := int32(now-(previousActivity+previousTimeout)) > 0
	if session.LastTransferID != nil && *session.LastTransferID == tail.TransferID && !expired {
		session.Buildup = nil
		return nil
	}

	tid := tail.TransferID
	session.LastTransferID = &tid
	session.Buildup = nil

	return &Transfer{Header: header, Payload: payload}
}
