package cyphalcan

// SubscriptionSpec is what the application registers interest with: the
// largest payload it is willing to reassemble, and how long a source may go
// silent before its session is reaped.
type SubscriptionSpec struct {
	PayloadSizeMax  int
	TransferTimeout Microseconds32
}

// SubscriptionManager holds three independent maps of subscriptions, one
// each for messages, requests, and responses, keyed by subject or service
// id. Subscribing to an already-registered port overwrites the previous
// entry.
type SubscriptionManager struct {
	messages  map[SubjectID]SubscriptionSpec
	requests  map[ServiceID]SubscriptionSpec
	responses map[ServiceID]SubscriptionSpec
}

// NewSubscriptionManager creates an empty manager.
func NewSubscriptionManager() *SubscriptionManager {
	return &SubscriptionManager{
		messages:  make(map[SubjectID]SubscriptionSpec),
		requests:  make(map[ServiceID]SubscriptionSpec),
		responses: make(map[ServiceID]SubscriptionSpec),
	}
}

func (m *SubscriptionManager) SubscribeMessage(subject SubjectID, spec SubscriptionSpec) {
	m.messages[subject] = spec
}

func (m *SubscriptionManager) UnsubscribeMessage(subject SubjectID) {
	delete(m.messages, subject)
}

func (m *SubscriptionManager) FindMessage(subject SubjectID) (SubscriptionSpec, bool) {
	spec, ok := m.messages[subject]
	return spec, ok
}

func (m *SubscriptionManager) SubscribeRequest(service ServiceID, spec SubscriptionSpec) {
	m.requests[service] = spec
}

func (m *SubscriptionManager) UnsubscribeRequest(service ServiceID) {
	delete(m.requests, service)
}

func (m *SubscriptionManager) FindRequest(service ServiceID) (SubscriptionSpec, bool) {
	spec, ok := m.requests[service]
	return spec, ok
}

func (m *SubscriptionManager) SubscribeResponse(service ServiceID, spec SubscriptionSpec) {
	m.responses[service] = spec
}

func (m *SubscriptionManager) UnsubscribeResponse(service ServiceID) {
	delete(m.responses, service)
}

func (m *SubscriptionManager) FindResponse(service ServiceID) (SubscriptionSpec, bool) {
	spec, ok := m.responses[service]
	return spec, ok
}

// Find dispatches to the map matching header.Kind.
func (m *SubscriptionManager) Find(header Header) (SubscriptionSpec, bool) {
	switch header.Kind {
	case KindMessage:
		return m.FindMessage(header.Subject)
	case KindRequest:
		return m.FindRequest(header.Service)
	case KindResponse:
		return m.FindResponse(header.Service)
	default:
		return SubscriptionSpec{}, false
	}
}
