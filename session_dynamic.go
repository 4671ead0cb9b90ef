package cyphalcan

import "github.com/sirupsen/logrus"

// DynamicSessionStore is a map-backed SessionStore with no fixed capacity:
// insertion can only fail if the underlying allocator is exhausted, which Go
// reports by panicking rather than returning an error, so GetOrInsertWith
// here never returns ErrOutOfMemory in practice.
type DynamicSessionStore struct {
	entries map[NodeID]*Session
	logger  *logrus.Logger
}

// NewDynamicSessionStore creates an empty store. A nil logger falls back to
// logrus's standard logger.
func NewDynamicSessionStore(logger *logrus.Logger) *DynamicSessionStore {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &DynamicSessionStore{entries: make(map[NodeID]*Session), logger: logger}
}

func (s *DynamicSessionStore) Get(node NodeID) (*Session, bool) {
	e, ok := s.entries[node]
	return e, ok
}

func (s *DynamicSessionStore) GetOrInsertWith(node NodeID, create func() Session) (*Session, error) {
	if e, ok := s.entries[node]; ok {
		return e, nil
	}
	sess := create()
	s.entries[node] = &sess
	return s.entries[node], nil
}

func (s *DynamicSessionStore) Remove(node NodeID) {
	delete(s.entries, node)
}

func (s *DynamicSessionStore) Sweep(now Microseconds32) {
	for node, e := range s.entries {
		if e.IsExpired(now) {
			s.logger.WithField("node_id", node).Debug("session expired, removing")
			delete(s.entries, node)
		}
	}
}
