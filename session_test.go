package cyphalcan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionNotExpiredAtExactDeadline(t *testing.T) {
	s := Session{LastActivity: 1000, Timeout: 500}
	assert.False(t, s.IsExpired(1500), "equality is not expiry")
	assert.True(t, s.IsExpired(1501))
}

func testSessionStoreBasics(t *testing.T, store SessionStore) {
	_, ok := store.Get(5)
	assert.False(t, ok)

	sess, err := store.GetOrInsertWith(5, func() Session {
		return Session{LastActivity: 10, Timeout: 100}
	})
	assert.NoError(t, err)
	assert.EqualValues(t, 10, sess.LastActivity)

	again, err := store.GetOrInsertWith(5, func() Session {
		t.Fatal("create must not be called for an existing session")
		return Session{}
	})
	assert.NoError(t, err)
	assert.Same(t, sess, again)

	got, ok := store.Get(5)
	assert.True(t, ok)
	assert.Same(t, sess, got)

	store.Remove(5)
	_, ok = store.Get(5)
	assert.False(t, ok)
}

func TestLinearSessionStoreBasics(t *testing.T) {
	testSessionStoreBasics(t, NewLinearSessionStore(4))
}

func TestArraySessionStoreBasics(t *testing.T) {
	testSessionStoreBasics(t, NewArraySessionStore(127))
}

func TestDynamicSessionStoreBasics(t *testing.T) {
	testSessionStoreBasics(t, NewDynamicSessionStore(nil))
}

func TestLinearSessionStoreOutOfMemoryWhenFull(t *testing.T) {
	store := NewLinearSessionStore(2)
	for _, node := range []NodeID{1, 2} {
		_, err := store.GetOrInsertWith(node, func() Session { return Session{} })
		assert.NoError(t, err)
	}
	_, err := store.GetOrInsertWith(3, func() Session { return Session{} })
	assert.ErrorIs(t, err, ErrOutOfMemory)
}

func TestArraySessionStoreNeverFailsWithinRange(t *testing.T) {
	store := NewArraySessionStore(127)
	for node := NodeID(0); node < 127; node++ {
		_, err := store.GetOrInsertWith(node, func() Session { return Session{} })
		assert.NoError(t, err)
	}
}

func TestSessionStoreSweepRemovesOnlyExpired(t *testing.T) {
	store := NewLinearSessionStore(4)
	_, _ = store.GetOrInsertWith(1, func() Session { return Session{LastActivity: 0, Timeout: 100} })
	_, _ = store.GetOrInsertWith(2, func() Session { return Session{LastActivity: 1000, Timeout: 100} })

	store.Sweep(500)

	_, ok := store.Get(1)
	assert.False(t, ok, "session 1 should have expired by t=500")
	_, ok = store.Get(2)
	assert.True(t, ok, "session 2 is still within its timeout")
}
