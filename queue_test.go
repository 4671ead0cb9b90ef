package cyphalcan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func frameWithID(id CanID) Frame {
	return Frame{ID: id, Data: []byte{0xe0}}
}

func TestOutgoingQueueOrdersByCanID(t *testing.T) {
	q := NewOutgoingQueue(8)
	assert.NoError(t, q.Push(frameWithID(30)))
	assert.NoError(t, q.Push(frameWithID(10)))
	assert.NoError(t, q.Push(frameWithID(20)))

	var got []CanID
	for q.Len() > 0 {
		f, _ := q.Pop()
		got = append(got, f.ID)
	}
	assert.Equal(t, []CanID{10, 20, 30}, got)
}

func TestOutgoingQueuePushRejectsOverCapacity(t *testing.T) {
	q := NewOutgoingQueue(1)
	assert.NoError(t, q.Push(frameWithID(1)))
	assert.ErrorIs(t, q.Push(frameWithID(2)), ErrOutOfMemory)
}

// TestOutgoingQueueStability reproduces the stability scenario: ten frames
// sharing one CAN id are pushed in order, nine are popped, and re-pushing
// the very first one popped must place it last among its same-id peers,
// since plain Push always consumes a fresh, larger insertion index.
func TestOutgoingQueueStability(t *testing.T) {
	q := NewOutgoingQueue(16)
	for i := byte(0); i < 10; i++ {
		assert.NoError(t, q.Push(Frame{ID: 100, Data: []byte{i, 0xe0}}))
	}

	var popped []byte
	for i := 0; i < 9; i++ {
		f, ok := q.Pop()
		assert.True(t, ok)
		popped = append(popped, f.Data[0])
	}
	assert.Equal(t, []byte{0, 1, 2, 3, 4, 5, 6, 7, 8}, popped)

	// re-push the first item ever popped (marker 0).
	assert.NoError(t, q.Push(Frame{ID: 100, Data: []byte{0, 0xe0}}))

	// one original frame (marker 9) remains ahead of the re-pushed one.
	f, ok := q.Pop()
	assert.True(t, ok)
	assert.Equal(t, byte(9), f.Data[0])

	f, ok = q.Pop()
	assert.True(t, ok)
	assert.Equal(t, byte(0), f.Data[0], "re-pushed frame must pop last among its same-id peers")
}

func TestOutgoingQueueReturnToFrontWinsOverSameID(t *testing.T) {
	q := NewOutgoingQueue(8)
	assert.NoError(t, q.Push(Frame{ID: 100, Data: []byte{1}}))
	assert.NoError(t, q.Push(Frame{ID: 100, Data: []byte{2}}))

	// the driver displaced a frame with id 100 while making room for
	// something else; ReturnToFront must win over the already-queued
	// same-id peers, unlike a plain re-Push.
	assert.NoError(t, q.ReturnToFront(Frame{ID: 100, Data: []byte{99}}))

	f, _ := q.Pop()
	assert.Equal(t, byte(99), f.Data[0])
}

func TestOutgoingQueueReturnToFrontRespectsHigherPriority(t *testing.T) {
	q := NewOutgoingQueue(8)
	assert.NoError(t, q.Push(Frame{ID: 50, Data: []byte{1}}))

	// a displaced frame still does not jump ahead of a strictly
	// higher-priority (lower id) frame already queued.
	assert.NoError(t, q.ReturnToFront(Frame{ID: 100, Data: []byte{2}}))

	f, _ := q.Pop()
	assert.Equal(t, CanID(50), f.ID)
}

func TestTransactionAllOrNothing(t *testing.T) {
	q := NewOutgoingQueue(2)
	txn := q.Transaction()
	assert.NoError(t, txn.Push(frameWithID(1)))
	assert.NoError(t, txn.Push(frameWithID(2)))
	assert.ErrorIs(t, txn.Push(frameWithID(3)), ErrOutOfMemory)

	txn.Rollback()
	assert.Equal(t, 0, q.Len())
}

func TestTransactionCommitMakesFramesVisible(t *testing.T) {
	q := NewOutgoingQueue(4)
	txn := q.Transaction()
	assert.NoError(t, txn.Push(frameWithID(5)))
	assert.NoError(t, txn.Push(frameWithID(3)))
	assert.Equal(t, 0, q.Len())

	txn.Commit()
	assert.Equal(t, 2, q.Len())
	f, _ := q.Peek()
	assert.Equal(t, CanID(3), f.ID)
}
