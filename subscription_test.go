package cyphalcan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionManagerIndependentMaps(t *testing.T) {
	m := NewSubscriptionManager()
	m.SubscribeMessage(7509, SubscriptionSpec{PayloadSizeMax: 7})
	m.SubscribeRequest(430, SubscriptionSpec{PayloadSizeMax: 0})
	m.SubscribeResponse(430, SubscriptionSpec{PayloadSizeMax: 64})

	_, ok := m.FindMessage(430)
	assert.False(t, ok, "subject and service id spaces must not collide")

	spec, ok := m.FindRequest(430)
	assert.True(t, ok)
	assert.Equal(t, 0, spec.PayloadSizeMax)

	spec, ok = m.FindResponse(430)
	assert.True(t, ok)
	assert.Equal(t, 64, spec.PayloadSizeMax)
}

func TestSubscriptionManagerResubscribeOverwrites(t *testing.T) {
	m := NewSubscriptionManager()
	m.SubscribeMessage(1, SubscriptionSpec{PayloadSizeMax: 7})
	m.SubscribeMessage(1, SubscriptionSpec{PayloadSizeMax: 64})

	spec, ok := m.FindMessage(1)
	assert.True(t, ok)
	assert.Equal(t, 64, spec.PayloadSizeMax)
}

func TestSubscriptionManagerUnsubscribe(t *testing.T) {
	m := NewSubscriptionManager()
	m.SubscribeMessage(1, SubscriptionSpec{})
	m.UnsubscribeMessage(1)
	_, ok := m.FindMessage(1)
	assert.False(t, ok)
}

func TestSubscriptionManagerFindDispatchesByKind(t *testing.T) {
	m := NewSubscriptionManager()
	m.SubscribeMessage(7509, SubscriptionSpec{PayloadSizeMax: 7})
	m.SubscribeResponse(430, SubscriptionSpec{PayloadSizeMax: 64})

	spec, ok := m.Find(Header{Kind: KindMessage, Subject: 7509})
	assert.True(t, ok)
	assert.Equal(t, 7, spec.PayloadSizeMax)

	spec, ok = m.Find(Header{Kind: KindResponse, Service: 430})
	assert.True(t, ok)
	assert.Equal(t, 64, spec.PayloadSizeMax)

	_, ok = m.Find(Header{Kind: KindRequest, Service: 430})
	assert.False(t, ok)
}
