package websocket

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMessage() *OutboundMessage {
	return &OutboundMessage{
		Type:      "notification",
		Message:   "hello",
		Timestamp: time.Now(),
	}
}

func TestRegisterMultipleDevices(t *testing.T) {
	r := NewRegistry()

	phone := newSession(nil, 42)
	tablet := newSession(nil, 42)
	r.Register(phone, 42)
	r.Register(tablet, 42)

	assert.True(t, r.IsOnline(42))
	assert.Equal(t, 2, r.SessionCount(42))
	assert.Equal(t, []uint{42}, r.OnlineTherapists())
}

func TestUnregisterLastSessionGoesOffline(t *testing.T) {
	r := NewRegistry()

	phone := newSession(nil, 42)
	tablet := newSession(nil, 42)
	r.Register(phone, 42)
	r.Register(tablet, 42)

	r.Unregister(phone)
	assert.True(t, r.IsOnline(42), "one device left")
	assert.Equal(t, 1, r.SessionCount(42))

	r.Unregister(tablet)
	assert.False(t, r.IsOnline(42))
	assert.Equal(t, 0, r.SessionCount(42))
	assert.Empty(t, r.OnlineTherapists())
}

func TestUnregisterUnknownSessionIsNoop(t *testing.T) {
	r := NewRegistry()
	s := newSession(nil, 42)

	r.Unregister(s)
	assert.False(t, r.IsOnline(42))

	// Twice is fine too
	r.Register(s, 42)
	r.Unregister(s)
	r.Unregister(s)
	assert.False(t, r.IsOnline(42))
}

func TestSendToTherapistFansOut(t *testing.T) {
	r := NewRegistry()

	phone := newSession(nil, 42)
	tablet := newSession(nil, 42)
	r.Register(phone, 42)
	r.Register(tablet, 42)

	require.True(t, r.SendToTherapist(testMessage(), 42))

	assert.Len(t, phone.send, 1)
	assert.Len(t, tablet.send, 1)
}

func TestSendToOfflineTherapist(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.SendToTherapist(testMessage(), 99))
}

func TestSendHealsDeadSessions(t *testing.T) {
	r := NewRegistry()

	alive := newSession(nil, 42)
	dead := newSession(nil, 42)
	r.Register(alive, 42)
	r.Register(dead, 42)

	// Simulate a session whose write pump has gone away
	dead.close()

	require.True(t, r.SendToTherapist(testMessage(), 42), "delivery succeeds through the healthy session")
	assert.Equal(t, 1, r.SessionCount(42), "dead session evicted during fan-out")
	assert.True(t, r.IsOnline(42))
}

func TestSendAllDeadGoesOffline(t *testing.T) {
	r := NewRegistry()

	dead := newSession(nil, 42)
	r.Register(dead, 42)
	dead.close()

	assert.False(t, r.SendToTherapist(testMessage(), 42))
	assert.False(t, r.IsOnline(42))
}

func TestBroadcast(t *testing.T) {
	r := NewRegistry()

	a := newSession(nil, 1)
	b := newSession(nil, 2)
	r.Register(a, 1)
	r.Register(b, 2)

	r.Broadcast(testMessage(), []uint{1, 2, 3})

	assert.Len(t, a.send, 1)
	assert.Len(t, b.send, 1)
}

func TestTrySendOnFullBufferFails(t *testing.T) {
	s := newSession(nil, 42)
	for i := 0; i < sendBufferSize; i++ {
		require.True(t, s.trySend([]byte("x")))
	}
	assert.False(t, s.trySend([]byte("overflow")))
}

func TestConcurrentRegistryAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s := newSession(nil, id)
				r.Register(s, id)
				r.SendToTherapist(testMessage(), id)
				r.IsOnline(id)
				r.Unregister(s)
			}
		}(uint(i % 4))
	}
	wg.Wait()

	for id := uint(0); id < 4; id++ {
		assert.Equal(t, 0, r.SessionCount(id))
	}
}
