package notification

import (
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStream struct {
	mu       sync.Mutex
	received []*Notification
	err      error
	block    chan struct{}
}

func (r *recordingStream) Send(n *Notification) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.received = append(r.received, n)
	return nil
}

func (r *recordingStream) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.received)
}

func TestType_String(t *testing.T) {
	assert.Equal(t, "player_changed", TypePlayerChanged.String())
	assert.Equal(t, "catalog_refreshed", TypeCatalogRefreshed.String())
	assert.Equal(t, "unknown", Type(0).String())
}

func TestManager_SubscribeUnsubscribe(t *testing.T) {
	m := NewManager()
	a := m.Subscribe(&recordingStream{})
	b := m.Subscribe(&recordingStream{})

	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, m.SubscriberCount())

	m.Unsubscribe(a)
	assert.Equal(t, 1, m.SubscriberCount())

	m.Close()
	assert.Equal(t, 0, m.SubscriberCount())
}

func TestManager_BroadcastSequence(t *testing.T) {
	m := NewManager()
	s1 := &recordingStream{}
	s2 := &recordingStream{}
	m.Subscribe(s1)
	m.Subscribe(s2)

	m.Broadcast(&Notification{Type: TypePlayerChanged})
	m.Broadcast(&Notification{Type: TypeCatalogRefreshed, EpisodeCount: 12})

	require.Equal(t, 2, s1.count())
	require.Equal(t, 2, s2.count())
	assert.Equal(t, uint64(1), s1.received[0].SequenceNo)
	assert.Equal(t, uint64(2), s1.received[1].SequenceNo)
	assert.Equal(t, 12, s2.received[1].EpisodeCount)
}

func TestManager_BroadcastDropsFailedSubscriber(t *testing.T) {
	m := NewManager()
	good := &recordingStream{}
	m.Subscribe(good)
	m.Subscribe(&recordingStream{err: errors.New("gone")})

	m.Broadcast(&Notification{Type: TypePlayerChanged})

	assert.Equal(t, 1, m.SubscriberCount())
	assert.Equal(t, 1, good.count())
}

func TestManager_BroadcastTimeout(t *testing.T) {
	m := NewManager()
	m.SetSendTimeout(20 * time.Millisecond)

	block := make(chan struct{})
	defer close(block)
	slow := &recordingStream{block: block}
	fast := &recordingStream{}
	m.Subscribe(slow)
	m.Subscribe(fast)

	start := time.Now()
	m.Broadcast(&Notification{Type: TypePlayerChanged})

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 1, fast.count())
	assert.Equal(t, 2, m.SubscriberCount())
}

func TestManager_Send(t *testing.T) {
	m := NewManager()
	s := &recordingStream{}
	id := m.Subscribe(s)

	require.NoError(t, m.Send(id, &Notification{SequenceNo: m.NextSequenceNo()}))
	require.NoError(t, m.Send("missing", &Notification{}))
	assert.Equal(t, 1, s.count())
}
