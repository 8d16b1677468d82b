package messaging

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	id string

	mu       sync.Mutex
	received [][]byte
	fail     bool
	closes   int
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (f *fakeConn) ID() string { return f.id }

func (f *fakeConn) Send(payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("peer gone")
	}
	f.received = append(f.received, payload)
	return nil
}

func (f *fakeConn) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
}

func (f *fakeConn) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.received))
	for i, m := range f.received {
		out[i] = string(m)
	}
	return out
}

func TestHub_Broadcast(t *testing.T) {
	t.Parallel()

	t.Run("it should reach every member of the channel and nobody else", func(t *testing.T) {
		hub := NewHub()
		a, b, other := newFakeConn("a"), newFakeConn("b"), newFakeConn("other")

		hub.Register(a, "room:c")
		hub.Register(b, "room:c")
		hub.Register(other, "room:d")

		delivered := hub.Broadcast("room:c", []byte(`{"text":"hi"}`))

		require.Equal(t, 2, delivered)
		require.Equal(t, []string{`{"text":"hi"}`}, a.messages())
		require.Equal(t, []string{`{"text":"hi"}`}, b.messages())
		require.Empty(t, other.messages())
	})

	t.Run("it should do nothing for an unknown channel", func(t *testing.T) {
		hub := NewHub()
		require.Equal(t, 0, hub.Broadcast("room:nobody", []byte(`{}`)))
		require.Equal(t, 0, hub.ChannelCount())
	})

	t.Run("it should drop and close members that fail", func(t *testing.T) {
		hub := NewHub()
		healthy, dead := newFakeConn("healthy"), newFakeConn("dead")
		dead.fail = true

		hub.Register(healthy, "nearby:1")
		hub.Register(dead, "nearby:1")

		require.Equal(t, 1, hub.Broadcast("nearby:1", []byte(`{"n":1}`)))
		require.Equal(t, 1, hub.Members("nearby:1"))
		require.Equal(t, 1, dead.closes)

		require.Equal(t, 1, hub.Broadcast("nearby:1", []byte(`{"n":2}`)))
		require.Equal(t, []string{`{"n":1}`, `{"n":2}`}, healthy.messages())
	})

	t.Run("it should deliver in submission order", func(t *testing.T) {
		hub := NewHub()
		conn := newFakeConn("a")
		hub.Register(conn, "room:order")

		var want []string
		for i := 0; i < 100; i++ {
			payload := fmt.Sprintf(`{"seq":%d}`, i)
			want = append(want, payload)
			hub.Broadcast("room:order", []byte(payload))
		}

		require.Equal(t, want, conn.messages())
	})
}

func TestHub_Membership(t *testing.T) {
	t.Parallel()

	t.Run("it should ignore repeated registers and deregisters", func(t *testing.T) {
		hub := NewHub()
		a, b := newFakeConn("a"), newFakeConn("b")

		hub.Register(a, "match:1")
		hub.Register(a, "match:1")
		hub.Register(b, "match:1")
		require.Equal(t, 2, hub.Members("match:1"))
		require.Equal(t, 2, hub.GetActiveConnections())

		hub.Deregister(a, "match:1")
		hub.Deregister(a, "match:1")
		hub.Deregister(a, "match:unknown")
		require.Equal(t, 1, hub.Members("match:1"))
		require.Equal(t, 1, hub.GetActiveConnections())

		hub.Deregister(b, "match:1")
		require.Equal(t, 0, hub.ChannelCount())
		require.Equal(t, 0, hub.GetActiveConnections())
	})

	t.Run("it should stay consistent under concurrent use", func(t *testing.T) {
		hub := NewHub()
		listener := newFakeConn("listener")
		hub.Register(listener, "room:busy")

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				conn := newFakeConn(fmt.Sprintf("c%d", i))
				for j := 0; j < 50; j++ {
					hub.Register(conn, "room:busy")
					hub.Broadcast("room:busy", []byte(`{}`))
					hub.Deregister(conn, "room:busy")
				}
			}(i)
		}
		wg.Wait()

		require.Len(t, listener.messages(), 20*50)
		require.Equal(t, 1, hub.Members("room:busy"))
		require.Equal(t, 1, hub.GetActiveConnections())
	})

	t.Run("it should close everyone on shutdown", func(t *testing.T) {
		hub := NewHub()
		a, b := newFakeConn("a"), newFakeConn("b")
		hub.Register(a, "room:1")
		hub.Register(b, "match:2")

		hub.Shutdown()

		require.Equal(t, 1, a.closes)
		require.Equal(t, 1, b.closes)
		require.Equal(t, 0, hub.ChannelCount())
		require.Equal(t, 0, hub.GetActiveConnections())
	})
}
