package game

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/protocol"
)

// scriptedConn feeds pre-queued frames to the read pump and records what
// the write pump does to it.
type scriptedConn struct {
	frames chan []byte
	writes chan []byte
	closed chan string
}

func newScriptedConn(capacity int) *scriptedConn {
	return &scriptedConn{
		frames: make(chan []byte, capacity),
		writes: make(chan []byte, capacity),
		closed: make(chan string, 1),
	}
}

func (c *scriptedConn) Read() ([]byte, error) {
	data, ok := <-c.frames
	if !ok {
		return nil, io.EOF
	}
	return data, nil
}

func (c *scriptedConn) Write(data []byte) error {
	c.writes <- data
	return nil
}

func (c *scriptedConn) Ping() error { return nil }

func (c *scriptedConn) Close(reason string) {
	select {
	case c.closed <- reason:
	default:
	}
}

func TestReadPumpDropsFloodedInput(t *testing.T) {
	t.Parallel()
	room, _ := newTestRoom(t, hostedMatchConfig())
	conn := newScriptedConn(300)
	p := NewPlayer("id-1", "naruto", conn)
	p.room = room

	frame, err := protocol.Encode(protocol.MakeInput(1, true, false))
	require.NoError(t, err)
	for i := 0; i < 300; i++ {
		conn.frames <- frame
	}
	close(conn.frames)

	done := make(chan struct{})
	go func() {
		p.ReadPump()
		close(done)
	}()
	<-done

	delivered := len(room.inbox)
	assert.Greater(t, delivered, 0)
	assert.Less(t, delivered, 150, "excess input is dropped, not queued")

	// removal came from the connection ending, not from the flood
	select {
	case got := <-room.removals:
		assert.Same(t, p, got)
	default:
		t.Fatal("read pump exit never requested removal")
	}
	select {
	case <-conn.closed:
		t.Fatal("flooding must not close the connection")
	default:
	}
}

func TestReadPumpSkipsUndecodableFrames(t *testing.T) {
	t.Parallel()
	room, _ := newTestRoom(t, hostedMatchConfig())
	conn := newScriptedConn(4)
	p := NewPlayer("id-1", "naruto", conn)
	p.room = room

	frame, err := protocol.Encode(protocol.MakeInput(1, false, true))
	require.NoError(t, err)
	conn.frames <- []byte("not json")
	conn.frames <- frame
	close(conn.frames)

	done := make(chan struct{})
	go func() {
		p.ReadPump()
		close(done)
	}()
	<-done

	require.Len(t, room.inbox, 1)
	in := <-room.inbox
	assert.Equal(t, protocol.TypeInput, in.env.Type)
}

func TestSendDropsWhenOutboxFull(t *testing.T) {
	t.Parallel()
	p := NewPlayer("id-1", "naruto", newScriptedConn(0))

	// no write pump running: Send must never block
	for i := 0; i < 512; i++ {
		p.Send([]byte(`{"type":"start"}`))
	}
	assert.Len(t, p.outbox, cap(p.outbox))
}

func TestWritePumpClosesConnOnShutdown(t *testing.T) {
	t.Parallel()
	conn := newScriptedConn(4)
	p := NewPlayer("id-1", "naruto", conn)

	done := make(chan struct{})
	go func() {
		p.WritePump()
		close(done)
	}()
	p.shutdown()
	<-done

	select {
	case <-conn.closed:
	default:
		t.Fatal("write pump exit must close the connection")
	}
}
