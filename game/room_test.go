package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/protocol"
	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/sim"
)

func newTestRoom(t *testing.T, cfg sim.MatchConfig, opts ...SessionOption) (*Room, *manualClock) {
	t.Helper()
	clock := newManualClock()
	opts = append([]SessionOption{WithClock(clock.Now)}, opts...)
	room, err := NewRoom("naruto's game", false, cfg, opts...)
	require.NoError(t, err)
	room.setID("room-1")
	room.setParentLobby(NewLobby(NewUUIDGenerator(), NewRealTickers()))
	return room, clock
}

func newTestPlayer(id, name string) *Player {
	return NewPlayer(id, name, &MockConn{})
}

func join(t *testing.T, r *Room, p *Player) error {
	t.Helper()
	errChan := make(chan error, 1)
	r.handleJoin(joinRequest{roomID: r.id, player: p, errChan: errChan})
	select {
	case err := <-errChan:
		return err
	case <-time.After(time.Second):
		t.Fatal("join did not answer")
		return nil
	}
}

func TestRoomJoinAssignsLowestFreeSlot(t *testing.T) {
	t.Parallel()
	room, _ := newTestRoom(t, hostedMatchConfig())

	naruto := newTestPlayer("id-1", "naruto")
	sasuke := newTestPlayer("id-2", "sasuke")

	require.NoError(t, join(t, room, naruto))
	require.NoError(t, join(t, room, sasuke))

	assert.Equal(t, 0, room.slots[naruto])
	assert.Equal(t, 1, room.slots[sasuke])
	assert.Equal(t, PhaseCountdown, room.session.Phase(), "room full, countdown starts")

	envs := drainOutbox(t, naruto)
	require.NotEmpty(t, envs)
	assert.Equal(t, protocol.TypeHello, envs[0].Type)
	assert.Equal(t, "room-1", envs[0].Hello.RoomID)
	assert.Equal(t, protocol.TypeAssign, envs[1].Type)
	assert.Equal(t, 0, envs[1].Assign.PaddleIndex)
	assert.Equal(t, 0.0, envs[1].Assign.ViewRotation)

	// naruto also hears about sasuke
	var joined int
	for _, env := range envs {
		if env.Type == protocol.TypeUserJoined {
			joined++
			assert.Equal(t, "sasuke", env.Chat.From)
		}
	}
	assert.Equal(t, 1, joined)

	itachi := newTestPlayer("id-3", "itachi")
	assert.ErrorIs(t, join(t, room, itachi), ErrRoomFull)
}

func TestRoomReassignsFreedSlot(t *testing.T) {
	t.Parallel()
	room, _ := newTestRoom(t, hostedMatchConfig())

	naruto := newTestPlayer("id-1", "naruto")
	naruto.conn.(*MockConn).On("Close", "").Return()
	sasuke := newTestPlayer("id-2", "sasuke")

	require.NoError(t, join(t, room, naruto))
	require.NoError(t, join(t, room, sasuke))

	room.handleRemoval(naruto)
	assert.Equal(t, PhaseWaiting, room.session.Phase())

	itachi := newTestPlayer("id-3", "itachi")
	require.NoError(t, join(t, room, itachi))
	assert.Equal(t, 0, room.slots[itachi], "freed slot is reused")
	assert.Equal(t, PhaseCountdown, room.session.Phase())
}

func TestRoomEmptyAfterRemovalAsksLobbyToDrop(t *testing.T) {
	t.Parallel()
	room, _ := newTestRoom(t, hostedMatchConfig())

	naruto := newTestPlayer("id-1", "naruto")
	naruto.conn.(*MockConn).On("Close", "").Return()
	require.NoError(t, join(t, room, naruto))

	room.handleRemoval(naruto)

	select {
	case id := <-room.lobby.removeRoomChan:
		assert.Equal(t, "room-1", id)
	default:
		t.Fatal("empty room was not deregistered")
	}
}

func TestRoomFirstSnapshotCarriesObstacles(t *testing.T) {
	t.Parallel()
	cfg := hostedMatchConfig()
	cfg.ObstacleCount = 2
	room, _ := newTestRoom(t, cfg)

	naruto := newTestPlayer("id-1", "naruto")
	require.NoError(t, join(t, room, naruto))
	drainOutbox(t, naruto)

	room.broadcastState()
	first := drainOutbox(t, naruto)
	require.Len(t, first, 1)
	require.Equal(t, protocol.TypeState, first[0].Type)
	assert.Len(t, first[0].State.Obstacles, 2)

	room.broadcastState()
	second := drainOutbox(t, naruto)
	require.Len(t, second, 1)
	assert.Nil(t, second[0].State.Obstacles, "obstacles ride along exactly once")

	// a newcomer still gets them
	sasuke := newTestPlayer("id-2", "sasuke")
	require.NoError(t, join(t, room, sasuke))
	drainOutbox(t, sasuke)
	room.broadcastState()
	fresh := drainOutbox(t, sasuke)
	require.Len(t, fresh, 1)
	assert.Len(t, fresh[0].State.Obstacles, 2)
}

func TestRoomIgnoresSpoofedInput(t *testing.T) {
	t.Parallel()
	room, _ := newTestRoom(t, hostedMatchConfig())

	naruto := newTestPlayer("id-1", "naruto")
	sasuke := newTestPlayer("id-2", "sasuke")
	require.NoError(t, join(t, room, naruto))
	require.NoError(t, join(t, room, sasuke))

	// naruto owns paddle 0 and tries to steer paddle 1
	room.handleEnvelope(inboundEnvelope{env: protocol.MakeInput(1, true, false), from: naruto})
	assert.Equal(t, sim.Input{}, room.session.inputs[1])

	room.handleEnvelope(inboundEnvelope{env: protocol.MakeInput(0, true, false), from: naruto})
	assert.Equal(t, sim.Input{Neg: true}, room.session.inputs[0])
}

func TestRoomRelaysChatToEveryoneElse(t *testing.T) {
	t.Parallel()
	room, _ := newTestRoom(t, hostedMatchConfig())

	naruto := newTestPlayer("id-1", "naruto")
	sasuke := newTestPlayer("id-2", "sasuke")
	require.NoError(t, join(t, room, naruto))
	require.NoError(t, join(t, room, sasuke))
	drainOutbox(t, naruto)
	drainOutbox(t, sasuke)

	room.handleEnvelope(inboundEnvelope{
		env:  protocol.Envelope{Type: protocol.TypeChatMessage, Chat: &protocol.Chat{Text: "gg"}},
		from: naruto,
	})

	assert.Empty(t, drainOutbox(t, naruto), "sender excluded")
	got := drainOutbox(t, sasuke)
	require.Len(t, got, 1)
	assert.Equal(t, protocol.TypeChatMessage, got[0].Type)
	assert.Equal(t, "gg", got[0].Chat.Text)
	assert.Equal(t, "naruto", got[0].Chat.From)
	assert.Equal(t, "room-1", got[0].Chat.Room)
}

func TestRoomDisconnectClearsStaleInput(t *testing.T) {
	t.Parallel()
	room, _ := newTestRoom(t, hostedMatchConfig())

	naruto := newTestPlayer("id-1", "naruto")
	naruto.conn.(*MockConn).On("Close", "").Return()
	require.NoError(t, join(t, room, naruto))

	room.handleEnvelope(inboundEnvelope{env: protocol.MakeInput(0, true, false), from: naruto})
	require.Equal(t, sim.Input{Neg: true}, room.session.inputs[0])

	room.handleRemoval(naruto)
	assert.Equal(t, sim.Input{}, room.session.inputs[0],
		"a dead guest's paddle must not keep drifting")
}
