package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/geom"
	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/sim"
)

func sampleState(withObstacles bool) State {
	st := State{
		Phase: "running",
		Ball: Ball{
			Pos: geom.Vec3{X: 1.25, Y: 0.35, Z: -2.5},
			Vel: geom.Vec3{X: 0.31, Y: 0.02, Z: -0.12},
		},
		Paddles: [sim.MaxPaddles]float64{0.5, -1.25, 0, 3},
		Scores:  [sim.MaxPaddles]int{4, 2, 0, 1},
	}
	if withObstacles {
		st.Obstacles = []sim.Obstacle{
			{X: 3, Z: -1, Radius: 0.5, Shape: sim.ShapeSphere, Color: "#ff5050"},
			{X: -4, Z: 2, Radius: 0.55, Shape: sim.ShapeBox, Color: "#50c8ff"},
		}
	}
	return st
}

func TestStateRoundTrip(t *testing.T) {
	env := MakeState(sampleState(true))

	data, err := Encode(env)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, TypeState, got.Type)
	assert.Equal(t, Version, got.V)
	require.NotNil(t, got.State)
	assert.Equal(t, *env.State, *got.State)
}

func TestStateOmitsObstaclesAfterFirstSend(t *testing.T) {
	data, err := Encode(MakeState(sampleState(false)))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "obstacles")

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Nil(t, got.State.Obstacles)
}

func TestAllVariantsRoundTrip(t *testing.T) {
	testCases := []struct {
		desc string
		env  Envelope
	}{
		{desc: "hello", env: MakeHello("room-1", 4, "sess-9")},
		{desc: "join", env: MakeJoin("room-1", "naruto")},
		{desc: "assign", env: MakeAssign(2)},
		{desc: "start", env: MakeStart()},
		{desc: "input", env: MakeInput(3, true, false)},
		{desc: "chat", env: Envelope{Type: TypeChatMessage, Chat: &Chat{From: "naruto", Text: "gg"}}},
		{desc: "presence", env: Envelope{Type: TypeUserJoined, Chat: &Chat{From: "sasuke", Room: "room-1"}}},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			data, err := Encode(tC.env)
			require.NoError(t, err)
			got, err := Decode(data)
			require.NoError(t, err)
			tC.env.V = Version
			assert.Equal(t, tC.env, got)
		})
	}
}

func TestDecodeRejectsUnknownType(t *testing.T) {
	_, err := Decode([]byte(`{"type":"teleport","v":1}`))
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = Decode([]byte(`not json at all`))
	assert.Error(t, err)

	_, err = Encode(Envelope{Type: "warp"})
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestViewRotationMapping(t *testing.T) {
	assert.Equal(t, 0.0, ViewRotation(sim.PaddleLeft))
	assert.Equal(t, 180.0, ViewRotation(sim.PaddleRight))
	assert.Equal(t, -90.0, ViewRotation(sim.PaddleBottom))
	assert.Equal(t, 90.0, ViewRotation(sim.PaddleTop))
}

func TestIsChat(t *testing.T) {
	assert.True(t, IsChat(TypeChatMessage))
	assert.True(t, IsChat(TypeLeaveChat))
	assert.False(t, IsChat(TypeState))
}
