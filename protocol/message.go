// Package protocol defines the host-authoritative replication contract:
// versioned JSON tagged records exchanged between host and guests. The
// transport underneath (websocket room or raw duplex socket) only ever sees
// the encoded bytes.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/geom"
	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/sim"
)

// Version is bumped on any incompatible change to the message shapes.
const Version = 1

type Type string

const (
	TypeHello  Type = "hello"
	TypeJoin   Type = "join"
	TypeAssign Type = "assign"
	TypeStart  Type = "start"
	TypeInput  Type = "input"
	TypeState  Type = "state"

	// chat/presence variants are passed through to the chat collaborator
	// and carry no simulation semantics
	TypeChatMessage Type = "chat_message"
	TypeUserJoined  Type = "user_joined"
	TypeUserLeft    Type = "user_left"
	TypeJoinChat    Type = "join_chat"
	TypeLeaveChat   Type = "leave_chat"
)

var ErrUnknownType = errors.New("unknown message type")

// Envelope is the wire record. Exactly one payload pointer matching Type is
// set; the rest stay nil and are omitted from the encoding.
type Envelope struct {
	Type Type `json:"type"`
	V    int  `json:"v"`

	Hello  *Hello  `json:"hello,omitempty"`
	Join   *Join   `json:"join,omitempty"`
	Assign *Assign `json:"assign,omitempty"`
	Input  *Input  `json:"input,omitempty"`
	State  *State  `json:"state,omitempty"`
	Chat   *Chat   `json:"chat,omitempty"`
}

// Hello announces a room to a connecting peer.
type Hello struct {
	RoomID    string `json:"roomId"`
	Mode      int    `json:"mode"` // 2 or 4
	SessionID string `json:"sessionId,omitempty"`
}

// Join is a guest's request to enter a room.
type Join struct {
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
}

// Assign tells a guest which paddle slot it controls. ViewRotation is the
// camera yaw (degrees) that makes the assigned paddle render as "left" on
// the guest's screen.
type Assign struct {
	PaddleIndex  int     `json:"paddleIndex"`
	ViewRotation float64 `json:"viewRotation"`
}

// Input carries a guest's directional intent. Not sequenced: the host keeps
// only the most recent flags per paddle, so duplication and reordering on
// the wire are harmless.
type Input struct {
	PaddleIndex int  `json:"paddleIndex"`
	Neg         bool `json:"neg"`
	Pos         bool `json:"pos"`
}

// Ball is the replicated ball state.
type Ball struct {
	Pos geom.Vec3 `json:"pos"`
	Vel geom.Vec3 `json:"vel"`
}

// State is the full authoritative snapshot. Obstacles ride along only until
// a guest has received them once; later snapshots omit the list and guests
// ignore any re-sent payloads.
type State struct {
	Phase     string                   `json:"phase"`
	Ball      Ball                     `json:"ball"`
	Paddles   [sim.MaxPaddles]float64  `json:"paddles"`
	Scores    [sim.MaxPaddles]int      `json:"scores"`
	Obstacles []sim.Obstacle           `json:"obstacles,omitempty"`
}

// Chat is the opaque passthrough payload for the chat collaborator.
type Chat struct {
	From string `json:"from,omitempty"`
	Room string `json:"room,omitempty"`
	Text string `json:"text,omitempty"`
}

// ViewRotation maps a paddle index to the guest camera yaw in degrees.
func ViewRotation(index int) float64 {
	switch index {
	case sim.PaddleLeft:
		return 0
	case sim.PaddleRight:
		return 180
	case sim.PaddleBottom:
		return -90
	case sim.PaddleTop:
		return 90
	}
	return 0
}

// IsChat reports whether t is a chat/presence passthrough variant.
func IsChat(t Type) bool {
	switch t {
	case TypeChatMessage, TypeUserJoined, TypeUserLeft, TypeJoinChat, TypeLeaveChat:
		return true
	}
	return false
}

func known(t Type) bool {
	switch t {
	case TypeHello, TypeJoin, TypeAssign, TypeStart, TypeInput, TypeState:
		return true
	}
	return IsChat(t)
}

// Encode stamps the protocol version and marshals the envelope.
func Encode(env Envelope) ([]byte, error) {
	if !known(env.Type) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
	env.V = Version
	return json.Marshal(env)
}

// Decode parses an envelope. Receivers are expected to drop
// ErrUnknownType results silently.
func Decode(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, err
	}
	if !known(env.Type) {
		return Envelope{}, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
	return env, nil
}

// Constructors for the common directions.

func MakeHello(roomID string, mode int, sessionID string) Envelope {
	return Envelope{Type: TypeHello, Hello: &Hello{RoomID: roomID, Mode: mode, SessionID: sessionID}}
}

func MakeJoin(roomID, name string) Envelope {
	return Envelope{Type: TypeJoin, Join: &Join{RoomID: roomID, Name: name}}
}

func MakeAssign(paddleIndex int) Envelope {
	return Envelope{Type: TypeAssign, Assign: &Assign{
		PaddleIndex:  paddleIndex,
		ViewRotation: ViewRotation(paddleIndex),
	}}
}

func MakeStart() Envelope {
	return Envelope{Type: TypeStart}
}

func MakeInput(paddleIndex int, neg, pos bool) Envelope {
	return Envelope{Type: TypeInput, Input: &Input{PaddleIndex: paddleIndex, Neg: neg, Pos: pos}}
}

func MakeState(st State) Envelope {
	return Envelope{Type: TypeState, State: &st}
}
