package game

import (
	"context"

	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/geom"
	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/protocol"
	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/sim"
)

// Conn is one duplex connection to a peer. Both the websocket wrapper and
// the raw TCP framing satisfy it; the engine never sees which one it got.
type Conn interface {
	Close(reason string)
	Write(data []byte) error
	Read() ([]byte, error)
	Ping() error
}

// Renderer repositions the visual scene. Called every frame, including
// while paused; implementations must never block the tick.
type Renderer interface {
	UpdatePositions(ball geom.Vec3, paddles [sim.MaxPaddles]float64, obstacles []sim.Obstacle)
	SetViewRotation(degrees float64)
	ApplyTheme(theme string)
}

// Sounds is the audio collaborator. Fire-and-forget; must not block.
type Sounds interface {
	PlayHit(kind string) // "paddle" or "obstacle"
	PlayWin()
	PlayLose()
}

// Chat receives the passthrough chat/presence envelopes. The simulation
// attaches no meaning to them.
type Chat interface {
	Deliver(env protocol.Envelope)
}

// MatchResult is handed to the reporting collaborator when a match ends.
type MatchResult struct {
	RoomID string                 `json:"roomId"`
	Mode   int                    `json:"mode"`
	Scores [sim.MaxPaddles]int    `json:"scores"`
	Winner int                    `json:"winner"`
	Names  [sim.MaxPaddles]string `json:"names"`
}

// Reporter persists a finished match, best-effort. Failures are swallowed
// by the implementation; the session never retries.
type Reporter interface {
	Report(ctx context.Context, result MatchResult)
}

// Nop collaborators for headless and test use.

type NopRenderer struct{}

func (NopRenderer) UpdatePositions(geom.Vec3, [sim.MaxPaddles]float64, []sim.Obstacle) {}
func (NopRenderer) SetViewRotation(float64)                                            {}
func (NopRenderer) ApplyTheme(string)                                                  {}

type NopSounds struct{}

func (NopSounds) PlayHit(string) {}
func (NopSounds) PlayWin()       {}
func (NopSounds) PlayLose()      {}

type NopChat struct{}

func (NopChat) Deliver(protocol.Envelope) {}

type NopReporter struct{}

func (NopReporter) Report(context.Context, MatchResult) {}
