package sim

import "github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/geom"

// Input is one paddle's directional intent for a tick: move toward the
// negative or positive end of its travel axis. Remote input messages carry
// exactly this shape, keyed by paddle index.
type Input struct {
	Neg bool `json:"neg"`
	Pos bool `json:"pos"`
}

// Inputs holds the latest intent per paddle slot. Last write wins; there is
// no sequencing (see the replication contract).
type Inputs [MaxPaddles]Input

// State is the mutable record of a running match. It is owned by whoever
// drives the engine (room actor or local session) and is only ever mutated
// inside a single tick.
type State struct {
	Scores     [MaxPaddles]int
	LastScorer int // -1 until someone scores this match
	LastHitter int // -1 until a paddle touches the ball this rally

	TouchedOnce      bool // a paddle touched the ball this rally
	ObstacleAfterHit bool // penalty flag, consumed at the next scoring event

	Paused     bool
	MatchReady bool // resolver armed; false during waiting/countdown and after finish

	BallPos geom.Vec3
	BallVel geom.Vec3

	// Paddle offsets along each slot's travel axis (z for left/right,
	// x for bottom/top), zero at field center.
	Paddles [MaxPaddles]float64

	// Per-rally AI targeting error and smoothed AI velocity.
	AIErr [MaxPaddles]float64
	AIVel [MaxPaddles]float64
}

func newState() State {
	return State{
		LastScorer: -1,
		LastHitter: -1,
		BallPos:    geom.Vec3{Y: BallRestHeight},
	}
}

// paddleTravelLimit is how far a paddle's center may sit from the field
// center on its travel axis.
func paddleTravelLimit(index int) float64 {
	if index == PaddleLeft || index == PaddleRight {
		return FieldHalfDepth - PaddleHalfLength
	}
	return FieldHalfWidth - PaddleHalfLength
}
