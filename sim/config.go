// Package sim is the authoritative match simulation: field geometry, ball
// physics, paddle and obstacle collision, scoring rules and the AI paddle
// controller. It knows nothing about transports or rendering; the game
// package drives it and replicates its state.
package sim

import "fmt"

// ControlMode says who moves a paddle slot.
type ControlMode string

const (
	ControlHuman       ControlMode = "human"
	ControlAI          ControlMode = "ai"
	ControlRemoteGuest ControlMode = "remoteGuest"
)

// Paddle slot indices. The numbering is part of the wire contract: guests
// re-orient their camera from the assigned index.
const (
	PaddleLeft = iota
	PaddleRight
	PaddleBottom
	PaddleTop
	MaxPaddles
)

// Field and tuning constants. These are arcade values, not physical ones;
// the speed clamp below is what keeps the rally playable regardless of how
// the multipliers stack up.
const (
	FieldHalfWidth = 10.0 // x extent
	FieldHalfDepth = 6.0  // z extent

	BallRadius     = 0.35
	BallRestHeight = 0.35 // lowest cosmetic bounce height

	PaddleHalfLength = 1.5
	PaddleHalfThick  = 0.25
	PaddleInset      = 0.6  // paddle face distance from the field edge
	PaddleStep       = 0.28 // max paddle travel per tick, human and AI alike

	MinHorizontalSpeed = 0.12
	MaxHorizontalSpeed = 0.55
	ServeSpeed         = 0.16
	ServeVerticalMax   = 0.12

	SpeedIncrement      = 1.0006 // per-tick escalation factor
	PaddleBounceBoost   = 1.05
	ObstacleBounceBoost = 1.02
	DeflectStrength     = 0.09 // lateral velocity added per unit of paddle offset
	WallJitter          = 0.02

	CornerPostRadius = 0.5
	CornerPushOut    = 0.01 // epsilon past the contact radius

	Gravity        = 0.012
	GroundDamping  = 0.75
	ExitMargin     = 1.0 // how far past the edge counts as out
	PredictHorizon = 60  // AI lookahead steps

	MaxObstacles           = 3
	ObstaclePlacementTries = 60
	ObstacleMinSeparation  = 2.4
	ObstacleMinCenterDist  = 1.6
)

// MatchConfig is the immutable description of a session. It is produced by
// the lobby/menu collaborator and never mutated once the engine is built.
type MatchConfig struct {
	PlayerCount   int                      `json:"playerCount"` // 2 or 4
	ControlModes  [MaxPaddles]ControlMode  `json:"controlModes"`
	WinScore      int                      `json:"winScore"`
	AIDifficulty  int                      `json:"aiDifficulty"` // 1..10
	ObstacleCount int                      `json:"obstacleCount"`
	FixedShapes   []Shape                  `json:"fixedShapes,omitempty"` // empty means randomized
	DisplayNames  [MaxPaddles]string       `json:"displayNames"`
}

// Validate rejects configurations the resolver cannot run.
func (c MatchConfig) Validate() error {
	if c.PlayerCount != 2 && c.PlayerCount != 4 {
		return fmt.Errorf("%w: player count %d", ErrInvalidConfig, c.PlayerCount)
	}
	if c.WinScore < 1 {
		return fmt.Errorf("%w: win score %d", ErrInvalidConfig, c.WinScore)
	}
	if c.AIDifficulty < 1 || c.AIDifficulty > 10 {
		return fmt.Errorf("%w: ai difficulty %d", ErrInvalidConfig, c.AIDifficulty)
	}
	if c.ObstacleCount < 0 || c.ObstacleCount > MaxObstacles {
		return fmt.Errorf("%w: obstacle count %d", ErrInvalidConfig, c.ObstacleCount)
	}
	for i := 0; i < c.PlayerCount; i++ {
		switch c.ControlModes[i] {
		case ControlHuman, ControlAI, ControlRemoteGuest:
		default:
			return fmt.Errorf("%w: paddle %d control %q", ErrInvalidConfig, i, c.ControlModes[i])
		}
	}
	return nil
}

// RequiredGuests counts the remote slots that must be filled before the
// match can leave the waiting phase.
func (c MatchConfig) RequiredGuests() int {
	n := 0
	for i := 0; i < c.PlayerCount; i++ {
		if c.ControlModes[i] == ControlRemoteGuest {
			n++
		}
	}
	return n
}
