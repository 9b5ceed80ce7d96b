package sim

import (
	"math"
	"math/rand"
	"time"

	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/geom"
)

// Engine owns a match's State and advances it one tick at a time. It is not
// safe for concurrent use; exactly one goroutine may drive it (see the room
// actor and the local session).
type Engine struct {
	cfg            MatchConfig
	st             State
	obstacles      []Obstacle
	obstaclesGiven bool
	obstaclesBuilt bool
	rng            *rand.Rand
}

// Option customizes engine construction.
type Option func(*Engine)

// WithRand injects a deterministic random source, used by tests and by the
// AI difficulty benchmarks.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithObstacles suppresses local generation and installs the given list.
// Guests always build their engine this way: the authoritative list arrives
// in the first state snapshot.
func WithObstacles(obs []Obstacle) Option {
	return func(e *Engine) {
		e.obstacles = obs
		e.obstaclesGiven = true
	}
}

// NewEngine validates the config and builds an engine with obstacles
// generated host-side unless WithObstacles was supplied.
func NewEngine(cfg MatchConfig, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg: cfg,
		st:  newState(),
	}

	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if !e.obstaclesGiven {
		e.obstacles = GenerateObstacles(e.rng, cfg.ObstacleCount, cfg.FixedShapes)
		e.obstaclesBuilt = true
	}
	return e, nil
}

// Config returns the immutable match configuration.
func (e *Engine) Config() MatchConfig { return e.cfg }

// State returns a pointer to the live state. Callers must respect the
// single-writer rule.
func (e *Engine) State() *State { return &e.st }

// Obstacles returns the immutable obstacle list.
func (e *Engine) Obstacles() []Obstacle { return e.obstacles }

// SetObstacles installs the authoritative obstacle list on a guest engine.
// Latched: once a list has been applied (or generated host-side), further
// calls are ignored — replayed snapshots must not rebuild.
func (e *Engine) SetObstacles(obs []Obstacle) {
	if e.obstaclesBuilt {
		return
	}
	e.obstacles = obs
	e.obstaclesBuilt = true
}

// ObstaclesBuilt reports whether the authoritative obstacle list is in
// place, either generated locally or received from the host.
func (e *Engine) ObstaclesBuilt() bool { return e.obstaclesBuilt }

// Serve resets the ball at field center with a random direction biased away
// from exitedSide (-1 for the opening serve), clears the rally flags and
// re-rolls each AI paddle's targeting error for the new rally.
func (e *Engine) Serve(exitedSide int) {
	st := &e.st
	st.BallPos = geom.Vec3{Y: BallRestHeight}
	st.TouchedOnce = false
	st.ObstacleAfterHit = false
	st.LastHitter = -1

	var vx, vz float64
	if e.cfg.PlayerCount == 2 {
		// keep the serve within ±60° of the x axis so it always travels
		// toward a paddle
		angle := (e.rng.Float64()*2 - 1) * math.Pi / 3
		vx = math.Cos(angle)
		vz = math.Sin(angle)
		if e.rng.Intn(2) == 0 {
			vx = -vx
		}
	} else {
		angle := e.rng.Float64() * 2 * math.Pi
		vx = math.Cos(angle)
		vz = math.Sin(angle)
	}

	// bias away from the side the ball just exited
	switch exitedSide {
	case PaddleLeft:
		vx = math.Abs(vx)
	case PaddleRight:
		vx = -math.Abs(vx)
	case PaddleBottom:
		vz = -math.Abs(vz)
	case PaddleTop:
		vz = math.Abs(vz)
	}

	vx, vz = geom.ClampMagnitude(vx*ServeSpeed, vz*ServeSpeed, MinHorizontalSpeed, MaxHorizontalSpeed)
	st.BallVel = geom.Vec3{
		X: vx,
		Y: e.rng.Float64() * ServeVerticalMax,
		Z: vz,
	}

	e.rerollAIError()
}

func (e *Engine) rerollAIError() {
	errRange := aiErrorRange(e.cfg.AIDifficulty)
	for i := 0; i < e.cfg.PlayerCount; i++ {
		if e.cfg.ControlModes[i] == ControlAI {
			e.st.AIErr[i] = (e.rng.Float64()*2 - 1) * errRange
		}
	}
}

// Arm marks the match ready: the resolver will start applying ticks. Called
// when the countdown completes.
func (e *Engine) Arm() {
	e.st.MatchReady = true
	e.Serve(-1)
}

// Overwrite replaces ball, paddle and score state wholesale. This is the
// guest-side application of an authoritative snapshot; it never merges.
func (e *Engine) Overwrite(ballPos, ballVel geom.Vec3, paddles [MaxPaddles]float64, scores [MaxPaddles]int) {
	e.st.BallPos = ballPos
	e.st.BallVel = ballVel
	e.st.Paddles = paddles
	e.st.Scores = scores
}
