package sim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/geom"
)

func aiConfig(difficulty int) MatchConfig {
	return MatchConfig{
		PlayerCount:  2,
		ControlModes: [MaxPaddles]ControlMode{ControlHuman, ControlAI},
		WinScore:     999,
		AIDifficulty: difficulty,
	}
}

func TestDifficultyMapping(t *testing.T) {
	assert.Equal(t, aiErrorMax, aiErrorRange(1))
	assert.Equal(t, aiErrorMin, aiErrorRange(10))
	assert.Equal(t, aiGainMin, aiGain(1))
	assert.Equal(t, aiGainMax, aiGain(10))

	// monotonic in between
	for d := 2; d <= 10; d++ {
		assert.Less(t, aiErrorRange(d), aiErrorRange(d-1))
		assert.Greater(t, aiGain(d), aiGain(d-1))
	}
}

// Scenario D: over many rallies the high-difficulty AI's targeting error is
// statistically smaller than the low-difficulty one's.
func TestDifficultyErrorMagnitude(t *testing.T) {
	meanAbsError := func(difficulty int) float64 {
		e := newTestEngine(t, aiConfig(difficulty), WithRand(rand.New(rand.NewSource(1))))
		total := 0.0
		const rallies = 500
		for i := 0; i < rallies; i++ {
			e.Serve(-1)
			total += math.Abs(e.State().AIErr[PaddleRight])
		}
		return total / rallies
	}

	easy := meanAbsError(1)
	hard := meanAbsError(10)
	assert.Less(t, hard, easy)
	assert.Less(t, hard, 0.1, "difficulty 10 should be near-exact")
}

func TestErrorRerolledPerRallyNotPerTick(t *testing.T) {
	e := newTestEngine(t, aiConfig(5))
	e.Arm()
	st := e.State()

	before := st.AIErr[PaddleRight]
	for i := 0; i < 20; i++ {
		e.Tick(Inputs{})
	}
	assert.Equal(t, before, st.AIErr[PaddleRight], "error persists within a rally")

	e.Serve(-1)
	assert.NotEqual(t, before, st.AIErr[PaddleRight], "error re-rolls on reset")
}

func TestPredictInterceptFollowsWallBounce(t *testing.T) {
	e := newTestEngine(t, aiConfig(10))
	st := e.State()

	// straight shot at the right paddle plane
	st.BallPos = geom.Vec3{X: 0, Y: BallRestHeight, Z: 2}
	st.BallVel = geom.Vec3{X: 0.5, Z: 0}
	assert.InDelta(t, 2.0, e.predictIntercept(PaddleRight), 1e-9)

	// angled shot that must bounce off the top wall before arriving
	st.BallPos = geom.Vec3{X: 0, Y: BallRestHeight, Z: 5}
	st.BallVel = geom.Vec3{X: 0.4, Z: 0.3}
	got := e.predictIntercept(PaddleRight)
	assert.Less(t, got, FieldHalfDepth-BallRadius, "prediction must reflect, not leave the field")
	assert.Greater(t, got, -FieldHalfDepth)

	// ball heading away: drift target is field center
	st.BallVel = geom.Vec3{X: -0.1, Z: 0}
	st.BallPos = geom.Vec3{X: 0, Y: BallRestHeight, Z: 3}
	assert.Equal(t, 0.0, e.predictIntercept(PaddleRight))
}

func TestAIStepClampedToPaddleSpeed(t *testing.T) {
	e := newTestEngine(t, aiConfig(10))
	st := e.State()
	st.BallPos = geom.Vec3{X: 5, Y: BallRestHeight, Z: -4}
	st.BallVel = geom.Vec3{X: 0.5, Z: 0}
	st.Paddles[PaddleRight] = 4 // far from the intercept

	for i := 0; i < 50; i++ {
		step := e.aiStep(PaddleRight)
		assert.LessOrEqual(t, math.Abs(step), PaddleStep+1e-9)
		st.Paddles[PaddleRight] = geom.Clamp(st.Paddles[PaddleRight]+step, -4.5, 4.5)
	}
}

func TestAITracksTowardIntercept(t *testing.T) {
	e := newTestEngine(t, aiConfig(10))
	e.Arm()
	st := e.State()

	// deterministic rally toward the AI side
	st.BallPos = geom.Vec3{X: -6, Y: BallRestHeight, Z: -3}
	st.BallVel = geom.Vec3{X: 0.4, Z: 0}
	st.AIErr[PaddleRight] = 0
	st.Paddles[PaddleRight] = 3

	startDist := math.Abs(st.Paddles[PaddleRight] - (-3))
	for i := 0; i < 35; i++ {
		e.Tick(Inputs{})
	}
	endDist := math.Abs(st.Paddles[PaddleRight] - (-3))
	assert.Less(t, endDist, startDist, "AI paddle converges on the intercept")
}
