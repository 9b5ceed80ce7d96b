package sim

import "github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/geom"

// AI tuning. Difficulty 1..10 maps linearly onto a targeting error range
// (wide at 1, near-zero at 10) and a response gain (sluggish at 1, snappy
// at 10). The error is re-rolled once per rally, not per tick — a fixed
// miss reads as human, a jittering one reads as broken.
const (
	aiErrorMax = 2.8
	aiErrorMin = 0.05
	aiGainMin  = 0.04
	aiGainMax  = 0.30
	aiBlend    = 0.22 // exponential smoothing factor for AI velocity
)

func difficultyT(d int) float64 {
	return (float64(d) - 1) / 9
}

func aiErrorRange(d int) float64 {
	return geom.Lerp(aiErrorMax, aiErrorMin, difficultyT(d))
}

func aiGain(d int) float64 {
	return geom.Lerp(aiGainMin, aiGainMax, difficultyT(d))
}

// aiStep produces this tick's position delta for an AI paddle. The step is
// clamped to the same per-tick maximum as human paddle movement.
func (e *Engine) aiStep(idx int) float64 {
	st := &e.st
	limit := paddleTravelLimit(idx)

	target := geom.Clamp(e.predictIntercept(idx)+st.AIErr[idx], -limit, limit)
	accel := (target - st.Paddles[idx]) * aiGain(e.cfg.AIDifficulty)
	st.AIVel[idx] = geom.Lerp(st.AIVel[idx], accel, aiBlend)
	return geom.Clamp(st.AIVel[idx], -PaddleStep, PaddleStep)
}

// predictIntercept simulates the ball forward in discrete steps under the
// same wall-bounce rule as the live resolver and returns the transverse
// coordinate where it crosses this paddle's plane. When the ball will not
// arrive within the horizon the paddle drifts back toward center.
func (e *Engine) predictIntercept(idx int) float64 {
	st := &e.st
	px, pz := st.BallPos.X, st.BallPos.Z
	vx, vz := st.BallVel.X, st.BallVel.Z
	wallLimit := FieldHalfDepth - BallRadius
	p := plane(idx)

	for step := 0; step < PredictHorizon; step++ {
		px += vx
		pz += vz

		if e.cfg.PlayerCount == 2 {
			if pz > wallLimit {
				pz = wallLimit
				vz = -vz
			} else if pz < -wallLimit {
				pz = -wallLimit
				vz = -vz
			}
		}

		if idx == PaddleLeft || idx == PaddleRight {
			if (px-p.face)*p.sign >= 0 {
				return pz
			}
		} else {
			if (pz-p.face)*p.sign >= 0 {
				return px
			}
		}
	}
	return 0
}
