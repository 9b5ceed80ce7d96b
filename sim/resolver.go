package sim

import (
	"math"

	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/geom"
)

// TickEvents reports what happened during one resolver tick so the session
// can fan out to the audio/report collaborators and the replication layer.
// Index fields are -1 when the event did not occur.
type TickEvents struct {
	PaddleHit   int
	ObstacleHit bool
	WallBounce  bool
	CornerHit   bool
	Scorer      int
	Penalized   bool
	BallReset   bool
	ExitedSide  int
	Winner      int
}

func noEvents() TickEvents {
	return TickEvents{PaddleHit: -1, Scorer: -1, ExitedSide: -1, Winner: -1}
}

// Tick advances the match by one fixed step. The order is load-bearing:
// paddle movement, then integration, then collision resolution, then
// scoring — scoring reads the rally flags set by collisions in this same
// tick. A detected win short-circuits everything after it.
func (e *Engine) Tick(inputs Inputs) TickEvents {
	ev := noEvents()
	st := &e.st
	if !st.MatchReady || st.Paused {
		return ev
	}

	e.movePaddles(inputs)
	e.integrate()
	if e.cfg.PlayerCount == 2 {
		e.bounceWalls(&ev)
	}
	e.deflectCorners(&ev)
	e.collidePaddles(&ev)
	e.collideObstacles(&ev)
	e.resolveScoring(&ev)
	return ev
}

func (e *Engine) movePaddles(inputs Inputs) {
	for idx := 0; idx < e.cfg.PlayerCount; idx++ {
		var step float64
		if e.cfg.ControlModes[idx] == ControlAI {
			step = e.aiStep(idx)
		} else {
			if inputs[idx].Neg {
				step -= PaddleStep
			}
			if inputs[idx].Pos {
				step += PaddleStep
			}
		}
		limit := paddleTravelLimit(idx)
		e.st.Paddles[idx] = geom.Clamp(e.st.Paddles[idx]+step, -limit, limit)
	}
}

// integrate applies the escalating pace factor, moves the ball, and runs
// the cosmetic vertical bounce. Vertical motion never affects gameplay; the
// height is clamped to the rest height so the ball cannot sink.
func (e *Engine) integrate() {
	st := &e.st

	st.BallVel.X *= SpeedIncrement
	st.BallVel.Z *= SpeedIncrement
	st.BallVel.X, st.BallVel.Z = geom.ClampMagnitude(st.BallVel.X, st.BallVel.Z, MinHorizontalSpeed, MaxHorizontalSpeed)

	st.BallPos = st.BallPos.Add(st.BallVel)

	st.BallVel.Y -= Gravity
	if st.BallPos.Y < BallRestHeight {
		st.BallPos.Y = BallRestHeight
		st.BallVel.Y = -st.BallVel.Y * GroundDamping
	}
}

// bounceWalls reflects the ball off the side walls (2-player mode only) and
// jitters the tangential component so rallies never repeat exactly.
func (e *Engine) bounceWalls(ev *TickEvents) {
	st := &e.st
	limit := FieldHalfDepth - BallRadius

	bounced := false
	if st.BallPos.Z > limit && st.BallVel.Z > 0 {
		st.BallPos.Z = limit
		st.BallVel.Z = -st.BallVel.Z
		bounced = true
	} else if st.BallPos.Z < -limit && st.BallVel.Z < 0 {
		st.BallPos.Z = -limit
		st.BallVel.Z = -st.BallVel.Z
		bounced = true
	}
	if !bounced {
		return
	}

	st.BallVel.X += (e.rng.Float64()*2 - 1) * WallJitter
	st.BallVel.X, st.BallVel.Z = geom.ClampMagnitude(st.BallVel.X, st.BallVel.Z, MinHorizontalSpeed, MaxHorizontalSpeed)
	ev.WallBounce = true
}

// deflectCorners handles the four fixed corner posts: on contact both
// horizontal velocity axes invert and the ball is pushed out along the
// contact normal past the hit radius to prevent re-penetration.
func (e *Engine) deflectCorners(ev *TickEvents) {
	st := &e.st
	hitR := CornerPostRadius + BallRadius

	for _, cx := range [2]float64{-FieldHalfWidth, FieldHalfWidth} {
		for _, cz := range [2]float64{-FieldHalfDepth, FieldHalfDepth} {
			dx := st.BallPos.X - cx
			dz := st.BallPos.Z - cz
			dist := math.Hypot(dx, dz)
			if dist >= hitR {
				continue
			}
			if dist == 0 {
				dx, dist = 1, 1
			}
			nx, nz := dx/dist, dz/dist
			st.BallVel.X = -st.BallVel.X
			st.BallVel.Z = -st.BallVel.Z
			st.BallPos.X = cx + nx*(hitR+CornerPushOut)
			st.BallPos.Z = cz + nz*(hitR+CornerPushOut)
			st.BallVel.X, st.BallVel.Z = geom.ClampMagnitude(st.BallVel.X, st.BallVel.Z, MinHorizontalSpeed, MaxHorizontalSpeed)
			ev.CornerHit = true
			return
		}
	}
}

// paddlePlane describes one slot's collision geometry: which axis the ball
// approaches along, the face coordinate on that axis, and the sign of an
// approaching velocity.
type paddlePlane struct {
	face float64
	sign float64
}

func plane(index int) paddlePlane {
	switch index {
	case PaddleLeft:
		return paddlePlane{face: -(FieldHalfWidth - PaddleInset), sign: -1}
	case PaddleRight:
		return paddlePlane{face: FieldHalfWidth - PaddleInset, sign: 1}
	case PaddleBottom:
		return paddlePlane{face: FieldHalfDepth - PaddleInset, sign: 1}
	default: // PaddleTop
		return paddlePlane{face: -(FieldHalfDepth - PaddleInset), sign: -1}
	}
}

func (e *Engine) collidePaddles(ev *TickEvents) {
	st := &e.st

	for idx := 0; idx < e.cfg.PlayerCount; idx++ {
		p := plane(idx)

		// approach/lateral component selection: left/right paddles face the
		// x axis, bottom/top face the z axis
		ap, av := &st.BallPos.X, &st.BallVel.X
		lp, lv := &st.BallPos.Z, &st.BallVel.Z
		if idx == PaddleBottom || idx == PaddleTop {
			ap, av = &st.BallPos.Z, &st.BallVel.Z
			lp, lv = &st.BallPos.X, &st.BallVel.X
		}

		// gate on "moving toward this paddle" so a single contact cannot
		// trigger twice
		if *av*p.sign <= 0 {
			continue
		}
		depth := (*ap - p.face) * p.sign
		if depth < -BallRadius || depth > 2*PaddleHalfThick {
			continue
		}
		if math.Abs(*lp-st.Paddles[idx]) > PaddleHalfLength+BallRadius {
			continue
		}

		// reflect and amplify the approach component, deflect by contact
		// offset from paddle center
		*av = -*av * PaddleBounceBoost
		offset := geom.Clamp((*lp-st.Paddles[idx])/PaddleHalfLength, -1, 1)
		*lv += offset * DeflectStrength
		*ap = p.face - p.sign*BallRadius

		st.BallVel.X, st.BallVel.Z = geom.ClampMagnitude(st.BallVel.X, st.BallVel.Z, MinHorizontalSpeed, MaxHorizontalSpeed)

		st.LastHitter = idx
		st.TouchedOnce = true
		st.ObstacleAfterHit = false
		ev.PaddleHit = idx
		return
	}
}

func (e *Engine) collideObstacles(ev *TickEvents) {
	st := &e.st

	for _, o := range e.obstacles {
		dx := st.BallPos.X - o.X
		dz := st.BallPos.Z - o.Z
		hitR := o.Radius + BallRadius
		dist := math.Hypot(dx, dz)
		if dist >= hitR {
			continue
		}
		if dist == 0 {
			dx, dist = 1, 1
		}
		nx, nz := dx/dist, dz/dist

		// reflect about the contact normal, only when converging
		dot := st.BallVel.X*nx + st.BallVel.Z*nz
		if dot < 0 {
			st.BallVel.X -= 2 * dot * nx
			st.BallVel.Z -= 2 * dot * nz
		}
		st.BallVel.X *= ObstacleBounceBoost
		st.BallVel.Z *= ObstacleBounceBoost
		st.BallPos.X = o.X + nx*(hitR+CornerPushOut)
		st.BallPos.Z = o.Z + nz*(hitR+CornerPushOut)
		st.BallVel.X, st.BallVel.Z = geom.ClampMagnitude(st.BallVel.X, st.BallVel.Z, MinHorizontalSpeed, MaxHorizontalSpeed)

		if st.TouchedOnce {
			// delayed penalty, consumed at the next scoring event
			st.ObstacleAfterHit = true
		}
		ev.ObstacleHit = true
		return
	}
}

// resolveScoring detects the ball leaving the field and applies the scoring
// rule: the last hitter is credited, not the paddle that let the ball
// through. An untouched ball resets silently. The obstacle-after-hit
// penalty lands on the scorer together with the credit, floored at zero.
func (e *Engine) resolveScoring(ev *TickEvents) {
	st := &e.st

	exited := -1
	switch {
	case st.BallPos.X < -(FieldHalfWidth + ExitMargin):
		exited = PaddleLeft
	case st.BallPos.X > FieldHalfWidth+ExitMargin:
		exited = PaddleRight
	case e.cfg.PlayerCount == 4 && st.BallPos.Z > FieldHalfDepth+ExitMargin:
		exited = PaddleBottom
	case e.cfg.PlayerCount == 4 && st.BallPos.Z < -(FieldHalfDepth + ExitMargin):
		exited = PaddleTop
	}
	if exited == -1 {
		return
	}
	ev.ExitedSide = exited
	ev.BallReset = true

	if !st.TouchedOnce {
		// un-returned serve crossing the wrong way: no score change
		e.Serve(exited)
		return
	}

	scorer := st.LastHitter
	st.Scores[scorer]++
	if st.ObstacleAfterHit {
		st.Scores[scorer]--
		if st.Scores[scorer] < 0 {
			st.Scores[scorer] = 0
		}
		st.ObstacleAfterHit = false
		ev.Penalized = true
	}
	st.LastScorer = scorer
	ev.Scorer = scorer

	if st.Scores[scorer] >= e.cfg.WinScore {
		// short-circuit: resolver stops permanently, no re-serve
		ev.Winner = scorer
		st.MatchReady = false
		return
	}
	e.Serve(exited)
}
