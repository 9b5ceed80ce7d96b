// Package game drives matches: the session orchestrator around the sim
// engine, the room and lobby actors, the player connection pumps and the
// transports that carry the replication protocol.
package game

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/protocol"
	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/sim"
)

const (
	// TickInterval is the fixed simulation step. Rendering may run faster or
	// slower; the resolver always advances at this cadence.
	TickInterval = time.Second / 60

	// StateInterval is the host broadcast cadence, deliberately coarser than
	// the tick so guests smooth between snapshots.
	StateInterval = time.Second / 30

	CountdownDuration = 3 * time.Second
)

// Session orchestrates one match from one participant's point of view. The
// same type serves all three roles; role-dependent behavior is switched on
// s.role.Kind in exactly one place per concern. Not safe for concurrent use:
// the owning goroutine (room actor or client loop) makes every call.
type Session struct {
	role Role
	eng  *sim.Engine

	phase         Phase
	countdownEnds time.Time
	winner        int

	inputs      sim.Inputs
	localPaddle int
	names       [sim.MaxPaddles]string

	guestsJoined  int
	lastBroadcast time.Time
	dirty         bool // force a broadcast on the next update
	reported      bool

	roomID   string
	send     func(protocol.Envelope)
	renderer Renderer
	sounds   Sounds
	chat     Chat
	reporter Reporter
	now      func() time.Time
	log      zerolog.Logger
}

// SessionOption customizes construction; unset collaborators default to nops.
type SessionOption func(*Session)

func WithRenderer(r Renderer) SessionOption  { return func(s *Session) { s.renderer = r } }
func WithSounds(snd Sounds) SessionOption    { return func(s *Session) { s.sounds = snd } }
func WithChat(c Chat) SessionOption          { return func(s *Session) { s.chat = c } }
func WithReporter(r Reporter) SessionOption  { return func(s *Session) { s.reporter = r } }
func WithRoomID(id string) SessionOption     { return func(s *Session) { s.roomID = id } }
func WithLogger(l zerolog.Logger) SessionOption {
	return func(s *Session) { s.log = l }
}

// WithSend installs the outbound message callback. Hosts get their state
// snapshots fanned out by the room instead, so only guests need this.
func WithSend(fn func(protocol.Envelope)) SessionOption {
	return func(s *Session) { s.send = fn }
}

// WithClock injects the time source, used by countdown and cadence tests.
func WithClock(fn func() time.Time) SessionOption {
	return func(s *Session) { s.now = fn }
}

// NewSession builds a session for the given role. Guests get an engine with
// an empty obstacle list; the authoritative list arrives with the first
// snapshot.
func NewSession(role Role, cfg sim.MatchConfig, opts ...SessionOption) (*Session, error) {
	var engOpts []sim.Option
	if role.Kind == RoleGuest {
		engOpts = append(engOpts, sim.WithObstacles(nil))
	}
	eng, err := sim.NewEngine(cfg, engOpts...)
	if err != nil {
		return nil, err
	}

	s := &Session{
		role:        role,
		eng:         eng,
		phase:       PhaseWaiting,
		winner:      -1,
		localPaddle: -1,
		renderer:    NopRenderer{},
		sounds:      NopSounds{},
		chat:        NopChat{},
		reporter:    NopReporter{},
		now:         time.Now,
		log:         log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.names = cfg.DisplayNames

	switch role.Kind {
	case RoleGuest:
		s.localPaddle = role.GuestIndex
	default:
		for i := 0; i < cfg.PlayerCount; i++ {
			if cfg.ControlModes[i] == sim.ControlHuman {
				s.localPaddle = i
				break
			}
		}
	}
	return s, nil
}

func (s *Session) Role() Role          { return s.role }
func (s *Session) Phase() Phase        { return s.phase }
func (s *Session) Engine() *sim.Engine { return s.eng }
func (s *Session) Winner() int         { return s.winner }
func (s *Session) LocalPaddle() int    { return s.localPaddle }

// SetDisplayName records who occupies a slot, for the match report. Guest
// names only become known when their player joins.
func (s *Session) SetDisplayName(paddleIndex int, name string) {
	if paddleIndex >= 0 && paddleIndex < sim.MaxPaddles {
		s.names[paddleIndex] = name
	}
}

// Start moves the session out of its initial state. Local matches have no
// remote slots and count down immediately; hosts wait for their guests.
func (s *Session) Start() {
	switch s.role.Kind {
	case RoleLocal:
		s.enterCountdown()
	case RoleHost:
		if s.eng.Config().RequiredGuests() == 0 {
			s.enterCountdown()
		}
	case RoleGuest:
		// the host's start message drives the transition
	}
}

// GuestJoined records a filled remote slot; the countdown starts once every
// slot is occupied. Host-side only, called by the room actor.
func (s *Session) GuestJoined() {
	s.guestsJoined++
	if s.phase == PhaseWaiting && s.guestsJoined >= s.eng.Config().RequiredGuests() {
		s.enterCountdown()
	}
}

// GuestLeft drops the match back to waiting. Scores survive: when the slot
// refills the countdown re-runs and play resumes from a fresh serve.
func (s *Session) GuestLeft() {
	if s.guestsJoined > 0 {
		s.guestsJoined--
	}
	if s.phase == PhaseCountdown || s.phase == PhaseRunning || s.phase == PhasePaused {
		s.phase = PhaseWaiting
		s.eng.State().MatchReady = false
		s.dirty = true
		s.log.Info().Str("room", s.roomID).Msg("guest left, match suspended")
	}
}

func (s *Session) enterCountdown() {
	s.phase = PhaseCountdown
	s.countdownEnds = s.now().Add(CountdownDuration)
	s.dirty = true
}

// TogglePause flips between running and paused. Pause is strictly local: it
// stops this session's resolver ticks but is never replicated, so a host
// pause freezes the match for everyone while a guest pause only freezes the
// guest's own (soon stale) view.
func (s *Session) TogglePause() {
	switch s.phase {
	case PhaseRunning:
		s.phase = PhasePaused
		s.eng.State().Paused = true
	case PhasePaused:
		s.phase = PhaseRunning
		s.eng.State().Paused = false
	}
}

// SetLocalInput records the local player's directional intent. Guests also
// forward it to the host immediately; duplicates are harmless because the
// host keeps only the latest flags.
func (s *Session) SetLocalInput(neg, pos bool) {
	if s.localPaddle < 0 {
		return
	}
	in := sim.Input{Neg: neg, Pos: pos}
	if s.inputs[s.localPaddle] == in {
		return
	}
	s.inputs[s.localPaddle] = in
	if s.role.Kind == RoleGuest && s.send != nil {
		s.send(protocol.MakeInput(s.localPaddle, neg, pos))
	}
}

// SetSecondLocalInput drives the second human paddle of a shared-keyboard
// local match.
func (s *Session) SetSecondLocalInput(neg, pos bool) {
	if s.role.Kind != RoleLocal {
		return
	}
	for i := 0; i < s.eng.Config().PlayerCount; i++ {
		if i != s.localPaddle && s.eng.Config().ControlModes[i] == sim.ControlHuman {
			s.inputs[i] = sim.Input{Neg: neg, Pos: pos}
			return
		}
	}
}

// SetRemoteInput overwrites a remote paddle's intent. Host-side, called by
// the room actor after it has validated the sender owns the slot.
func (s *Session) SetRemoteInput(paddleIndex int, neg, pos bool) {
	if paddleIndex < 0 || paddleIndex >= sim.MaxPaddles {
		return
	}
	if s.eng.Config().ControlModes[paddleIndex] != sim.ControlRemoteGuest {
		return
	}
	s.inputs[paddleIndex] = sim.Input{Neg: neg, Pos: pos}
}

// Update advances the session one frame: runs the countdown timer, ticks the
// resolver when this side is authoritative, refreshes the renderer and
// reports whether the host should broadcast a snapshot now.
func (s *Session) Update(now time.Time) (sim.TickEvents, bool) {
	ev := sim.TickEvents{PaddleHit: -1, Scorer: -1, ExitedSide: -1, Winner: -1}

	if s.phase == PhaseCountdown && !now.Before(s.countdownEnds) {
		s.phase = PhaseRunning
		s.eng.Arm()
		s.dirty = true
		if s.role.Kind == RoleHost && s.send != nil {
			s.send(protocol.MakeStart())
		}
	}

	if s.phase == PhaseRunning && s.role.Kind != RoleGuest {
		ev = s.eng.Tick(s.inputs)
		s.reactToEvents(ev)
	}

	st := s.eng.State()
	s.renderer.UpdatePositions(st.BallPos, st.Paddles, s.eng.Obstacles())

	broadcast := false
	if s.role.Kind == RoleHost {
		if s.dirty || (s.phase == PhaseRunning && now.Sub(s.lastBroadcast) >= StateInterval) {
			s.lastBroadcast = now
			s.dirty = false
			broadcast = true
		}
	}
	return ev, broadcast
}

func (s *Session) reactToEvents(ev sim.TickEvents) {
	if ev.PaddleHit != -1 {
		s.sounds.PlayHit("paddle")
	}
	if ev.ObstacleHit {
		s.sounds.PlayHit("obstacle")
	}
	if ev.Winner != -1 {
		s.finish(ev.Winner)
	}
}

func (s *Session) finish(winner int) {
	s.phase = PhaseFinished
	s.winner = winner
	s.dirty = true

	if winner == s.localPaddle {
		s.sounds.PlayWin()
	} else {
		s.sounds.PlayLose()
	}

	if s.reported {
		return
	}
	s.reported = true
	result := MatchResult{
		RoomID: s.roomID,
		Mode:   s.eng.Config().PlayerCount,
		Scores: s.eng.State().Scores,
		Winner: winner,
		Names:  s.names,
	}
	s.log.Info().Str("room", s.roomID).Int("winner", winner).Msg("match finished")
	go s.reporter.Report(context.Background(), result)
}

// Snapshot builds the authoritative state message. Obstacles ride along only
// when the caller asks; the room tracks which guests still need them.
func (s *Session) Snapshot(includeObstacles bool) protocol.State {
	st := s.eng.State()
	phase := s.phase
	if phase == PhasePaused {
		// pause is local-only and never replicated
		phase = PhaseRunning
	}
	snap := protocol.State{
		Phase:   phase.String(),
		Ball:    protocol.Ball{Pos: st.BallPos, Vel: st.BallVel},
		Paddles: st.Paddles,
		Scores:  st.Scores,
	}
	if includeObstacles {
		snap.Obstacles = s.eng.Obstacles()
	}
	return snap
}

// ApplyState overwrites the guest engine with an authoritative snapshot.
// Idempotent: applying the same snapshot twice, or an older one after a
// newer one, just moves the whole state to what the message says.
func (s *Session) ApplyState(st protocol.State) {
	if s.role.Kind != RoleGuest {
		return
	}
	if st.Obstacles != nil {
		s.eng.SetObstacles(st.Obstacles)
	}
	s.eng.Overwrite(st.Ball.Pos, st.Ball.Vel, st.Paddles, st.Scores)

	phase := PhaseFromWire(st.Phase)
	if s.phase == PhasePaused && phase == PhaseRunning {
		// keep the local pause; the view just stays frozen
		return
	}
	if phase == PhaseFinished && s.phase != PhaseFinished {
		s.guestFinish(st.Scores)
		return
	}
	s.phase = phase
}

// guestFinish mirrors the host's finish locally. The winner is whoever holds
// the top score in the final snapshot.
func (s *Session) guestFinish(scores [sim.MaxPaddles]int) {
	s.phase = PhaseFinished
	winner := 0
	for i := 1; i < s.eng.Config().PlayerCount; i++ {
		if scores[i] > scores[winner] {
			winner = i
		}
	}
	s.winner = winner
	if winner == s.localPaddle {
		s.sounds.PlayWin()
	} else {
		s.sounds.PlayLose()
	}
}

// HandleEnvelope processes one inbound message on a guest session. Hosts
// never call this; the room actor dispatches their traffic instead.
func (s *Session) HandleEnvelope(env protocol.Envelope) {
	switch env.Type {
	case protocol.TypeAssign:
		if env.Assign == nil {
			return
		}
		s.localPaddle = env.Assign.PaddleIndex
		s.role = GuestRole(env.Assign.PaddleIndex)
		s.renderer.SetViewRotation(env.Assign.ViewRotation)
	case protocol.TypeStart:
		if s.phase != PhaseFinished {
			s.phase = PhaseRunning
		}
	case protocol.TypeState:
		if env.State != nil {
			s.ApplyState(*env.State)
		}
	default:
		if protocol.IsChat(env.Type) {
			s.chat.Deliver(env)
		}
	}
}
