package game

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/protocol"
	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/sim"
)

type inboundEnvelope struct {
	env  protocol.Envelope
	from *Player
}

type joinRequest struct {
	roomID  string
	player  *Player
	errChan chan error
}

// RoomDescription is the lobby-facing summary of a room.
type RoomDescription struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Mode       int    `json:"mode"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
	Running    bool   `json:"running"`
	private    bool
}

// Room is an actor owning one hosted match. All state below is touched only
// by the Run goroutine; other goroutines talk to it through the channels.
type Room struct {
	id      string
	name    string
	private bool

	session *Session

	players       []*Player
	slots         map[*Player]int
	obstaclesSent map[*Player]bool

	inbox        chan inboundEnvelope
	joinRequests chan joinRequest
	removals     chan *Player
	pingReq      chan struct{}
	done         chan struct{}

	lobby *Lobby
	log   zerolog.Logger
}

// NewRoom builds the actor around a host session for cfg. Every human slot
// of a hosted room is a remote guest; the server itself holds no paddle.
func NewRoom(name string, private bool, cfg sim.MatchConfig, opts ...SessionOption) (*Room, error) {
	session, err := NewSession(HostRole(), cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Room{
		name:          name,
		private:       private,
		session:       session,
		slots:         make(map[*Player]int),
		obstaclesSent: make(map[*Player]bool),
		inbox:         make(chan inboundEnvelope, 256),
		joinRequests:  make(chan joinRequest, 8),
		removals:      make(chan *Player, 8),
		pingReq:       make(chan struct{}, 1),
		done:          make(chan struct{}),
		log:           log.Logger,
	}, nil
}

func (r *Room) ID() string { return r.id }

func (r *Room) setID(id string) {
	r.id = id
	r.session.roomID = id
	r.log = log.With().Str("room", id).Logger()
}

func (r *Room) setParentLobby(l *Lobby) { r.lobby = l }

func (r *Room) Description() RoomDescription {
	return RoomDescription{
		ID:         r.id,
		Name:       r.name,
		Mode:       r.session.Engine().Config().PlayerCount,
		Players:    len(r.players),
		MaxPlayers: r.session.Engine().Config().RequiredGuests(),
		Running:    r.session.Phase() == PhaseRunning,
		private:    r.private,
	}
}

// RequestJoin queues a join; the result arrives on req.errChan. Called from
// the lobby actor.
func (r *Room) RequestJoin(req joinRequest) {
	select {
	case r.joinRequests <- req:
	default:
		req.errChan <- ErrNotAccepting
		close(req.errChan)
	}
}

// RequestRemoval is called by a player's read pump when its connection dies.
func (r *Room) RequestRemoval(p *Player) {
	select {
	case r.removals <- p:
	case <-r.done:
	}
}

// PingPlayers asks the actor to fan out keepalives. Called from the lobby.
func (r *Room) PingPlayers() {
	select {
	case r.pingReq <- struct{}{}:
	default:
	}
}

// CloseAndRelease stops the actor. Called from the lobby after the room has
// been deregistered.
func (r *Room) CloseAndRelease() {
	close(r.done)
}

// Run is the actor loop. The room owns its own fixed-step ticker: the match
// must advance at the simulation cadence regardless of lobby traffic.
func (r *Room) Run() {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	r.session.Start()

	for {
		select {
		case now := <-ticker.C:
			_, broadcast := r.session.Update(now)
			if broadcast {
				r.broadcastState()
			}
		case in := <-r.inbox:
			r.handleEnvelope(in)
		case req := <-r.joinRequests:
			r.handleJoin(req)
		case p := <-r.removals:
			r.handleRemoval(p)
		case <-r.pingReq:
			for _, p := range r.players {
				p.Ping()
			}
		case <-r.done:
			for _, p := range r.players {
				p.shutdown()
			}
			return
		}
	}
}

// freeSlot returns the lowest remote-guest paddle index nobody occupies,
// or -1 when the room is full.
func (r *Room) freeSlot() int {
	cfg := r.session.Engine().Config()
	for idx := 0; idx < cfg.PlayerCount; idx++ {
		if cfg.ControlModes[idx] != sim.ControlRemoteGuest {
			continue
		}
		taken := false
		for _, other := range r.slots {
			if other == idx {
				taken = true
				break
			}
		}
		if !taken {
			return idx
		}
	}
	return -1
}

func (r *Room) handleJoin(req joinRequest) {
	idx := r.freeSlot()
	if idx == -1 {
		req.errChan <- ErrRoomFull
		close(req.errChan)
		return
	}

	p := req.player
	p.room = r
	r.players = append(r.players, p)
	r.slots[p] = idx
	r.session.SetDisplayName(idx, p.name)

	cfg := r.session.Engine().Config()
	r.sendTo(p, protocol.MakeHello(r.id, cfg.PlayerCount, p.id))
	r.sendTo(p, protocol.MakeAssign(idx))

	r.broadcastPresence(protocol.TypeUserJoined, p)
	r.session.GuestJoined()
	r.publishDescription()
	r.log.Info().Str("player", p.id).Int("paddle", idx).Msg("player joined")

	req.errChan <- nil
	close(req.errChan)
}

func (r *Room) handleRemoval(p *Player) {
	idx, ok := r.slots[p]
	if !ok {
		return
	}
	delete(r.slots, p)
	delete(r.obstaclesSent, p)
	for i, other := range r.players {
		if other == p {
			r.players = append(r.players[:i], r.players[i+1:]...)
			break
		}
	}
	p.shutdown()

	r.session.SetRemoteInput(idx, false, false)
	r.session.GuestLeft()
	r.broadcastPresence(protocol.TypeUserLeft, p)
	r.publishDescription()
	r.log.Info().Str("player", p.id).Int("paddle", idx).Msg("player left")

	if len(r.players) == 0 {
		r.lobby.RemoveRoom(r.id)
	}
}

func (r *Room) handleEnvelope(in inboundEnvelope) {
	switch in.env.Type {
	case protocol.TypeInput:
		if in.env.Input == nil {
			return
		}
		idx, ok := r.slots[in.from]
		// a guest may only steer its own paddle
		if !ok || in.env.Input.PaddleIndex != idx {
			return
		}
		r.session.SetRemoteInput(idx, in.env.Input.Neg, in.env.Input.Pos)
	default:
		if protocol.IsChat(in.env.Type) {
			r.relayChat(in)
		}
	}
}

// relayChat stamps the sender and fans the message out to everyone else.
// Chat carries no simulation semantics; the room is just the bus.
func (r *Room) relayChat(in inboundEnvelope) {
	env := in.env
	if env.Chat == nil {
		env.Chat = &protocol.Chat{}
	}
	env.Chat.From = in.from.name
	env.Chat.Room = r.id

	data, err := protocol.Encode(env)
	if err != nil {
		return
	}
	for _, p := range r.players {
		if p != in.from {
			p.Send(data)
		}
	}
}

func (r *Room) broadcastPresence(t protocol.Type, who *Player) {
	data, err := protocol.Encode(protocol.Envelope{
		Type: t,
		Chat: &protocol.Chat{From: who.name, Room: r.id},
	})
	if err != nil {
		return
	}
	for _, p := range r.players {
		if p != who {
			p.Send(data)
		}
	}
}

// broadcastState fans the authoritative snapshot out. A guest's first
// snapshot carries the obstacle list; after that the list is omitted and the
// guest's latched copy stands.
func (r *Room) broadcastState() {
	base, err := protocol.Encode(protocol.MakeState(r.session.Snapshot(false)))
	if err != nil {
		return
	}
	var withObstacles []byte
	for _, p := range r.players {
		if r.obstaclesSent[p] {
			p.Send(base)
			continue
		}
		if withObstacles == nil {
			withObstacles, err = protocol.Encode(protocol.MakeState(r.session.Snapshot(true)))
			if err != nil {
				return
			}
		}
		r.obstaclesSent[p] = true
		p.Send(withObstacles)
	}
}

func (r *Room) sendTo(p *Player, env protocol.Envelope) {
	data, err := protocol.Encode(env)
	if err != nil {
		return
	}
	p.Send(data)
}

func (r *Room) publishDescription() {
	if r.lobby != nil && !r.private {
		r.lobby.RequestUpdateDescription(r.Description())
	}
}
