package game

import (
	"sync"

	"golang.org/x/time/rate"

	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/protocol"
)

// Player is one remote participant: a connection plus its pumps. The read
// pump feeds decoded envelopes into the room inbox; the write pump drains
// the outbox so a slow connection can never stall the room actor.
type Player struct {
	id   string
	name string

	conn     Conn
	limiter  *rate.Limiter
	outbox   chan []byte
	pingChan chan struct{}

	room      *Room
	closeOnce sync.Once
}

// NewPlayer wraps a connection. The rate limit sits above the 60 Hz input
// cadence with headroom for chat; anything past it is dropped, not queued.
func NewPlayer(id, name string, conn Conn) *Player {
	return &Player{
		id:       id,
		name:     name,
		conn:     conn,
		limiter:  rate.NewLimiter(90, 120),
		outbox:   make(chan []byte, 256),
		pingChan: make(chan struct{}, 1),
	}
}

func (p *Player) ID() string   { return p.id }
func (p *Player) Name() string { return p.name }

// ReadPump decodes inbound frames into the room inbox. Any read error means
// the connection is gone; the room is asked to remove the player and the
// pump exits.
func (p *Player) ReadPump() {
	room := p.room

	for {
		data, err := p.conn.Read()
		if err != nil {
			room.RequestRemoval(p)
			return
		}
		if !p.limiter.Allow() {
			continue
		}
		env, err := protocol.Decode(data)
		if err != nil {
			continue
		}
		room.inbox <- inboundEnvelope{env: env, from: p}
	}
}

// WritePump serializes all writes to the connection. It exits when the
// outbox closes or a write fails.
func (p *Player) WritePump() {
loop:
	for {
		select {
		case data, ok := <-p.outbox:
			if !ok {
				break loop
			}
			if err := p.conn.Write(data); err != nil {
				break loop
			}
		case _, ok := <-p.pingChan:
			if !ok {
				break loop
			}
			if err := p.conn.Ping(); err != nil {
				break loop
			}
		}
	}
	p.conn.Close("")
}

// Send queues a frame, dropping it when the outbox is full. Snapshots are
// full overwrites, so a dropped one is recovered by the next.
func (p *Player) Send(data []byte) {
	select {
	case p.outbox <- data:
	default:
	}
}

// Ping nudges the write pump to emit a keepalive.
func (p *Player) Ping() {
	select {
	case p.pingChan <- struct{}{}:
	default:
	}
}

// shutdown closes the pumps exactly once.
func (p *Player) shutdown() {
	p.closeOnce.Do(func() {
		close(p.outbox)
		close(p.pingChan)
	})
}
