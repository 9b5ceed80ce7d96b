package game

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UniqueIDGenerator hands out room identifiers. Injected so tests can make
// ids predictable.
type UniqueIDGenerator interface {
	Generate() string
	Dispose(id string)
}

// TickerFactory abstracts time.Ticker creation for the lobby's periodic
// work, injectable in tests.
type TickerFactory interface {
	Create(d time.Duration) <-chan time.Time
}

type uuidGenerator struct{}

func (uuidGenerator) Generate() string { return uuid.NewString() }
func (uuidGenerator) Dispose(string)   {}

type realTickers struct{}

func (realTickers) Create(d time.Duration) <-chan time.Time {
	return time.NewTicker(d).C
}

// NewUUIDGenerator is the production id source.
func NewUUIDGenerator() UniqueIDGenerator { return uuidGenerator{} }

// NewRealTickers is the production ticker source.
func NewRealTickers() TickerFactory { return realTickers{} }

type createRequest struct {
	room *Room
	resp chan string
}

// Lobby is the registry actor: it owns the room map and the public listing,
// fans out keepalive pings, and routes join requests. Rooms tick themselves;
// the lobby never touches match state.
type Lobby struct {
	rooms            map[string]*Room
	pubDescriptions  map[string]RoomDescription
	createRoomChan   chan createRequest
	removeRoomChan   chan string
	pubGamesReq      chan chan []RoomDescription
	roomDescUpdate   chan RoomDescription
	roomJoinReqs     chan joinRequest
	idGenerator      UniqueIDGenerator
	tickerFactory    TickerFactory
}

func NewLobby(idgen UniqueIDGenerator, tickers TickerFactory) *Lobby {
	return &Lobby{
		rooms:           map[string]*Room{},
		pubDescriptions: map[string]RoomDescription{},
		createRoomChan:  make(chan createRequest, 32),
		removeRoomChan:  make(chan string, 32),
		pubGamesReq:     make(chan chan []RoomDescription, 256),
		roomDescUpdate:  make(chan RoomDescription, 256),
		roomJoinReqs:    make(chan joinRequest, 256),
		idGenerator:     idgen,
		tickerFactory:   tickers,
	}
}

// AddAndRunRoom registers the room, assigns its id and starts its actor.
func (l *Lobby) AddAndRunRoom(ctx context.Context, r *Room) (string, error) {
	req := createRequest{room: r, resp: make(chan string, 1)}
	select {
	case l.createRoomChan <- req:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	select {
	case id := <-req.resp:
		return id, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// ForwardJoinRequest routes a join to its room. The caller waits on
// req.errChan for the verdict.
func (l *Lobby) ForwardJoinRequest(ctx context.Context, req joinRequest) {
	select {
	case l.roomJoinReqs <- req:
	case <-ctx.Done():
		req.errChan <- ctx.Err()
		close(req.errChan)
	}
}

// RequestUpdateDescription refreshes a room's public listing, best-effort.
func (l *Lobby) RequestUpdateDescription(desc RoomDescription) {
	select {
	case l.roomDescUpdate <- desc:
	default:
	}
}

func (l *Lobby) RemoveRoom(roomID string) {
	l.removeRoomChan <- roomID
}

// GetPublicGames snapshots the public room listing.
func (l *Lobby) GetPublicGames(ctx context.Context) []RoomDescription {
	respChan := make(chan []RoomDescription, 1)
	select {
	case l.pubGamesReq <- respChan:
		select {
		case resp := <-respChan:
			return resp
		case <-ctx.Done():
			return nil
		}
	case <-ctx.Done():
		return nil
	}
}

// LobbyActor is the actor loop. started closes once the loop is receiving.
func (l *Lobby) LobbyActor(started chan struct{}) {
	pingTicker := l.tickerFactory.Create(time.Second * 30)

	close(started)

	for {
		select {
		case <-pingTicker:
			for _, r := range l.rooms {
				r.PingPlayers()
			}
		case req := <-l.createRoomChan:
			l.handleCreateRoom(req)
		case roomID := <-l.removeRoomChan:
			l.handleRemoveRoom(roomID)
		case desc := <-l.roomDescUpdate:
			if _, ok := l.pubDescriptions[desc.ID]; ok {
				l.pubDescriptions[desc.ID] = desc
			}
		case respChan := <-l.pubGamesReq:
			l.handleGetPublicGames(respChan)
		case joinReq := <-l.roomJoinReqs:
			l.handleJoinReq(joinReq)
		}
	}
}

func (l *Lobby) handleCreateRoom(req createRequest) {
	id := l.idGenerator.Generate()
	r := req.room
	r.setID(id)
	r.setParentLobby(l)

	l.rooms[id] = r
	if !r.private {
		l.pubDescriptions[id] = r.Description()
	}
	go r.Run()
	req.resp <- id
}

func (l *Lobby) handleRemoveRoom(roomID string) {
	room, ok := l.rooms[roomID]
	if !ok {
		return
	}
	delete(l.rooms, roomID)
	delete(l.pubDescriptions, roomID)
	room.CloseAndRelease()
	l.idGenerator.Dispose(roomID)
}

func (l *Lobby) handleGetPublicGames(respChan chan []RoomDescription) {
	out := make([]RoomDescription, 0, len(l.pubDescriptions))
	for _, desc := range l.pubDescriptions {
		out = append(out, desc)
	}
	respChan <- out
}

func (l *Lobby) handleJoinReq(req joinRequest) {
	room, ok := l.rooms[req.roomID]
	if !ok {
		req.errChan <- ErrRoomNotFound
		close(req.errChan)
		return
	}
	room.RequestJoin(req)
}
