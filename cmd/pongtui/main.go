// pongtui is the terminal client: it plays local and AI matches in-process,
// hosts or joins a peer over a raw TCP socket, and joins server rooms over
// websocket. The same session code drives all of it; only the transport and
// the role differ.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/audio"
	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/game"
	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/protocol"
	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/sim"
)

// holdFrames is how many ticks one key event keeps a direction pressed.
// Terminals report repeats, not releases, so held keys refresh the counter.
const holdFrames = 8

func main() {
	mode := flag.String("mode", "ai", "local | ai")
	name := flag.String("name", "player", "display name")
	listen := flag.String("listen", "", "host a 2P match on this TCP address")
	connect := flag.String("connect", "", "join a peer-hosted match at this TCP address")
	server := flag.String("server", "", "game server base URL, e.g. http://localhost:5000")
	room := flag.String("room", "", "server room id to join")
	win := flag.Int("win", 5, "points to win")
	obstacles := flag.Int("obstacles", 0, "obstacle count (0-3)")
	difficulty := flag.Int("difficulty", 5, "AI difficulty (1-10)")
	fourPlayers := flag.Bool("four", false, "four paddle local match")
	mute := flag.Bool("mute", false, "disable sound")
	themeName := flag.String("theme", "classic", "color theme (classic | neon)")
	flag.Parse()

	// the screen owns stdout; logs go elsewhere
	log.Logger = zerolog.New(zerolog.Nop()).With().Logger()

	var sounds game.Sounds = game.NopSounds{}
	if !*mute {
		tones := audio.NewTones()
		if err := tones.Initialize(); err == nil {
			sounds = tones
			defer tones.Cleanup()
		}
	}

	defaultTheme = *themeName

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintln(os.Stderr, "screen:", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "screen:", err)
		os.Exit(1)
	}
	defer screen.Fini()

	switch {
	case *connect != "":
		conn, err := game.DialTCP(*connect)
		if err != nil {
			fail(screen, err)
		}
		runGuest(screen, sounds, conn, *name, true)
	case *room != "" && *server != "":
		conn, err := dialWebsocket(*server, *room, *name)
		if err != nil {
			fail(screen, err)
		}
		runGuest(screen, sounds, conn, *name, false)
	case *listen != "":
		runHost(screen, sounds, *name, *listen, *win, *obstacles)
	default:
		runLocal(screen, sounds, *mode, *name, *win, *obstacles, *difficulty, *fourPlayers)
	}
}

func fail(screen tcell.Screen, err error) {
	screen.Fini()
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func localConfig(mode, name string, win, obstacles, difficulty int, four bool) sim.MatchConfig {
	cfg := sim.MatchConfig{
		PlayerCount:   2,
		WinScore:      win,
		AIDifficulty:  difficulty,
		ObstacleCount: obstacles,
	}
	if four {
		cfg.PlayerCount = 4
	}
	cfg.ControlModes[0] = sim.ControlHuman
	cfg.DisplayNames[0] = name
	for i := 1; i < cfg.PlayerCount; i++ {
		cfg.ControlModes[i] = sim.ControlAI
		cfg.DisplayNames[i] = "cpu"
	}
	if mode == "local" {
		cfg.ControlModes[1] = sim.ControlHuman
		cfg.DisplayNames[1] = "player 2"
	}
	return cfg
}

func runLocal(screen tcell.Screen, sounds game.Sounds, mode, name string, win, obstacles, difficulty int, four bool) {
	cfg := localConfig(mode, name, win, obstacles, difficulty, four)
	renderer := newTermRenderer(cfg.PlayerCount)

	sess, err := game.NewSession(game.LocalRole(), cfg,
		game.WithRenderer(renderer), game.WithSounds(sounds))
	if err != nil {
		fail(screen, err)
	}
	sess.Start()

	loop(screen, renderer, sess, nil, nil)
}

// runHost serves one guest over TCP and runs the authoritative match.
func runHost(screen tcell.Screen, sounds game.Sounds, name, addr string, win, obstacles int) {
	cfg := sim.MatchConfig{
		PlayerCount:   2,
		WinScore:      win,
		AIDifficulty:  5,
		ObstacleCount: obstacles,
	}
	cfg.ControlModes[0] = sim.ControlHuman
	cfg.ControlModes[1] = sim.ControlRemoteGuest
	cfg.DisplayNames[0] = name

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fail(screen, err)
	}
	defer listener.Close()

	conn, err := game.AcceptOne(listener)
	if err != nil {
		fail(screen, err)
	}

	renderer := newTermRenderer(cfg.PlayerCount)
	sess, err := game.NewSession(game.HostRole(), cfg,
		game.WithRenderer(renderer), game.WithSounds(sounds),
		game.WithSend(connSender(conn)))
	if err != nil {
		fail(screen, err)
	}
	sess.Start()

	inbound := pumpEnvelopes(conn)

	// the guest introduces itself before play begins
	env, ok := <-inbound
	if !ok || env.Type != protocol.TypeJoin {
		fail(screen, game.ErrBadFirstPacket)
	}
	if env.Join != nil {
		sess.SetDisplayName(1, env.Join.Name)
	}
	send(conn, protocol.MakeHello("", cfg.PlayerCount, ""))
	send(conn, protocol.MakeAssign(1))
	sess.GuestJoined()

	loop(screen, renderer, sess, inbound, hostPeer{sess: sess, conn: conn})
}

// runGuest joins a hosted match; the first envelope from the host tells us
// the mode before the session exists.
func runGuest(screen tcell.Screen, sounds game.Sounds, conn game.Conn, name string, sendJoin bool) {
	if sendJoin {
		send(conn, protocol.MakeJoin("", name))
	}
	inbound := pumpEnvelopes(conn)

	mode := 2
	var pending []protocol.Envelope
hello:
	for {
		select {
		case env, ok := <-inbound:
			if !ok {
				fail(screen, fmt.Errorf("connection closed before hello"))
			}
			if env.Type == protocol.TypeHello && env.Hello != nil {
				mode = env.Hello.Mode
				break hello
			}
			pending = append(pending, env)
		case <-time.After(10 * time.Second):
			fail(screen, fmt.Errorf("timed out waiting for hello"))
		}
	}

	cfg := sim.MatchConfig{
		PlayerCount:  mode,
		WinScore:     1, // never consulted: guests do not resolve scoring
		AIDifficulty: 5,
	}
	for i := 0; i < mode; i++ {
		cfg.ControlModes[i] = sim.ControlRemoteGuest
	}

	renderer := newTermRenderer(mode)
	sess, err := game.NewSession(game.GuestRole(-1), cfg,
		game.WithRenderer(renderer), game.WithSounds(sounds),
		game.WithSend(connSender(conn)))
	if err != nil {
		fail(screen, err)
	}
	for _, env := range pending {
		sess.HandleEnvelope(env)
	}

	loop(screen, renderer, sess, inbound, nil)
}

// hostPeer routes a TCP guest's envelopes into a host session.
type hostPeer struct {
	sess *game.Session
	conn game.Conn
}

func (hp hostPeer) handle(env protocol.Envelope) {
	if env.Type == protocol.TypeInput && env.Input != nil && env.Input.PaddleIndex == 1 {
		hp.sess.SetRemoteInput(1, env.Input.Neg, env.Input.Pos)
	}
}

// loop is the shared frame loop: keyboard, inbound traffic, fixed ticks.
func loop(screen tcell.Screen, renderer *termRenderer, sess *game.Session, inbound <-chan protocol.Envelope, peer interface{ handle(protocol.Envelope) }) {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(game.TickInterval)
	defer ticker.Stop()

	var keys keyState
	obstaclesSent := false
	hostConn := gameConnOf(peer)

	for {
		select {
		case ev := <-events:
			if quit := keys.apply(ev, sess); quit {
				return
			}
		case env, ok := <-inbound:
			if !ok {
				if sess.Role().Kind == game.RoleHost {
					sess.GuestLeft()
					inbound = nil
					continue
				}
				return
			}
			if peer != nil {
				peer.handle(env)
			} else {
				sess.HandleEnvelope(env)
			}
		case now := <-ticker.C:
			keys.tick(sess)
			_, broadcast := sess.Update(now)
			if broadcast && hostConn != nil {
				snap := sess.Snapshot(!obstaclesSent)
				obstaclesSent = true
				send(hostConn, protocol.MakeState(snap))
			}
			renderer.draw(screen, sess.Engine().State().Scores, sess.Phase(), sess.Winner())
		}
	}
}

func gameConnOf(peer interface{ handle(protocol.Envelope) }) game.Conn {
	if hp, ok := peer.(hostPeer); ok {
		return hp.conn
	}
	return nil
}

// keyState turns key events into held directions. Terminals report repeats
// rather than releases, so each press holds for a few frames and decays.
type keyState struct {
	p1Neg, p1Pos int
	p2Neg, p2Pos int
}

func (k *keyState) apply(ev tcell.Event, sess *game.Session) (quit bool) {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return false
	}
	switch {
	case key.Key() == tcell.KeyEscape || key.Key() == tcell.KeyCtrlC || key.Rune() == 'q':
		return true
	case key.Rune() == 'p':
		sess.TogglePause()
	case key.Rune() == 'w' || key.Key() == tcell.KeyUp:
		k.p1Neg = holdFrames
	case key.Rune() == 's' || key.Key() == tcell.KeyDown:
		k.p1Pos = holdFrames
	case key.Rune() == 'i':
		k.p2Neg = holdFrames
	case key.Rune() == 'k':
		k.p2Pos = holdFrames
	}
	return false
}

func (k *keyState) tick(sess *game.Session) {
	sess.SetLocalInput(k.p1Neg > 0, k.p1Pos > 0)
	sess.SetSecondLocalInput(k.p2Neg > 0, k.p2Pos > 0)
	for _, c := range []*int{&k.p1Neg, &k.p1Pos, &k.p2Neg, &k.p2Pos} {
		if *c > 0 {
			*c--
		}
	}
}

// pumpEnvelopes drains a connection into a channel; the channel closes when
// the connection dies.
func pumpEnvelopes(conn game.Conn) <-chan protocol.Envelope {
	out := make(chan protocol.Envelope, 64)
	go func() {
		defer close(out)
		for {
			data, err := conn.Read()
			if err != nil {
				return
			}
			env, err := protocol.Decode(data)
			if err != nil {
				continue
			}
			out <- env
		}
	}()
	return out
}

func connSender(conn game.Conn) func(protocol.Envelope) {
	return func(env protocol.Envelope) { send(conn, env) }
}

func send(conn game.Conn, env protocol.Envelope) {
	data, err := protocol.Encode(env)
	if err != nil {
		return
	}
	conn.Write(data)
}

// dialWebsocket trades the display name for a session token, then joins the
// room over the upgraded socket.
func dialWebsocket(server, room, name string) (game.Conn, error) {
	body, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(server+"/connect", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("connect rejected: %s", resp.Status)
	}
	var connectResp struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&connectResp); err != nil {
		return nil, err
	}

	wsBase := strings.Replace(server, "http", "ws", 1)
	wsURL := fmt.Sprintf("%s/game/join/%s?token=%s", wsBase, room, url.QueryEscape(connectResp.Token))
	c, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return nil, err
	}
	return game.NewWebsocketConn(c), nil
}
