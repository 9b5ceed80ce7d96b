package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/geom"
	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/protocol"
	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/sim"
)

// --- Conn ---

type MockConn struct {
	mock.Mock
}

func (m *MockConn) Close(reason string) {
	m.Called(reason)
}

func (m *MockConn) Write(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockConn) Read() ([]byte, error) {
	args := m.Called()
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockConn) Ping() error {
	args := m.Called()
	return args.Error(0)
}

// --- recorders for the fire-and-forget collaborators ---

type recordingSounds struct {
	hits []string
	wins int
	loss int
}

func (r *recordingSounds) PlayHit(kind string) { r.hits = append(r.hits, kind) }
func (r *recordingSounds) PlayWin()            { r.wins++ }
func (r *recordingSounds) PlayLose()           { r.loss++ }

type recordingRenderer struct {
	updates  int
	rotation float64
	lastBall geom.Vec3
}

func (r *recordingRenderer) UpdatePositions(ball geom.Vec3, _ [sim.MaxPaddles]float64, _ []sim.Obstacle) {
	r.updates++
	r.lastBall = ball
}
func (r *recordingRenderer) SetViewRotation(degrees float64) { r.rotation = degrees }
func (r *recordingRenderer) ApplyTheme(string)               {}

type recordingReporter struct {
	mu      sync.Mutex
	results chan MatchResult
}

func newRecordingReporter() *recordingReporter {
	return &recordingReporter{results: make(chan MatchResult, 4)}
}

func (r *recordingReporter) Report(_ context.Context, result MatchResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results <- result
}

func (r *recordingReporter) wait(t *testing.T) MatchResult {
	t.Helper()
	select {
	case result := <-r.results:
		return result
	case <-time.After(2 * time.Second):
		t.Fatal("no match result reported")
		return MatchResult{}
	}
}

type recordingChat struct {
	delivered []protocol.Envelope
}

func (r *recordingChat) Deliver(env protocol.Envelope) {
	r.delivered = append(r.delivered, env)
}

// --- send capture ---

type sentLog struct {
	envelopes []protocol.Envelope
}

func (s *sentLog) send(env protocol.Envelope) {
	s.envelopes = append(s.envelopes, env)
}

func (s *sentLog) ofType(t protocol.Type) []protocol.Envelope {
	var out []protocol.Envelope
	for _, env := range s.envelopes {
		if env.Type == t {
			out = append(out, env)
		}
	}
	return out
}

// --- outbox draining ---

func drainOutbox(t *testing.T, p *Player) []protocol.Envelope {
	t.Helper()
	var out []protocol.Envelope
	for {
		select {
		case data := <-p.outbox:
			env, err := protocol.Decode(data)
			require.NoError(t, err)
			out = append(out, env)
		default:
			return out
		}
	}
}

// --- manual clock ---

type manualClock struct {
	t time.Time
}

func newManualClock() *manualClock {
	return &manualClock{t: time.Unix(1700000000, 0)}
}

func (c *manualClock) Now() time.Time          { return c.t }
func (c *manualClock) Advance(d time.Duration) { c.t = c.t.Add(d) }
