// Package audio plays the match sound effects through the system speaker.
// Everything is synthesized; there are no sample assets.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(48000)

// Tones is the Sounds collaborator for terminal clients.
type Tones struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

func NewTones() *Tones {
	return &Tones{mixer: &beep.Mixer{}}
}

// Initialize opens the speaker. Safe to call more than once.
func (t *Tones) Initialize() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}
	speaker.Play(t.mixer)
	t.initialized = true
	return nil
}

// Cleanup silences the mixer. The speaker itself has no close.
func (t *Tones) Cleanup() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.initialized {
		t.mixer.Clear()
		t.initialized = false
	}
}

func (t *Tones) play(s beep.Streamer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.initialized {
		t.mixer.Add(s)
	}
}

// PlayHit plays a short blip: bright for paddle contact, duller for
// obstacle contact.
func (t *Tones) PlayHit(kind string) {
	freq := 880.0
	if kind == "obstacle" {
		freq = 392.0
	}
	t.play(tone(freq, 60*time.Millisecond))
}

// PlayWin plays a rising two-note jingle.
func (t *Tones) PlayWin() {
	t.play(beep.Seq(
		tone(660, 120*time.Millisecond),
		tone(880, 200*time.Millisecond),
	))
}

// PlayLose plays a falling two-note jingle.
func (t *Tones) PlayLose() {
	t.play(beep.Seq(
		tone(440, 120*time.Millisecond),
		tone(220, 250*time.Millisecond),
	))
}

// toneGenerator streams one enveloped sine note and then ends.
type toneGenerator struct {
	freq    float64
	pos     int
	samples int
}

func tone(freq float64, d time.Duration) beep.Streamer {
	return &toneGenerator{freq: freq, samples: sampleRate.N(d)}
}

func (g *toneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	if g.pos >= g.samples {
		return 0, false
	}
	for i := range samples {
		if g.pos >= g.samples {
			n = i
			return n, true
		}
		ts := float64(g.pos) / float64(sampleRate)

		// linear attack, exponential release
		progress := float64(g.pos) / float64(g.samples)
		envelope := math.Min(progress/0.1, 1.0) * math.Exp(-3*progress)

		sample := 0.25 * envelope * math.Sin(2*math.Pi*g.freq*ts)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *toneGenerator) Err() error {
	return nil
}
