package game

// Phase is the match lifecycle state. Transitions are driven by the session:
// waiting -> countdown when every remote slot is filled, countdown -> running
// when the timer elapses, running <-> paused locally, running -> finished on
// a win, and anything back to waiting when a guest drops.
type Phase int

const (
	PhaseWaiting Phase = iota
	PhaseCountdown
	PhaseRunning
	PhasePaused
	PhaseFinished
)

var phaseNames = map[Phase]string{
	PhaseWaiting:   "waiting",
	PhaseCountdown: "countdown",
	PhaseRunning:   "running",
	PhasePaused:    "paused",
	PhaseFinished:  "finished",
}

func (p Phase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return "unknown"
}

// PhaseFromWire parses a replicated phase name. Unknown names map to
// waiting, the safest state for a guest to sit in.
func PhaseFromWire(s string) Phase {
	for p, name := range phaseNames {
		if name == s {
			return p
		}
	}
	return PhaseWaiting
}
