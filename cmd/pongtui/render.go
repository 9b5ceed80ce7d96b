package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/game"
	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/geom"
	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/sim"
)

// cells per world unit; the terminal view is a top-down projection of the
// x/z play plane, two columns per row to square the aspect ratio
const (
	cellsPerUnitX = 3.0
	cellsPerUnitZ = 1.5
)

type theme struct {
	field    tcell.Style
	ball     tcell.Style
	paddle   tcell.Style
	obstacle tcell.Style
	text     tcell.Style
}

// themes recolor only; collision geometry never changes with the theme
var themes = map[string]theme{
	"classic": {
		field:    tcell.StyleDefault.Foreground(tcell.ColorGray),
		ball:     tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true),
		paddle:   tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true),
		obstacle: tcell.StyleDefault.Foreground(tcell.ColorRed),
		text:     tcell.StyleDefault.Foreground(tcell.ColorWhite),
	},
	"neon": {
		field:    tcell.StyleDefault.Foreground(tcell.ColorDarkMagenta),
		ball:     tcell.StyleDefault.Foreground(tcell.ColorFuchsia).Bold(true),
		paddle:   tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true),
		obstacle: tcell.StyleDefault.Foreground(tcell.ColorOrange),
		text:     tcell.StyleDefault.Foreground(tcell.ColorSilver),
	},
}

// termRenderer keeps the latest positions pushed by the session and draws
// them on demand. It satisfies game.Renderer.
type termRenderer struct {
	mode      int
	rotation  float64
	ball      geom.Vec3
	paddles   [sim.MaxPaddles]float64
	obstacles []sim.Obstacle
	theme     theme
}

// defaultTheme is chosen once from the command line.
var defaultTheme = "classic"

func newTermRenderer(mode int) *termRenderer {
	r := &termRenderer{mode: mode, theme: themes["classic"]}
	r.ApplyTheme(defaultTheme)
	return r
}

func (r *termRenderer) UpdatePositions(ball geom.Vec3, paddles [sim.MaxPaddles]float64, obstacles []sim.Obstacle) {
	r.ball = ball
	r.paddles = paddles
	r.obstacles = obstacles
}

func (r *termRenderer) SetViewRotation(degrees float64) { r.rotation = degrees }

func (r *termRenderer) ApplyTheme(name string) {
	if th, ok := themes[name]; ok {
		r.theme = th
	}
}

// view rotates world coordinates so the local paddle always renders on the
// left edge, matching the camera yaw a 3D client would apply.
func (r *termRenderer) view(x, z float64) (float64, float64) {
	switch r.rotation {
	case 180:
		return -x, -z
	case 90:
		return -z, x
	case -90:
		return z, -x
	}
	return x, z
}

func (r *termRenderer) project(s tcell.Screen, x, z float64) (int, int) {
	w, h := s.Size()
	vx, vz := r.view(x, z)
	col := w/2 + int(vx*cellsPerUnitX)
	row := h/2 + int(vz*cellsPerUnitZ)
	return col, row
}

func (r *termRenderer) draw(s tcell.Screen, scores [sim.MaxPaddles]int, phase game.Phase, winner int) {
	s.Clear()

	r.drawWalls(s)
	for _, o := range r.obstacles {
		r.drawDisc(s, o.X, o.Z, o.Radius, 'o', r.theme.obstacle)
	}
	for idx := 0; idx < r.mode; idx++ {
		r.drawPaddle(s, idx)
	}
	r.drawDisc(s, r.ball.X, r.ball.Z, sim.BallRadius, '@', r.theme.ball)

	line := fmt.Sprintf(" %d : %d ", scores[0], scores[1])
	if r.mode == 4 {
		line = fmt.Sprintf(" %d : %d : %d : %d ", scores[0], scores[1], scores[2], scores[3])
	}
	drawText(s, 2, 0, line, r.theme.text)

	switch phase {
	case game.PhaseWaiting:
		drawText(s, 2, 1, "waiting for players...", r.theme.text)
	case game.PhaseCountdown:
		drawText(s, 2, 1, "get ready!", r.theme.text)
	case game.PhasePaused:
		drawText(s, 2, 1, "paused (p to resume)", r.theme.text)
	case game.PhaseFinished:
		drawText(s, 2, 1, fmt.Sprintf("player %d wins! (q to quit)", winner+1), r.theme.text)
	}

	s.Show()
}

func (r *termRenderer) drawWalls(s tcell.Screen) {
	for x := -sim.FieldHalfWidth; x <= sim.FieldHalfWidth; x += 0.25 {
		r.plot(s, x, -sim.FieldHalfDepth, '-', r.theme.field)
		r.plot(s, x, sim.FieldHalfDepth, '-', r.theme.field)
	}
	for z := -sim.FieldHalfDepth; z <= sim.FieldHalfDepth; z += 0.25 {
		r.plot(s, -sim.FieldHalfWidth, z, '|', r.theme.field)
		r.plot(s, sim.FieldHalfWidth, z, '|', r.theme.field)
	}
	for _, cx := range [2]float64{-sim.FieldHalfWidth, sim.FieldHalfWidth} {
		for _, cz := range [2]float64{-sim.FieldHalfDepth, sim.FieldHalfDepth} {
			r.plot(s, cx, cz, '#', r.theme.obstacle)
		}
	}
}

func (r *termRenderer) drawPaddle(s tcell.Screen, idx int) {
	for off := -sim.PaddleHalfLength; off <= sim.PaddleHalfLength; off += 0.25 {
		var x, z float64
		switch idx {
		case sim.PaddleLeft:
			x, z = -(sim.FieldHalfWidth - sim.PaddleInset), r.paddles[idx]+off
		case sim.PaddleRight:
			x, z = sim.FieldHalfWidth-sim.PaddleInset, r.paddles[idx]+off
		case sim.PaddleBottom:
			x, z = r.paddles[idx]+off, sim.FieldHalfDepth-sim.PaddleInset
		case sim.PaddleTop:
			x, z = r.paddles[idx]+off, -(sim.FieldHalfDepth - sim.PaddleInset)
		}
		r.plot(s, x, z, '█', r.theme.paddle)
	}
}

func (r *termRenderer) drawDisc(s tcell.Screen, x, z, radius float64, ch rune, style tcell.Style) {
	r.plot(s, x, z, ch, style)
	if radius > 0.4 {
		r.plot(s, x-radius, z, ch, style)
		r.plot(s, x+radius, z, ch, style)
	}
}

func (r *termRenderer) plot(s tcell.Screen, x, z float64, ch rune, style tcell.Style) {
	col, row := r.project(s, x, z)
	w, h := s.Size()
	if col >= 0 && col < w && row >= 0 && row < h {
		s.SetContent(col, row, ch, nil, style)
	}
}

func drawText(s tcell.Screen, col, row int, text string, style tcell.Style) {
	for i, ch := range text {
		s.SetContent(col+i, row, ch, nil, style)
	}
}
