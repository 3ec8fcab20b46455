// Package ui runs Grid Golf in the terminal with tview.
package ui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/wricardo/mcp-training/gridgolf/game/config"
	"github.com/wricardo/mcp-training/gridgolf/game/engine"
	"github.com/wricardo/mcp-training/gridgolf/game/play"
)

var _ play.Renderer = (*Board)(nil)

// Board draws the course and the status panel. Render and Notify may be
// called from any goroutine; drawing happens on the tview event loop.
type Board struct {
	Box    *tview.Box
	status *tview.TextView
	log    *tview.TextView
	app    *tview.Application
	theme  config.Theme
	styles map[engine.TerrainKind]tcell.Style
	ball   tcell.Style
	last   tcell.Color

	mu    sync.Mutex
	state *engine.GameState
}

// NewBoard returns a board that writes its status into status and its
// messages into log. app may be nil, in which case updates apply at once.
func NewBoard(app *tview.Application, theme config.Theme, status, log *tview.TextView) *Board {
	board := &Board{
		Box:    tview.NewBox(),
		status: status,
		log:    log,
		app:    app,
	}
	board.SetTheme(theme)
	board.Box.SetDrawFunc(board.draw)
	return board
}

func paletteColor(i int) tcell.Color {
	if i < 0 {
		return tcell.ColorDefault
	}
	return tcell.PaletteColor(i)
}

func (b *Board) SetTheme(theme config.Theme) {
	c := theme.Colors
	base := tcell.StyleDefault.Background(paletteColor(c.Background))
	b.styles = map[engine.TerrainKind]tcell.Style{
		engine.Fairway: base.Foreground(paletteColor(c.Fairway)),
		engine.Grass:   base.Foreground(paletteColor(c.Grass)),
		engine.Sand:    base.Foreground(paletteColor(c.Sand)),
		engine.Tree:    base.Foreground(paletteColor(c.Tree)).Bold(true),
		engine.Hole:    base.Foreground(paletteColor(c.Hole)).Bold(true),
		engine.Water:   base.Foreground(paletteColor(c.Water)),
		engine.Slope:   base.Foreground(paletteColor(c.Slope)),
		engine.Start:   base.Foreground(paletteColor(c.Marker)),
	}
	b.ball = base.Foreground(paletteColor(c.Ball)).Bold(true)
	b.last = paletteColor(c.LastShot)
	b.theme = theme
}

// State returns the snapshot currently on screen
func (b *Board) State() *engine.GameState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Board) Render(state *engine.GameState) {
	b.mu.Lock()
	b.state = state
	b.mu.Unlock()

	text := statusText(state)
	b.queue(func() {
		b.status.SetText(text)
	})
}

func (b *Board) Notify(message string) {
	b.queue(func() {
		fmt.Fprintln(b.log, message)
		b.log.ScrollToEnd()
	})
}

func (b *Board) queue(f func()) {
	if b.app == nil {
		f()
		return
	}
	b.app.QueueUpdateDraw(f)
}

func (b *Board) cellWidth() int {
	if b.theme.CellSpacing {
		return 2
	}
	return 1
}

func (b *Board) draw(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	state := b.State()
	if state == nil || len(state.Cells) == 0 {
		return x, y, width, height
	}

	cw := b.cellWidth()
	for r, row := range state.Cells {
		if r >= height {
			break
		}
		for c, t := range row {
			if c*cw >= width {
				break
			}
			style, ok := b.styles[t.Kind]
			if !ok {
				style = tcell.StyleDefault
			}
			glyph := engine.Glyph(t)
			pos := engine.Coordinate{Row: r, Col: c}
			if pos == state.Ball && !state.Holed {
				glyph = b.theme.Symbols.Ball
				style = b.ball
			}
			if state.LastLanding != nil && *state.LastLanding == pos {
				style = style.Background(b.last)
			}
			screen.SetContent(x+c*cw, y+r, glyph, nil, style)
			if cw > 1 {
				screen.SetContent(x+c*cw+1, y+r, ' ', nil, tcell.StyleDefault.Background(paletteColor(b.theme.Colors.Background)))
			}
		}
	}
	return x, y, width, height
}

func statusText(state *engine.GameState) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Course: %s (%s rules)\n", state.CourseName, state.Rules)
	switch {
	case state.Holed:
		fmt.Fprintf(&sb, "⛳ Holed in %d strokes\n\n  press Enter to exit", state.Strokes)
	case state.GameOver:
		fmt.Fprintf(&sb, "Game abandoned after %d strokes\n\n  press Enter to exit", state.Strokes-1)
	default:
		fmt.Fprintf(&sb, "Stroke %d\nBall %s on %s\n", state.Strokes, state.Ball, state.BallTerrain)
		if state.Rules == engine.ExtendedRules {
			sb.WriteString("\n  N NE E SE S SW W NW [putt] ⏎ shoot\n  Esc quit")
		} else {
			sb.WriteString("\n  N NE E SE S SW W NW ⏎ shoot\n  Esc quit")
		}
	}
	return sb.String()
}
