package ui

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/wricardo/mcp-training/gridgolf/game/play"
)

var _ play.Prompter = (*InputPrompter)(nil)

// InputPrompter hands lines typed into an input field to the turn runner
type InputPrompter struct {
	Field *tview.InputField
	app   *tview.Application
	lines chan string
}

func NewInputPrompter(app *tview.Application) *InputPrompter {
	p := &InputPrompter{
		Field: tview.NewInputField(),
		app:   app,
		lines: make(chan string, 1),
	}
	p.Field.SetFieldWidth(20)
	p.Field.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			text := p.Field.GetText()
			p.Field.SetText("")
			p.submit(text)
		case tcell.KeyEscape:
			p.Field.SetText("")
			p.submit("q")
		}
	})
	return p
}

// submit must not block the event loop. Lines typed while the buffer is
// full are dropped.
func (p *InputPrompter) submit(line string) {
	select {
	case p.lines <- line:
	default:
	}
}

func (p *InputPrompter) Prompt(ctx context.Context, label string) (string, error) {
	setLabel := func() { p.Field.SetLabel(label + " ") }
	if p.app == nil {
		setLabel()
	} else {
		p.app.QueueUpdateDraw(setLabel)
	}

	select {
	case line := <-p.lines:
		return line, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
