package play

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/wricardo/mcp-training/gridgolf/game/engine"
)

// TextRenderer prints the course with plain glyphs
type TextRenderer struct {
	w io.Writer
}

func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

func (t *TextRenderer) Render(state *engine.GameState) {
	fmt.Fprintln(t.w)
	for _, row := range engine.RenderRows(state) {
		fmt.Fprintln(t.w, row)
	}
	switch {
	case state.Holed:
		fmt.Fprintf(t.w, "Holed in %d strokes\n", state.Strokes)
	case state.GameOver:
		fmt.Fprintln(t.w, "Game over")
	default:
		fmt.Fprintf(t.w, "Stroke %d | ball %s on %s\n", state.Strokes, state.Ball, state.BallTerrain)
	}
}

func (t *TextRenderer) Notify(message string) {
	fmt.Fprintln(t.w, message)
}

// LineReader reads decisions one line at a time. Input is read on a
// separate goroutine so a cancelled context ends a pending prompt.
type LineReader struct {
	scanner *bufio.Scanner
	out     io.Writer
	once    sync.Once
	results chan readResult
	done    chan struct{}
	closing sync.Once
}

type readResult struct {
	line string
	err  error
}

// NewLineReader reads from in and writes prompt labels to out
func NewLineReader(in io.Reader, out io.Writer) *LineReader {
	return &LineReader{
		scanner: bufio.NewScanner(in),
		out:     out,
		results: make(chan readResult),
		done:    make(chan struct{}),
	}
}

func (l *LineReader) read() {
	defer close(l.results)
	for l.scanner.Scan() {
		select {
		case l.results <- readResult{line: l.scanner.Text()}:
		case <-l.done:
			return
		}
	}
	if err := l.scanner.Err(); err != nil {
		select {
		case l.results <- readResult{err: err}:
		case <-l.done:
		}
	}
}

// Close stops the reader goroutine. A read already blocked on the input
// returns once the input delivers a line or ends.
func (l *LineReader) Close() error {
	l.closing.Do(func() { close(l.done) })
	return nil
}

func (l *LineReader) Prompt(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	select {
	case <-l.done:
		return "", io.EOF
	default:
	}
	l.once.Do(func() { go l.read() })

	fmt.Fprintf(l.out, "%s ", label)
	select {
	case res, ok := <-l.results:
		if !ok {
			return "", io.EOF
		}
		return res.line, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
