package ui

import (
	"context"
	"fmt"

	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"

	"github.com/wricardo/mcp-training/gridgolf/game/config"
	"github.com/wricardo/mcp-training/gridgolf/game/play"
)

// PlayFunc runs a game against the given collaborators
type PlayFunc func(ctx context.Context, renderer play.Renderer, prompter play.Prompter) error

// App is the full-screen terminal game
type App struct {
	app      *tview.Application
	board    *Board
	prompter *InputPrompter
}

func NewApp(theme config.Theme, title string) *App {
	app := tview.NewApplication()

	status := tview.NewTextView()
	status.SetBorder(true)
	status.SetBorderPadding(0, 0, 1, 1)
	status.SetTitle(" Status ")
	status.SetTitleAlign(tview.AlignLeft)

	messages := tview.NewTextView()
	messages.SetBorder(true)
	messages.SetTitle(" Shots ")
	messages.SetTitleAlign(tview.AlignLeft)

	board := NewBoard(app, theme, status, messages)
	course := tview.NewFlex().AddItem(board.Box, 0, 1, false)
	course.SetBorder(true)
	course.SetBorderPadding(1, 0, 2, 0)
	course.SetTitle(fmt.Sprintf(" ⛳ %s ", title))
	prompter := NewInputPrompter(app)

	side := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(status, 8, 0, false).
		AddItem(messages, 0, 1, false)
	top := tview.NewFlex().
		AddItem(course, 0, 2, false).
		AddItem(side, 0, 1, false)
	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(top, 0, 1, false).
		AddItem(prompter.Field, 1, 0, true)

	app.SetRoot(root, true).SetFocus(prompter.Field)

	return &App{
		app:      app,
		board:    board,
		prompter: prompter,
	}
}

// Run shows the UI and plays on a separate goroutine. After the game ends
// the board stays up until Enter is pressed. Ctrl+C or a cancelled ctx stop
// the UI and cancel the game.
func (a *App) Run(ctx context.Context, fn PlayFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		err := fn(ctx, a.board, a.prompter)
		done <- err
		if ctx.Err() == nil {
			a.prompter.Prompt(ctx, "Game over.")
		}
		a.app.Stop()
	}()
	go func() {
		<-ctx.Done()
		a.app.Stop()
	}()

	if err := a.app.Run(); err != nil {
		log.Error().Err(err).Msg("terminal UI failed")
		cancel()
		<-done
		return err
	}
	cancel()
	return <-done
}
