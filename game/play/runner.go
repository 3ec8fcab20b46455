package play

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/mcp-training/gridgolf/game/engine"
)

// Renderer draws snapshots and shows messages. It must not keep or mutate
// the snapshot beyond the call.
type Renderer interface {
	Render(state *engine.GameState)
	Notify(message string)
}

// Prompter reads one line of player input. io.EOF means the player left.
type Prompter interface {
	Prompt(ctx context.Context, label string) (string, error)
}

// Game is the part of engine.Game the runner drives
type Game interface {
	engine.Engine
	Rules() engine.RuleSet
	Strength(club engine.Club) int
}

// Runner plays a game turn by turn
type Runner struct {
	game     Game
	renderer Renderer
	prompter Prompter
}

func NewRunner(game Game, renderer Renderer, prompter Prompter) *Runner {
	return &Runner{
		game:     game,
		renderer: renderer,
		prompter: prompter,
	}
}

// Run loops until the game is holed or aborted and returns the final
// snapshot. Quitting is not an error. When ctx is cancelled the game is
// aborted and the context error returned.
func (r *Runner) Run(ctx context.Context) (*engine.GameState, error) {
	for !r.game.IsGameOver() {
		r.renderer.Render(r.game.GetState())

		roll, err := r.game.BeginTurn()
		if err != nil {
			return nil, err
		}

		decision, err := r.decide(ctx, roll)
		if errors.Is(err, engine.ErrQuit) {
			r.game.Abort()
			r.renderer.Notify(fmt.Sprintf("Quit after %d strokes", r.game.Strokes()-1))
			break
		}
		if err != nil {
			r.game.Abort()
			return r.game.GetState(), err
		}

		result, err := r.game.Play(decision)
		if err != nil {
			return nil, err
		}
		log.Debug().
			Str("direction", string(decision.Direction)).
			Str("club", string(result.Record.Club)).
			Int("roll", result.Record.Roll).
			Int("strength", result.Record.Strength).
			Str("outcome", string(result.Outcome)).
			Str("landing", result.Record.Landing.String()).
			Msg("shot played")
		r.renderer.Notify(result.Message)
	}

	state := r.game.GetState()
	r.renderer.Render(state)
	return state, nil
}

// decide prompts until the input parses. Unrecognized input costs nothing.
func (r *Runner) decide(ctx context.Context, roll int) (engine.Decision, error) {
	label := r.label(roll)
	for {
		line, err := r.prompter.Prompt(ctx, label)
		if errors.Is(err, io.EOF) {
			return engine.Decision{}, engine.ErrQuit
		}
		if err != nil {
			return engine.Decision{}, err
		}

		decision, err := engine.ParseDecision(line, r.game.Rules())
		if errors.Is(err, engine.ErrUnrecognizedInput) {
			r.renderer.Notify(fmt.Sprintf("Unrecognized input %q, try again", strings.TrimSpace(line)))
			continue
		}
		return decision, err
	}
}

func (r *Runner) label(roll int) string {
	if r.game.Rules() == engine.ExtendedRules {
		return fmt.Sprintf("Rolled %d (drive %d, putt %d). Direction and club, e.g. \"NE putt\" (q quits):",
			roll, r.game.Strength(engine.Drive), r.game.Strength(engine.Putt))
	}
	return fmt.Sprintf("Rolled %d (strength %d). Direction N NE E SE S SW W NW (q quits):",
		roll, r.game.Strength(engine.Drive))
}
