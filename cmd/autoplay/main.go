// Command autoplay plays Grid Golf through the REST API without a human.
// It rolls, reads the per-direction preview and lets a Strategy pick each
// shot, then reports how many strokes every game took.
//
//	autoplay --url http://localhost:8080 --course classic --games 10
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/gridgolf/game/engine"
)

var errShotLimit = errors.New("shot limit reached")

// GameSummary is the outcome of one automated game
type GameSummary struct {
	SessionID string
	Course    string
	Holed     bool
	Strokes   int
	Attempts  int
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("autoplay failed")
		stop()
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "autoplay",
		Usage: "play Grid Golf through the REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "game server URL"},
			&cli.StringFlag{Name: "course", Usage: "course to play (server default when empty)"},
			&cli.StringFlag{Name: "rules", Value: string(engine.SimpleRules), Usage: "simple or extended"},
			&cli.IntFlag{Name: "games", Value: 1, Usage: "number of games to play"},
			&cli.IntFlag{Name: "max-shots", Value: 200, Usage: "attempts per game before giving up"},
			&cli.DurationFlag{Name: "delay", Usage: "pause between shots"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log every shot"},
		},
		Action: runAutoplay,
	}
}

func runAutoplay(ctx context.Context, cmd *cli.Command) error {
	rules, err := engine.ParseRuleSet(cmd.String("rules"))
	if err != nil {
		return err
	}
	if cmd.Bool("verbose") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	client := NewClient(cmd.String("url"))
	log.Info().Str("url", cmd.String("url")).Msg("connecting to game server")

	var holed, strokes int
	games := cmd.Int("games")
	for i := 0; i < games; i++ {
		summary, err := playGame(ctx, client, GreedyStrategy{}, cmd.String("course"), rules, cmd.Int("max-shots"), cmd.Duration("delay"))
		if err != nil && !errors.Is(err, errShotLimit) {
			return err
		}
		log.Info().
			Int("game", i+1).
			Str("course", summary.Course).
			Bool("holed", summary.Holed).
			Int("strokes", summary.Strokes).
			Int("attempts", summary.Attempts).
			Msg("game finished")
		if summary.Holed {
			holed++
			strokes += summary.Strokes
		}
	}

	if holed > 0 {
		fmt.Fprintf(cmd.Root().Writer, "Holed %d/%d games, average %.2f strokes\n", holed, games, float64(strokes)/float64(holed))
	} else {
		fmt.Fprintf(cmd.Root().Writer, "Holed 0/%d games\n", games)
	}
	return nil
}

// playGame plays one session to the end and deletes it
func playGame(ctx context.Context, client *Client, strategy Strategy, course string, rules engine.RuleSet, maxShots int, delay time.Duration) (*GameSummary, error) {
	info, err := client.CreateSession(ctx, course, rules)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := client.DeleteSession(context.Background()); err != nil {
			log.Warn().Err(err).Msg("failed to delete session")
		}
	}()

	summary := &GameSummary{SessionID: info.ID, Course: info.CourseName}
	for summary.Attempts < maxShots {
		roll, err := client.Roll(ctx)
		if err != nil {
			return summary, err
		}

		decision := strategy.Choose(roll)
		result, err := client.Shoot(ctx, decision)
		if err != nil {
			return summary, err
		}
		summary.Attempts++
		summary.Strokes = result.Strokes

		log.Debug().
			Int("roll", roll.Roll).
			Str("direction", string(decision.Direction)).
			Str("club", string(decision.Club)).
			Str("outcome", string(result.Outcome)).
			Msg(result.Message)

		if result.Outcome == engine.Holed {
			summary.Holed = true
			return summary, nil
		}
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return summary, ctx.Err()
			}
		}
	}
	return summary, errShotLimit
}
