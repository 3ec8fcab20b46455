// Command gridgolf plays Grid Golf in the terminal and serves it to other
// programs.
//
// It supports three commands:
//  1. "play" (default) – plays a course in the terminal UI, or on a plain line console with --plain
//  2. "server" – runs the HTTP server exposing the REST API, WebSocket updates and an /mcp endpoint
//  3. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//  4. "settings" – prints the effective settings, and with --save writes changes to the XDG config file
//
// Global flags choose the course directory and log level; server flags
// control host/port and optional ngrok tunneling.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/gridgolf/game/config"
	"github.com/wricardo/mcp-training/gridgolf/game/engine"
	"github.com/wricardo/mcp-training/gridgolf/game/play"
	"github.com/wricardo/mcp-training/gridgolf/game/service"
	"github.com/wricardo/mcp-training/gridgolf/game/session"
	"github.com/wricardo/mcp-training/gridgolf/ui"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Grid Golf"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("gridgolf failed")
		stop()
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "gridgolf",
		Usage:   "turn-based golf on a grid",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "courses-dir",
				Value:   "courses",
				Usage:   "directory containing .course files",
				Sources: cli.EnvVars("COURSES_DIR"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "trace, debug, info, warn or error",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Before:         setupLogging,
		DefaultCommand: "play",
		Commands: []*cli.Command{
			{
				Name:  "play",
				Usage: "play a course in the terminal",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "course",
						Usage: "course name in the courses directory, or a path to a .course file",
					},
					&cli.StringFlag{
						Name:  "rules",
						Usage: "simple (direction only) or extended (direction and club)",
					},
					&cli.BoolFlag{
						Name:  "plain",
						Usage: "use a line console instead of the full-screen UI",
					},
				},
				Action: runPlay,
			},
			{
				Name:  "server",
				Usage: "run the HTTP server with API, WebSocket and MCP endpoint",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host"},
					&cli.IntFlag{Name: "port", Value: 8080, Usage: "HTTP server port", Sources: cli.EnvVars("PORT")},
					&cli.BoolFlag{Name: "ngrok", Usage: "enable ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
					&cli.StringFlag{Name: "ngrok-auth", Usage: "ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
					&cli.StringFlag{Name: "ngrok-domain", Usage: "custom ngrok domain", Sources: cli.EnvVars("NGROK_DOMAIN")},
				},
				Action: runServer,
			},
			{
				Name:  "mcp",
				Usage: "run an MCP stdio server",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "port", Value: 8080, Usage: "port of an external API server to reuse"},
				},
				Action: runStdioMCP,
			},
			{
				Name:  "settings",
				Usage: "show the effective settings, or change and save them",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "rules", Usage: "default rule set: simple or extended"},
					&cli.StringFlag{Name: "default-course", Usage: "course played when --course is not given"},
					&cli.IntFlag{Name: "min-roll", Usage: "lowest strength roll"},
					&cli.IntFlag{Name: "max-roll", Usage: "highest strength roll"},
					&cli.BoolFlag{Name: "save", Usage: "write the settings to the user config file"},
				},
				Action: runSettings,
			},
		},
	}
}

// setupLogging configures the global zerolog logger. The terminal UI
// redirects it to a file once it takes over the screen.
func setupLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	level, err := zerolog.ParseLevel(cmd.String("log-level"))
	if err != nil {
		return ctx, fmt.Errorf("invalid log level %q: %w", cmd.String("log-level"), err)
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
	return ctx, nil
}

// logToFile sends logs to the XDG state file and returns a function that
// closes it
func logToFile() (func(), error) {
	path, err := config.LogFilePath()
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return func() { f.Close() }, nil
}

func loadSettings() *config.Settings {
	settings, err := config.LoadSettings()
	if err != nil {
		log.Warn().Err(err).Msg("ignoring user settings")
		defaults := config.DefaultSettings()
		return &defaults
	}
	return settings
}

// loadCourse accepts a course name or a path to a course file
func loadCourse(dir, name string) (*engine.Course, error) {
	if strings.HasSuffix(name, engine.CourseExt) {
		if _, err := os.Stat(name); err == nil {
			return engine.LoadCourse(name)
		}
	}
	courses, err := config.NewManager(dir, name)
	if err != nil {
		return nil, err
	}
	return courses.LoadCourse(name)
}

func runPlay(ctx context.Context, cmd *cli.Command) error {
	settings := loadSettings()

	name := cmd.String("course")
	if name == "" {
		name = settings.DefaultCourse
	}
	course, err := loadCourse(cmd.String("courses-dir"), name)
	if err != nil {
		return fmt.Errorf("failed to load course: %w", err)
	}

	rules := settings.Rules
	if cmd.IsSet("rules") {
		if rules, err = engine.ParseRuleSet(cmd.String("rules")); err != nil {
			return err
		}
	}

	game := engine.NewGame(course.Grid,
		engine.WithRoller(engine.NewDiceRoller()),
		engine.WithRules(rules),
		engine.WithStrengthRange(settings.MinRoll, settings.MaxRoll),
		engine.WithCourseName(course.Name),
	)
	log.Info().Str("course", course.Name).Str("rules", string(rules)).Msg("starting game")

	playGame := func(ctx context.Context, renderer play.Renderer, prompter play.Prompter) error {
		state, err := play.NewRunner(game, renderer, prompter).Run(ctx)
		if errors.Is(err, context.Canceled) {
			log.Info().Msg("game interrupted")
			return nil
		}
		if err != nil {
			return err
		}
		log.Info().
			Str("course", state.CourseName).
			Str("phase", string(state.Phase)).
			Int("strokes", state.Strokes).
			Int("attempts", state.Attempts).
			Msg("game finished")
		return nil
	}

	if cmd.Bool("plain") {
		in, out := io.Reader(os.Stdin), io.Writer(os.Stdout)
		if root := cmd.Root(); root.Reader != nil && root.Writer != nil {
			in, out = root.Reader, root.Writer
		}
		reader := play.NewLineReader(in, out)
		defer reader.Close()
		return playGame(ctx, play.NewTextRenderer(out), reader)
	}

	closeLog, err := logToFile()
	if err != nil {
		return err
	}
	defer closeLog()
	return ui.NewApp(settings.Theme, course.Name).Run(ctx, playGame)
}

// runSettings prints the user settings with the flag overrides applied
func runSettings(ctx context.Context, cmd *cli.Command) error {
	settings := loadSettings()
	if cmd.IsSet("rules") {
		settings.Rules = engine.RuleSet(cmd.String("rules"))
	}
	if cmd.IsSet("default-course") {
		settings.DefaultCourse = cmd.String("default-course")
	}
	if cmd.IsSet("min-roll") {
		settings.MinRoll = int(cmd.Int("min-roll"))
	}
	if cmd.IsSet("max-roll") {
		settings.MaxRoll = int(cmd.Int("max-roll"))
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	w := cmd.Root().Writer
	fmt.Fprintln(w, string(data))

	if !cmd.Bool("save") {
		return nil
	}
	path, err := settings.Save()
	if err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("settings saved")
	fmt.Fprintf(w, "Saved settings to %s\n", path)
	return nil
}

// initializeServices wires the session and course managers into the game
// service. Expired sessions are pruned until ctx is done.
func initializeServices(ctx context.Context, coursesDir string, settings *config.Settings) (service.GameService, error) {
	courseManager, err := config.NewManager(coursesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create course manager: %w", err)
	}
	if settings.DefaultCourse != "" {
		if err := courseManager.SetDefault(settings.DefaultCourse); err != nil {
			log.Warn().Err(err).Str("course", settings.DefaultCourse).Msg("default course unavailable")
		}
	}
	log.Info().
		Str("dir", courseManager.Dir()).
		Str("default", courseManager.GetDefault().Name).
		Msg("courses loaded")

	sessionManager := session.NewManager()
	sessionManager.StartCleanup(ctx, time.Hour, session.DefaultMaxIdle)

	return service.NewGameService(sessionManager, courseManager,
		service.WithDefaultRules(settings.Rules),
		service.WithStrengthRange(settings.MinRoll, settings.MaxRoll),
	), nil
}
