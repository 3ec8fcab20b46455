// Command analyze prints quick, human-readable reports about course files and
// checks that they are playable. For every course it summarizes dimensions,
// terrain counts, slope cycles and par (the fewest strokes needed to hole out
// when every roll goes the player's way).
//
//	analyze report [--dir courses] [--rules extended] [FILE...]
//	analyze validate [--dir courses] [FILE...]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/gridgolf/game/engine"
)

var errInvalidCourses = errors.New("some courses have errors")

// ValidationResult captures the outcome of validating a single file.
// Notes holds informational lines, Errors what makes the course unplayable.
type ValidationResult struct {
	File   string
	Valid  bool
	Notes  []string
	Errors []string
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Error().Err(err).Msg("analyze failed")
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "dir",
			Value:   "courses",
			Usage:   "directory scanned when no files are given",
			Sources: cli.EnvVars("COURSES_DIR"),
		},
		&cli.StringFlag{
			Name:  "rules",
			Value: string(engine.SimpleRules),
			Usage: "rule set used to compute par: simple or extended",
		},
	}

	return &cli.Command{
		Name:  "analyze",
		Usage: "report on and validate Grid Golf courses",
		Commands: []*cli.Command{
			{
				Name:      "report",
				Usage:     "print dimensions, terrain counts, slope cycles and par",
				ArgsUsage: "[FILE...]",
				Flags:     flags,
				Action:    runReport,
			},
			{
				Name:      "validate",
				Usage:     "check every course loads and its hole can be reached",
				ArgsUsage: "[FILE...]",
				Flags:     flags,
				Action:    runValidate,
			},
		},
	}
}

// courseFiles returns the files named on the command line, or every course
// in dir sorted by name
func courseFiles(dir string, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	files, err := filepath.Glob(filepath.Join(dir, "*"+engine.CourseExt))
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files in %s", engine.CourseExt, dir)
	}
	sort.Strings(files)
	return files, nil
}

func options(cmd *cli.Command) ([]string, engine.RuleSet, error) {
	rules, err := engine.ParseRuleSet(cmd.String("rules"))
	if err != nil {
		return nil, "", err
	}
	files, err := courseFiles(cmd.String("dir"), cmd.Args().Slice())
	if err != nil {
		return nil, "", err
	}
	return files, rules, nil
}

func runReport(ctx context.Context, cmd *cli.Command) error {
	files, rules, err := options(cmd)
	if err != nil {
		return err
	}
	w := cmd.Root().Writer

	for _, file := range files {
		fmt.Fprintf(w, "\n=== Analyzing %s ===\n", filepath.Base(file))
		course, err := engine.LoadCourse(file)
		if err != nil {
			fmt.Fprintf(w, "Error loading course: %v\n", err)
			continue
		}
		writeReport(w, course, rules)
	}
	return nil
}

func writeReport(w io.Writer, course *engine.Course, rules engine.RuleSet) {
	report := engine.Analyze(course.Grid, rules)

	fmt.Fprintf(w, "Name: %s\n", course.Name)
	fmt.Fprintf(w, "Size: %d x %d\n", report.Width, report.Height)
	fmt.Fprintf(w, "Tee: %s\n", report.Tee)

	kinds := make([]string, 0, len(report.Counts))
	for kind := range report.Counts {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Fprintf(w, "  %-8s %d\n", kind, report.Counts[engine.TerrainKind(kind)])
	}

	if report.Reachable {
		fmt.Fprintf(w, "Par (%s rules): %d\n", rules, report.Par)
	} else {
		fmt.Fprintf(w, "⚠️  CRITICAL: no hole can be reached from the tee\n")
	}

	if len(report.SlopeCycles) > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: %d slopes never settle\n", len(report.SlopeCycles))
		for i, pos := range report.SlopeCycles {
			if i < 5 {
				fmt.Fprintf(w, "   Slope cycle at %s\n", pos)
			}
		}
		if len(report.SlopeCycles) > 5 {
			fmt.Fprintf(w, "   ... and %d more\n", len(report.SlopeCycles)-5)
		}
	} else if report.Counts[engine.Slope] > 0 {
		fmt.Fprintf(w, "✅ Every slope chain settles\n")
	}
}

// validateCourse loads a course file and checks it can be finished
func validateCourse(path string, rules engine.RuleSet) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(path),
		Valid: true,
	}

	course, err := engine.LoadCourse(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to load: %v", err))
		return result
	}

	report := engine.Analyze(course.Grid, rules)
	result.Notes = append(result.Notes, fmt.Sprintf("✓ Size %d x %d, tee at %s", report.Width, report.Height, report.Tee))

	switch {
	case report.Holes == 0:
		result.Valid = false
		result.Errors = append(result.Errors, "Course has no hole")
	case !report.Reachable:
		result.Valid = false
		result.Errors = append(result.Errors, "Hole unreachable from the tee")
	default:
		result.Notes = append(result.Notes, fmt.Sprintf("✓ Par %d", report.Par))
	}

	for _, pos := range report.SlopeCycles {
		result.Notes = append(result.Notes, fmt.Sprintf("⚠ Slope cycle at %s", pos))
	}
	return result
}

func runValidate(ctx context.Context, cmd *cli.Command) error {
	files, rules, err := options(cmd)
	if err != nil {
		return err
	}
	w := cmd.Root().Writer

	allValid := true
	for _, file := range files {
		result := validateCourse(file, rules)

		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)
		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, note := range result.Notes {
				fmt.Fprintln(w, "  "+note)
			}
			continue
		}

		allValid = false
		fmt.Fprintln(w, "❌ INVALID")
		for _, msg := range result.Errors {
			fmt.Fprintln(w, "  ❌ "+msg)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if !allValid {
		fmt.Fprintln(w, "❌ Some courses have errors")
		return errInvalidCourses
	}
	fmt.Fprintln(w, "✅ All courses are valid!")
	return nil
}
