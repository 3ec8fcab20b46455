package engine

import (
	"fmt"
	"time"
)

// Engine provides the main interface for playing one course
type Engine interface {
	// Turn operations
	BeginTurn() (int, error)
	Play(decision Decision) (*TurnResult, error)
	Abort()
	Reset() *GameState

	// Game state
	GetState() *GameState
	IsGameOver() bool
	Phase() Phase
	Strokes() int
	Ball() Coordinate

	// History
	History() []ShotRecord
}

// Game is the turn state machine for a single ball on a single course.
// It is not safe for concurrent use.
type Game struct {
	courseName  string
	rules       RuleSet
	roller      Roller
	minRoll     int
	maxRoll     int
	initial     *Grid
	grid        *Grid
	ball        Coordinate
	strokes     int
	phase       Phase
	roll        int
	lastLanding *Coordinate
	message     string
	history     []ShotRecord
}

// Option configures a Game
type Option func(*Game)

// WithRoller replaces the dice used to sample strength
func WithRoller(r Roller) Option {
	return func(g *Game) { g.roller = r }
}

// WithRules selects the rule set
func WithRules(r RuleSet) Option {
	return func(g *Game) { g.rules = r }
}

// WithStrengthRange changes the range base strength is rolled from. Invalid
// ranges are ignored.
func WithStrengthRange(min, max int) Option {
	return func(g *Game) {
		if min >= MinStrength && max >= min {
			g.minRoll, g.maxRoll = min, max
		}
	}
}

// WithCourseName labels the game with the course it is played on
func WithCourseName(name string) Option {
	return func(g *Game) { g.courseName = name }
}

// NewGame starts a game on a private copy of grid, with the ball on the tee
func NewGame(grid *Grid, opts ...Option) *Game {
	g := &Game{
		rules:   SimpleRules,
		roller:  NewDiceRoller(),
		minRoll: MinRoll,
		maxRoll: MaxRoll,
		initial: grid.Clone(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.restart()
	return g
}

func (g *Game) restart() {
	g.grid = g.initial.Clone()
	g.ball = g.grid.Tee()
	g.strokes = FirstStroke
	g.phase = AwaitingShot
	g.roll = 0
	g.lastLanding = nil
	g.history = nil
	g.message = "Tee off! Pick a direction."
}

// BeginTurn samples the strength roll for the current turn. Calling it again
// before the turn is played returns the same roll.
func (g *Game) BeginTurn() (int, error) {
	if g.IsGameOver() {
		return 0, ErrGameOver
	}
	if g.roll == 0 {
		g.roll = g.roller.Roll(g.minRoll, g.maxRoll)
	}
	return g.roll, nil
}

// Roll returns the pending roll, or 0 when no turn has begun
func (g *Game) Roll() int {
	return g.roll
}

// Strength returns the effective strength the pending roll gives with club
func (g *Game) Strength(club Club) int {
	if g.roll == 0 {
		return 0
	}
	return EffectiveStrength(g.roll, g.grid.BaseTerrainAt(g.ball), club)
}

// Play resolves one shot. Invalid decisions leave the game untouched.
func (g *Game) Play(decision Decision) (*TurnResult, error) {
	if g.IsGameOver() {
		return nil, ErrGameOver
	}
	if !decision.Direction.Valid() {
		return nil, fmt.Errorf("%w: direction %q", ErrUnrecognizedInput, decision.Direction)
	}
	club := decision.Club
	if club == "" {
		club = Drive
	}
	if club != Drive && (club != Putt || g.rules != ExtendedRules) {
		return nil, fmt.Errorf("%w: club %q under %s rules", ErrUnrecognizedInput, club, g.rules)
	}
	if _, err := g.BeginTurn(); err != nil {
		return nil, err
	}

	g.phase = Resolving
	under := g.grid.BaseTerrainAt(g.ball)
	strength := EffectiveStrength(g.roll, under, club)
	res := ResolveShot(g.ball, decision.Direction, strength, g.grid)

	record := ShotRecord{
		Attempt:    len(g.history) + 1,
		Stroke:     g.strokes,
		Direction:  decision.Direction,
		Club:       club,
		Roll:       g.roll,
		Modifier:   StrengthModifier(under),
		Strength:   strength,
		From:       g.ball,
		RawLanding: res.Raw,
		Landing:    res.Final,
		Path:       res.Path,
		Cycle:      res.Cycle,
		Timestamp:  time.Now().Unix(),
	}
	result := &TurnResult{}

	landing := g.grid.TerrainAt(res.Final)
	switch {
	case res.OffCourse:
		result.Outcome = Redo
		result.Reason = ReasonOffCourse
		result.Message = "Redo: Off course"

	case landing.Kind == Hole:
		result.Outcome = Holed
		result.Message = fmt.Sprintf("Hit hole in %d shots", g.strokes)

	case landing.Kind == Water:
		result.Outcome = Redo
		result.Reason = ReasonWater
		result.Message = "Redo: Water"

	case landing.Kind == Tree:
		result.Outcome = Redo
		result.Reason = ReasonTree
		result.Message = "Redo: Tree"

	default:
		if err := g.grid.SetTerrain(res.Final, StartTerrain(g.strokes)); err != nil {
			// Final is always in bounds when the shot is on course
			g.phase = AwaitingShot
			return nil, err
		}
		result.Outcome = Advanced
		result.Message = fmt.Sprintf("Stroke %d landed on %s at %s", g.strokes, landing.Kind, res.Final)
		g.ball = res.Final
		g.strokes++
	}

	if !res.OffCourse {
		record.Terrain = landing.Kind
		final := res.Final
		g.lastLanding = &final
	}
	record.Outcome = result.Outcome
	record.Reason = result.Reason
	g.history = append(g.history, record)

	g.roll = 0
	g.message = result.Message
	if result.Outcome == Holed {
		g.phase = Holed
	} else {
		g.phase = AwaitingShot
	}

	result.Strokes = g.strokes
	result.Record = record
	return result, nil
}

// Abort ends the game without holing out
func (g *Game) Abort() {
	if g.phase == Holed {
		return
	}
	g.phase = Aborted
	g.roll = 0
	g.message = "Game abandoned"
}

// Reset puts the ball back on the tee of a fresh copy of the course
func (g *Game) Reset() *GameState {
	g.restart()
	return g.GetState()
}

// IsGameOver reports whether the game reached a terminal phase
func (g *Game) IsGameOver() bool {
	return g.phase == Holed || g.phase == Aborted
}

// Phase returns the current phase
func (g *Game) Phase() Phase { return g.phase }

// Strokes returns the stroke counter. It starts at 1 and counts the stroke
// about to be played.
func (g *Game) Strokes() int { return g.strokes }

// Ball returns the ball position
func (g *Game) Ball() Coordinate { return g.ball }

// Rules returns the rule set
func (g *Game) Rules() RuleSet { return g.rules }

// CourseName returns the course label
func (g *Game) CourseName() string { return g.courseName }

// StrengthRange returns the bounds of the base strength roll
func (g *Game) StrengthRange() (int, int) { return g.minRoll, g.maxRoll }

// Preview resolves the pending roll in every direction without playing it.
// It returns nil when no turn has begun.
func (g *Game) Preview(club Club) map[Direction]Resolution {
	if g.roll == 0 || g.IsGameOver() {
		return nil
	}
	strength := g.Strength(club)
	previews := make(map[Direction]Resolution, len(Directions))
	for _, d := range Directions {
		previews[d] = ResolveShot(g.ball, d, strength, g.grid)
	}
	return previews
}

// Grid returns a copy of the current grid
func (g *Game) Grid() *Grid { return g.grid.Clone() }

// History returns a copy of every attempt played so far
func (g *Game) History() []ShotRecord {
	history := make([]ShotRecord, len(g.history))
	copy(history, g.history)
	return history
}

// GetState returns a snapshot of the game
func (g *Game) GetState() *GameState {
	state := &GameState{
		CourseName:  g.courseName,
		Rules:       g.rules,
		Width:       g.grid.Width(),
		Height:      g.grid.Height(),
		Tee:         g.grid.Tee(),
		Ball:        g.ball,
		BallTerrain: g.grid.BaseTerrainAt(g.ball).Kind,
		Strokes:     g.strokes,
		Phase:       g.phase,
		GameOver:    g.IsGameOver(),
		Holed:       g.phase == Holed,
		PendingRoll: g.roll,
		Modifier:    StrengthModifier(g.grid.BaseTerrainAt(g.ball)),
		Message:     g.message,
		Attempts:    len(g.history),
		Cells:       g.grid.Rows(),
		Markers:     g.grid.Markers(),
	}
	if g.roll != 0 {
		state.PendingStrength = g.Strength(Drive)
	}
	if g.lastLanding != nil {
		landing := *g.lastLanding
		state.LastLanding = &landing
	}
	state.Map = RenderRows(state)
	return state
}
