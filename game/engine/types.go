package engine

import "fmt"

// TerrainKind represents the gameplay effect of a grid cell
type TerrainKind string

const (
	Slope   TerrainKind = "slope"
	Tree    TerrainKind = "tree"
	Sand    TerrainKind = "sand"
	Hole    TerrainKind = "hole"
	Fairway TerrainKind = "fairway"
	Water   TerrainKind = "water"
	Grass   TerrainKind = "grass"
	Start   TerrainKind = "start"

	// Rule constants
	MinRoll      = 1
	MaxRoll      = 6
	MinStrength  = 1
	PuttStrength = 1
	FirstStroke  = 1
	TeeStroke    = 0
)

// Coordinate identifies a grid cell by row and column
type Coordinate struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Add returns the componentwise sum of two coordinates
func (c Coordinate) Add(other Coordinate) Coordinate {
	return Coordinate{Row: c.Row + other.Row, Col: c.Col + other.Col}
}

// Scale multiplies both components by n
func (c Coordinate) Scale(n int) Coordinate {
	return Coordinate{Row: c.Row * n, Col: c.Col * n}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Terrain is the value held by a single cell. Slope is only meaningful for
// Slope cells and Stroke only for Start cells.
type Terrain struct {
	Kind   TerrainKind `json:"kind"`
	Slope  Direction   `json:"slope,omitempty"`
	Stroke int         `json:"stroke,omitempty"`
}

// SlopeTerrain returns a slope that pushes the ball one step towards d
func SlopeTerrain(d Direction) Terrain {
	return Terrain{Kind: Slope, Slope: d}
}

// StartTerrain returns the marker of a cell the ball rested on after n strokes
func StartTerrain(n int) Terrain {
	return Terrain{Kind: Start, Stroke: n}
}

// IsHazard reports whether landing here forces a redo
func (t Terrain) IsHazard() bool {
	return t.Kind == Water || t.Kind == Tree
}

func (t Terrain) String() string {
	switch t.Kind {
	case Slope:
		return fmt.Sprintf("slope(%s)", t.Slope)
	case Start:
		return fmt.Sprintf("start(%d)", t.Stroke)
	case "":
		return "none"
	}
	return string(t.Kind)
}

// Phase is a state of the turn state machine
type Phase string

const (
	AwaitingShot Phase = "awaiting_shot"
	Resolving    Phase = "resolving"
	Holed        Phase = "holed"
	Redo         Phase = "redo"
	Advanced     Phase = "advanced"
	Aborted      Phase = "aborted"
)

// Redo reasons
const (
	ReasonWater     = "water"
	ReasonTree      = "tree"
	ReasonOffCourse = "off_course"
)

// StrokeMarker is a numbered landing spot shown on the map
type StrokeMarker struct {
	Position Coordinate `json:"position"`
	Stroke   int        `json:"stroke"`
}

// ShotRecord represents a single attempt in the shot history. Redos are
// recorded too; only Advanced and Holed attempts count as strokes.
type ShotRecord struct {
	Attempt    int          `json:"attempt"`
	Stroke     int          `json:"stroke"`
	Direction  Direction    `json:"direction"`
	Club       Club         `json:"club"`
	Roll       int          `json:"roll"`
	Modifier   int          `json:"modifier"`
	Strength   int          `json:"strength"`
	From       Coordinate   `json:"from"`
	RawLanding Coordinate   `json:"raw_landing"`
	Landing    Coordinate   `json:"landing"`
	Path       []Coordinate `json:"path"`
	Terrain    TerrainKind  `json:"terrain,omitempty"`
	Outcome    Phase        `json:"outcome"`
	Reason     string       `json:"reason,omitempty"`
	Cycle      bool         `json:"cycle,omitempty"`
	Timestamp  int64        `json:"timestamp"`
}

// TurnResult is returned by Game.Play
type TurnResult struct {
	Outcome Phase      `json:"outcome"`
	Reason  string     `json:"reason,omitempty"`
	Strokes int        `json:"strokes"`
	Message string     `json:"message"`
	Record  ShotRecord `json:"record"`
}

// GameState represents a read-only snapshot of a game
type GameState struct {
	CourseName      string         `json:"course_name"`
	Rules           RuleSet        `json:"rules"`
	Width           int            `json:"width"`
	Height          int            `json:"height"`
	Tee             Coordinate     `json:"tee"`
	Ball            Coordinate     `json:"ball"`
	BallTerrain     TerrainKind    `json:"ball_terrain"`
	Strokes         int            `json:"strokes"`
	Phase           Phase          `json:"phase"`
	GameOver        bool           `json:"game_over"`
	Holed           bool           `json:"holed"`
	PendingRoll     int            `json:"pending_roll,omitempty"`
	Modifier        int            `json:"modifier"`
	PendingStrength int            `json:"pending_strength,omitempty"`
	LastLanding     *Coordinate    `json:"last_landing,omitempty"`
	Message         string         `json:"message"`
	Attempts        int            `json:"attempts"`
	Cells           [][]Terrain    `json:"cells"`
	Markers         []StrokeMarker `json:"markers"`

	// Computed helper view, one string per row
	Map []string `json:"map,omitempty"`
}

// TerrainAt returns the terrain of a snapshot cell, or the zero Terrain when
// the coordinate is outside the snapshot.
func (s *GameState) TerrainAt(c Coordinate) Terrain {
	if c.Row < 0 || c.Row >= len(s.Cells) || c.Col < 0 || c.Col >= len(s.Cells[c.Row]) {
		return Terrain{}
	}
	return s.Cells[c.Row][c.Col]
}
