package engine

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrEmptyCourse    = errors.New("course has no cells")
	ErrRaggedRows     = errors.New("course rows have inconsistent lengths")
	ErrNoTee          = errors.New("course has no tee (x)")
	ErrMultipleTees   = errors.New("course has more than one tee (x)")
	ErrOutOfBounds    = errors.New("coordinate outside the course")
	ErrInvalidTerrain = errors.New("invalid terrain")
)

// Grid holds the terrain of every cell in row-major order plus an overlay of
// stroke markers. Stamping a marker never destroys the terrain underneath.
type Grid struct {
	width   int
	height  int
	tee     Coordinate
	cells   []Terrain
	markers map[Coordinate]int
}

// NewGrid builds a grid from rows of terrain. Every row must have the same
// length and exactly one cell must be the tee, Start(0).
func NewGrid(rows [][]Terrain) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyCourse
	}

	width := len(rows[0])
	cells := make([]Terrain, 0, width*len(rows))
	teeFound := false
	var tee Coordinate

	for r, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrRaggedRows, r+1, len(row), width)
		}
		for c, t := range row {
			if t.Kind == "" {
				return nil, fmt.Errorf("%w at row %d, col %d", ErrInvalidTerrain, r+1, c+1)
			}
			if t.Kind == Slope && !t.Slope.Valid() {
				return nil, fmt.Errorf("%w: slope without direction at row %d, col %d", ErrInvalidTerrain, r+1, c+1)
			}
			if t.Kind == Start && t.Stroke == TeeStroke {
				if teeFound {
					return nil, fmt.Errorf("%w: second tee at row %d, col %d", ErrMultipleTees, r+1, c+1)
				}
				teeFound = true
				tee = Coordinate{Row: r, Col: c}
			}
			cells = append(cells, t)
		}
	}

	if !teeFound {
		return nil, ErrNoTee
	}

	return &Grid{
		width:   width,
		height:  len(rows),
		tee:     tee,
		cells:   cells,
		markers: make(map[Coordinate]int),
	}, nil
}

// Width returns the number of columns
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows
func (g *Grid) Height() int { return g.height }

// Size returns the number of cells
func (g *Grid) Size() int { return len(g.cells) }

// Tee returns the starting coordinate
func (g *Grid) Tee() Coordinate { return g.tee }

// InBounds reports whether c addresses a cell of this grid
func (g *Grid) InBounds(c Coordinate) bool {
	return c.Row >= 0 && c.Row < g.height && c.Col >= 0 && c.Col < g.width
}

func (g *Grid) index(c Coordinate) int {
	return c.Row*g.width + c.Col
}

// TerrainAt returns the effective terrain at c: the stroke marker if the ball
// has rested there, otherwise the base terrain. Out-of-range coordinates yield
// the zero Terrain.
func (g *Grid) TerrainAt(c Coordinate) Terrain {
	if !g.InBounds(c) {
		return Terrain{}
	}
	if stroke, ok := g.markers[c]; ok {
		return StartTerrain(stroke)
	}
	return g.cells[g.index(c)]
}

// BaseTerrainAt returns the terrain loaded from the course, ignoring markers
func (g *Grid) BaseTerrainAt(c Coordinate) Terrain {
	if !g.InBounds(c) {
		return Terrain{}
	}
	return g.cells[g.index(c)]
}

// SetTerrain overwrites the terrain at c. Start markers go to the overlay,
// anything else replaces the base terrain and clears the marker.
func (g *Grid) SetTerrain(c Coordinate, t Terrain) error {
	if !g.InBounds(c) {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, c)
	}
	if t.Kind == Start {
		g.markers[c] = t.Stroke
		return nil
	}
	g.cells[g.index(c)] = t
	delete(g.markers, c)
	return nil
}

// Markers returns the stroke markers ordered by stroke number
func (g *Grid) Markers() []StrokeMarker {
	markers := make([]StrokeMarker, 0, len(g.markers))
	for pos, stroke := range g.markers {
		markers = append(markers, StrokeMarker{Position: pos, Stroke: stroke})
	}
	sort.Slice(markers, func(i, j int) bool {
		if markers[i].Stroke != markers[j].Stroke {
			return markers[i].Stroke < markers[j].Stroke
		}
		if markers[i].Position.Row != markers[j].Position.Row {
			return markers[i].Position.Row < markers[j].Position.Row
		}
		return markers[i].Position.Col < markers[j].Position.Col
	})
	return markers
}

// Rows returns the effective terrain as a fresh row-major matrix
func (g *Grid) Rows() [][]Terrain {
	rows := make([][]Terrain, g.height)
	for r := 0; r < g.height; r++ {
		rows[r] = make([]Terrain, g.width)
		for c := 0; c < g.width; c++ {
			rows[r][c] = g.TerrainAt(Coordinate{Row: r, Col: c})
		}
	}
	return rows
}

// Count returns how many cells have the given base terrain kind
func (g *Grid) Count(kind TerrainKind) int {
	count := 0
	for _, t := range g.cells {
		if t.Kind == kind {
			count++
		}
	}
	return count
}

// Clone returns a deep copy of the grid
func (g *Grid) Clone() *Grid {
	cells := make([]Terrain, len(g.cells))
	copy(cells, g.cells)
	markers := make(map[Coordinate]int, len(g.markers))
	for pos, stroke := range g.markers {
		markers[pos] = stroke
	}
	return &Grid{
		width:   g.width,
		height:  g.height,
		tee:     g.tee,
		cells:   cells,
		markers: markers,
	}
}
