package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var ErrReadCourse = errors.New("failed to read course")

// CourseExt is the file extension of course files
const CourseExt = ".course"

// Course is a parsed course file
type Course struct {
	Name string
	Grid *Grid
}

// courseSymbols maps course file symbols to terrain. Unknown symbols are grass.
var courseSymbols = map[string]Terrain{
	">": SlopeTerrain(East),
	"<": SlopeTerrain(West),
	"^": SlopeTerrain(North),
	"v": SlopeTerrain(South),
	"o": {Kind: Hole},
	"t": {Kind: Tree},
	"s": {Kind: Sand},
	"w": {Kind: Water},
	"f": {Kind: Fairway},
	"x": StartTerrain(TeeStroke),
}

// TerrainForSymbol returns the terrain a course symbol stands for
func TerrainForSymbol(symbol string) Terrain {
	if t, ok := courseSymbols[symbol]; ok {
		return t
	}
	return Terrain{Kind: Grass}
}

// Symbol returns the course file symbol for t. Diagonal slopes and stroke
// markers have no symbol of their own; markers are written as the tee only
// for stroke 0.
func (t Terrain) Symbol() string {
	switch t.Kind {
	case Slope:
		switch t.Slope {
		case East:
			return ">"
		case West:
			return "<"
		case North:
			return "^"
		case South:
			return "v"
		}
		return "."
	case Hole:
		return "o"
	case Tree:
		return "t"
	case Sand:
		return "s"
	case Water:
		return "w"
	case Fairway:
		return "f"
	case Start:
		if t.Stroke == TeeStroke {
			return "x"
		}
	}
	return "."
}

// maxCourseLine bounds a single row of a course file
const maxCourseLine = 16 << 20

// ParseCourse reads a course: one row per non-empty line, cells separated by
// whitespace. It returns the grid and its tee.
func ParseCourse(r io.Reader) (*Grid, Coordinate, error) {
	var rows [][]Terrain

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxCourseLine)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		row := make([]Terrain, len(fields))
		for i, symbol := range fields {
			row[i] = TerrainForSymbol(symbol)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, Coordinate{}, fmt.Errorf("%w: %v", ErrReadCourse, err)
	}

	grid, err := NewGrid(rows)
	if err != nil {
		return nil, Coordinate{}, err
	}
	return grid, grid.Tee(), nil
}

// ParseCourseString parses a course held in memory
func ParseCourseString(text string) (*Grid, Coordinate, error) {
	return ParseCourse(strings.NewReader(text))
}

// LoadCourseFile parses the course stored at path
func LoadCourseFile(path string) (*Grid, Coordinate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Coordinate{}, fmt.Errorf("%w: %v", ErrReadCourse, err)
	}
	defer f.Close()

	grid, tee, err := ParseCourse(f)
	if err != nil {
		return nil, Coordinate{}, fmt.Errorf("%s: %w", path, err)
	}
	return grid, tee, nil
}

// LoadCourse reads the course stored at path and names it after the file
func LoadCourse(path string) (*Course, error) {
	grid, _, err := LoadCourseFile(path)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), CourseExt)
	return &Course{Name: name, Grid: grid}, nil
}

// FormatCourse writes the base terrain of g back into course file syntax
func FormatCourse(g *Grid) string {
	var b strings.Builder
	for r := 0; r < g.Height(); r++ {
		for c := 0; c < g.Width(); c++ {
			if c > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(g.BaseTerrainAt(Coordinate{Row: r, Col: c}).Symbol())
		}
		b.WriteByte('\n')
	}
	return b.String()
}
