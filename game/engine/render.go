package engine

import "strings"

// Glyphs used by the text views
const (
	GlyphBall     = 'B'
	GlyphHole     = 'O'
	GlyphTree     = 'Y'
	GlyphWater    = 'w'
	GlyphLawn     = '@'
	GlyphOverflow = '*'
	GlyphUnknown  = '?'
)

const markerDigits = "0123456789abcdefghijklmnopqrstuvwxyz"

// MarkerGlyph returns the character used to show stroke n: 0-9, then a-z,
// then '*' once the strokes run past 35.
func MarkerGlyph(n int) rune {
	if n < 0 {
		return GlyphUnknown
	}
	if n < len(markerDigits) {
		return rune(markerDigits[n])
	}
	return GlyphOverflow
}

// Glyph returns the single character a terrain is drawn with
func Glyph(t Terrain) rune {
	switch t.Kind {
	case Slope:
		switch t.Slope {
		case East:
			return '>'
		case West:
			return '<'
		case North:
			return '^'
		case South:
			return 'v'
		}
		return GlyphUnknown
	case Tree:
		return GlyphTree
	case Hole:
		return GlyphHole
	case Water:
		return GlyphWater
	case Fairway, Grass, Sand:
		return GlyphLawn
	case Start:
		return MarkerGlyph(t.Stroke)
	}
	return GlyphUnknown
}

// RenderRows draws a snapshot as one string per row with cells separated by a
// space. The ball is drawn over whatever it rests on.
func RenderRows(state *GameState) []string {
	rows := make([]string, len(state.Cells))
	var b strings.Builder
	for r, row := range state.Cells {
		b.Reset()
		for c, t := range row {
			if c > 0 {
				b.WriteByte(' ')
			}
			if state.Ball.Row == r && state.Ball.Col == c {
				b.WriteRune(GlyphBall)
				continue
			}
			b.WriteRune(Glyph(t))
		}
		rows[r] = b.String()
	}
	return rows
}

// Render joins RenderRows with newlines
func Render(state *GameState) string {
	return strings.Join(RenderRows(state), "\n")
}

// SurroundingCell is one neighbour of the ball
type SurroundingCell struct {
	Direction Direction   `json:"direction"`
	Position  Coordinate  `json:"position"`
	Terrain   Terrain     `json:"terrain"`
	OnCourse  bool        `json:"on_course"`
	Kind      TerrainKind `json:"kind,omitempty"`
}

// Surroundings lists the eight cells around the ball, clockwise from north.
// Cells off the course are reported with OnCourse false.
func (s *GameState) Surroundings() []SurroundingCell {
	cells := make([]SurroundingCell, len(Directions))
	for i, d := range Directions {
		pos := s.Ball.Add(d.Delta())
		t := s.TerrainAt(pos)
		cells[i] = SurroundingCell{
			Direction: d,
			Position:  pos,
			Terrain:   t,
			OnCourse:  t.Kind != "",
			Kind:      t.Kind,
		}
	}
	return cells
}
