package engine

import (
	"fmt"
	"strings"
)

// Direction is one of the eight compass directions
type Direction string

const (
	North     Direction = "N"
	NorthEast Direction = "NE"
	East      Direction = "E"
	SouthEast Direction = "SE"
	South     Direction = "S"
	SouthWest Direction = "SW"
	West      Direction = "W"
	NorthWest Direction = "NW"
)

// Directions lists every direction clockwise from north
var Directions = []Direction{North, NorthEast, East, SouthEast, South, SouthWest, West, NorthWest}

var directionDeltas = map[Direction]Coordinate{
	North:     {Row: -1, Col: 0},
	NorthEast: {Row: -1, Col: 1},
	East:      {Row: 0, Col: 1},
	SouthEast: {Row: 1, Col: 1},
	South:     {Row: 1, Col: 0},
	SouthWest: {Row: 1, Col: -1},
	West:      {Row: 0, Col: -1},
	NorthWest: {Row: -1, Col: -1},
}

// Delta returns the unit displacement of d. Unknown directions have no delta.
func (d Direction) Delta() Coordinate {
	return directionDeltas[d]
}

// Valid reports whether d is one of the eight compass directions
func (d Direction) Valid() bool {
	_, ok := directionDeltas[d]
	return ok
}

// ParseDirection maps a compass symbol (N, NE, ..., case-insensitive) to a Direction
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToUpper(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: direction %q", ErrUnrecognizedInput, s)
	}
	return d, nil
}
