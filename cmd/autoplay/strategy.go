package main

import (
	"github.com/wricardo/mcp-training/gridgolf/game/engine"
	"github.com/wricardo/mcp-training/gridgolf/game/service"
)

// Strategy picks the shot to play for a roll
type Strategy interface {
	Choose(roll *service.RollInfo) engine.Decision
}

// GreedyStrategy holes out when a preview says it can, putts into an
// adjacent hole under extended rules, and otherwise advances to the landing
// closest to a hole. When every direction is a redo it plays the first
// one to spend the roll.
type GreedyStrategy struct{}

func (GreedyStrategy) Choose(roll *service.RollInfo) engine.Decision {
	state := roll.GameState
	holes := holePositions(state)

	for _, p := range roll.Previews {
		if p.Outcome == engine.Holed {
			return engine.Decision{Direction: p.Direction, Club: engine.Drive}
		}
	}

	if _, ok := roll.Clubs[engine.Putt]; ok {
		for _, d := range engine.Directions {
			if state.TerrainAt(state.Ball.Add(d.Delta())).Kind == engine.Hole {
				return engine.Decision{Direction: d, Club: engine.Putt}
			}
		}
	}

	best := engine.Decision{Direction: engine.Directions[0], Club: engine.Drive}
	bestDist := -1
	for _, p := range roll.Previews {
		if p.Outcome != engine.Advanced {
			continue
		}
		dist := nearest(p.Landing, holes)
		if bestDist < 0 || dist < bestDist {
			best.Direction = p.Direction
			bestDist = dist
		}
	}
	if bestDist < 0 && len(roll.Previews) > 0 {
		best.Direction = roll.Previews[0].Direction
	}
	return best
}

func holePositions(state *engine.GameState) []engine.Coordinate {
	var holes []engine.Coordinate
	for r, row := range state.Cells {
		for c, t := range row {
			if t.Kind == engine.Hole {
				holes = append(holes, engine.Coordinate{Row: r, Col: c})
			}
		}
	}
	return holes
}

// nearest returns the king-move distance from pos to the closest hole
func nearest(pos engine.Coordinate, holes []engine.Coordinate) int {
	best := -1
	for _, h := range holes {
		d := max(abs(pos.Row-h.Row), abs(pos.Col-h.Col))
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
