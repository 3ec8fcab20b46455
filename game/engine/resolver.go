package engine

// Chain is the outcome of sliding a ball down consecutive slopes
type Chain struct {
	Final     Coordinate
	Path      []Coordinate
	OffCourse bool
	Cycle     bool
}

// Resolution describes where a struck ball comes to rest
type Resolution struct {
	Origin    Coordinate   `json:"origin"`
	Direction Direction    `json:"direction"`
	Strength  int          `json:"strength"`
	Raw       Coordinate   `json:"raw"`
	Final     Coordinate   `json:"final"`
	Path      []Coordinate `json:"path"`
	OffCourse bool         `json:"off_course"`
	Cycle     bool         `json:"cycle"`
}

// ResolveFlight returns where the ball lands before terrain takes effect.
// Bounds are not checked here.
func ResolveFlight(origin Coordinate, dir Direction, strength int) Coordinate {
	return origin.Add(dir.Delta().Scale(strength))
}

// ResolveTerrainChain moves the ball one step along each slope it rests on
// until it reaches a non-slope cell. It stops early when the next step would
// leave the grid or revisit a cell of the same chain, so it takes at most
// width*height steps.
func ResolveTerrainChain(pos Coordinate, grid *Grid) Chain {
	chain := Chain{Final: pos, Path: []Coordinate{pos}}
	if !grid.InBounds(pos) {
		chain.OffCourse = true
		return chain
	}

	seen := map[Coordinate]bool{pos: true}
	for {
		t := grid.TerrainAt(chain.Final)
		if t.Kind != Slope {
			return chain
		}

		next := chain.Final.Add(t.Slope.Delta())
		if !grid.InBounds(next) {
			chain.OffCourse = true
			return chain
		}
		if seen[next] {
			chain.Cycle = true
			return chain
		}

		seen[next] = true
		chain.Final = next
		chain.Path = append(chain.Path, next)
	}
}

// ResolveShot combines the flight and the slope chain. It has no side effects.
func ResolveShot(origin Coordinate, dir Direction, strength int, grid *Grid) Resolution {
	raw := ResolveFlight(origin, dir, strength)
	res := Resolution{
		Origin:    origin,
		Direction: dir,
		Strength:  strength,
		Raw:       raw,
		Final:     raw,
		Path:      []Coordinate{raw},
	}

	if !grid.InBounds(raw) {
		res.OffCourse = true
		return res
	}

	chain := ResolveTerrainChain(raw, grid)
	res.Final = chain.Final
	res.Path = chain.Path
	res.OffCourse = chain.OffCourse
	res.Cycle = chain.Cycle
	return res
}
