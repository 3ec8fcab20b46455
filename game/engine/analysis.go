package engine

// CourseReport summarises a course for the analyze tool and the API
type CourseReport struct {
	Width       int                 `json:"width"`
	Height      int                 `json:"height"`
	Tee         Coordinate          `json:"tee"`
	Holes       int                 `json:"holes"`
	Counts      map[TerrainKind]int `json:"counts"`
	Par         int                 `json:"par"`
	Reachable   bool                `json:"reachable"`
	SlopeCycles []Coordinate        `json:"slope_cycles,omitempty"`
}

// Analyze builds a report for grid under the given rules
func Analyze(grid *Grid, rules RuleSet) CourseReport {
	report := CourseReport{
		Width:  grid.Width(),
		Height: grid.Height(),
		Tee:    grid.Tee(),
		Holes:  grid.Count(Hole),
		Counts: make(map[TerrainKind]int),
	}
	for _, kind := range []TerrainKind{Slope, Tree, Sand, Hole, Fairway, Water, Grass} {
		if n := grid.Count(kind); n > 0 {
			report.Counts[kind] = n
		}
	}
	report.Par, report.Reachable = MinStrokes(grid, rules)
	report.SlopeCycles = SlopeCycles(grid)
	return report
}

// SlopeCycles returns every slope cell whose chain never settles
func SlopeCycles(grid *Grid) []Coordinate {
	var cycles []Coordinate
	for r := 0; r < grid.Height(); r++ {
		for c := 0; c < grid.Width(); c++ {
			pos := Coordinate{Row: r, Col: c}
			if grid.BaseTerrainAt(pos).Kind != Slope {
				continue
			}
			if ResolveTerrainChain(pos, grid).Cycle {
				cycles = append(cycles, pos)
			}
		}
	}
	return cycles
}

// MinStrokes returns the fewest strokes needed to hole out from the tee when
// every roll goes the player's way, counted the way the game reports them.
// The search runs on the course as loaded; stroke markers only ever cover
// cells the ball can rest on, so they do not change the result except on a
// slope cycle. ok is false when no hole can be reached.
func MinStrokes(grid *Grid, rules RuleSet) (strokes int, ok bool) {
	type node struct {
		pos   Coordinate
		depth int
	}

	pristine := grid.Clone()
	pristine.markers = make(map[Coordinate]int)

	seen := map[Coordinate]bool{pristine.Tee(): true}
	queue := []node{{pos: pristine.Tee()}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, strength := range shotStrengths(pristine.BaseTerrainAt(cur.pos), rules) {
			for _, d := range Directions {
				res := ResolveShot(cur.pos, d, strength, pristine)
				if res.OffCourse {
					continue
				}
				landing := pristine.TerrainAt(res.Final)
				if landing.Kind == Hole {
					return cur.depth + FirstStroke, true
				}
				if landing.IsHazard() || seen[res.Final] {
					continue
				}
				seen[res.Final] = true
				queue = append(queue, node{pos: res.Final, depth: cur.depth + 1})
			}
		}
	}
	return 0, false
}

// shotStrengths lists the distinct strengths available from a lie
func shotStrengths(under Terrain, rules RuleSet) []int {
	seen := make(map[int]bool)
	var strengths []int
	add := func(s int) {
		if !seen[s] {
			seen[s] = true
			strengths = append(strengths, s)
		}
	}
	if rules == ExtendedRules {
		add(PuttStrength)
	}
	for roll := MinRoll; roll <= MaxRoll; roll++ {
		add(EffectiveStrength(roll, under, Drive))
	}
	return strengths
}
