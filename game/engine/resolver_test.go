package engine

import (
	"reflect"
	"testing"
)

func TestResolveFlight(t *testing.T) {
	origin := Coordinate{Row: 5, Col: 5}
	tests := []struct {
		dir      Direction
		strength int
		want     Coordinate
	}{
		{North, 2, Coordinate{3, 5}},
		{South, 1, Coordinate{6, 5}},
		{East, 3, Coordinate{5, 8}},
		{West, 6, Coordinate{5, -1}},
		{NorthEast, 2, Coordinate{3, 7}},
		{NorthWest, 1, Coordinate{4, 4}},
		{SouthEast, 4, Coordinate{9, 9}},
		{SouthWest, 5, Coordinate{10, 0}},
	}

	for _, tt := range tests {
		t.Run(string(tt.dir), func(t *testing.T) {
			if got := ResolveFlight(origin, tt.dir, tt.strength); got != tt.want {
				t.Errorf("ResolveFlight(%s, %d) = %s, want %s", tt.dir, tt.strength, got, tt.want)
			}
		})
	}
}

func TestResolveTerrainChain(t *testing.T) {
	tests := []struct {
		name      string
		course    string
		start     Coordinate
		final     Coordinate
		steps     int
		offCourse bool
		cycle     bool
	}{
		{"no slope", "x . o", Coordinate{0, 1}, Coordinate{0, 1}, 1, false, false},
		{"single slope", "x > o", Coordinate{0, 1}, Coordinate{0, 2}, 2, false, false},
		{"cascade", "x > > v\n. . . o", Coordinate{0, 1}, Coordinate{1, 3}, 4, false, false},
		{"slides off", "x . >", Coordinate{0, 2}, Coordinate{0, 2}, 1, true, false},
		{"ping pong", "x > <", Coordinate{0, 1}, Coordinate{0, 2}, 2, false, true},
		{"start outside", "x .", Coordinate{4, 4}, Coordinate{4, 4}, 1, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := mustParse(t, tt.course)
			chain := ResolveTerrainChain(tt.start, grid)
			if chain.Final != tt.final {
				t.Errorf("Expected final %s, got %s", tt.final, chain.Final)
			}
			if len(chain.Path) != tt.steps {
				t.Errorf("Expected path of %d cells, got %v", tt.steps, chain.Path)
			}
			if chain.OffCourse != tt.offCourse {
				t.Errorf("Expected off course %v, got %v", tt.offCourse, chain.OffCourse)
			}
			if chain.Cycle != tt.cycle {
				t.Errorf("Expected cycle %v, got %v", tt.cycle, chain.Cycle)
			}
		})
	}
}

func TestResolveTerrainChain_Terminates(t *testing.T) {
	grid := mustParse(t, "> v x\n^ < .")
	chain := ResolveTerrainChain(Coordinate{0, 0}, grid)

	if !chain.Cycle {
		t.Error("Expected the ring of slopes to be reported as a cycle")
	}
	if len(chain.Path) > grid.Width()*grid.Height() {
		t.Errorf("Chain visited %d cells on a %d cell grid", len(chain.Path), grid.Size())
	}
	if chain.Final != (Coordinate{1, 0}) {
		t.Errorf("Expected chain to stop at (1,0), got %s", chain.Final)
	}
}

func TestResolveShot(t *testing.T) {
	grid := mustParse(t, "x > o\n. . .")

	t.Run("through slope into hole", func(t *testing.T) {
		res := ResolveShot(Coordinate{0, 0}, East, 1, grid)
		if res.OffCourse || res.Final != (Coordinate{0, 2}) || res.Raw != (Coordinate{0, 1}) {
			t.Errorf("Unexpected resolution %+v", res)
		}
	})

	t.Run("raw landing off course", func(t *testing.T) {
		res := ResolveShot(Coordinate{0, 0}, North, 1, grid)
		if !res.OffCourse {
			t.Errorf("Expected off course, got %+v", res)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		for _, d := range Directions {
			for s := 1; s <= 3; s++ {
				a := ResolveShot(Coordinate{1, 1}, d, s, grid)
				b := ResolveShot(Coordinate{1, 1}, d, s, grid)
				if !reflect.DeepEqual(a, b) {
					t.Errorf("ResolveShot(%s, %d) not deterministic: %+v vs %+v", d, s, a, b)
				}
			}
		}
	})

	t.Run("does not touch the grid", func(t *testing.T) {
		before := grid.Rows()
		ResolveShot(Coordinate{0, 0}, East, 1, grid)
		if !reflect.DeepEqual(before, grid.Rows()) {
			t.Error("ResolveShot modified the grid")
		}
	})
}
