package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

var (
	ErrUnrecognizedInput = errors.New("unrecognized input")
	ErrQuit              = errors.New("player quit")
	ErrGameOver          = errors.New("game is over")
)

// RuleSet selects which decisions a player makes each turn
type RuleSet string

const (
	// SimpleRules asks for a direction only; every shot is a drive.
	SimpleRules RuleSet = "simple"
	// ExtendedRules also asks for a club.
	ExtendedRules RuleSet = "extended"
)

// ParseRuleSet accepts "simple" or "extended"; empty means simple
func ParseRuleSet(s string) (RuleSet, error) {
	switch RuleSet(strings.ToLower(strings.TrimSpace(s))) {
	case "", SimpleRules:
		return SimpleRules, nil
	case ExtendedRules:
		return ExtendedRules, nil
	}
	return "", fmt.Errorf("unknown rule set %q (want simple or extended)", s)
}

// Club is the club chosen for a shot
type Club string

const (
	Drive Club = "drive"
	Putt  Club = "putt"
)

// ParseClub maps d/drive and p/put/putt to a club
func ParseClub(s string) (Club, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "d", "drive":
		return Drive, nil
	case "p", "put", "putt":
		return Putt, nil
	}
	return "", fmt.Errorf("%w: club %q", ErrUnrecognizedInput, s)
}

// Decision is what the player chose for one turn
type Decision struct {
	Direction Direction `json:"direction"`
	Club      Club      `json:"club,omitempty"`
}

// IsQuit reports whether a line of input asks to leave the game
func IsQuit(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "q", "quit", "exit":
		return true
	}
	return false
}

// ParseDecision parses "DIR" or, under extended rules, "DIR CLUB". A missing
// club means drive. Empty input and q/quit yield ErrQuit; anything else that
// does not match yields ErrUnrecognizedInput.
func ParseDecision(line string, rules RuleSet) (Decision, error) {
	if IsQuit(line) {
		return Decision{}, ErrQuit
	}

	fields := strings.Fields(line)
	dir, err := ParseDirection(fields[0])
	if err != nil {
		return Decision{}, err
	}

	decision := Decision{Direction: dir, Club: Drive}
	switch {
	case len(fields) == 1:
	case len(fields) == 2 && rules == ExtendedRules:
		club, err := ParseClub(fields[1])
		if err != nil {
			return Decision{}, err
		}
		decision.Club = club
	default:
		return Decision{}, fmt.Errorf("%w: %q", ErrUnrecognizedInput, line)
	}
	return decision, nil
}

// Roller samples integers; Roll returns a value in [min, max]
type Roller interface {
	Roll(min, max int) int
}

// DiceRoller draws from the process-wide generator
type DiceRoller struct{}

// NewDiceRoller returns a roller backed by math/rand/v2
func NewDiceRoller() DiceRoller {
	return DiceRoller{}
}

func (DiceRoller) Roll(min, max int) int {
	if max <= min {
		return min
	}
	return min + rand.IntN(max-min+1)
}

// FixedRoller always returns the same value, clamped to the range
type FixedRoller int

func (f FixedRoller) Roll(min, max int) int {
	return clamp(int(f), min, max)
}

// SequenceRoller returns its values in order and then repeats them
type SequenceRoller struct {
	Values []int
	next   int
}

func (s *SequenceRoller) Roll(min, max int) int {
	if len(s.Values) == 0 {
		return min
	}
	v := s.Values[s.next%len(s.Values)]
	s.next++
	return clamp(v, min, max)
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// StrengthModifier returns the additive modifier of the terrain under the ball
func StrengthModifier(t Terrain) int {
	switch t.Kind {
	case Sand:
		return -1
	case Fairway:
		return 1
	}
	return 0
}

// EffectiveStrength applies the terrain modifier and club to a raw roll. The
// result is never below MinStrength.
func EffectiveStrength(roll int, under Terrain, club Club) int {
	if club == Putt {
		return PuttStrength
	}
	strength := roll + StrengthModifier(under)
	if strength < MinStrength {
		return MinStrength
	}
	return strength
}
