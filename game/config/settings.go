package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/adrg/xdg"

	"github.com/wricardo/mcp-training/gridgolf/game/engine"
)

var (
	settingsFile = "gridgolf/config.json"
	logFile      = "gridgolf/gridgolf.log"
)

var ErrInvalidSettings = errors.New("invalid settings")

// ThemeColors are xterm-256 palette indexes; -1 means the terminal default
type ThemeColors struct {
	Background int `json:"background"`
	Fairway    int `json:"fairway"`
	Grass      int `json:"grass"`
	Sand       int `json:"sand"`
	Tree       int `json:"tree"`
	Hole       int `json:"hole"`
	Water      int `json:"water"`
	Slope      int `json:"slope"`
	Marker     int `json:"marker"`
	Ball       int `json:"ball"`
	LastShot   int `json:"last_shot"`
}

type ThemeSymbols struct {
	Ball rune `json:"ball"`
}

type Theme struct {
	CellSpacing bool         `json:"cell_spacing"`
	Colors      ThemeColors  `json:"colors"`
	Symbols     ThemeSymbols `json:"symbols"`
}

// Settings are the user preferences read from the XDG config directory
type Settings struct {
	Rules         engine.RuleSet `json:"rules"`
	MinRoll       int            `json:"min_roll"`
	MaxRoll       int            `json:"max_roll"`
	DefaultCourse string         `json:"default_course"`
	Theme         Theme          `json:"theme"`
}

// DefaultSettings returns the built-in preferences
func DefaultSettings() Settings {
	return Settings{
		Rules:         engine.SimpleRules,
		MinRoll:       engine.MinRoll,
		MaxRoll:       engine.MaxRoll,
		DefaultCourse: DefaultCourseName,
		Theme: Theme{
			CellSpacing: true,
			Colors: ThemeColors{
				Background: -1,
				Fairway:    120,
				Grass:      34,
				Sand:       229,
				Tree:       28,
				Hole:       196,
				Water:      117,
				Slope:      250,
				Marker:     255,
				Ball:       231,
				LastShot:   208,
			},
			Symbols: ThemeSymbols{
				Ball: '●',
			},
		},
	}
}

// LoadSettings reads the settings file if one exists on the XDG search path.
// Missing fields keep their defaults.
func LoadSettings() (*Settings, error) {
	settings := DefaultSettings()
	path, err := xdg.SearchConfigFile(settingsFile)
	if err == nil {
		if err := readSettingsFile(path, &settings); err != nil {
			return nil, err
		}
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Validate checks the rule set, roll range and theme symbols
func (s *Settings) Validate() error {
	rules, err := engine.ParseRuleSet(string(s.Rules))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	s.Rules = rules

	if s.MinRoll < engine.MinStrength || s.MaxRoll < s.MinRoll {
		return fmt.Errorf("%w: roll range %d-%d", ErrInvalidSettings, s.MinRoll, s.MaxRoll)
	}

	if r := s.Theme.Symbols.Ball; r < 32 || (r >= 127 && r <= 159) {
		return fmt.Errorf("%w: unicode characters 1-31 and 127-159 are not allowed", ErrInvalidSettings)
	}
	return nil
}

// Save writes the settings to the XDG config directory
func (s *Settings) Save() (string, error) {
	path, err := xdg.ConfigFile(settingsFile)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0664); err != nil {
		return "", fmt.Errorf("failed to write settings: %w", err)
	}
	return path, nil
}

// LogFilePath returns where the terminal UI writes its log, creating the
// XDG state directory when needed
func LogFilePath() (string, error) {
	return xdg.StateFile(logFile)
}

func readSettingsFile(path string, s *Settings) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	if err := json.Unmarshal(data, s); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidSettings, path, err)
	}
	return nil
}
