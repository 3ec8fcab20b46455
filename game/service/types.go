package service

import (
	"time"

	"github.com/wricardo/mcp-training/gridgolf/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string            `json:"id"`
	CourseName     string            `json:"course_name"`
	Rules          engine.RuleSet    `json:"rules"`
	Par            int               `json:"par,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	GameState      *engine.GameState `json:"game_state"`
}

// RollInfo is the strength rolled for the coming shot and where each
// direction would send the ball
type RollInfo struct {
	Roll      int                 `json:"roll"`
	Modifier  int                 `json:"modifier"`
	Strength  int                 `json:"strength"`
	Clubs     map[engine.Club]int `json:"clubs"`
	Previews  []ShotPreview       `json:"previews"`
	GameState *engine.GameState   `json:"game_state"`
}

// ShotPreview describes where a drive in one direction would end up
type ShotPreview struct {
	Direction engine.Direction   `json:"direction"`
	Landing   engine.Coordinate  `json:"landing"`
	Terrain   engine.TerrainKind `json:"terrain,omitempty"`
	OffCourse bool               `json:"off_course"`
	Outcome   engine.Phase       `json:"outcome"`
}

// ShotResult contains the result of a shot
type ShotResult struct {
	Outcome   engine.Phase      `json:"outcome"`
	Reason    string            `json:"reason,omitempty"`
	Strokes   int               `json:"strokes"`
	Message   string            `json:"message"`
	Shot      engine.ShotRecord `json:"shot"`
	GameState *engine.GameState `json:"game_state"`
	Events    []GameEvent       `json:"events,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string            `json:"type"` // "shot", "redo", "holed", "reset", "quit"
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
	Position  engine.Coordinate `json:"position"`
}

// HistoryOptions configures shot history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated shot history
type HistoryResponse struct {
	Shots       []engine.ShotRecord `json:"shots"`
	TotalShots  int                 `json:"total_shots"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"page_size"`
	TotalPages  int                 `json:"total_pages"`
	HasNext     bool                `json:"has_next"`
	HasPrevious bool                `json:"has_previous"`
}

// CourseInfo provides information about a course file
type CourseInfo struct {
	Filename    string                     `json:"filename"`
	CourseID    string                     `json:"course_id"` // The identifier to use for session creation
	Width       int                        `json:"width"`
	Height      int                        `json:"height"`
	Par         int                        `json:"par"`
	Reachable   bool                       `json:"reachable"`
	Counts      map[engine.TerrainKind]int `json:"counts,omitempty"`
	SlopeCycles int                        `json:"slope_cycles,omitempty"`
	Layout      string                     `json:"layout,omitempty"`
}

// NewCourseInfo describes a loaded course
func NewCourseInfo(course *engine.Course, withLayout bool) *CourseInfo {
	report := engine.Analyze(course.Grid, engine.SimpleRules)
	info := &CourseInfo{
		Filename:    course.Name + engine.CourseExt,
		CourseID:    course.Name,
		Width:       report.Width,
		Height:      report.Height,
		Par:         report.Par,
		Reachable:   report.Reachable,
		Counts:      report.Counts,
		SlopeCycles: len(report.SlopeCycles),
	}
	if withLayout {
		info.Layout = engine.FormatCourse(course.Grid)
	}
	return info
}
