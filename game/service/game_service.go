package service

import (
	"context"
	"time"

	"github.com/wricardo/mcp-training/gridgolf/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, courseName string, rules engine.RuleSet) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Roll(ctx context.Context, sessionID string) (*RollInfo, error)
	Shoot(ctx context.Context, sessionID string, decision engine.Decision) (*ShotResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)
	Quit(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetShotHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Courses
	ListCourses(ctx context.Context) ([]*CourseInfo, error)
	GetCourse(ctx context.Context, courseName string) (*CourseInfo, error)
	SaveCourse(ctx context.Context, courseName, layout string) (*CourseInfo, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, course *engine.Course, opts ...engine.Option) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// CourseManager handles course loading
type CourseManager interface {
	LoadCourse(name string) (*engine.Course, error)
	ListCourses() ([]*CourseInfo, error)
	GetDefault() *engine.Course
	SaveCourse(name string, course *engine.Course) error
}

// Session represents an active game session. Game and LastAccessedAt are
// guarded by the service lock.
type Session struct {
	ID             string
	Game           *engine.Game
	Course         *engine.Course
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
