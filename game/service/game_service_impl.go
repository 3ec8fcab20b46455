package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/mcp-training/gridgolf/game/engine"
)

var ErrCourseNotFound = errors.New("course not found")

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	courses  CourseManager
	opts     options
	mu       sync.Mutex
}

type options struct {
	rules     engine.RuleSet
	minRoll   int
	maxRoll   int
	newRoller func() engine.Roller
}

// Option configures the games the service creates
type Option func(*options)

// WithDefaultRules sets the rule set used when a session does not ask for one
func WithDefaultRules(rules engine.RuleSet) Option {
	return func(o *options) { o.rules = rules }
}

// WithStrengthRange sets the range every session rolls strength from
func WithStrengthRange(min, max int) Option {
	return func(o *options) { o.minRoll, o.maxRoll = min, max }
}

// WithRollerFactory gives every new session its own roller from newRoller
func WithRollerFactory(newRoller func() engine.Roller) Option {
	return func(o *options) { o.newRoller = newRoller }
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, courses CourseManager, opts ...Option) GameService {
	o := options{
		rules:   engine.SimpleRules,
		minRoll: engine.MinRoll,
		maxRoll: engine.MaxRoll,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &gameServiceImpl{
		sessions: sessions,
		courses:  courses,
		opts:     o,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, courseName string, rules engine.RuleSet) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var course *engine.Course
	if courseName != "" {
		var err error
		course, err = s.courses.LoadCourse(courseName)
		if err != nil {
			if errors.Is(err, ErrCourseNotFound) {
				available, listErr := s.courses.ListCourses()
				if listErr == nil && len(available) > 0 {
					var ids []string
					for _, c := range available {
						ids = append(ids, c.CourseID)
					}
					return nil, fmt.Errorf("course '%s' not found, available courses: %v: %w", courseName, ids, err)
				}
			}
			return nil, fmt.Errorf("failed to load course %s: %w", courseName, err)
		}
	} else {
		course = s.courses.GetDefault()
		if course == nil {
			return nil, fmt.Errorf("no default course: %w", ErrCourseNotFound)
		}
	}

	if rules == "" {
		rules = s.opts.rules
	}

	gameOpts := []engine.Option{
		engine.WithRules(rules),
		engine.WithCourseName(course.Name),
		engine.WithStrengthRange(s.opts.minRoll, s.opts.maxRoll),
	}
	if s.opts.newRoller != nil {
		gameOpts = append(gameOpts, engine.WithRoller(s.opts.newRoller()))
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", course, gameOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Info().Str("session", sess.ID).Str("course", course.Name).Str("rules", string(rules)).Msg("session created")

	return s.sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Roll begins the turn of a session and previews every drive
func (s *gameServiceImpl) Roll(ctx context.Context, sessionID string) (*RollInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	game := sess.Game
	roll, err := game.BeginTurn()
	if err != nil {
		return nil, err
	}

	info := &RollInfo{
		Roll:     roll,
		Strength: game.Strength(engine.Drive),
		Clubs:    map[engine.Club]int{engine.Drive: game.Strength(engine.Drive)},
	}
	if game.Rules() == engine.ExtendedRules {
		info.Clubs[engine.Putt] = game.Strength(engine.Putt)
	}

	state := game.GetState()
	info.Modifier = state.Modifier
	info.GameState = state

	previews := game.Preview(engine.Drive)
	for _, d := range engine.Directions {
		res := previews[d]
		preview := ShotPreview{
			Direction: d,
			Landing:   res.Final,
			OffCourse: res.OffCourse,
			Outcome:   engine.Redo,
		}
		if !res.OffCourse {
			t := state.TerrainAt(res.Final)
			preview.Terrain = t.Kind
			switch {
			case t.Kind == engine.Hole:
				preview.Outcome = engine.Holed
			case !t.IsHazard():
				preview.Outcome = engine.Advanced
			}
		}
		info.Previews = append(info.Previews, preview)
	}

	return info, nil
}

// Shoot plays one shot for a session
func (s *gameServiceImpl) Shoot(ctx context.Context, sessionID string, decision engine.Decision) (*ShotResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	turn, err := sess.Game.Play(decision)
	if err != nil {
		return nil, err
	}

	state := sess.Game.GetState()
	result := &ShotResult{
		Outcome:   turn.Outcome,
		Reason:    turn.Reason,
		Strokes:   turn.Strokes,
		Message:   turn.Message,
		Shot:      turn.Record,
		GameState: state,
		Events:    shotEvents(turn),
	}

	log.Info().
		Str("session", sessionID).
		Str("direction", string(decision.Direction)).
		Str("club", string(turn.Record.Club)).
		Int("roll", turn.Record.Roll).
		Int("strength", turn.Record.Strength).
		Str("from", turn.Record.From.String()).
		Str("landing", turn.Record.Landing.String()).
		Str("outcome", string(turn.Outcome)).
		Int("strokes", turn.Strokes).
		Msg("shot")

	return result, nil
}

// Reset resets a game session to initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Game.Reset(), nil
}

// Quit abandons the game of a session. The session stays until deleted.
func (s *gameServiceImpl) Quit(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	sess.Game.Abort()
	return sess.Game.GetState(), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Game.GetState(), nil
}

// GetShotHistory returns paginated shot history
func (s *gameServiceImpl) GetShotHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	return paginate(sess.Game.History(), opts), nil
}

// ListCourses returns the available courses
func (s *gameServiceImpl) ListCourses(ctx context.Context) ([]*CourseInfo, error) {
	return s.courses.ListCourses()
}

// GetCourse describes one course including its layout
func (s *gameServiceImpl) GetCourse(ctx context.Context, courseName string) (*CourseInfo, error) {
	course, err := s.courses.LoadCourse(courseName)
	if err != nil {
		return nil, err
	}
	return NewCourseInfo(course, true), nil
}

// SaveCourse parses layout and stores it as a course file
func (s *gameServiceImpl) SaveCourse(ctx context.Context, courseName, layout string) (*CourseInfo, error) {
	grid, _, err := engine.ParseCourseString(layout)
	if err != nil {
		return nil, err
	}
	course := &engine.Course{Name: courseName, Grid: grid}
	if err := s.courses.SaveCourse(courseName, course); err != nil {
		return nil, err
	}
	return NewCourseInfo(course, true), nil
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	info := &SessionInfo{
		ID:             sess.ID,
		CourseName:     sess.Course.Name,
		Rules:          sess.Game.Rules(),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Game.GetState(),
	}
	if par, ok := engine.MinStrokes(sess.Course.Grid, sess.Game.Rules()); ok {
		info.Par = par
	}
	return info
}

// paginate slices history into one page, most recent first unless order is asc
func paginate(history []engine.ShotRecord, opts HistoryOptions) *HistoryResponse {
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultHistoryLimit
	}
	if opts.Limit > maxHistoryLimit {
		opts.Limit = maxHistoryLimit
	}
	opts.Order = strings.ToLower(opts.Order)
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	shots := []engine.ShotRecord{}
	if start < total {
		if opts.Order == "desc" {
			for i := total - 1 - start; i >= total-end; i-- {
				shots = append(shots, history[i])
			}
		} else {
			shots = append(shots, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Shots:       shots,
		TotalShots:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}
}

// shotEvents turns a played turn into the events pushed to listeners
func shotEvents(turn *engine.TurnResult) []GameEvent {
	now := time.Now()
	rec := turn.Record

	switch turn.Outcome {
	case engine.Holed:
		return []GameEvent{{
			Type:      "holed",
			Message:   turn.Message,
			Timestamp: now,
			Position:  rec.Landing,
		}}
	case engine.Redo:
		return []GameEvent{{
			Type:      "redo",
			Message:   turn.Message,
			Timestamp: now,
			Position:  rec.Landing,
		}}
	}

	events := []GameEvent{{
		Type:      "shot",
		Message:   fmt.Sprintf("Shot %s with strength %d to %s", rec.Direction, rec.Strength, rec.Landing),
		Timestamp: now,
		Position:  rec.Landing,
	}}
	if len(rec.Path) > 1 {
		events = append(events, GameEvent{
			Type:      "slope",
			Message:   fmt.Sprintf("Rolled down %d slope(s) from %s", len(rec.Path)-1, rec.RawLanding),
			Timestamp: now,
			Position:  rec.Landing,
		})
	}
	return events
}
