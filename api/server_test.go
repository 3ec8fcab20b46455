package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/gridgolf/game/config"
	"github.com/wricardo/mcp-training/gridgolf/game/engine"
	"github.com/wricardo/mcp-training/gridgolf/game/service"
	"github.com/wricardo/mcp-training/gridgolf/game/session"
	"github.com/wricardo/mcp-training/gridgolf/transport/websocket"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	// Session Management
	CreateSessionFunc func(ctx context.Context, courseName string, rules engine.RuleSet) (*service.SessionInfo, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc  func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc func(ctx context.Context, sessionID string) error

	// Game Operations
	RollFunc  func(ctx context.Context, sessionID string) (*service.RollInfo, error)
	ShootFunc func(ctx context.Context, sessionID string, decision engine.Decision) (*service.ShotResult, error)
	ResetFunc func(ctx context.Context, sessionID string) (*engine.GameState, error)
	QuitFunc  func(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameStateFunc   func(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetShotHistoryFunc func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error)

	// Courses
	ListCoursesFunc func(ctx context.Context) ([]*service.CourseInfo, error)
	GetCourseFunc   func(ctx context.Context, courseName string) (*service.CourseInfo, error)
	SaveCourseFunc  func(ctx context.Context, courseName, layout string) (*service.CourseInfo, error)
}

// Session Management
func (m *MockGameService) CreateSession(ctx context.Context, courseName string, rules engine.RuleSet) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, courseName, rules)
	}
	return &service.SessionInfo{
		ID:         "test-session",
		CourseName: courseName,
		Rules:      rules,
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockGameService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{
		ID:         sessionID,
		CourseName: "classic",
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockGameService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *MockGameService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

// Game Operations
func (m *MockGameService) Roll(ctx context.Context, sessionID string) (*service.RollInfo, error) {
	if m.RollFunc != nil {
		return m.RollFunc(ctx, sessionID)
	}
	return &service.RollInfo{Roll: 3, Strength: 3, GameState: &engine.GameState{}}, nil
}

func (m *MockGameService) Shoot(ctx context.Context, sessionID string, decision engine.Decision) (*service.ShotResult, error) {
	if m.ShootFunc != nil {
		return m.ShootFunc(ctx, sessionID, decision)
	}
	return &service.ShotResult{
		Outcome:   engine.Advanced,
		Strokes:   1,
		GameState: &engine.GameState{},
	}, nil
}

func (m *MockGameService) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, sessionID)
	}
	return &engine.GameState{}, nil
}

func (m *MockGameService) Quit(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.QuitFunc != nil {
		return m.QuitFunc(ctx, sessionID)
	}
	return &engine.GameState{Phase: engine.Aborted, GameOver: true}, nil
}

// Game State
func (m *MockGameService) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.GetGameStateFunc != nil {
		return m.GetGameStateFunc(ctx, sessionID)
	}
	return &engine.GameState{}, nil
}

func (m *MockGameService) GetShotHistory(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
	if m.GetShotHistoryFunc != nil {
		return m.GetShotHistoryFunc(ctx, sessionID, opts)
	}
	return &service.HistoryResponse{
		Shots:      []engine.ShotRecord{},
		Page:       opts.Page,
		PageSize:   opts.Limit,
		TotalPages: 1,
	}, nil
}

// Courses
func (m *MockGameService) ListCourses(ctx context.Context) ([]*service.CourseInfo, error) {
	if m.ListCoursesFunc != nil {
		return m.ListCoursesFunc(ctx)
	}
	return []*service.CourseInfo{}, nil
}

func (m *MockGameService) GetCourse(ctx context.Context, courseName string) (*service.CourseInfo, error) {
	if m.GetCourseFunc != nil {
		return m.GetCourseFunc(ctx, courseName)
	}
	return &service.CourseInfo{CourseID: courseName, Filename: courseName + engine.CourseExt}, nil
}

func (m *MockGameService) SaveCourse(ctx context.Context, courseName, layout string) (*service.CourseInfo, error) {
	if m.SaveCourseFunc != nil {
		return m.SaveCourseFunc(ctx, courseName, layout)
	}
	return &service.CourseInfo{CourseID: courseName, Layout: layout}, nil
}

// Test helpers
func setupTestServer(t *testing.T, mockService *MockGameService) *Server {
	hub := websocket.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return NewServer(mockService, hub)
}

func makeRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
}

func serve(t *testing.T, mockService *MockGameService, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	server := setupTestServer(t, mockService)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

// Session Management Tests

func TestCreateSession(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:        "Create session with default course",
			requestBody: nil,
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, courseName string, rules engine.RuleSet) (*service.SessionInfo, error) {
					if courseName != "" || rules != "" {
						t.Errorf("Expected empty course and rules, got %q %q", courseName, rules)
					}
					return &service.SessionInfo{
						ID:             "ab12",
						CourseName:     "classic",
						Rules:          engine.SimpleRules,
						CreatedAt:      time.Now(),
						LastAccessedAt: time.Now(),
					}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ID != "ab12" {
					t.Errorf("Expected session ID ab12, got %s", resp.ID)
				}
			},
		},
		{
			name:        "Create session with course and rules",
			requestBody: map[string]string{"course_id": "river", "rules": "Extended"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, courseName string, rules engine.RuleSet) (*service.SessionInfo, error) {
					if courseName != "river" {
						t.Errorf("Expected course 'river', got %s", courseName)
					}
					if rules != engine.ExtendedRules {
						t.Errorf("Expected extended rules, got %s", rules)
					}
					return &service.SessionInfo{ID: "cd34", CourseName: courseName, Rules: rules}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.CourseName != "river" || resp.Rules != engine.ExtendedRules {
					t.Errorf("Unexpected session %+v", resp)
				}
			},
		},
		{
			name:           "Reject unknown rules",
			requestBody:    map[string]string{"rules": "pro"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "Unknown course",
			requestBody: map[string]string{"course_id": "nowhere"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, courseName string, rules engine.RuleSet) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("course 'nowhere' not found: %w", service.ErrCourseNotFound)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:        "Handle service error",
			requestBody: nil,
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, courseName string, rules engine.RuleSet) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("service error")
				}
			},
			expectedStatus: http.StatusInternalServerError,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] != "service error" {
					t.Errorf("Expected error message 'service error', got %s", resp["error"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			w := serve(t, mockService, makeRequest("POST", "/api/sessions", tt.requestBody))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestListSessions(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	sessions := func(ctx context.Context) ([]*service.SessionInfo, error) {
		return []*service.SessionInfo{
			{ID: "a", CourseName: "classic", CreatedAt: base, LastAccessedAt: base.Add(3 * time.Hour)},
			{ID: "b", CourseName: "river", CreatedAt: base.Add(time.Hour), LastAccessedAt: base.Add(time.Hour)},
			{ID: "c", CourseName: "classic", CreatedAt: base.Add(2 * time.Hour), LastAccessedAt: base.Add(2 * time.Hour)},
		}, nil
	}

	tests := []struct {
		name      string
		query     string
		wantIDs   []string
		wantTotal int
	}{
		{"default sorts by last access, newest first", "", []string{"a", "c", "b"}, 3},
		{"created ascending", "?sort=created&order=asc", []string{"a", "b", "c"}, 3},
		{"limit", "?sort=created&limit=2", []string{"c", "b"}, 3},
		{"filter by course", "?course=classic&sort=created&order=asc", []string{"a", "c"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{ListSessionsFunc: sessions}
			w := serve(t, mockService, makeRequest("GET", "/api/sessions"+tt.query, nil))

			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}

			var resp struct {
				Count    int                    `json:"count"`
				Total    int                    `json:"total"`
				Sessions []*service.SessionInfo `json:"sessions"`
			}
			parseResponse(t, w, &resp)

			if resp.Total != tt.wantTotal || resp.Count != len(tt.wantIDs) {
				t.Errorf("Expected count %d total %d, got %d %d", len(tt.wantIDs), tt.wantTotal, resp.Count, resp.Total)
			}
			for i, id := range tt.wantIDs {
				if i >= len(resp.Sessions) || resp.Sessions[i].ID != id {
					t.Errorf("Expected session %d to be %s, got %+v", i, id, resp.Sessions)
					break
				}
			}
		})
	}
}

func TestGetSession(t *testing.T) {
	tests := []struct {
		name           string
		sessionID      string
		setupMock      func(*MockGameService)
		expectedStatus int
	}{
		{
			name:           "Existing session",
			sessionID:      "ab12",
			expectedStatus: http.StatusOK,
		},
		{
			name:      "Missing session",
			sessionID: "zz99",
			setupMock: func(m *MockGameService) {
				m.GetSessionFunc = func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("session not found: %w", session.ErrSessionNotFound)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			w := serve(t, mockService, makeRequest("GET", "/api/sessions/"+tt.sessionID, nil))
			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestDeleteSession(t *testing.T) {
	var deleted string
	mockService := &MockGameService{
		DeleteSessionFunc: func(ctx context.Context, sessionID string) error {
			if sessionID == "gone" {
				return session.ErrSessionNotFound
			}
			deleted = sessionID
			return nil
		},
	}

	w := serve(t, mockService, makeRequest("DELETE", "/api/sessions/ab12", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if deleted != "ab12" {
		t.Errorf("Expected ab12 to be deleted, got %q", deleted)
	}

	w = serve(t, mockService, makeRequest("DELETE", "/api/sessions/gone", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

// Game Operation Tests

func TestRoll(t *testing.T) {
	mockService := &MockGameService{
		RollFunc: func(ctx context.Context, sessionID string) (*service.RollInfo, error) {
			return &service.RollInfo{
				Roll:     4,
				Modifier: 1,
				Strength: 5,
				Clubs:    map[engine.Club]int{engine.Drive: 5},
				Previews: []service.ShotPreview{
					{Direction: engine.East, Landing: engine.Coordinate{Row: 0, Col: 5}, Outcome: engine.Advanced},
				},
				GameState: &engine.GameState{PendingRoll: 4},
			}, nil
		},
	}

	w := serve(t, mockService, makeRequest("POST", "/api/sessions/ab12/roll", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp service.RollInfo
	parseResponse(t, w, &resp)
	if resp.Roll != 4 || resp.Strength != 5 || len(resp.Previews) != 1 {
		t.Errorf("Unexpected roll info %+v", resp)
	}

	mockService.RollFunc = func(ctx context.Context, sessionID string) (*service.RollInfo, error) {
		return nil, engine.ErrGameOver
	}
	w = serve(t, mockService, makeRequest("POST", "/api/sessions/ab12/roll", nil))
	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409 on a finished game, got %d", w.Code)
	}
}

func TestShot(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		setupMock      func(*MockGameService)
		expectedStatus int
		wantDecision   *engine.Decision
	}{
		{
			name:           "Drive by default",
			body:           map[string]string{"direction": "ne"},
			expectedStatus: http.StatusOK,
			wantDecision:   &engine.Decision{Direction: engine.NorthEast, Club: engine.Drive},
		},
		{
			name:           "Putt",
			body:           map[string]string{"direction": "S", "club": "p"},
			expectedStatus: http.StatusOK,
			wantDecision:   &engine.Decision{Direction: engine.South, Club: engine.Putt},
		},
		{
			name:           "Unknown direction",
			body:           map[string]string{"direction": "up"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Unknown club",
			body:           map[string]string{"direction": "N", "club": "wedge"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid body",
			body:           "not an object",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Game over",
			body: map[string]string{"direction": "N"},
			setupMock: func(m *MockGameService) {
				m.ShootFunc = func(ctx context.Context, sessionID string, decision engine.Decision) (*service.ShotResult, error) {
					return nil, engine.ErrGameOver
				}
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "Session missing",
			body: map[string]string{"direction": "N"},
			setupMock: func(m *MockGameService) {
				m.ShootFunc = func(ctx context.Context, sessionID string, decision engine.Decision) (*service.ShotResult, error) {
					return nil, fmt.Errorf("session not found: %w", session.ErrSessionNotFound)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *engine.Decision
			mockService := &MockGameService{
				ShootFunc: func(ctx context.Context, sessionID string, decision engine.Decision) (*service.ShotResult, error) {
					got = &decision
					return &service.ShotResult{
						Outcome:   engine.Holed,
						Strokes:   1,
						Message:   "Hit hole in 1 shots",
						GameState: &engine.GameState{Holed: true, GameOver: true},
						Events:    []service.GameEvent{{Type: "holed", Message: "Hit hole in 1 shots"}},
					}, nil
				},
			}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			w := serve(t, mockService, makeRequest("POST", "/api/sessions/ab12/shot", tt.body))
			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}

			if tt.wantDecision != nil {
				if got == nil || *got != *tt.wantDecision {
					t.Errorf("Expected decision %+v, got %+v", tt.wantDecision, got)
				}
				var resp service.ShotResult
				parseResponse(t, w, &resp)
				if resp.Outcome != engine.Holed || resp.Message != "Hit hole in 1 shots" {
					t.Errorf("Unexpected shot result %+v", resp)
				}
			}
		})
	}
}

func TestReset(t *testing.T) {
	mockService := &MockGameService{
		ResetFunc: func(ctx context.Context, sessionID string) (*engine.GameState, error) {
			if sessionID == "gone" {
				return nil, session.ErrSessionNotFound
			}
			return &engine.GameState{Ball: engine.Coordinate{Row: 2, Col: 0}, Phase: engine.AwaitingShot}, nil
		},
	}

	w := serve(t, mockService, makeRequest("POST", "/api/sessions/ab12/reset", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var resp struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	parseResponse(t, w, &resp)
	if resp.State == nil || resp.State.Ball != (engine.Coordinate{Row: 2, Col: 0}) {
		t.Errorf("Unexpected reset state %+v", resp.State)
	}

	w = serve(t, mockService, makeRequest("POST", "/api/sessions/gone/reset", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestQuit(t *testing.T) {
	w := serve(t, &MockGameService{}, makeRequest("POST", "/api/sessions/ab12/quit", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var resp struct {
		State *engine.GameState `json:"state"`
	}
	parseResponse(t, w, &resp)
	if resp.State == nil || resp.State.Phase != engine.Aborted || !resp.State.GameOver {
		t.Errorf("Expected an aborted game, got %+v", resp.State)
	}
}

func TestGetHistory(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantOpts service.HistoryOptions
	}{
		{"defaults", "", service.HistoryOptions{Page: 1, Limit: 20, Order: "desc"}},
		{"explicit", "?page=2&limit=5&order=asc", service.HistoryOptions{Page: 2, Limit: 5, Order: "asc"}},
		{"garbage ignored", "?page=-1&limit=x&order=sideways", service.HistoryOptions{Page: 1, Limit: 20, Order: "desc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got service.HistoryOptions
			mockService := &MockGameService{
				GetShotHistoryFunc: func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
					got = opts
					return &service.HistoryResponse{
						Shots:      []engine.ShotRecord{{Attempt: 1, Stroke: 1, Direction: engine.East, Outcome: engine.Advanced}},
						TotalShots: 1,
						Page:       opts.Page,
						PageSize:   opts.Limit,
						TotalPages: 1,
					}, nil
				},
			}

			w := serve(t, mockService, makeRequest("GET", "/api/sessions/ab12/history"+tt.query, nil))
			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}
			if got != tt.wantOpts {
				t.Errorf("Expected options %+v, got %+v", tt.wantOpts, got)
			}

			var resp service.HistoryResponse
			parseResponse(t, w, &resp)
			if resp.TotalShots != 1 || len(resp.Shots) != 1 {
				t.Errorf("Unexpected history %+v", resp)
			}
		})
	}
}

func TestGetGameState(t *testing.T) {
	mockService := &MockGameService{
		GetGameStateFunc: func(ctx context.Context, sessionID string) (*engine.GameState, error) {
			return &engine.GameState{CourseName: "classic", Strokes: 3, Map: []string{"@ B O"}}, nil
		},
	}

	w := serve(t, mockService, makeRequest("GET", "/api/sessions/ab12/state", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var state engine.GameState
	parseResponse(t, w, &state)
	if state.CourseName != "classic" || state.Strokes != 3 || len(state.Map) != 1 {
		t.Errorf("Unexpected state %+v", state)
	}
}

// Course Tests

func TestListCourses(t *testing.T) {
	mockService := &MockGameService{
		ListCoursesFunc: func(ctx context.Context) ([]*service.CourseInfo, error) {
			return []*service.CourseInfo{
				{CourseID: "classic", Filename: "classic.course", Par: 3, Reachable: true},
				{CourseID: "river", Filename: "river.course", Par: 4, Reachable: true},
			}, nil
		},
	}

	w := serve(t, mockService, makeRequest("GET", "/api/courses", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var courses []*service.CourseInfo
	parseResponse(t, w, &courses)
	if len(courses) != 2 || courses[1].Par != 4 {
		t.Errorf("Unexpected courses %+v", courses)
	}
}

func TestGetCourse(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		wantName       string
		expectedStatus int
	}{
		{"by id", "/api/courses/classic", "classic", http.StatusOK},
		{"with extension", "/api/courses/classic.course", "classic", http.StatusOK},
		{"missing", "/api/courses/nowhere", "nowhere", http.StatusNotFound},
		{"bad name", "/api/courses/.hidden", ".hidden", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			mockService := &MockGameService{
				GetCourseFunc: func(ctx context.Context, courseName string) (*service.CourseInfo, error) {
					got = courseName
					switch courseName {
					case "nowhere":
						return nil, fmt.Errorf("%w: %s", config.ErrCourseNotFound, courseName)
					case ".hidden":
						return nil, fmt.Errorf("%w: %s", config.ErrInvalidName, courseName)
					}
					return &service.CourseInfo{CourseID: courseName, Layout: "x . o\n"}, nil
				},
			}

			w := serve(t, mockService, makeRequest("GET", tt.path, nil))
			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if got != tt.wantName {
				t.Errorf("Expected lookup of %q, got %q", tt.wantName, got)
			}
		})
	}
}

func TestSaveCourse(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		serviceErr     error
		expectedStatus int
	}{
		{"valid", map[string]string{"name": "river", "layout": "x w o"}, nil, http.StatusCreated},
		{"missing name", map[string]string{"layout": "x o"}, nil, http.StatusBadRequest},
		{"no tee", map[string]string{"name": "bad", "layout": ". o"}, engine.ErrNoTee, http.StatusBadRequest},
		{"ragged", map[string]string{"name": "bad", "layout": "x o\n."}, engine.ErrRaggedRows, http.StatusBadRequest},
		{"invalid name", map[string]string{"name": "a/b", "layout": "x o"}, config.ErrInvalidName, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{
				SaveCourseFunc: func(ctx context.Context, courseName, layout string) (*service.CourseInfo, error) {
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &service.CourseInfo{CourseID: courseName, Layout: layout, Par: 1}, nil
				},
			}

			w := serve(t, mockService, makeRequest("POST", "/api/courses", tt.body))
			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestHealth(t *testing.T) {
	w := serve(t, &MockGameService{}, makeRequest("GET", "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var resp map[string]string
	parseResponse(t, w, &resp)
	if resp["status"] != "healthy" {
		t.Errorf("Unexpected health response %v", resp)
	}
}

func TestWebSocket(t *testing.T) {
	tests := []struct {
		name           string
		queryParams    string
		setupMock      func(*MockGameService)
		expectedStatus int
	}{
		{
			name:           "Missing session parameter",
			queryParams:    "",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "Invalid session",
			queryParams: "?session=invalid",
			setupMock: func(m *MockGameService) {
				m.GetSessionFunc = func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
					return nil, session.ErrSessionNotFound
				}
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Valid session",
			queryParams:    "?session=ab12",
			expectedStatus: http.StatusSwitchingProtocols,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(t, mockService)
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/ws"+tt.queryParams, nil)

			if tt.expectedStatus == http.StatusSwitchingProtocols {
				req.Header.Set("Upgrade", "websocket")
				req.Header.Set("Connection", "Upgrade")
				req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")
				req.Header.Set("Sec-WebSocket-Version", "13")
			}

			server.handleWebSocket(w, req)

			// httptest.ResponseRecorder is not a Hijacker, so a real upgrade
			// ends in 500 after the session checks pass
			if tt.expectedStatus == http.StatusSwitchingProtocols && w.Code == http.StatusInternalServerError {
				return
			}

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{session.ErrSessionNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", service.ErrCourseNotFound), http.StatusNotFound},
		{engine.ErrGameOver, http.StatusConflict},
		{session.ErrSessionAlreadyExists, http.StatusConflict},
		{fmt.Errorf("%w: direction %q", engine.ErrUnrecognizedInput, "x"), http.StatusBadRequest},
		{config.ErrInvalidCourse, http.StatusBadRequest},
		{engine.ErrMultipleTees, http.StatusBadRequest},
		{fmt.Errorf("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
