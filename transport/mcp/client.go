package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/wricardo/mcp-training/gridgolf/game/engine"
	"github.com/wricardo/mcp-training/gridgolf/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Grid Golf",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Grid Golf - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Sink the ball (B) into a hole (O) in as few strokes as possible.

TURN FLOW:
1. roll - see the strength of the coming shot and where each direction lands
2. shoot - pick a direction (and a club under extended rules)

AVAILABLE TOOLS:
- create_session, list_sessions, get_session: manage games
- game_state: current map and score
- roll: strength for the coming shot with a landing preview per direction
- shoot: play a shot - requires intent explanation
- reset_game, quit_game: restart or abandon the hole
- shot_history: every attempt including redos
- list_courses: available courses with par
- game_instructions: full rules
- describe_cell: what a single cell is and what landing there does

NOTE: The 'intent' parameter on shoot serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionArg() mcp.ToolOption {
	return mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID"))
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.NewTool("create_session",
		mcp.WithDescription("Create a new game session with optional course and rule selection"),
		mcp.WithString("course_id", mcp.Description("Course to play (optional, see list_courses)")),
		mcp.WithString("rules", mcp.Enum(string(engine.SimpleRules), string(engine.ExtendedRules)),
			mcp.Description("simple: direction only; extended: direction and club")),
	), c.handleCreateSession)

	c.mcpServer.AddTool(mcp.NewTool("list_sessions",
		mcp.WithDescription("List all active game sessions"),
	), c.handleListSessions)

	c.mcpServer.AddTool(mcp.NewTool("get_session",
		mcp.WithDescription("Get details of a specific session"),
		sessionArg(),
	), c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.NewTool("game_state",
		mcp.WithDescription("Get the current game state and map"),
		sessionArg(),
	), c.handleGameState)

	c.mcpServer.AddTool(mcp.NewTool("roll",
		mcp.WithDescription("Roll the strength for the coming shot and preview where a drive in each direction would end up. Rolling twice before shooting returns the same roll."),
		sessionArg(),
	), c.handleRoll)

	c.mcpServer.AddTool(mcp.NewTool("shoot",
		mcp.WithDescription("Hit the ball in one of eight compass directions"),
		sessionArg(),
		mcp.WithString("direction", mcp.Required(),
			mcp.Enum("N", "NE", "E", "SE", "S", "SW", "W", "NW"),
			mcp.Description("Direction to hit the ball")),
		mcp.WithString("club", mcp.Enum(string(engine.Drive), string(engine.Putt)),
			mcp.Description("Club under extended rules; a putt always travels one cell")),
		mcp.WithString("intent",
			mcp.Description("Brief explanation of the intent behind this shot (serves as a rubber duck to help explain your reasoning)")),
	), c.handleShoot)

	c.mcpServer.AddTool(mcp.NewTool("reset_game",
		mcp.WithDescription("Put the ball back on the tee and clear the score"),
		sessionArg(),
	), c.handleReset)

	c.mcpServer.AddTool(mcp.NewTool("quit_game",
		mcp.WithDescription("Abandon the current hole"),
		sessionArg(),
	), c.handleQuit)

	c.mcpServer.AddTool(mcp.NewTool("shot_history",
		mcp.WithDescription("Get the shot history for a session, redos included"),
		sessionArg(),
		mcp.WithNumber("page", mcp.Description("Page number")),
		mcp.WithNumber("limit", mcp.Description("Items per page")),
		mcp.WithString("order", mcp.Enum("asc", "desc"), mcp.Description("Oldest or newest first")),
	), c.handleShotHistory)

	c.mcpServer.AddTool(mcp.NewTool("list_courses",
		mcp.WithDescription("List available courses with their size and par"),
	), c.handleListCourses)

	c.mcpServer.AddTool(mcp.NewTool("game_instructions",
		mcp.WithDescription("Get comprehensive game instructions and rules"),
	), c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.NewTool("describe_cell",
		mcp.WithDescription("Get detailed information about a specific cell of the course and what happens when a shot ends there"),
		sessionArg(),
		mcp.WithNumber("row", mcp.Required(), mcp.Description("Row of the cell (0-based, 0 is the top)")),
		mcp.WithNumber("col", mcp.Required(), mcp.Description("Column of the cell (0-based, 0 is the left)")),
	), c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("api call failed")
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

func requireSession(request mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	sessionID := request.GetString("session_id", "")
	if sessionID == "" {
		return "", mcp.NewToolResultError("session_id is required")
	}
	return sessionID, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := map[string]string{}
	if courseID := request.GetString("course_id", ""); courseID != "" {
		body["course_id"] = courseID
	}
	if rules := request.GetString("rules", ""); rules != "" {
		body["rules"] = rules
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nCourse: %s (par %d)\nRules: %s\n\n%s",
		session.ID, session.CourseName, session.Par, session.Rules, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := "playing"
		if s.GameState != nil {
			status = fmt.Sprintf("%s, %d strokes", s.GameState.Phase, s.GameState.Strokes)
		}
		fmt.Fprintf(&b, "- %s (Course: %s, Rules: %s, %s, Created: %s)\n",
			s.ID, s.CourseName, s.Rules, status, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(request)
	if errResult != nil {
		return errResult, nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(request)
	if errResult != nil {
		return errResult, nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleRoll(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(request)
	if errResult != nil {
		return errResult, nil
	}

	var info service.RollInfo
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/roll"), nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRollInfo(&info)), nil
}

func (c *Client) handleShoot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(request)
	if errResult != nil {
		return errResult, nil
	}
	direction := request.GetString("direction", "")
	if direction == "" {
		return mcp.NewToolResultError("direction is required"), nil
	}

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = request.GetString("intent", "")

	body := map[string]string{"direction": direction}
	if club := request.GetString("club", ""); club != "" {
		body["club"] = club
	}

	var result service.ShotResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/shot"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatShotResult(&result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.stateAction(ctx, request, "/reset")
}

func (c *Client) handleQuit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.stateAction(ctx, request, "/quit")
}

func (c *Client) stateAction(ctx context.Context, request mcp.CallToolRequest, suffix string) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(request)
	if errResult != nil {
		return errResult, nil
	}

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, suffix), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleShotHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(request)
	if errResult != nil {
		return errResult, nil
	}

	params := url.Values{}
	if page := request.GetInt("page", 0); page > 0 {
		params.Set("page", fmt.Sprint(page))
	}
	if limit := request.GetInt("limit", 0); limit > 0 {
		params.Set("limit", fmt.Sprint(limit))
	}
	if order := request.GetString("order", ""); order != "" {
		params.Set("order", order)
	}
	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListCourses(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var courses []service.CourseInfo
	if err := c.apiCall(ctx, "GET", "/api/courses", nil, &courses); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Courses:\n\n")
	for _, course := range courses {
		par := fmt.Sprintf("par %d", course.Par)
		if !course.Reachable {
			par = "no hole reachable"
		}
		fmt.Fprintf(&b, "• %s\n  Grid: %dx%d, %s\n", course.CourseID, course.Width, course.Height, par)
		if course.SlopeCycles > 0 {
			fmt.Fprintf(&b, "  %d slope cells loop forever\n", course.SlopeCycles)
		}
		b.WriteString("\n")
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `⛳ Grid Golf - Complete Instructions

GAME OBJECTIVE:
Move the ball from the tee to any hole (O) in as few strokes as possible.

TURN SEQUENCE:
1. Call roll. The strength of the shot is a random roll from 1 to 6.
2. Call shoot with one of eight directions: N, NE, E, SE, S, SW, W, NW.
3. The ball flies exactly <strength> cells in a straight line; it is not stopped by anything it passes over.
4. The landing cell decides what happens next.

STRENGTH:
• Fairway under the ball: roll + 1
• Sand under the ball: roll - 1 (never below 1)
• Anything else: the roll itself
• Extended rules only: a putt always travels exactly 1 cell

GRID LEGEND:
• B - the ball
• O - hole (shot ends here: you win)
• @ - fairway, grass or sand (the ball stops here)
• Y - tree (REDO: the shot is discarded)
• w - water (REDO: the shot is discarded)
• > < ^ v - slopes: the ball rolls one more cell that way, and keeps rolling over further slopes
• 0-9, a-z - where the ball rested after that stroke (0 is the tee)

REDOS:
Landing in water, in a tree or outside the course puts the ball back where it was.
A redo uses up the roll and does not count as a stroke. Call roll again.

SLOPES:
A slope chain that loops back on itself stops the ball on the slope where the loop closes.
A chain that rolls off the course is a redo.

STRATEGY:
• Call roll first: it previews the landing cell and outcome of every direction.
• Prefer landing on fairway: the next shot gets +1 strength.
• Avoid ending on sand when you need distance.
• Use describe_cell when a map character is unclear.
• Diagonal shots move the same number of cells along both axes.

COORDINATES:
Positions are (row, col), both 0-based, row 0 at the top. N decreases the row, E increases the column.

Good luck on the course! ⛳`

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(request)
	if errResult != nil {
		return errResult, nil
	}
	pos := engine.Coordinate{
		Row: request.GetInt("row", -1),
		Col: request.GetInt("col", -1),
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	terrain := state.TerrainAt(pos)
	if terrain.Kind == "" {
		return mcp.NewToolResultError(fmt.Sprintf("Cell %s is outside the course. The course has %d rows and %d columns (rows 0-%d, columns 0-%d)",
			pos, state.Height, state.Width, state.Height-1, state.Width-1)), nil
	}

	glyph := string(engine.Glyph(terrain))
	var notes []string
	if pos == state.Ball {
		notes = append(notes, "The ball is here (drawn as B).")
	}
	if state.LastLanding != nil && pos == *state.LastLanding {
		notes = append(notes, "The last shot landed here.")
	}

	result := fmt.Sprintf(`Cell %s:
━━━━━━━━━━━━━━━━━━━━━━━━
Character: %s
Terrain: %s
Landing here: %s
%s`,
		pos, glyph, terrain, describeLanding(terrain), strings.Join(notes, "\n"))

	return mcp.NewToolResultText(strings.TrimRight(result, "\n")), nil
}

func describeLanding(t engine.Terrain) string {
	switch t.Kind {
	case engine.Hole:
		return "holed - the game is won"
	case engine.Water:
		return "REDO - the ball goes back and the stroke does not count"
	case engine.Tree:
		return "REDO - the ball goes back and the stroke does not count"
	case engine.Slope:
		return fmt.Sprintf("the ball rolls one cell %s and keeps rolling over further slopes", t.Slope)
	case engine.Fairway:
		return "the ball stops; the next shot gets +1 strength"
	case engine.Sand:
		return "the ball stops; the next shot gets -1 strength"
	case engine.Start:
		return fmt.Sprintf("the ball stops (the ball rested here after stroke %d)", t.Stroke)
	}
	return "the ball stops"
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nCourse: %s (par %d)\nRules: %s\nCreated: %s\n\n%s",
		session.ID, session.CourseName, session.Par, session.Rules,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	fmt.Fprintf(&result, "Course: %s | Ball: %s on %s | Strokes: %d | Phase: %s\n",
		state.CourseName, state.Ball, state.BallTerrain, state.Strokes, state.Phase)
	if state.PendingRoll > 0 {
		fmt.Fprintf(&result, "Pending roll: %d (modifier %+d, drive strength %d)\n",
			state.PendingRoll, state.Modifier, state.PendingStrength)
	}
	result.WriteString("\n")

	rows := state.Map
	if len(rows) == 0 {
		rows = engine.RenderRows(state)
	}
	for _, row := range rows {
		result.WriteString(row)
		result.WriteString("\n")
	}

	if !state.GameOver && len(state.Cells) > 0 {
		result.WriteString("\nAround the ball (putt targets):\n")
		for _, cell := range state.Surroundings() {
			where := "off course"
			if cell.OnCourse {
				where = fmt.Sprintf("%s %s", cell.Position, cell.Terrain)
			}
			fmt.Fprintf(&result, "  %-2s %s\n", cell.Direction, where)
		}
	}

	if state.GameOver {
		if state.Holed {
			result.WriteString("\n⛳ HOLED!")
		} else {
			result.WriteString("\nGAME OVER")
		}
	}

	if state.Message != "" {
		fmt.Fprintf(&result, "\nMessage: %s", state.Message)
	}

	return result.String()
}

func formatRollInfo(info *service.RollInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Roll: %d | Modifier: %+d | Drive strength: %d\n", info.Roll, info.Modifier, info.Strength)
	if putt, ok := info.Clubs[engine.Putt]; ok {
		fmt.Fprintf(&b, "Putt strength: %d\n", putt)
	}

	b.WriteString("\nDrive preview:\n")
	for _, p := range info.Previews {
		where := fmt.Sprintf("%s %s", p.Landing, p.Terrain)
		if p.OffCourse {
			where = "off course"
		}
		fmt.Fprintf(&b, "  %-2s -> %s => %s\n", p.Direction, where, p.Outcome)
	}

	if info.GameState != nil {
		b.WriteString("\n")
		b.WriteString(formatGameState(info.GameState))
	}
	return b.String()
}

func formatShotResult(result *service.ShotResult) string {
	var b strings.Builder
	shot := result.Shot
	fmt.Fprintf(&b, "Shot %s with %s, strength %d: %s -> %s\n",
		shot.Direction, shot.Club, shot.Strength, shot.From, shot.Landing)

	switch result.Outcome {
	case engine.Holed:
		fmt.Fprintf(&b, "⛳ HOLED in %d strokes!\n", result.Strokes)
	case engine.Redo:
		fmt.Fprintf(&b, "✗ REDO (%s) - ball stays at %s, strokes still %d\n", result.Reason, shot.From, result.Strokes)
	default:
		fmt.Fprintf(&b, "✓ Ball now at %s, strokes %d\n", shot.Landing, result.Strokes)
	}
	if len(shot.Path) > 1 {
		fmt.Fprintf(&b, "Rolled over slopes: %s\n", formatPath(shot.Path))
	}
	if shot.Cycle {
		b.WriteString("The slopes loop; the ball stopped where the loop closed.\n")
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatPath(path []engine.Coordinate) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = p.String()
	}
	return strings.Join(parts, " -> ")
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Shot History (Page %d/%d) - Total attempts: %d\n\n",
		history.Page, history.TotalPages, history.TotalShots)

	for _, shot := range history.Shots {
		status := "✓"
		switch shot.Outcome {
		case engine.Redo:
			status = "✗ redo: " + shot.Reason
		case engine.Holed:
			status = "⛳ holed"
		}
		fmt.Fprintf(&b, "%d. stroke %d %s %s strength %d %s -> %s %s\n",
			shot.Attempt, shot.Stroke, shot.Direction, shot.Club, shot.Strength, shot.From, shot.Landing, status)
	}

	return b.String()
}
