// Package mcp exposes Grid Golf to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call becomes a request to the REST
// API, and the JSON answer is turned into text an agent can read.
//
// MCP Tools:
//   - create_session, list_sessions, get_session
//   - game_state: course map and score
//   - roll: strength for the coming shot plus a per-direction preview
//   - shoot: play a shot (direction, optional club, intent)
//   - reset_game, quit_game
//   - shot_history: paginated attempts, redos included
//   - list_courses: courses with size and par
//   - game_instructions: complete rules
//   - describe_cell: one cell and what landing on it does
//
// Transport Modes:
//
// The same MCPServer is served over stdio (gridgolf mcp) or mounted on the
// HTTP server at /mcp (gridgolf server).
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
