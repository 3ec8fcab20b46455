// Package api provides the HTTP REST API for Grid Golf.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session ({"course_id": "classic", "rules": "extended"})
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N&course=NAME)
//   - GET /api/sessions/{id} - Get one session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current game state
//   - POST /api/sessions/{id}/roll - Roll the strength for the coming shot and preview every direction
//   - POST /api/sessions/{id}/shot - Play a shot ({"direction": "NE", "club": "putt"})
//   - POST /api/sessions/{id}/reset - Restart the hole
//   - POST /api/sessions/{id}/quit - Abandon the game
//   - GET /api/sessions/{id}/history - Shot history (?page=1&limit=20&order=asc|desc)
//
// Courses:
//   - GET /api/courses - List courses with par and size
//   - GET /api/courses/{name} - One course including its layout
//   - POST /api/courses - Save a course ({"name": "river", "layout": "x . w o"})
//
// Other:
//   - GET /ws?session=ID - WebSocket live updates
//   - GET /health - Liveness check
//
// Error Handling:
//
// Errors are returned as {"error": "message"}. Unknown sessions and courses
// give 404, malformed input and invalid courses 400, shots on a finished
// game 409.
package api
