// Package websocket pushes live Grid Golf session updates to browsers and
// other watchers.
//
// A central Hub keeps the connected clients grouped by session ID. Every
// client gets a reader and a writer goroutine; the writer also pings the
// peer so dead connections are noticed.
//
// Message Protocol:
//
// Outgoing messages are JSON:
//
//	{"session_id":"ab12","event":"state_update","game_state":{...}}
//	{"session_id":"ab12","event":"shot","data":[{"type":"holed",...}]}
//
// Clients pick their session with the session query parameter
// (/ws?session=ab12). Anything a client sends is ignored.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	hub.ServeWS(w, r, sessionID)
//	hub.BroadcastToSession(sessionID, state)
package websocket
