// Package service provides the business logic layer for Grid Golf.
//
// The service package implements:
//   - Multi-session game management
//   - Course discovery and loading
//   - Shot processing and validation
//   - Shot history with pagination
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// CourseManager loads and saves course files.
//
// Architecture:
//
// The service layer sits between the transports (HTTP/WebSocket/MCP) and the
// game engine. Each session owns its own engine.Game and its own copy of the
// course, so markers stamped in one session never show up in another. The
// service lock serialises every call that touches a game.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	courseMgr, _ := config.NewManager("courses")
//	gameService := service.NewGameService(sessionMgr, courseMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic", engine.SimpleRules)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	roll, _ := gameService.Roll(ctx, info.ID)
//	result, err := gameService.Shoot(ctx, info.ID, engine.Decision{Direction: engine.East})
package service
