// Package engine provides the core game logic for Grid Golf.
//
// The engine package implements the game mechanics including:
//   - The terrain grid and its stroke marker overlay
//   - Course parsing from the plain text map format
//   - Shot resolution: straight flight followed by chained slopes
//   - The turn state machine, strokes and redo rules
//   - Course analysis (par and slope cycles)
//
// Core Types:
//
// Grid holds the course terrain. Game is the turn state machine for one ball
// and implements the Engine interface. GameState is the read-only snapshot
// every transport renders.
//
// Usage:
//
//	grid, _, err := engine.LoadCourseFile("courses/classic.course")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	game := engine.NewGame(grid, engine.WithRules(engine.ExtendedRules))
//	roll, _ := game.BeginTurn()
//	result, err := game.Play(engine.Decision{Direction: engine.East, Club: engine.Drive})
//
// Game Rules:
//
// Each turn a strength between 1 and 6 is rolled. Fairway under the ball adds
// one, sand takes one away, and a putt always travels a single cell. The ball
// flies strength cells in a straight line, then slopes push it one cell at a
// time until it settles. Water, trees and leaving the course void the attempt
// without costing a stroke. Every other landing is marked with the stroke
// number, and the game ends when the ball drops into a hole.
package engine
