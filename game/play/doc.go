// Package play drives one game of Grid Golf from the terminal.
//
// A Runner repeats the turn loop until the ball is holed or the player
// quits: render the course, roll the strength, ask for a decision, play it,
// report the outcome. Drawing and input are collaborators so the same loop
// serves the plain line console and the tview UI.
//
// Usage:
//
//	game := engine.NewGame(course.Grid, engine.WithRoller(engine.NewDiceRoller()))
//	runner := play.NewRunner(game, play.NewTextRenderer(os.Stdout), play.NewLineReader(os.Stdin, os.Stdout))
//	state, err := runner.Run(ctx)
package play
