// Package config provides course and settings management for Grid Golf.
//
// The config package handles:
//   - Loading courses from .course files
//   - Course discovery, listing and caching
//   - Default course selection
//   - User settings and the log file location (XDG directories)
//
// Course Format:
//
// A course is a text file with one row per line and one symbol per cell,
// separated by spaces:
//
//	x . . f f . t
//	. w w f f > o
//
// x is the tee, o a hole, t a tree, s sand, w water, f fairway and > < ^ v
// are slopes. Any other symbol is plain grass.
//
// Usage:
//
//	manager, err := config.NewManager("courses")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	course, err := manager.LoadCourse("classic")
//	courses, err := manager.ListCourses()
//
// Settings:
//
// LoadSettings reads gridgolf/config.json from the XDG config search path.
// It selects the rule set, the strength roll range, the default course and
// the terminal colours.
package config
