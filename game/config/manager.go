package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/mcp-training/gridgolf/game/engine"
	"github.com/wricardo/mcp-training/gridgolf/game/service"
)

var (
	ErrCourseNotFound = service.ErrCourseNotFound
	ErrInvalidCourse  = errors.New("invalid course")
	ErrInvalidName    = errors.New("invalid course name")
)

// DefaultCourseName is loaded as the default course when present
const DefaultCourseName = "classic"

// minimalCourse is used when the course directory holds no usable course
const minimalCourse = `
x . . . f f . t
. . w w f f . .
. s . . > > . o
. . . t . . . .
`

// Manager handles course loading and caching
type Manager struct {
	courseDir     string
	defaultName   string
	defaultCourse *engine.Course
	courses       map[string]*engine.Course
	mu            sync.RWMutex
}

// NewManager creates a new course manager. defaultName may be empty.
func NewManager(courseDir string, defaultName ...string) (*Manager, error) {
	// Ensure course directory exists
	if _, err := os.Stat(courseDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("course directory does not exist: %s", courseDir)
	}

	m := &Manager{
		courseDir:   courseDir,
		defaultName: DefaultCourseName,
		courses:     make(map[string]*engine.Course),
	}
	if len(defaultName) > 0 && defaultName[0] != "" {
		m.defaultName = defaultName[0]
	}

	if err := m.loadDefaultCourse(); err != nil {
		return nil, fmt.Errorf("failed to load default course: %w", err)
	}

	return m, nil
}

// Dir returns the directory courses are read from
func (m *Manager) Dir() string {
	return m.courseDir
}

// LoadCourse loads a course by name. The returned course is shared; games
// take their own copy of its grid.
func (m *Manager) LoadCourse(name string) (*engine.Course, error) {
	name = strings.TrimSuffix(name, engine.CourseExt)
	if err := validateName(name); err != nil {
		return nil, err
	}

	m.mu.RLock()
	// Check cache first
	if course, exists := m.courses[name]; exists {
		m.mu.RUnlock()
		return course, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if course, exists := m.courses[name]; exists {
		return course, nil
	}

	path := filepath.Join(m.courseDir, name+engine.CourseExt)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", name, ErrCourseNotFound)
		}
		return nil, fmt.Errorf("failed to read course file: %w", err)
	}

	course, err := engine.LoadCourse(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCourse, err)
	}

	m.courses[name] = course
	return course, nil
}

// ListCourses returns information about all available courses, sorted by
// name. Files that do not parse are skipped.
func (m *Manager) ListCourses() ([]*service.CourseInfo, error) {
	entries, err := os.ReadDir(m.courseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read course directory: %w", err)
	}

	var courses []*service.CourseInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), engine.CourseExt) {
			continue
		}

		course, err := m.LoadCourse(entry.Name())
		if err != nil {
			continue
		}
		courses = append(courses, service.NewCourseInfo(course, false))
	}

	sort.Slice(courses, func(i, j int) bool {
		return courses[i].CourseID < courses[j].CourseID
	})
	return courses, nil
}

// GetDefault returns the default course
func (m *Manager) GetDefault() *engine.Course {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultCourse
}

// SetDefault sets the default course by name
func (m *Manager) SetDefault(name string) error {
	course, err := m.LoadCourse(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultCourse = course
	m.defaultName = course.Name
	return nil
}

// RefreshCache drops every cached course and reloads the default from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.courses = make(map[string]*engine.Course)
	m.mu.Unlock()

	return m.loadDefaultCourse()
}

// SaveCourse writes a course to disk in course file syntax
func (m *Manager) SaveCourse(name string, course *engine.Course) error {
	name = strings.TrimSuffix(name, engine.CourseExt)
	if err := validateName(name); err != nil {
		return err
	}
	if course == nil || course.Grid == nil {
		return fmt.Errorf("%w: no grid", ErrInvalidCourse)
	}

	path := filepath.Join(m.courseDir, name+engine.CourseExt)
	_, statErr := os.Stat(path)
	overwrite := statErr == nil

	if err := os.WriteFile(path, []byte(engine.FormatCourse(course.Grid)), 0644); err != nil {
		return fmt.Errorf("failed to write course file: %w", err)
	}

	// An overwritten course may be the default one
	if overwrite {
		return m.RefreshCache()
	}

	saved := &engine.Course{Name: name, Grid: course.Grid.Clone()}

	m.mu.Lock()
	m.courses[name] = saved
	m.mu.Unlock()

	return nil
}

// loadDefaultCourse picks the configured default, then the first course on
// disk, then the built-in minimal course
func (m *Manager) loadDefaultCourse() error {
	course, err := m.LoadCourse(m.defaultName)
	if err != nil {
		courses, listErr := m.ListCourses()
		if listErr == nil && len(courses) > 0 {
			course, err = m.LoadCourse(courses[0].CourseID)
		}
	}
	if err != nil {
		course, err = minimal()
		if err != nil {
			return err
		}
	}

	m.mu.Lock()
	m.defaultCourse = course
	m.mu.Unlock()
	return nil
}

func minimal() (*engine.Course, error) {
	grid, _, err := engine.ParseCourseString(minimalCourse)
	if err != nil {
		return nil, err
	}
	return &engine.Course{Name: "default", Grid: grid}, nil
}

// validateName keeps course names inside the course directory
func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
