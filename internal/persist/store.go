package persist

import (
	"errors"

	"github.com/five82/panegrid/internal/layout"
)

var (
	// ErrNotFound is returned when an environment has no saved state.
	ErrNotFound = errors.New("environment not found")
	// ErrExists is returned when forking onto an environment that has state.
	ErrExists = errors.New("environment already exists")
)

// Store persists saved position records and views per environment.
type Store interface {
	layout.Records

	SavePositions(env, view string, l layout.Layout) error
	SaveView(env string, v layout.View) error
	DeleteView(env, name string) error

	Envs() ([]string, error)
	ForkEnv(src, dst string) error
	DeleteEnv(env string) error

	Close() error
}

// rects extracts the placed rectangles of a layout.
func rects(l layout.Layout) map[string]layout.Rect {
	out := make(map[string]layout.Rect, len(l))
	for _, it := range l {
		if it.Placed {
			out[it.ID] = it.Rect()
		}
	}
	return out
}
