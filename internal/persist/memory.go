package persist

import (
	"sort"
	"sync"

	"github.com/five82/panegrid/internal/layout"
)

// Memory is an in-process Store. It is safe for concurrent use.
type Memory struct {
	mu        sync.RWMutex
	positions map[string]map[string]map[string]layout.Rect // env -> view -> id
	views     map[string]map[string]layout.View           // env -> name
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		positions: make(map[string]map[string]map[string]layout.Rect),
		views:     make(map[string]map[string]layout.View),
	}
}

func (m *Memory) Positions(env, view string) (map[string]layout.Rect, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	src := m.positions[env][view]
	out := make(map[string]layout.Rect, len(src))
	for id, r := range src {
		out[id] = r
	}
	return out, nil
}

func (m *Memory) SavePositions(env, view string, l layout.Layout) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.positions[env] == nil {
		m.positions[env] = make(map[string]map[string]layout.Rect)
	}
	m.positions[env][view] = rects(l)
	return nil
}

func (m *Memory) Views(env string) (map[string]layout.View, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]layout.View, len(m.views[env]))
	for name, v := range m.views[env] {
		out[name] = v.Clone()
	}
	return out, nil
}

func (m *Memory) SaveView(env string, v layout.View) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.views[env] == nil {
		m.views[env] = make(map[string]layout.View)
	}
	m.views[env][v.Name] = v.Clone()
	return nil
}

func (m *Memory) DeleteView(env, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.views[env], name)
	delete(m.positions[env], name)
	return nil
}

func (m *Memory) Envs() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool)
	for env, byView := range m.positions {
		if len(byView) > 0 {
			seen[env] = true
		}
	}
	for env, views := range m.views {
		if len(views) > 0 {
			seen[env] = true
		}
	}
	envs := make([]string, 0, len(seen))
	for env := range seen {
		envs = append(envs, env)
	}
	sort.Strings(envs)
	return envs, nil
}

func (m *Memory) ForkEnv(src, dst string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.hasEnv(src) {
		return ErrNotFound
	}
	if m.hasEnv(dst) {
		return ErrExists
	}
	m.positions[dst] = make(map[string]map[string]layout.Rect)
	for view, byID := range m.positions[src] {
		dup := make(map[string]layout.Rect, len(byID))
		for id, r := range byID {
			dup[id] = r
		}
		m.positions[dst][view] = dup
	}
	m.views[dst] = make(map[string]layout.View)
	for name, v := range m.views[src] {
		m.views[dst][name] = v.Clone()
	}
	return nil
}

func (m *Memory) DeleteEnv(env string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.positions, env)
	delete(m.views, env)
	return nil
}

func (m *Memory) Close() error { return nil }

func (m *Memory) hasEnv(env string) bool {
	return len(m.positions[env]) > 0 || len(m.views[env]) > 0
}
