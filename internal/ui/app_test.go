package ui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/panegrid/internal/layout"
	"github.com/five82/panegrid/internal/prefs"
	"github.com/five82/panegrid/internal/state"
)

type recorder struct {
	events  []layout.Event
	saved   []string
	deleted []string
}

func newTestModel(t *testing.T, snap state.Snapshot) (Model, *recorder, string) {
	t.Helper()
	rec := &recorder{}
	prefsPath := filepath.Join(t.TempDir(), "prefs.toml")
	m := New(Options{
		Dispatch:   func(e layout.Event) { rec.events = append(rec.events, e) },
		SaveView:   func(name string) { rec.saved = append(rec.saved, name) },
		DeleteView: func(name string) { rec.deleted = append(rec.deleted, name) },
		Prefs:      prefs.Prefs{Theme: "Nightfox"},
		PrefsPath:  prefsPath,
	})
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m = update(t, m, snapshotMsg(snap))
	return m, rec, prefsPath
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m = update(t, m, runes(string(r)))
	}
	return m
}

func TestModel_FilterPromptDispatchesOnEnter(t *testing.T) {
	m, rec, prefsPath := newTestModel(t, state.Snapshot{Env: "main", View: layout.DefaultView})

	m = update(t, m, runes("/"))
	if m.mode != modeFilter {
		t.Fatalf("mode = %v, want filter prompt", m.mode)
	}
	m = typeText(t, m, "^loss")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != modeNone {
		t.Fatalf("mode = %v, want prompt closed", m.mode)
	}
	if len(rec.events) != 1 {
		t.Fatalf("dispatched %d events, want 1", len(rec.events))
	}
	fc, ok := rec.events[0].(layout.FilterChanged)
	if !ok || fc.Pattern != "^loss" {
		t.Fatalf("event = %#v, want FilterChanged ^loss", rec.events[0])
	}
	if got := prefs.Load(prefsPath); got.Filter != "^loss" || got.Env != "main" {
		t.Fatalf("saved prefs = %+v, want filter ^loss env main", got)
	}
}

func TestModel_EscCancelsPrompt(t *testing.T) {
	m, rec, _ := newTestModel(t, state.Snapshot{View: layout.DefaultView})

	m = update(t, m, runes("s"))
	m = typeText(t, m, "mine")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.mode != modeNone {
		t.Fatalf("mode = %v, want prompt closed", m.mode)
	}
	if len(rec.saved) != 0 || len(rec.events) != 0 {
		t.Fatalf("esc should not save or dispatch: saved=%v events=%v", rec.saved, rec.events)
	}
}

func TestModel_SaveViewPrompt(t *testing.T) {
	m, rec, _ := newTestModel(t, state.Snapshot{View: layout.DefaultView})

	m = update(t, m, runes("s"))
	m = typeText(t, m, "review")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(rec.saved) != 1 || rec.saved[0] != "review" {
		t.Fatalf("saved = %v, want [review]", rec.saved)
	}

	m = update(t, m, runes("s"))
	m = typeText(t, m, layout.DefaultView)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(rec.saved) != 1 {
		t.Fatalf("saving under the default name should be refused, saved = %v", rec.saved)
	}
	if m.status == "" {
		t.Fatalf("status is empty, want a refusal message")
	}
}

func TestModel_CycleViews(t *testing.T) {
	m, rec, _ := newTestModel(t, state.Snapshot{View: layout.DefaultView, Views: []string{"a", "b"}})

	m = update(t, m, runes("v"))
	_ = update(t, m, runes("V"))

	if len(rec.events) != 2 {
		t.Fatalf("dispatched %d events, want 2", len(rec.events))
	}
	if got := rec.events[0].(layout.ViewSelected).Name; got != "a" {
		t.Fatalf("v selected %q, want a", got)
	}
	if got := rec.events[1].(layout.ViewSelected).Name; got != "b" {
		t.Fatalf("V selected %q, want b", got)
	}
}

func TestModel_DeleteView(t *testing.T) {
	m, rec, _ := newTestModel(t, state.Snapshot{View: layout.DefaultView})
	m = update(t, m, runes("x"))
	if len(rec.deleted) != 0 {
		t.Fatalf("deleting the default view should be refused, deleted = %v", rec.deleted)
	}

	m = update(t, m, snapshotMsg(state.Snapshot{View: "mine", Views: []string{"mine"}}))
	_ = update(t, m, runes("x"))
	if len(rec.deleted) != 1 || rec.deleted[0] != "mine" {
		t.Fatalf("deleted = %v, want [mine]", rec.deleted)
	}
}

func TestModel_CycleThemePersists(t *testing.T) {
	m, _, prefsPath := newTestModel(t, state.Snapshot{})
	m = update(t, m, runes("T"))
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}
	if got := prefs.Load(prefsPath).Theme; got != "Kanagawa" {
		t.Fatalf("saved theme = %q, want Kanagawa", got)
	}
}

func TestModel_HelpOverlayClosesOnAnyKey(t *testing.T) {
	m, rec, _ := newTestModel(t, state.Snapshot{})
	m = update(t, m, runes("?"))
	if !m.showHelp {
		t.Fatalf("showHelp = false, want true")
	}
	m = update(t, m, runes("v"))
	if m.showHelp {
		t.Fatalf("showHelp = true, want closed")
	}
	if len(rec.events) != 0 {
		t.Fatalf("closing help dispatched %v", rec.events)
	}
}

func TestModel_QuitReturnsQuitCmd(t *testing.T) {
	m, _, _ := newTestModel(t, state.Snapshot{})
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("q returned nil cmd, want tea.Quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q cmd produced %T, want tea.QuitMsg", cmd())
	}
}

func TestCycleView(t *testing.T) {
	saved := []string{"a", "b"}
	tests := []struct {
		current string
		step    int
		want    string
	}{
		{layout.DefaultView, 1, "a"},
		{"a", 1, "b"},
		{"b", 1, layout.DefaultView},
		{layout.DefaultView, -1, "b"},
		{"missing", 1, "a"},
	}
	for _, tt := range tests {
		if got := cycleView(tt.current, saved, tt.step); got != tt.want {
			t.Fatalf("cycleView(%q, %d) = %q, want %q", tt.current, tt.step, got, tt.want)
		}
	}
	if got := cycleView(layout.DefaultView, nil, 1); got != layout.DefaultView {
		t.Fatalf("cycleView with no saved views = %q, want %q", got, layout.DefaultView)
	}
}
