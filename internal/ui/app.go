package ui

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/panegrid/internal/layout"
	"github.com/five82/panegrid/internal/prefs"
	"github.com/five82/panegrid/internal/state"
)

// inputMode is the prompt currently owning the keyboard.
type inputMode int

const (
	modeNone inputMode = iota
	modeFilter
	modeSaveView
)

// Options configures the UI.
type Options struct {
	Store *state.Store

	// Dispatch sends a layout event to the layout loop.
	Dispatch func(layout.Event)
	// SaveView and DeleteView run on the layout loop.
	SaveView   func(name string)
	DeleteView func(name string)

	PollTick  time.Duration
	Prefs     prefs.Prefs
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	store      *state.Store
	dispatch   func(layout.Event)
	saveView   func(string)
	deleteView func(string)
	prefs      prefs.Prefs
	prefsPath  string
	pollTick   time.Duration

	theme  Theme
	keys   keyMap
	width  int
	height int
	ready  bool

	snapshot state.Snapshot
	canvas   viewport.Model

	mode     inputMode
	input    textinput.Model
	showHelp bool
	status   string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = 250 * time.Millisecond
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	dispatch := opts.Dispatch
	if dispatch == nil {
		dispatch = func(layout.Event) {}
	}
	saveView := opts.SaveView
	if saveView == nil {
		saveView = func(string) {}
	}
	deleteView := opts.DeleteView
	if deleteView == nil {
		deleteView = func(string) {}
	}

	input := textinput.New()
	input.CharLimit = 256

	return Model{
		store:      opts.Store,
		dispatch:   dispatch,
		saveView:   saveView,
		deleteView: deleteView,
		prefs:      opts.Prefs,
		prefsPath:  prefsPath,
		pollTick:   pollTick,
		theme:      GetTheme(opts.Prefs.Theme),
		keys:       DefaultKeyMap(),
		input:      input,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.canvas = viewport.New(msg.Width, m.canvasHeight())
		}
		m.ready = true
		m.canvas.Width = msg.Width
		m.canvas.Height = m.canvasHeight()
		m.input.Width = max(msg.Width-12, 10)
		m.updateCanvas()
		return m, nil

	case tickMsg:
		var cmds []tea.Cmd
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		cmds = append(cmds, tickCmd(m.pollTick))
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.updateCanvas()
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.canvas.View())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.mode != modeNone {
		return m.handlePromptKey(msg)
	}

	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.persistPrefs()
		m.updateCanvas()
		return m, nil

	case key.Matches(msg, m.keys.Filter):
		return m, m.openPrompt(modeFilter, "filter ", m.snapshot.Filter)

	case key.Matches(msg, m.keys.SaveView):
		return m, m.openPrompt(modeSaveView, "save view ", "")

	case key.Matches(msg, m.keys.NextView):
		m.selectView(cycleView(m.snapshot.View, m.snapshot.Views, 1))
		return m, nil

	case key.Matches(msg, m.keys.PrevView):
		m.selectView(cycleView(m.snapshot.View, m.snapshot.Views, -1))
		return m, nil

	case key.Matches(msg, m.keys.DeleteView):
		name := m.snapshot.View
		if name == "" || name == layout.DefaultView {
			m.status = "the default view cannot be deleted"
			return m, nil
		}
		m.deleteView(name)
		m.prefs.View = ""
		m.persistPrefs()
		return m, nil
	}

	var cmd tea.Cmd
	m.canvas, cmd = m.canvas.Update(msg)
	return m, cmd
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closePrompt()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.closePrompt()
		switch mode {
		case modeFilter:
			m.dispatch(layout.FilterChanged{Pattern: value})
			m.prefs.Filter = value
			m.persistPrefs()
		case modeSaveView:
			if value == "" || value == layout.DefaultView {
				m.status = "choose a view name other than " + layout.DefaultView
				return m, nil
			}
			m.saveView(value)
			m.prefs.View = value
			m.persistPrefs()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) openPrompt(mode inputMode, prompt, value string) tea.Cmd {
	m.mode = mode
	m.input.Prompt = prompt
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) closePrompt() {
	m.mode = modeNone
	m.input.Blur()
	m.input.Reset()
}

func (m *Model) selectView(name string) {
	if name == m.snapshot.View {
		return
	}
	m.dispatch(layout.ViewSelected{Name: name})
	m.prefs.View = name
	if name == layout.DefaultView {
		m.prefs.View = ""
	}
	m.persistPrefs()
}

func (m *Model) persistPrefs() {
	if m.snapshot.Env != "" {
		m.prefs.Env = m.snapshot.Env
	}
	if m.prefsPath != "" {
		_ = prefs.Save(m.prefsPath, m.prefs)
	}
}

func (m Model) canvasHeight() int {
	// header + footer
	return max(m.height-2, 1)
}

func (m *Model) updateCanvas() {
	if !m.ready {
		return
	}
	lines := drawCanvas(m.snapshot.Layout, m.snapshot.Cols, m.width)
	if len(lines) == 0 {
		m.canvas.SetContent(m.theme.Styles().FaintText.Render("Waiting for panes..."))
		return
	}
	m.canvas.SetContent(m.theme.Styles().Canvas.Render(strings.Join(lines, "\n")))
}

// cycleView returns the view step places after current in the cycle of the
// default view followed by saved views.
func cycleView(current string, saved []string, step int) string {
	names := make([]string, 0, len(saved)+1)
	names = append(names, layout.DefaultView)
	for _, name := range saved {
		if name != layout.DefaultView {
			names = append(names, name)
		}
	}
	i := slices.Index(names, current)
	if i < 0 {
		i = 0
	}
	n := len(names)
	return names[((i+step)%n+n)%n]
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
