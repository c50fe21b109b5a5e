package layout

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/five82/panegrid/internal/packer"
)

// ErrReservedView is returned when saving a view under the default name.
var ErrReservedView = errors.New("view name is reserved")

const defaultCols = 24

// Options configure a Reconciler.
type Options struct {
	Env     string
	Cols    int
	Sizes   SizeTable   // nil uses DefaultSizes
	Records Records     // optional saved state
	Sink    Sink        // optional commit target
	Logger  *log.Logger // nil uses log.Default()
}

// Reconciler owns the live layout. It is not safe for concurrent use; a
// single goroutine drives it.
type Reconciler struct {
	logger  *log.Logger
	records Records
	sink    Sink
	sizes   SizeTable
	cols    int

	env     string
	layout  Layout
	base    map[string]packer.Size // sizes in the default view
	saved   map[string]Rect
	pending map[string]bool
	views   map[string]View
	active  string

	filterText string
	filter     *regexp.Regexp
}

// New builds a Reconciler and loads saved state for opts.Env.
func New(opts Options) *Reconciler {
	r := &Reconciler{
		logger:  opts.Logger,
		records: opts.Records,
		sink:    opts.Sink,
		sizes:   opts.Sizes,
		cols:    opts.Cols,
	}
	if r.logger == nil {
		r.logger = log.Default()
	}
	if r.sizes == nil {
		r.sizes = DefaultSizes()
	}
	if r.cols < 1 {
		r.cols = defaultCols
	}
	r.reset(opts.Env)
	return r
}

func (r *Reconciler) reset(env string) {
	r.env = env
	r.layout = nil
	r.base = make(map[string]packer.Size)
	r.pending = make(map[string]bool)
	r.active = DefaultView
	r.saved = make(map[string]Rect)
	r.views = make(map[string]View)

	if r.records == nil {
		return
	}
	r.loadSaved()
	if views, err := r.records.Views(env); err != nil {
		r.logger.Warn("load views", "env", env, "err", err)
	} else {
		for name, v := range views {
			if name == DefaultView {
				continue
			}
			r.views[name] = v.Clone()
		}
	}
}

// loadSaved reads the position records of the active view. A view without
// records of its own uses the default view's.
func (r *Reconciler) loadSaved() {
	r.saved = make(map[string]Rect)
	if r.records == nil {
		return
	}
	view := r.active
	for {
		saved, err := r.records.Positions(r.env, view)
		if err != nil {
			r.logger.Warn("load saved positions", "env", r.env, "view", view, "err", err)
			return
		}
		if len(saved) > 0 {
			r.saved = saved
			return
		}
		if view == DefaultView {
			return
		}
		view = DefaultView
	}
}

// Env returns the active environment.
func (r *Reconciler) Env() string { return r.env }

// Cols returns the column count used by the last pack.
func (r *Reconciler) Cols() int { return r.cols }

// ActiveView returns the name of the active view.
func (r *Reconciler) ActiveView() string { return r.active }

// Filter returns the filter pattern as last set.
func (r *Reconciler) Filter() string { return r.filterText }

// Layout returns a copy of the current layout.
func (r *Reconciler) Layout() Layout { return r.layout.Clone() }

// Pending reports whether id is waiting for a packed position.
func (r *Reconciler) Pending(id string) bool { return r.pending[id] }

// Views returns the saved view names, sorted.
func (r *Reconciler) Views() []string {
	names := make([]string, 0, len(r.views))
	for name := range r.views {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// View returns a copy of a saved view.
func (r *Reconciler) View(name string) (View, bool) {
	v, ok := r.views[name]
	if !ok {
		return View{}, false
	}
	return v.Clone(), true
}

// UpsertItem adds a pane or updates the size of a known one. width and
// height are explicit grid sizes; nil leaves them to saved or default
// values. A new pane with a saved record and no explicit size adopts the
// record as is; any other new pane is queued for packing.
func (r *Reconciler) UpsertItem(item Item, width, height *int) {
	r.upsert(item, width, height, false)
}

func (r *Reconciler) upsert(item Item, width, height *int, caption bool) {
	if i := r.layout.Index(item.ID); i >= 0 {
		cur := &r.layout[i]
		if item.Title != "" {
			cur.Title = item.Title
		}
		if item.Type != "" {
			cur.Type = item.Type
		}
		resized := false
		if width != nil && *width > 0 && *width != cur.Width {
			cur.Width, resized = *width, true
		}
		if height != nil && *height > 0 && *height != cur.Height {
			cur.Height, resized = *height, true
		}
		if resized {
			r.rememberSize(*cur)
		}
		return
	}

	if rec, ok := r.saved[item.ID]; ok && width == nil && height == nil {
		item.X, item.Y = rec.X, rec.Y
		item.Width, item.Height = rec.Width, rec.Height
		item.Placed = true
		r.base[item.ID] = item.size()
		r.layout = append(r.layout, item)
		return
	}

	size := r.sizes.Lookup(item.Type)
	if caption {
		size.Height += captionRows
	}
	if width != nil && *width > 0 {
		size.Width = *width
	}
	if height != nil && *height > 0 {
		size.Height = *height
	}
	item.Width, item.Height = size.Width, size.Height
	item.X, item.Y, item.Placed = 0, 0, false
	r.base[item.ID] = size
	r.pending[item.ID] = true
	r.layout = append(r.layout, item)
}

// rememberSize records a resize against the active view, or against the
// default sizes when the view has no entry for the item.
func (r *Reconciler) rememberSize(it Item) {
	if v, ok := r.views[r.active]; ok {
		if e, ok := v.Entries[it.ID]; ok {
			e.Width, e.Height = it.Width, it.Height
			v.Entries[it.ID] = e
			if r.sink != nil {
				r.sink.CommitView(r.env, v.Clone())
			}
			return
		}
	}
	r.base[it.ID] = it.size()
}

// RemoveItem drops a pane. Remaining positions are left as they are.
func (r *Reconciler) RemoveItem(id string) {
	i := r.layout.Index(id)
	if i < 0 {
		return
	}
	r.layout = append(r.layout[:i], r.layout[i+1:]...)
	delete(r.pending, id)
	delete(r.base, id)
	delete(r.saved, id)
}

// Repack re-sorts the layout by the active policy and packs every item.
func (r *Reconciler) Repack(cols int) Layout {
	if cols > 0 {
		r.cols = cols
	}
	r.applyView()
	r.layout = Repack(r.layout, r.cols, r.policy())
	clear(r.pending)
	r.commit()
	return r.Layout()
}

// PlacePending packs only the queued panes, on fresh shelves below every
// placed pane. Nothing already placed moves. The queued panes are ordered
// among themselves by the active filter and view.
func (r *Reconciler) PlacePending(cols int) Layout {
	if cols > 0 {
		r.cols = cols
	}
	var queued Layout
	var idx []int
	for i, it := range r.layout {
		if r.pending[it.ID] {
			queued = append(queued, it)
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return r.Layout()
	}
	queued = Sort(queued, r.policy())
	sizes := make([]packer.Size, len(queued))
	for k, it := range queued {
		sizes[k] = it.size()
	}

	bottom := 0
	for _, it := range r.layout {
		if !r.pending[it.ID] && it.Placed && it.Y+it.Height > bottom {
			bottom = it.Y + it.Height
		}
	}
	for k, pt := range packer.PackFrom(sizes, r.cols, bottom) {
		it := queued[k]
		it.X, it.Y, it.Placed = pt.X, pt.Y, true
		r.layout[idx[k]] = it
	}
	clear(r.pending)
	r.commit()
	return r.Layout()
}

// SelectView activates a view and repacks. Unknown names select the
// default view.
func (r *Reconciler) SelectView(name string) Layout {
	r.selectView(name)
	return r.Repack(r.cols)
}

func (r *Reconciler) selectView(name string) {
	name = strings.TrimSpace(name)
	if _, ok := r.views[name]; !ok {
		if name != "" && name != DefaultView {
			r.logger.Debug("unknown view, using default", "view", name)
		}
		name = DefaultView
	}
	if name == r.active {
		return
	}
	r.active = name
	r.loadSaved()
}

// SetFilter sets the title filter and repacks. An invalid pattern is
// treated as no filter.
func (r *Reconciler) SetFilter(pattern string) Layout {
	r.setFilter(pattern)
	return r.Repack(r.cols)
}

func (r *Reconciler) setFilter(pattern string) {
	re, err := CompileFilter(pattern)
	if err != nil {
		r.logger.Debug("invalid filter, ignoring", "pattern", pattern, "err", err)
	}
	r.filterText = pattern
	r.filter = re
}

// SaveView forks the current arrangement into a named view and makes it
// active.
func (r *Reconciler) SaveView(name string) (View, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == DefaultView {
		return View{}, ErrReservedView
	}
	v := View{Name: name, Entries: make(map[string]ViewEntry, len(r.layout))}
	for i, it := range r.layout {
		v.Entries[it.ID] = ViewEntry{Priority: i, Height: it.Height, Width: it.Width}
	}
	r.views[name] = v
	if r.sink != nil {
		r.sink.CommitView(r.env, v.Clone())
	}
	r.active = name
	r.loadSaved()
	r.Repack(r.cols)
	return v.Clone(), nil
}

// DeleteView removes a saved view. Deleting the active view falls back to
// the default view.
func (r *Reconciler) DeleteView(name string) Layout {
	if _, ok := r.views[name]; !ok {
		return r.Layout()
	}
	delete(r.views, name)
	if r.sink != nil {
		r.sink.DropView(r.env, name)
	}
	if r.active == name {
		r.active = DefaultView
		r.loadSaved()
		return r.Repack(r.cols)
	}
	return r.Layout()
}

// SwitchEnv replaces the item set with another environment's panes and
// restores its saved state. The filter carries over.
func (r *Reconciler) SwitchEnv(env string, panes []PaneArrived) Layout {
	r.reset(env)
	for _, p := range panes {
		r.upsert(p.item(), p.Width, p.Height, p.HasCaption)
	}
	if len(r.pending) == 0 {
		r.commit()
		return r.Layout()
	}
	return r.PlacePending(r.cols)
}

// Apply dispatches a single event.
func (r *Reconciler) Apply(e Event) Layout {
	return r.ApplyBatch([]Event{e})
}

// ApplyBatch applies events in order and packs at most once at the end.
// Arrivals alone keep existing positions; resizes, view and filter changes
// trigger a full repack.
func (r *Reconciler) ApplyBatch(events []Event) Layout {
	var repack, changed bool
	for _, e := range events {
		switch e := e.(type) {
		case PaneArrived:
			r.upsert(e.item(), e.Width, e.Height, e.HasCaption)
			changed = true
		case PaneResized:
			if r.layout.Index(e.ID) < 0 {
				continue
			}
			r.upsert(Item{ID: e.ID}, Int(e.Width), Int(e.Height), false)
			repack = true
		case PaneClosed:
			if r.layout.Index(e.ID) < 0 {
				continue
			}
			r.RemoveItem(e.ID)
			changed = true
		case ViewSelected:
			r.selectView(e.Name)
			repack = true
		case FilterChanged:
			r.setFilter(e.Pattern)
			repack = true
		case EnvSwitched:
			// The new env's saved positions win over earlier repack
			// triggers; the filter carries over into its placement.
			r.SwitchEnv(e.Env, e.Panes)
			repack, changed = false, false
		}
	}

	switch {
	case repack:
		return r.Repack(r.cols)
	case len(r.pending) > 0:
		return r.PlacePending(r.cols)
	case changed:
		r.commit()
	}
	return r.Layout()
}

// applyView sets each item's size from the active view entry, or from its
// default-view size.
func (r *Reconciler) applyView() {
	v, named := r.views[r.active]
	for i := range r.layout {
		it := &r.layout[i]
		if named {
			if e, ok := v.Entries[it.ID]; ok && e.Width > 0 && e.Height > 0 {
				it.Width, it.Height = e.Width, e.Height
				continue
			}
		}
		if s, ok := r.base[it.ID]; ok {
			it.Width, it.Height = s.Width, s.Height
		}
	}
}

func (r *Reconciler) policy() Policy {
	p := Policy{Filter: r.filter}
	if v, ok := r.views[r.active]; ok {
		p.View = &v
	}
	return p
}

// commit hands the layout to the sink. An empty layout is not committed so
// records of panes that have not arrived yet survive.
func (r *Reconciler) commit() {
	if r.sink == nil || len(r.layout) == 0 {
		return
	}
	r.sink.CommitLayout(r.env, r.active, r.layout.Clone())
}
