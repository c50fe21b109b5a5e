package layout

// Event is an inbound change to the layout. The set of variants is closed.
type Event interface {
	event()
}

// PaneArrived announces a pane. Width and Height are explicit grid sizes
// and are nil when the sender did not specify them.
type PaneArrived struct {
	ID         string
	Type       string
	Title      string
	Width      *int
	Height     *int
	HasCaption bool
}

// PaneResized records a new size for a live pane.
type PaneResized struct {
	ID     string
	Width  int
	Height int
}

// PaneClosed removes a pane.
type PaneClosed struct {
	ID string
}

// ViewSelected switches the active view.
type ViewSelected struct {
	Name string
}

// FilterChanged replaces the title filter.
type FilterChanged struct {
	Pattern string
}

// EnvSwitched replaces the whole item set with another environment's.
type EnvSwitched struct {
	Env   string
	Panes []PaneArrived
}

func (PaneArrived) event()   {}
func (PaneResized) event()   {}
func (PaneClosed) event()    {}
func (ViewSelected) event()  {}
func (FilterChanged) event() {}
func (EnvSwitched) event()   {}

// Int returns a pointer to v, for explicit sizes.
func Int(v int) *int {
	return &v
}

func (p PaneArrived) item() Item {
	return Item{ID: p.ID, Type: p.Type, Title: p.Title}
}
