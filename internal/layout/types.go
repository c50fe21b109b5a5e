package layout

import (
	"strings"

	"github.com/five82/panegrid/internal/packer"
)

// DefaultView names the live arrangement. It always exists and is never
// stored as a View.
const DefaultView = "current"

// Item is one pane on the grid.
type Item struct {
	ID     string
	Type   string
	Title  string
	X      int
	Y      int
	Width  int
	Height int
	Placed bool // false until X and Y are assigned
	Static bool // never moved by packing
}

// Label returns the text the filter is matched against.
func (it Item) Label() string {
	if strings.TrimSpace(it.Title) != "" {
		return it.Title
	}
	return it.ID
}

// Rect returns the item's committed rectangle.
func (it Item) Rect() Rect {
	return Rect{X: it.X, Y: it.Y, Width: it.Width, Height: it.Height}
}

func (it Item) size() packer.Size {
	return packer.Size{Width: it.Width, Height: it.Height}
}

// Overlaps reports whether two placed items share any grid cell.
func (it Item) Overlaps(other Item) bool {
	if !it.Placed || !other.Placed {
		return false
	}
	return it.X < other.X+other.Width && other.X < it.X+it.Width &&
		it.Y < other.Y+other.Height && other.Y < it.Y+it.Height
}

// Rect is a saved position record.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"w"`
	Height int `json:"h"`
}

// Layout is the ordered set of panes. Earlier items pack first.
type Layout []Item

// Clone returns an independent copy.
func (l Layout) Clone() Layout {
	if len(l) == 0 {
		return nil
	}
	dup := make(Layout, len(l))
	copy(dup, l)
	return dup
}

// Index returns the position of id in the layout, or -1.
func (l Layout) Index(id string) int {
	for i := range l {
		if l[i].ID == id {
			return i
		}
	}
	return -1
}

// Bottom returns the first row below every placed item.
func (l Layout) Bottom() int {
	bottom := 0
	for _, it := range l {
		if it.Placed && it.Y+it.Height > bottom {
			bottom = it.Y + it.Height
		}
	}
	return bottom
}

// IDs returns the item ids in layout order.
func (l Layout) IDs() []string {
	ids := make([]string, len(l))
	for i, it := range l {
		ids[i] = it.ID
	}
	return ids
}

// ViewEntry biases one item inside a named view.
type ViewEntry struct {
	Priority int `json:"priority"`
	Height   int `json:"h"`
	Width    int `json:"w"`
}

// View is a named alternate arrangement of the same items.
type View struct {
	Name    string               `json:"name"`
	Entries map[string]ViewEntry `json:"entries"`
}

// Clone returns a deep copy of the view.
func (v View) Clone() View {
	dup := View{Name: v.Name, Entries: make(map[string]ViewEntry, len(v.Entries))}
	for id, e := range v.Entries {
		dup.Entries[id] = e
	}
	return dup
}

// Records supplies saved state for an environment.
type Records interface {
	Positions(env, view string) (map[string]Rect, error)
	Views(env string) (map[string]View, error)
}

// Sink receives committed state. Implementations handle their own failures.
type Sink interface {
	CommitLayout(env, view string, l Layout)
	CommitView(env string, v View)
	DropView(env, name string)
}
