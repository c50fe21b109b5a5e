package layout

import (
	"strings"

	"github.com/five82/panegrid/internal/packer"
)

// SizeTable maps a pane type to its default footprint in grid units.
type SizeTable map[string]packer.Size

// Built-in footprints, keyed by pane type.
var defaultSizes = SizeTable{
	"plot":       {Width: 8, Height: 6},
	"image":      {Width: 6, Height: 6},
	"text":       {Width: 6, Height: 4},
	"properties": {Width: 6, Height: 5},
	"network":    {Width: 8, Height: 8},
	"embeddings": {Width: 10, Height: 8},
}

var fallbackSize = packer.Size{Width: 6, Height: 4}

// captionRows is added to the default height of panes that carry a caption.
const captionRows = 1

// DefaultSizes returns a copy of the built-in size table.
func DefaultSizes() SizeTable {
	return defaultSizes.Merge(nil)
}

// Merge returns a copy of t with overrides applied. Non-positive override
// dimensions are ignored.
func (t SizeTable) Merge(overrides SizeTable) SizeTable {
	out := make(SizeTable, len(t)+len(overrides))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range overrides {
		key := strings.ToLower(strings.TrimSpace(k))
		base, ok := out[key]
		if !ok {
			base = fallbackSize
		}
		if v.Width > 0 {
			base.Width = v.Width
		}
		if v.Height > 0 {
			base.Height = v.Height
		}
		out[key] = base
	}
	return out
}

// Lookup returns the footprint for a pane type, falling back to the
// "default" entry and then to a built-in size.
func (t SizeTable) Lookup(typ string) packer.Size {
	if s, ok := t[strings.ToLower(strings.TrimSpace(typ))]; ok {
		return s
	}
	if s, ok := t["default"]; ok {
		return s
	}
	return fallbackSize
}

// Grid converts pixel dimensions to grid units.
type Grid struct {
	RowHeight int // px per row
	ColWidth  int // px per column
	Margin    int // px between cells
}

// Cells returns the grid footprint of a pane of the given pixel size.
func (g Grid) Cells(widthPx, heightPx int) (w, h int) {
	return span(widthPx, g.ColWidth, g.Margin), span(heightPx, g.RowHeight, g.Margin)
}

// span returns how many cells of pitch+margin are needed to hold px,
// never less than one.
func span(px, pitch, margin int) int {
	step := pitch + margin
	if step <= 0 || px <= 0 {
		return 1
	}
	n := (px + margin + step - 1) / step
	if n < 1 {
		return 1
	}
	return n
}
