// Package packer implements the shelf-first bin packer that places panes on
// the dashboard grid.
//
// # Overview
//
// Items are placed in the order given. The packer keeps a list of shelves,
// each a horizontal strip as tall as its tallest member. An item goes onto
// the most recently opened shelf when it fits within the column count;
// otherwise a new shelf opens directly below the previous one and the item
// starts at column zero.
//
// Earlier shelves are never revisited. That costs some density but keeps
// placement O(1) per item and fully deterministic, which is what keeps pane
// positions stable from one repack to the next.
//
// # Usage
//
//	sizes := []packer.Size{{Width: 6, Height: 2}, {Width: 6, Height: 3}, {Width: 4, Height: 1}}
//	p := packer.New(sizes, 10)
//	for i := range sizes {
//		pt := p.Position(i, 10) // (0,0), (0,2), (6,2)
//		_ = pt
//	}
//
// Pack and PackFrom drive the same loop in one call.
//
// # Preconditions
//
// Position must be called with indices 0..n-1 in increasing order, exactly
// once each, and every dimension must be positive. These are not checked.
// An item wider than the column count is placed alone on its own shelf at
// column zero.
package packer
