package packer

// Size is the footprint of an item in grid units.
type Size struct {
	Width  int
	Height int
}

// Point is a top-left grid coordinate.
type Point struct {
	X int
	Y int
}

// shelf is one horizontal row of placed items.
type shelf struct {
	y      int
	height int
	used   int
}

// Packer places rectangles on shelves in a single forward pass.
// A Packer is scoped to one packing pass and must not be shared.
type Packer struct {
	sizes   []Size
	cols    int
	top     int
	shelves []shelf
}

// New prepares a packer for the given sizes. cols must be at least 1 and
// every dimension positive.
func New(sizes []Size, cols int) *Packer {
	return &Packer{sizes: sizes, cols: cols}
}

// Position places sizes[index] and returns its top-left corner.
//
// Position must be called for indices 0..len(sizes)-1 in increasing order,
// exactly once each. Only the most recently opened shelf is considered; an
// item that does not fit opens a new shelf beneath it.
func (p *Packer) Position(index, cols int) Point {
	size := p.sizes[index]

	if n := len(p.shelves); n > 0 {
		last := &p.shelves[n-1]
		if last.used+size.Width <= cols {
			pt := Point{X: last.used, Y: last.y}
			last.used += size.Width
			if size.Height > last.height {
				last.height = size.Height
			}
			return pt
		}
	}

	y := p.top
	if n := len(p.shelves); n > 0 {
		last := p.shelves[n-1]
		y = last.y + last.height
	}
	p.shelves = append(p.shelves, shelf{y: y, height: size.Height, used: size.Width})
	return Point{X: 0, Y: y}
}

// Cols returns the column count the packer was initialized with.
func (p *Packer) Cols() int {
	return p.cols
}

// Bottom returns the first free row below every shelf opened so far.
func (p *Packer) Bottom() int {
	if n := len(p.shelves); n > 0 {
		last := p.shelves[n-1]
		return last.y + last.height
	}
	return p.top
}

// Pack places every size in order and returns the positions.
func Pack(sizes []Size, cols int) []Point {
	return PackFrom(sizes, cols, 0)
}

// PackFrom is Pack with the first shelf opened at row top.
func PackFrom(sizes []Size, cols, top int) []Point {
	p := New(sizes, cols)
	p.top = top
	points := make([]Point, len(sizes))
	for i := range sizes {
		points[i] = p.Position(i, cols)
	}
	return points
}
