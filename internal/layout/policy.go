package layout

import (
	"cmp"
	"regexp"
	"slices"

	"github.com/five82/panegrid/internal/packer"
)

// Policy is the sort policy applied before every repack.
type Policy struct {
	Filter *regexp.Regexp // nil matches everything
	View   *View          // nil or the default view disables view priority
}

// CompileFilter compiles a filter pattern. Blank and invalid patterns yield
// a nil regexp, the empty filter; the compile error is returned for logging.
func CompileFilter(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return re, nil
}

func (p Policy) matches(it Item) bool {
	return p.Filter == nil || p.Filter.MatchString(it.Label())
}

func (p Policy) viewed() bool {
	return p.View != nil && p.View.Name != DefaultView
}

// Sort orders the layout by the policy: filter matches first, then view
// priority when a named view is active, then the incoming order.
func Sort(l Layout, p Policy) Layout {
	out := l.Clone()

	prev := make(map[string]int, len(out))
	for i, it := range out {
		prev[it.ID] = i
	}

	slices.SortStableFunc(out, func(a, b Item) int {
		if am, bm := p.matches(a), p.matches(b); am != bm {
			if am {
				return -1
			}
			return 1
		}
		if p.viewed() {
			ae, aok := p.View.Entries[a.ID]
			be, bok := p.View.Entries[b.ID]
			switch {
			case aok && !bok:
				return -1
			case !aok && bok:
				return 1
			case aok && bok && ae.Priority != be.Priority:
				return cmp.Compare(ae.Priority, be.Priority)
			}
		}
		return cmp.Compare(prev[a.ID], prev[b.ID])
	})
	return out
}

// Repack sorts l by p and packs every item onto shelves of cols columns.
// Placed static items keep their position; packing starts below them.
func Repack(l Layout, cols int, p Policy) Layout {
	if cols < 1 {
		cols = 1
	}
	out := Sort(l, p)

	top := 0
	var sizes []packer.Size
	var idx []int
	for i, it := range out {
		if it.Static && it.Placed {
			if it.Y+it.Height > top {
				top = it.Y + it.Height
			}
			continue
		}
		sizes = append(sizes, it.size())
		idx = append(idx, i)
	}

	for k, pt := range packer.PackFrom(sizes, cols, top) {
		it := &out[idx[k]]
		it.X, it.Y, it.Placed = pt.X, pt.Y, true
	}
	return out
}
