package board

import (
	"strings"

	"github.com/five82/panegrid/internal/layout"
)

// Event kinds carried in an Envelope.
const (
	KindPaneArrived   = "pane"
	KindPaneResized   = "resize"
	KindPaneClosed    = "close"
	KindViewSelected  = "view"
	KindFilterChanged = "filter"
	KindEnvSwitched   = "env"
)

// EventBatch mirrors the payload returned by /api/events.
type EventBatch struct {
	Events []Envelope `json:"events"`
	Next   uint64     `json:"next"`
}

// Envelope is one event as the backend sends it. Sizes are in pixels.
type Envelope struct {
	Seq    uint64  `json:"seq"`
	Kind   string  `json:"kind"`
	Pane   *Pane   `json:"pane,omitempty"`
	Resize *Resize `json:"resize,omitempty"`
	View   string  `json:"view,omitempty"`
	Filter string  `json:"filter,omitempty"`
	Env    string  `json:"env,omitempty"`
	Panes  []Pane  `json:"panes,omitempty"`
}

// Pane describes an arriving pane. Width and Height are optional.
type Pane struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Width   *int   `json:"width,omitempty"`
	Height  *int   `json:"height,omitempty"`
	Caption bool   `json:"caption,omitempty"`
}

// Resize carries the new pixel size of a live pane.
type Resize struct {
	ID     string `json:"id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ViewPayload is the body of POST /api/envs/{env}/views.
type ViewPayload struct {
	Name    string                      `json:"name"`
	Entries map[string]layout.ViewEntry `json:"entries"`
}

// Event converts the envelope into a layout event. ok is false for unknown
// kinds and for envelopes missing their payload.
func (e Envelope) Event(grid layout.Grid) (ev layout.Event, ok bool) {
	switch strings.ToLower(strings.TrimSpace(e.Kind)) {
	case KindPaneArrived:
		if e.Pane == nil || strings.TrimSpace(e.Pane.ID) == "" {
			return nil, false
		}
		return e.Pane.arrival(grid), true
	case KindPaneResized:
		if e.Resize == nil || strings.TrimSpace(e.Resize.ID) == "" {
			return nil, false
		}
		w, h := grid.Cells(e.Resize.Width, e.Resize.Height)
		return layout.PaneResized{ID: e.Resize.ID, Width: w, Height: h}, true
	case KindPaneClosed:
		id := ""
		if e.Pane != nil {
			id = e.Pane.ID
		}
		if strings.TrimSpace(id) == "" {
			return nil, false
		}
		return layout.PaneClosed{ID: id}, true
	case KindViewSelected:
		return layout.ViewSelected{Name: e.View}, true
	case KindFilterChanged:
		return layout.FilterChanged{Pattern: e.Filter}, true
	case KindEnvSwitched:
		if strings.TrimSpace(e.Env) == "" {
			return nil, false
		}
		panes := make([]layout.PaneArrived, 0, len(e.Panes))
		for _, p := range e.Panes {
			if strings.TrimSpace(p.ID) == "" {
				continue
			}
			panes = append(panes, p.arrival(grid))
		}
		return layout.EnvSwitched{Env: e.Env, Panes: panes}, true
	default:
		return nil, false
	}
}

func (p Pane) arrival(grid layout.Grid) layout.PaneArrived {
	ev := layout.PaneArrived{ID: p.ID, Type: p.Type, Title: p.Title, HasCaption: p.Caption}
	var wPx, hPx int
	if p.Width != nil {
		wPx = *p.Width
	}
	if p.Height != nil {
		hPx = *p.Height
	}
	w, h := grid.Cells(wPx, hPx)
	if p.Width != nil {
		ev.Width = layout.Int(w)
	}
	if p.Height != nil {
		ev.Height = layout.Int(h)
	}
	return ev
}

// LayoutEvents converts every envelope in the batch, skipping unknown kinds.
func (b EventBatch) LayoutEvents(grid layout.Grid) []layout.Event {
	events := make([]layout.Event, 0, len(b.Events))
	for _, env := range b.Events {
		if ev, ok := env.Event(grid); ok {
			events = append(events, ev)
		}
	}
	return events
}

// LastSeq returns the highest sequence number in the batch, or since when
// the batch is empty.
func (b EventBatch) LastSeq(since uint64) uint64 {
	last := since
	if b.Next > last {
		last = b.Next
	}
	for _, env := range b.Events {
		if env.Seq > last {
			last = env.Seq
		}
	}
	return last
}
