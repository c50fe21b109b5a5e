package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/five82/panegrid/internal/layout"
)

// renderHeader renders the status line: environment, view, filter and
// connection health.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	snap := m.snapshot

	parts := []string{
		styles.AccentText.Bold(true).Render("panegrid"),
		styles.MutedText.Render("env ") + styles.Text.Render(orDash(snap.Env)),
		styles.MutedText.Render("view ") + styles.Text.Render(orDash(snap.View)),
	}
	if snap.Filter != "" {
		parts = append(parts, styles.MutedText.Render("filter ")+styles.WarningText.Render(snap.Filter))
	}
	parts = append(parts, styles.MutedText.Render(fmt.Sprintf("%d panes", len(snap.Layout))))

	switch {
	case snap.IsOffline():
		parts = append(parts, styles.DangerText.Render("OFFLINE "+classifyConnectionError(snap.LastError)))
	case snap.LastError != nil:
		parts = append(parts, styles.WarningText.Render("retrying"))
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, "  "))
}

// renderFooter renders the pane type legend, or the active prompt.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	if m.mode != modeNone {
		return styles.Prompt.Width(m.width).Render(m.input.View())
	}

	var badges []string
	for _, tc := range typeCounts(m.snapshot.Layout) {
		badges = append(badges, styles.PaneStyle(tc.typ).Render(fmt.Sprintf("%s %d", tc.typ, tc.count)))
	}
	hint := styles.FaintText.Render("? help")
	if m.status != "" {
		hint = styles.WarningText.Render(m.status)
	}
	return styles.Footer.Width(m.width).Render(strings.Join(append(badges, hint), " "))
}

type typeCount struct {
	typ   string
	count int
}

// typeCounts tallies panes by type, most common first.
func typeCounts(l layout.Layout) []typeCount {
	counts := make(map[string]int)
	for _, it := range l {
		typ := strings.TrimSpace(it.Type)
		if typ == "" {
			typ = "other"
		}
		counts[typ]++
	}
	out := make([]typeCount, 0, len(counts))
	for typ, n := range counts {
		out = append(out, typeCount{typ: typ, count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].typ < out[j].typ
	})
	return out
}

func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "connection refused"):
		return "(backend not running)"
	case strings.Contains(msg, "deadline exceeded"), strings.Contains(msg, "timeout"):
		return "(timeout)"
	case strings.Contains(msg, "status"):
		return "(api error)"
	default:
		return ""
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
